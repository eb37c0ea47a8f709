// Package runtime wires the scanner, parser and interpreter together for the
// command line and for embedding.
package runtime

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/yongsheng1992/craftinginterpreters/ast"
	"github.com/yongsheng1992/craftinginterpreters/internal/config"
	"github.com/yongsheng1992/craftinginterpreters/interpreter"
	"github.com/yongsheng1992/craftinginterpreters/lang"
	"github.com/yongsheng1992/craftinginterpreters/parser"
	"github.com/yongsheng1992/craftinginterpreters/printer"
	"github.com/yongsheng1992/craftinginterpreters/scanner"
)

// NewLogger returns a text logger on w. Without debug it drops everything
// below error level.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelError
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewInterpreter constructs an interpreter configured by cfg that prints to
// out and logs to logw. A nil cfg means the defaults.
func NewInterpreter(cfg *config.Config, out, logw io.Writer) *interpreter.Interpreter {
	if cfg == nil {
		cfg = config.Default()
	}
	in := interpreter.New(out)
	in.MaxDepth = cfg.MaxDepth
	in.Logger = NewLogger(logw, cfg.Debug)
	return in
}

// ParseString scans and parses src with the default nesting limit.
func ParseString(src string) ([]ast.Stmt, error) {
	return parse(src, parser.DefaultMaxDepth)
}

// parse stops after scanning when the scanner reported errors; a token
// stream with holes in it only produces follow-on syntax errors.
func parse(src string, maxDepth int) ([]ast.Stmt, error) {
	tokens, err := scanner.Scan(src)
	if err != nil {
		return nil, err
	}
	p := parser.New(tokens)
	p.MaxDepth = maxDepth
	return p.Parse()
}

// FormatString parses src and renders its syntax tree instead of running it.
func FormatString(src string) (string, error) {
	stmts, err := ParseString(src)
	if err != nil {
		return "", err
	}
	return printer.PrintProgram(stmts), nil
}

// EvaluateString parses src and runs it. Nothing runs if src has a syntax
// error.
func EvaluateString(in *interpreter.Interpreter, src string) error {
	stmts, err := parse(src, in.MaxDepth)
	if err != nil {
		return err
	}
	in.Logger.Debug("parsed", "statements", len(stmts))
	return in.Interpret(stmts)
}

// EvaluateReader consumes all of r and runs it as one program.
func EvaluateReader(in *interpreter.Interpreter, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return EvaluateString(in, string(data))
}

// EvaluateFile loads and runs a script, allowing a #! first line.
func EvaluateFile(in *interpreter.Interpreter, path string) error {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return err
	}
	in.Logger.Debug("evaluate file", "path", path, "bytes", len(data))
	return EvaluateString(in, string(data))
}

// ReadFile returns a script's source with any #! first line blanked out.
func ReadFile(path string) (string, error) {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EvaluateLine runs one REPL entry. When the entry is a single expression
// statement its value is returned with echo set, so the caller can show it.
func EvaluateLine(in *interpreter.Interpreter, src string) (val lang.Value, echo bool, err error) {
	stmts, err := parse(src, in.MaxDepth)
	if err != nil {
		return lang.Nil, false, err
	}
	if len(stmts) == 1 {
		if stmt, ok := stmts[0].(*ast.ExpressionStmt); ok {
			val, err := in.Evaluate(stmt.Expression)
			if err != nil {
				return lang.Nil, false, err
			}
			return val, true, nil
		}
	}
	return lang.Nil, false, in.Interpret(stmts)
}

// IsSyntaxError reports whether err came from scanning or parsing.
func IsSyntaxError(err error) bool {
	var scanErrs scanner.ErrorList
	var parseErrs parser.ErrorList
	return errors.As(err, &scanErrs) || errors.As(err, &parseErrs)
}

// IsRuntimeError reports whether err stopped a running program.
func IsRuntimeError(err error) bool {
	var rerr *interpreter.RuntimeError
	return errors.As(err, &rerr)
}

// IsIncomplete reports whether more input could turn src into a valid
// program, as with an open block or an unterminated string.
func IsIncomplete(err error) bool {
	return scanner.IsIncomplete(err) || parser.IsIncomplete(err)
}

func readFileSkippingShebang(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			// Keep the newline so line numbers still match the file.
			return data[idx:], nil
		}
		return []byte{}, nil
	}
	return data, nil
}
