package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/yongsheng1992/craftinginterpreters/internal/config"
	"github.com/yongsheng1992/craftinginterpreters/interpreter"
	"github.com/yongsheng1992/craftinginterpreters/runtime"
)

// Exit statuses, as in sysexits.h.
const (
	exitOK      = 0
	exitUsage   = 64
	exitSyntax  = 65
	exitRuntime = 70
	exitIO      = 74
	exitConfig  = 78
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `usage: lox [-c config] [-d] [-p] [script | -]

  -c file  read settings from file instead of $%s or ~/%s
  -d       trace execution to stderr
  -p       print the syntax tree instead of running it
  -h       show this help

Without a script, lox starts an interactive session.
`, config.EnvVar, config.DefaultFile)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, optind, err := getopt.Getopts(args, "c:dph")
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		usage(stderr)
		return exitUsage
	}

	var (
		configPath string
		debug      bool
		printAST   bool
	)
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			configPath = opt.Value
		case 'd':
			debug = true
		case 'p':
			printAST = true
		case 'h':
			usage(stdout)
			return exitOK
		}
	}
	rest := args[optind:]
	if len(rest) > 1 {
		usage(stderr)
		return exitUsage
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		return exitConfig
	}
	if debug {
		cfg.Debug = true
	}

	d := newDriver(cfg, stdout, stderr)
	d.printAST = printAST
	d.in.Logger.Debug("config", "path", cfg.Path, "max_depth", cfg.MaxDepth)

	if len(rest) == 1 {
		return d.runScript(rest[0], stdin)
	}
	d.runREPL(stdin)
	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// driver owns one interpreter for the lifetime of the process, so REPL
// entries share globals.
type driver struct {
	cfg      *config.Config
	in       *interpreter.Interpreter
	printAST bool

	stdout io.Writer
	stderr io.Writer
	errc   *color.Color
}

func newDriver(cfg *config.Config, stdout, stderr io.Writer) *driver {
	in := runtime.NewInterpreter(cfg, stdout, stderr)

	errc := color.New(color.FgRed)
	if !cfg.Color {
		errc.DisableColor()
	}
	return &driver{
		cfg:    cfg,
		in:     in,
		stdout: stdout,
		stderr: stderr,
		errc:   errc,
	}
}

func (d *driver) report(err error) {
	if runtime.IsSyntaxError(err) || runtime.IsRuntimeError(err) {
		d.errc.Fprintln(d.stderr, err.Error())
		return
	}
	d.errc.Fprintf(d.stderr, "lox: %v\n", err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case runtime.IsSyntaxError(err):
		return exitSyntax
	case runtime.IsRuntimeError(err):
		return exitRuntime
	default:
		return exitIO
	}
}

func (d *driver) runScript(script string, stdin io.Reader) int {
	var err error
	switch {
	case d.printAST:
		err = d.printScript(script, stdin)
	case script == "-":
		err = runtime.EvaluateReader(d.in, stdin)
	default:
		err = runtime.EvaluateFile(d.in, script)
	}
	if err != nil {
		d.report(err)
	}
	return exitCode(err)
}

func (d *driver) printScript(script string, stdin io.Reader) error {
	var src string
	if script == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		src = string(data)
	} else {
		var err error
		if src, err = runtime.ReadFile(script); err != nil {
			return err
		}
	}
	tree, err := runtime.FormatString(src)
	if err != nil {
		return err
	}
	if tree != "" {
		fmt.Fprintln(d.stdout, tree)
	}
	return nil
}

// evalEntry handles one REPL entry. It returns true when src is a prefix of
// a valid program and more input should be appended before trying again.
func (d *driver) evalEntry(src string, final bool) (more bool) {
	if d.printAST {
		tree, err := runtime.FormatString(src)
		if err != nil {
			if !final && runtime.IsIncomplete(err) {
				return true
			}
			d.report(err)
			return false
		}
		if tree != "" {
			fmt.Fprintln(d.stdout, tree)
		}
		return false
	}

	val, echo, err := runtime.EvaluateLine(d.in, src)
	if err != nil {
		if !final && runtime.IsIncomplete(err) {
			return true
		}
		d.report(err)
		return false
	}
	if echo {
		fmt.Fprintln(d.stdout, val.String())
	}
	return false
}

func (d *driver) runREPL(stdin io.Reader) {
	if f, ok := stdin.(*os.File); ok && isInteractive(f) {
		d.runInteractiveREPL()
		return
	}
	d.runBufferedREPL(bufio.NewReader(stdin))
}

func (d *driver) runBufferedREPL(reader *bufio.Reader) {
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		atEOF := errors.Is(err, io.EOF)
		if err != nil && !atEOF {
			d.report(fmt.Errorf("read error: %w", err))
			return
		}
		buffer.WriteString(line)
		if atEOF && strings.TrimSpace(buffer.String()) == "" {
			return
		}
		if d.evalEntry(buffer.String(), atEOF) {
			continue
		}
		buffer.Reset()
		if atEOF {
			return
		}
	}
}

func (d *driver) runInteractiveREPL() {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := d.cfg.HistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder

	for {
		prompt := d.cfg.Prompt
		if buffer.Len() > 0 {
			prompt = d.cfg.ContinuationPrompt
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(d.stdout)
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(d.stdout)
				return
			default:
				d.report(fmt.Errorf("read error: %w", err))
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if d.evalEntry(src, false) {
			continue
		}
		buffer.Reset()
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(trimmed)
		}
	}
}

func isInteractive(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
