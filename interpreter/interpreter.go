// Package interpreter executes syntax trees directly against an environment
// chain.
package interpreter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/yongsheng1992/craftinginterpreters/ast"
	"github.com/yongsheng1992/craftinginterpreters/lang"
	"github.com/yongsheng1992/craftinginterpreters/printer"
	"github.com/yongsheng1992/craftinginterpreters/token"
)

// DefaultMaxDepth is the evaluation nesting limit used by New.
const DefaultMaxDepth = 1024

// Interpreter evaluates statements. Bindings made through Env survive across
// calls, which is what a REPL session needs.
type Interpreter struct {
	Env *lang.Env

	// MaxDepth bounds nested statement and expression evaluation. Zero or
	// less disables the check.
	MaxDepth int

	// Logger receives debug traces of execution.
	Logger *slog.Logger

	out   io.Writer
	depth int
	last  token.Token
}

// New returns an interpreter with an empty global scope that prints to out.
func New(out io.Writer) *Interpreter {
	return &Interpreter{
		Env:      lang.NewEnv(),
		MaxDepth: DefaultMaxDepth,
		Logger:   nopLogger(),
		out:      out,
	}
}

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Interpret executes stmts in order and stops at the first runtime error.
// Output printed before the error is not undone.
func (in *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := in.Execute(stmt); err != nil {
			in.Logger.Debug("runtime error", "error", err)
			return err
		}
	}
	return nil
}

// Execute runs a single statement in the current scope.
func (in *Interpreter) Execute(stmt ast.Stmt) error {
	in.depth = 0
	return in.execute(stmt)
}

// Evaluate computes the value of expr in the current scope.
func (in *Interpreter) Evaluate(expr ast.Expr) (lang.Value, error) {
	in.depth = 0
	return in.evaluate(expr)
}

func (in *Interpreter) enter() error {
	in.depth++
	if in.MaxDepth > 0 && in.depth > in.MaxDepth {
		return &RuntimeError{
			Token:   in.last,
			Message: fmt.Sprintf("Stack overflow (nesting deeper than %d).", in.MaxDepth),
			Err:     ErrStackOverflow,
		}
	}
	return nil
}

func (in *Interpreter) leave() {
	in.depth--
}

func (in *Interpreter) tracing() bool {
	return in.Logger.Enabled(context.Background(), slog.LevelDebug)
}

// execute and the grouping, unary and assignment cases of evaluate count
// nesting at the same constructs the parser does, so a program that parses
// under a given MaxDepth also runs under it. Binary and logical chains are
// folded by loops in the parser and are not counted here either.
func (in *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		in.last = s.Brace
	case *ast.IfStmt:
		in.last = s.Keyword
	}
	defer in.leave()
	if err := in.enter(); err != nil {
		return err
	}
	if in.tracing() {
		in.Logger.Debug("execute", "stmt", printer.PrintStmt(stmt), "scope", in.Env.Depth())
	}

	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := in.evaluate(s.Expression)
		return err
	case *ast.PrintStmt:
		val, err := in.evaluate(s.Expression)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(in.out, val.String()); err != nil {
			return fmt.Errorf("print: %w", err)
		}
		return nil
	case *ast.VarStmt:
		val := lang.Nil
		if s.Initializer != nil {
			var err error
			val, err = in.evaluate(s.Initializer)
			if err != nil {
				return err
			}
		}
		in.Env.Define(s.Name.Lexeme, val)
		return nil
	case *ast.BlockStmt:
		return in.executeBlock(s.Statements)
	case *ast.IfStmt:
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if lang.IsTruthy(cond) {
			return in.execute(s.ThenBranch)
		}
		if s.ElseBranch != nil {
			return in.execute(s.ElseBranch)
		}
		return nil
	default:
		return unsupported(in.last, fmt.Sprintf("Unknown statement %T.", stmt))
	}
}

// executeBlock runs stmts in a fresh scope that is discarded on every exit
// path.
func (in *Interpreter) executeBlock(stmts []ast.Stmt) error {
	in.Env.Push()
	defer in.Env.Pop()

	for _, stmt := range stmts {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) evaluate(expr ast.Expr) (lang.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil
	case *ast.Grouping:
		in.last = e.Paren
		defer in.leave()
		if err := in.enter(); err != nil {
			return lang.Nil, err
		}
		return in.evaluate(e.Expression)
	case *ast.Unary:
		in.last = e.Operator
		defer in.leave()
		if err := in.enter(); err != nil {
			return lang.Nil, err
		}
		return in.evalUnary(e)
	case *ast.Binary:
		return in.evalBinary(e)
	case *ast.Logical:
		return in.evalLogical(e)
	case *ast.Variable:
		in.last = e.Name
		val, err := in.Env.Get(e.Name.Lexeme)
		if err != nil {
			return lang.Nil, &RuntimeError{Token: e.Name, Message: err.Error(), Err: err}
		}
		return val, nil
	case *ast.Assign:
		in.last = e.Name
		defer in.leave()
		if err := in.enter(); err != nil {
			return lang.Nil, err
		}
		val, err := in.evaluate(e.Value)
		if err != nil {
			return lang.Nil, err
		}
		if err := in.Env.Assign(e.Name.Lexeme, val); err != nil {
			return lang.Nil, &RuntimeError{Token: e.Name, Message: err.Error(), Err: err}
		}
		return val, nil
	case *ast.Call:
		return lang.Nil, unsupported(e.Paren, "Calls are not supported.")
	case *ast.Get:
		return lang.Nil, unsupported(e.Name, "Property access is not supported.")
	case *ast.Set:
		return lang.Nil, unsupported(e.Name, "Property assignment is not supported.")
	case *ast.This:
		return lang.Nil, unsupported(e.Keyword, "'this' is not supported.")
	case *ast.Super:
		return lang.Nil, unsupported(e.Keyword, "'super' is not supported.")
	default:
		return lang.Nil, unsupported(in.last, fmt.Sprintf("Unknown expression %T.", expr))
	}
}

func (in *Interpreter) evalUnary(e *ast.Unary) (lang.Value, error) {
	in.last = e.Operator
	right, err := in.evaluate(e.Right)
	if err != nil {
		return lang.Nil, err
	}
	switch e.Operator.Kind {
	case token.Minus:
		if right.Type != lang.TypeNumber {
			return lang.Nil, runtimeErrorf(e.Operator, "Operand must be a number.")
		}
		return lang.NumberValue(-right.Number()), nil
	case token.Bang:
		return lang.BoolValue(!lang.IsTruthy(right)), nil
	}
	return lang.Nil, runtimeErrorf(e.Operator, "Unknown unary operator '%s'.", e.Operator.Lexeme)
}

func (in *Interpreter) evalBinary(e *ast.Binary) (lang.Value, error) {
	in.last = e.Operator
	left, err := in.evaluate(e.Left)
	if err != nil {
		return lang.Nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return lang.Nil, err
	}

	op := e.Operator
	switch op.Kind {
	case token.EqualEqual:
		return lang.BoolValue(lang.Equal(left, right)), nil
	case token.BangEqual:
		return lang.BoolValue(!lang.Equal(left, right)), nil
	case token.Plus:
		if left.Type == lang.TypeNumber && right.Type == lang.TypeNumber {
			return lang.NumberValue(left.Number() + right.Number()), nil
		}
		if left.Type == lang.TypeString && right.Type == lang.TypeString {
			return lang.StringValue(left.Str() + right.Str()), nil
		}
		return lang.Nil, runtimeErrorf(op, "Operands must be two numbers or two strings.")
	}

	if left.Type != lang.TypeNumber || right.Type != lang.TypeNumber {
		return lang.Nil, runtimeErrorf(op, "Operands must be numbers.")
	}
	l, r := left.Number(), right.Number()
	switch op.Kind {
	case token.Minus:
		return lang.NumberValue(l - r), nil
	case token.Star:
		return lang.NumberValue(l * r), nil
	case token.Slash:
		return lang.NumberValue(l / r), nil
	case token.Greater:
		return lang.BoolValue(l > r), nil
	case token.GreaterEqual:
		return lang.BoolValue(l >= r), nil
	case token.Less:
		return lang.BoolValue(l < r), nil
	case token.LessEqual:
		return lang.BoolValue(l <= r), nil
	}
	return lang.Nil, runtimeErrorf(op, "Unknown binary operator '%s'.", op.Lexeme)
}

func (in *Interpreter) evalLogical(e *ast.Logical) (lang.Value, error) {
	in.last = e.Operator
	left, err := in.evaluate(e.Left)
	if err != nil {
		return lang.Nil, err
	}
	switch e.Operator.Kind {
	case token.Or:
		if lang.IsTruthy(left) {
			return left, nil
		}
	case token.And:
		if !lang.IsTruthy(left) {
			return left, nil
		}
	default:
		return lang.Nil, runtimeErrorf(e.Operator, "Unknown logical operator '%s'.", e.Operator.Lexeme)
	}
	return in.evaluate(e.Right)
}
