package interpreter

import (
	"errors"
	"fmt"

	"github.com/yongsheng1992/craftinginterpreters/token"
)

var (
	// ErrUnsupported is wrapped when evaluation reaches a node kind that
	// parses but has no runtime behavior yet (calls, properties, this, super).
	ErrUnsupported = errors.New("unsupported construct")

	// ErrStackOverflow is wrapped when evaluation nests beyond MaxDepth.
	ErrStackOverflow = errors.New("stack overflow")
)

// RuntimeError stops a run. Token locates the fault in source.
type RuntimeError struct {
	Token   token.Token
	Message string
	Err     error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func runtimeErrorf(tok token.Token, format string, args ...interface{}) error {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

func unsupported(tok token.Token, message string) error {
	return &RuntimeError{Token: tok, Message: message, Err: ErrUnsupported}
}
