package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yongsheng1992/craftinginterpreters/token"
)

// ErrTooDeep is wrapped by the error reported when statements or expressions
// nest beyond Parser.MaxDepth.
var ErrTooDeep = errors.New("nesting too deep")

// Error is a syntax error anchored at the offending token.
type Error struct {
	Token   token.Token
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	where := "end"
	if e.Token.Kind != token.EOF {
		where = fmt.Sprintf("'%s'", e.Token.Lexeme)
	}
	return fmt.Sprintf("[line %d] Error at %s: %s", e.Token.Line, where, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Incomplete reports whether the error was raised at end of input, meaning
// more text could still complete the program.
func (e *Error) Incomplete() bool {
	return e.Token.Kind == token.EOF && !errors.Is(e.Err, ErrTooDeep)
}

// ErrorList is every syntax error recorded during one parse, in source order.
type ErrorList []*Error

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// IsIncomplete reports whether the supplied error represents incomplete input.
func IsIncomplete(err error) bool {
	var list ErrorList
	if errors.As(err, &list) {
		if len(list) == 0 {
			return false
		}
		for _, e := range list {
			if !e.Incomplete() {
				return false
			}
		}
		return true
	}
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Incomplete()
	}
	return false
}
