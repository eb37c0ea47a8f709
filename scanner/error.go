package scanner

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a lexical error at a source line.
type Error struct {
	Line       int
	Message    string
	Incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}

// ErrorList collects every lexical error found in one pass.
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

// IsIncomplete reports whether the supplied error was caused only by input
// ending in the middle of a string or comment.
func IsIncomplete(err error) bool {
	var list ErrorList
	if !errors.As(err, &list) || len(list) == 0 {
		return false
	}
	for _, e := range list {
		if !e.Incomplete {
			return false
		}
	}
	return true
}
