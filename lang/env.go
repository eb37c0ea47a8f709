package lang

import (
	"errors"
	"fmt"

	"github.com/edwingeng/deque"
)

// ErrUndefined is matched by every UndefinedError.
var ErrUndefined = errors.New("undefined variable")

// UndefinedError reports a lookup or assignment of a name bound nowhere in the chain.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'.", e.Name)
}

func (e *UndefinedError) Is(target error) bool {
	return target == ErrUndefined
}

type frame map[string]Value

// Env implements a lexical environment chain as a stack of frames.
// The front frame is the global scope; the back frame is the current one.
type Env struct {
	frames deque.Deque
}

// NewEnv creates an environment holding only the global frame.
func NewEnv() *Env {
	e := &Env{frames: deque.NewDeque()}
	e.frames.PushBack(make(frame))
	return e
}

// Push enters a new innermost scope.
func (e *Env) Push() {
	e.frames.PushBack(make(frame))
}

// Pop discards the innermost scope and its bindings. The global frame stays.
func (e *Env) Pop() {
	if e.frames.Len() <= 1 {
		panic("lang: pop of global environment frame")
	}
	e.frames.PopBack()
}

// Depth returns the number of frames, 1 meaning only globals.
func (e *Env) Depth() int {
	return e.frames.Len()
}

func (e *Env) at(i int) frame {
	return e.frames.Peek(i).(frame)
}

// Define binds name to value in the current frame, shadowing outer bindings.
func (e *Env) Define(name string, val Value) {
	e.frames.Back().(frame)[name] = val
}

// Assign updates an existing binding, searching outward from the current frame.
// It never creates a binding.
func (e *Env) Assign(name string, val Value) error {
	for i := e.frames.Len() - 1; i >= 0; i-- {
		f := e.at(i)
		if _, ok := f[name]; ok {
			f[name] = val
			return nil
		}
	}
	return &UndefinedError{Name: name}
}

// Get retrieves a binding, searching outward from the current frame.
func (e *Env) Get(name string) (Value, error) {
	for i := e.frames.Len() - 1; i >= 0; i-- {
		if val, ok := e.at(i)[name]; ok {
			return val, nil
		}
	}
	return Value{}, &UndefinedError{Name: name}
}
