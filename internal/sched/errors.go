package sched

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrInvalidArgument is returned for empty task bodies and predicate
	// conditions without a test.
	ErrInvalidArgument = errors.New("sched: invalid argument")
	// ErrTickInProgress is returned when Tick is called from inside a task body
	// that the same scheduler is currently resuming.
	ErrTickInProgress = errors.New("sched: tick already in progress")
)

// TaskError reports a failure raised while resuming a task body.
type TaskError struct {
	ID  TaskID
	Err error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d: %v", e.ID, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// PanicError carries a value recovered from a panicking task body together
// with the stack at the point of recovery.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// ErrorWithStack formats the panic value followed by its stack trace.
func (p *PanicError) ErrorWithStack() string {
	return fmt.Sprintf("%v\n\n%s", p.Value, p.Stack)
}

func (p *PanicError) Unwrap() error {
	err, ok := p.Value.(error)
	if !ok {
		return nil
	}
	return err
}

func newPanicError(v any) error {
	return &PanicError{
		Value: v,
		Stack: debug.Stack(),
	}
}
