package sched

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// WaitUntilExpr compiles source into a boolean expression and returns a
// Predicate that runs it against a fresh env() value on every query.
// Runtime evaluation errors count as false, so the task keeps waiting.
func WaitUntilExpr(source string, env func() any) (Condition, error) {
	if source == "" {
		return Condition{}, fmt.Errorf("%w: empty predicate expression", ErrInvalidArgument)
	}
	if env == nil {
		env = func() any { return nil }
	}

	var opts []expr.Option
	if sample := env(); sample != nil {
		opts = append(opts, expr.Env(sample))
	}
	// Env must come first: it switches on strict mode, which
	// AllowUndefinedVariables then relaxes.
	opts = append(opts, expr.AsBool(), expr.AllowUndefinedVariables())

	program, err := expr.Compile(source, opts...)
	if err != nil {
		return Condition{}, fmt.Errorf("%w: compile %q: %v", ErrInvalidArgument, source, err)
	}

	return WaitUntil(exprTest(program, env))
}

func exprTest(program *vm.Program, env func() any) func() bool {
	return func() bool {
		out, err := expr.Run(program, env())
		if err != nil {
			return false
		}
		b, ok := out.(bool)
		return ok && b
	}
}
