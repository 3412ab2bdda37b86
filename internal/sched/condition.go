// internal/sched/condition.go

package sched

import (
	"fmt"
	"math"
	"time"
)

// ConditionKind tags the variant held by a Condition.
type ConditionKind int

const (
	ConditionNone ConditionKind = iota
	ConditionTimeDelay
	ConditionPredicate
)

func (k ConditionKind) String() string {
	switch k {
	case ConditionNone:
		return "None"
	case ConditionTimeDelay:
		return "TimeDelay"
	case ConditionPredicate:
		return "Predicate"
	default:
		return "Unknown"
	}
}

// Condition describes why a task is not ready to resume. The zero value is
// the None variant, which never holds.
type Condition struct {
	kind     ConditionKind
	clock    Clock
	deadline time.Time
	reached  bool        // TimeDelay only: deadline observed at least once
	test     func() bool // Predicate only
}

// None returns the ready condition.
func None() Condition { return Condition{} }

// WaitSeconds returns a TimeDelay whose deadline is fixed now, at
// clock.Now() + seconds. Later changes to any time scale do not move it.
func WaitSeconds(clock Clock, seconds float64) Condition {
	if clock == nil {
		clock = SystemClock{}
	}
	return Condition{
		kind:     ConditionTimeDelay,
		clock:    clock,
		deadline: clock.Now().Add(secondsToDuration(seconds)),
	}
}

// WaitUntil returns a Predicate that keeps waiting while test reports false.
// The test runs on every query; nothing is cached.
func WaitUntil(test func() bool) (Condition, error) {
	if test == nil {
		return Condition{}, fmt.Errorf("%w: predicate condition without a test", ErrInvalidArgument)
	}
	return Condition{kind: ConditionPredicate, test: test}, nil
}

// Kind reports the variant.
func (c Condition) Kind() ConditionKind { return c.kind }

// Deadline reports the TimeDelay deadline; ok is false for other variants.
func (c Condition) Deadline() (deadline time.Time, ok bool) {
	return c.deadline, c.kind == ConditionTimeDelay
}

// Holds reports whether the task must keep waiting.
func (c *Condition) Holds() bool {
	switch c.kind {
	case ConditionTimeDelay:
		if c.reached {
			return false
		}
		if c.clock.Now().Before(c.deadline) {
			return true
		}
		c.reached = true
		return false
	case ConditionPredicate:
		return !c.test()
	default:
		return false
	}
}

func (c Condition) String() string {
	if c.kind == ConditionTimeDelay {
		return fmt.Sprintf("TimeDelay(%s)", c.deadline.Format(time.RFC3339Nano))
	}
	return c.kind.String()
}

// secondsToDuration saturates: NaN and non-positive values are zero, and
// anything past the Duration range is the longest representable wait.
func secondsToDuration(s float64) time.Duration {
	if math.IsNaN(s) || s <= 0 {
		return 0
	}
	ns := s * float64(time.Second)
	if ns >= float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}
