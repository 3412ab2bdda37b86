package job

import "nebulacoro/internal/sched"

// Delay returns a body that waits the given seconds on clock, then calls fn
// and finishes.
func Delay(clock sched.Clock, seconds float64, fn func()) sched.Body {
	return sched.Steps(
		func() sched.Condition { return sched.WaitSeconds(clock, seconds) },
		func() sched.Condition {
			if fn != nil {
				fn()
			}
			return sched.None()
		},
	)
}

// Gate returns a body that waits until test reports true, then calls fn.
func Gate(test func() bool, fn func()) (sched.Body, error) {
	cond, err := sched.WaitUntil(test)
	if err != nil {
		return nil, err
	}
	return sched.Steps(
		func() sched.Condition { return cond },
		func() sched.Condition {
			if fn != nil {
				fn()
			}
			return sched.None()
		},
	), nil
}
