package job

import "nebulacoro/internal/sched"

// repeatState is the position of a Repeat body.
type repeatState int

const (
	repeatRun repeatState = iota
	repeatDone
)

// Repeat is a hand-written state machine body that calls Fn Count times,
// waiting Every seconds between calls. Count <= 0 repeats forever.
type Repeat struct {
	Clock sched.Clock
	Count int
	Every float64
	Fn    func(i int) error

	state repeatState
	runs  int
}

// Resume implements sched.Body.
func (r *Repeat) Resume() (sched.Step, error) {
	switch r.state {
	case repeatRun:
		if r.Fn != nil {
			if err := r.Fn(r.runs); err != nil {
				r.state = repeatDone
				return sched.Step{}, err
			}
		}
		r.runs++
		if r.Count > 0 && r.runs >= r.Count {
			r.state = repeatDone
			return sched.Ready(), nil
		}
		return sched.Yield(sched.WaitSeconds(r.Clock, r.Every)), nil
	default:
		return sched.Done, nil
	}
}

// Runs reports how many times Fn has been called.
func (r *Repeat) Runs() int { return r.runs }
