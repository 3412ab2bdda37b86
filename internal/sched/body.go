// internal/sched/body.go

package sched

import "iter"

// StepKind tags the outcome of one resumption.
type StepKind int

const (
	StepYield StepKind = iota // body paused; Cond says why
	StepDone                  // body exhausted
)

// Step is what a body returns from one resumption. The zero value yields
// nothing, which makes the task eligible again on the next tick.
type Step struct {
	Kind StepKind
	Cond Condition
}

// Done marks an exhausted body.
var Done = Step{Kind: StepDone}

// Yield pauses the body until c stops holding.
func Yield(c Condition) Step { return Step{Kind: StepYield, Cond: c} }

// Ready pauses the body for exactly one tick.
func Ready() Step { return Step{} }

// Body is a resumable, non-restartable sequence of steps. Resume runs the
// body up to its next suspension point.
type Body interface {
	Resume() (Step, error)
}

// Stopper is implemented by bodies that hold resumption machinery which the
// scheduler should release once the task leaves the active set.
type Stopper interface {
	Stop()
}

// BodyFunc adapts a plain function to Body.
type BodyFunc func() (Step, error)

// Resume calls f.
func (f BodyFunc) Resume() (Step, error) { return f() }

// Steps builds a body that runs one function per resumption and yields the
// condition it returns. The body is exhausted after the last function.
// An empty list is not a body; Steps returns nil so Start rejects it.
func Steps(fns ...func() Condition) Body {
	if len(fns) == 0 {
		return nil
	}
	var i int
	return BodyFunc(func() (Step, error) {
		if i >= len(fns) {
			return Done, nil
		}
		fn := fns[i]
		i++
		if fn == nil {
			return Ready(), nil
		}
		return Yield(fn()), nil
	})
}

// FromSeq runs seq as a coroutine: every value it yields becomes the task's
// condition and returning from seq exhausts the body. A nil seq yields a
// nil Body.
func FromSeq(seq iter.Seq[Condition]) Body {
	if seq == nil {
		return nil
	}
	return FromSeq2(func(yield func(Condition, error) bool) {
		seq(func(c Condition) bool { return yield(c, nil) })
	})
}

// FromSeq2 is FromSeq for sequences that can fail. A non-nil error ends the
// resumption with that error.
func FromSeq2(seq iter.Seq2[Condition, error]) Body {
	if seq == nil {
		return nil
	}
	return &seqBody{seq: seq}
}

type seqBody struct {
	seq  iter.Seq2[Condition, error]
	next func() (Condition, error, bool)
	stop func()
	done bool
}

func (b *seqBody) Resume() (Step, error) {
	if b.done {
		return Done, nil
	}
	if b.next == nil {
		// Pulled lazily so that a task canceled before its first tick
		// never spins up a coroutine.
		b.next, b.stop = iter.Pull2(b.seq)
	}

	c, err, ok := b.next()
	if !ok {
		b.done = true
		return Done, nil
	}
	if err != nil {
		return Step{}, err
	}
	return Yield(c), nil
}

// Stop releases the coroutine. The sequence sees yield return false.
func (b *seqBody) Stop() {
	b.done = true
	if b.stop != nil {
		b.stop()
	}
}
