// Package script binds user behaviors to the scheduler. Every behavior
// embeds Base and gets its own coroutine scheduler on first use; the
// owning Instance ticks it once per frame, after OnUpdate.
package script

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/google/uuid"

	"nebulacoro/internal/sched"
)

var (
	// ErrDestroyed is returned by Update once the instance is destroyed.
	ErrDestroyed = errors.New("script: instance destroyed")
	// ErrNoBase is returned by Attach for behaviors that do not embed Base.
	ErrNoBase = errors.New("script: behavior does not embed script.Base")
)

// Behavior is the set of lifecycle callbacks the host drives.
type Behavior interface {
	OnCreate()
	OnUpdate(dt float64)
	OnDestroy()
}

// Env carries what a script needs from its host.
type Env struct {
	Clock   sched.Clock
	Logger  *slog.Logger
	Config  sched.Config
	Options []sched.Option // extra options for the per-script scheduler
}

// Base is embedded by every behavior.
type Base struct {
	id         uuid.UUID
	env        Env
	logger     *slog.Logger
	coroutines *sched.Scheduler
}

type embedsBase interface {
	base() *Base
}

func (b *Base) base() *Base { return b }

// Hooks are no-ops so behaviors only override what they need.
func (b *Base) OnCreate()           {}
func (b *Base) OnUpdate(dt float64) {}
func (b *Base) OnDestroy()          {}

// ID returns the instance identity, assigned by Attach.
func (b *Base) ID() uuid.UUID { return b.id }

// Logger returns a logger tagged with the script ID.
func (b *Base) Logger() *slog.Logger {
	if b.logger == nil {
		l := b.env.Logger
		if l == nil {
			l = slog.Default()
		}
		b.logger = l.With("script", b.id.String())
	}
	return b.logger
}

// Clock returns the time source TimeDelay conditions are measured against.
func (b *Base) Clock() sched.Clock {
	if b.env.Clock == nil {
		return sched.SystemClock{}
	}
	return b.env.Clock
}

// Coroutines returns the script's scheduler, creating it on first use.
func (b *Base) Coroutines() *sched.Scheduler {
	if b.coroutines == nil {
		opts := []sched.Option{
			sched.WithClock(b.Clock()),
			sched.WithLogger(b.Logger()),
		}
		opts = append(opts, b.env.Options...)
		b.coroutines = sched.New(b.env.Config, opts...)
	}
	return b.coroutines
}

// StartCoroutine schedules body; it first runs on the next frame's tick.
func (b *Base) StartCoroutine(body sched.Body) (sched.TaskID, error) {
	return b.Coroutines().Start(body)
}

// StartRoutine schedules seq as a coroutine body.
func (b *Base) StartRoutine(seq iter.Seq[sched.Condition]) (sched.TaskID, error) {
	if seq == nil {
		return 0, fmt.Errorf("%w: nil routine", sched.ErrInvalidArgument)
	}
	return b.StartCoroutine(sched.FromSeq(seq))
}

// StopCoroutine cancels the coroutine; unknown IDs are ignored.
func (b *Base) StopCoroutine(id sched.TaskID) {
	if b.coroutines == nil {
		return
	}
	b.coroutines.Cancel(id)
}

// StopAllCoroutines cancels every coroutine the script is running.
func (b *Base) StopAllCoroutines() {
	if b.coroutines == nil {
		return
	}
	b.coroutines.CancelAll()
}

// WaitForSeconds returns a TimeDelay measured from now.
func (b *Base) WaitForSeconds(seconds float64) sched.Condition {
	return sched.WaitSeconds(b.Clock(), seconds)
}

// WaitUntil returns a Predicate that holds until test reports true.
func (b *Base) WaitUntil(test func() bool) (sched.Condition, error) {
	return sched.WaitUntil(test)
}

// tick runs the scheduler once, if the script ever created one.
func (b *Base) tick() error {
	if b.coroutines == nil {
		return nil
	}
	return b.coroutines.Tick()
}
