// internal/sched/scheduler.go

package sched

import (
	"fmt"
	"log/slog"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// Scheduler drives cooperative tasks, one resumption per task per Tick.
// It is not safe for concurrent use: Start, Cancel and Tick are expected
// to run on the host's frame goroutine, including from inside task bodies.
type Scheduler struct {
	clock     Clock
	logger    *slog.Logger
	isolate   bool                // capture body failures per task instead of aborting the tick
	observers []func(StatusEvent) // synchronous event consumers
	onFailure func(*TaskError)    // isolated failures are reported here

	nextID   TaskID
	active   *redblacktree.Tree // TaskID -> *Task, ordered by start
	ticks    int64
	ticking  bool
	resuming *Task // task whose body is running right now
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the time source used for TimeDelay conditions.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithObserver registers fn to receive every status event.
func WithObserver(fn func(StatusEvent)) Option {
	return func(s *Scheduler) { s.observers = append(s.observers, fn) }
}

// WithFailureHandler registers fn to receive failures captured while
// IsolateFailures is on.
func WithFailureHandler(fn func(*TaskError)) Option {
	return func(s *Scheduler) { s.onFailure = fn }
}

// New creates a new Scheduler instance with the given configuration.
func New(cfg Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		isolate: cfg.IsolateFailures,
		active:  redblacktree.NewWith(cmp),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() Clock { return s.clock }

// WaitSeconds returns a TimeDelay against the scheduler's clock.
func (s *Scheduler) WaitSeconds(seconds float64) Condition {
	return WaitSeconds(s.clock, seconds)
}

// Start adds body as a new task. The task is first resumed on the next
// Tick; when Start is called from inside a Tick, that is the following one.
func (s *Scheduler) Start(body Body) (TaskID, error) {
	if body == nil {
		return 0, fmt.Errorf("%w: nil task body", ErrInvalidArgument)
	}
	switch b := body.(type) {
	case BodyFunc:
		if b == nil {
			return 0, fmt.Errorf("%w: nil task body", ErrInvalidArgument)
		}
	case *seqBody:
		if b == nil || b.seq == nil {
			return 0, fmt.Errorf("%w: nil task body", ErrInvalidArgument)
		}
	}

	s.nextID++
	t := newTask(s.nextID, body, s.clock.Now())
	s.active.Put(t.id, t)

	s.logger.Debug("task started", "task", t.id, "active", s.active.Size())
	s.emit(StatusEvent{Kind: StatusStart, TaskID: t.id})
	return t.id, nil
}

// Cancel removes the task from the active set. Unknown, finished and
// already canceled IDs are ignored. The body gets no chance to run again;
// only bodies implementing Stopper are told to release their machinery.
func (s *Scheduler) Cancel(id TaskID) {
	v, ok := s.active.Get(id)
	if !ok {
		return
	}
	t := v.(*Task)
	s.drop(t)

	s.logger.Debug("task canceled", "task", id, "steps", t.steps)
	s.emit(StatusEvent{Kind: StatusCancel, TaskID: id, Steps: t.steps})
}

// CancelAll cancels every active task, oldest first.
func (s *Scheduler) CancelAll() {
	for _, key := range s.active.Keys() {
		s.Cancel(key.(TaskID))
	}
}

// Tick advances every task that was active when Tick began, once each, in
// start order. Tasks canceled by an earlier task in the same Tick are
// skipped. With IsolateFailures off, the first body failure stops the Tick
// and is returned as a *TaskError; tasks not yet reached keep their state.
func (s *Scheduler) Tick() error {
	if s.ticking {
		return ErrTickInProgress
	}
	s.ticking = true
	defer func() { s.ticking = false }()

	s.ticks++
	s.emit(StatusEvent{Kind: StatusTick})

	// Iterate over a snapshot: the tree is mutated as tasks finish or are
	// started and canceled from inside bodies.
	for _, key := range s.active.Keys() {
		v, ok := s.active.Get(key)
		if !ok {
			continue
		}
		if err := s.advance(v.(*Task)); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of active tasks.
func (s *Scheduler) Len() int { return s.active.Size() }

// Ticks reports how many times Tick has run.
func (s *Scheduler) Ticks() int64 { return s.ticks }

// Status returns a snapshot of an active task.
func (s *Scheduler) Status(id TaskID) (TaskInfo, bool) {
	v, ok := s.active.Get(id)
	if !ok {
		return TaskInfo{}, false
	}
	return v.(*Task).info(), true
}

// Tasks returns snapshots of all active tasks in start order.
func (s *Scheduler) Tasks() []TaskInfo {
	out := make([]TaskInfo, 0, s.active.Size())
	it := s.active.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*Task).info())
	}
	return out
}

func (s *Scheduler) advance(t *Task) (err error) {
	normal := false
	s.resuming = t
	defer func() {
		s.resuming = nil
		if normal {
			return
		}
		// The body panicked. It cannot be resumed again either way.
		s.drop(t)
		if !s.isolate {
			return
		}
		if p := recover(); p != nil {
			err = s.report(&TaskError{ID: t.id, Err: newPanicError(p)})
		}
	}()

	var resumed bool
	resumed, err = t.advance()
	normal = true
	s.resuming = nil

	if t.dropped {
		// Canceled itself while running; Cancel left the release to us.
		s.release(t)
		if err == nil {
			return nil
		}
	}

	switch {
	case err != nil:
		s.drop(t)
		terr := &TaskError{ID: t.id, Err: err}
		if s.isolate {
			return s.report(terr)
		}
		s.logger.Error("task failed", "task", t.id, "steps", t.steps, "error", err)
		s.emit(StatusEvent{Kind: StatusFail, TaskID: t.id, Steps: t.steps, Err: err})
		return terr
	case t.completed:
		s.drop(t)
		s.logger.Debug("task finished", "task", t.id, "steps", t.steps)
		s.emit(StatusEvent{Kind: StatusFinish, TaskID: t.id, Steps: t.steps})
	case resumed:
		kind := StatusResume
		if t.current.Kind() != ConditionNone {
			kind = StatusWait
		}
		s.emit(StatusEvent{Kind: kind, TaskID: t.id, Steps: t.steps, Condition: t.current.Kind()})
	}
	return nil
}

// report records an isolated failure and lets the Tick carry on.
func (s *Scheduler) report(terr *TaskError) error {
	s.logger.Error("task failed", "task", terr.ID, "error", terr.Err)
	s.emit(StatusEvent{Kind: StatusFail, TaskID: terr.ID, Err: terr.Err})
	if s.onFailure != nil {
		s.onFailure(terr)
	}
	return nil
}

// drop removes t from the active set. Releasing a body that is running
// right now is left to advance.
func (s *Scheduler) drop(t *Task) {
	s.active.Remove(t.id)
	t.dropped = true
	if t != s.resuming {
		s.release(t)
	}
}

func (s *Scheduler) release(t *Task) {
	if t.released {
		return
	}
	t.released = true
	if st, ok := t.body.(Stopper); ok {
		st.Stop()
	}
}

func (s *Scheduler) emit(ev StatusEvent) {
	if len(s.observers) == 0 {
		return
	}
	ev.Time = s.clock.Now()
	ev.Tick = s.ticks
	for _, fn := range s.observers {
		fn(ev)
	}
}

// cmp orders the active set by TaskID, which is also start order.
func cmp(a, b any) int {
	ka, kb := a.(TaskID), b.(TaskID)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	default:
		return 0
	}
}
