package sched

import "time"

// TaskID uniquely identifies a task for the lifetime of its scheduler.
// IDs are handed out in increasing order and never reused.
type TaskID uint64

// Task is one scheduled unit of sequential script logic.
type Task struct {
	id        TaskID
	body      Body
	current   Condition // condition yielded by the last resumption
	completed bool
	dropped   bool      // removed from the active set
	released  bool      // Stopper already called
	steps     int64     // resumptions consumed so far
	started   time.Time // clock reading at Start
}

// TaskInfo is a read-only snapshot of a task.
type TaskInfo struct {
	ID        TaskID
	Condition ConditionKind
	Steps     int64
	Started   time.Time
}

func newTask(id TaskID, body Body, now time.Time) *Task {
	return &Task{
		id:      id,
		body:    body,
		started: now,
	}
}

// advance resumes the body at most one step. It reports whether a step was
// consumed. A failing resumption completes the task, since the body cannot
// be restarted.
func (t *Task) advance() (bool, error) {
	if t.completed {
		return false, nil
	}
	if t.current.Holds() {
		return false, nil
	}

	t.steps++
	step, err := t.body.Resume()
	if err != nil {
		t.finish()
		return true, err
	}
	if step.Kind == StepDone {
		t.finish()
		return true, nil
	}

	// Whatever was yielded is only consulted from the next tick on, even if
	// it is already satisfied.
	t.current = step.Cond
	return true, nil
}

func (t *Task) finish() {
	t.completed = true
	t.current = Condition{}
}

func (t *Task) info() TaskInfo {
	return TaskInfo{
		ID:        t.id,
		Condition: t.current.Kind(),
		Steps:     t.steps,
		Started:   t.started,
	}
}
