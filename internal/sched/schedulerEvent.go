// internal/sched/schedulerEvent.go

package sched

import (
	"time"
)

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusStart StatusKind = iota
	StatusResume
	StatusWait
	StatusFinish
	StatusCancel
	StatusFail
	StatusTick
)

// StatusEvent is emitted on every tick and on task lifecycle changes
type StatusEvent struct {
	Time      time.Time
	Kind      StatusKind
	TaskID    TaskID
	Tick      int64         // scheduler tick counter at emission
	Steps     int64         // resumptions the task has consumed
	Condition ConditionKind // task condition after the event
	Err       error         // set for StatusFail
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusStart:
		return "Start"
	case StatusResume:
		return "Resume"
	case StatusWait:
		return "Wait"
	case StatusFinish:
		return "Finish"
	case StatusCancel:
		return "Cancel"
	case StatusFail:
		return "Fail"
	case StatusTick:
		return "Tick"
	default:
		return "Unknown"
	}
}
