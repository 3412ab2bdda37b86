package sched

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// CSVRecorder writes status events as CSV rows. Pass its Observe method to
// WithObserver.
type CSVRecorder struct {
	w     *csv.Writer
	ticks bool // record StatusTick rows too
	err   error
}

// NewCSVRecorder writes the header row to w and returns a recorder.
// Tick events are skipped unless withTicks is set.
func NewCSVRecorder(w io.Writer, withTicks bool) *CSVRecorder {
	r := &CSVRecorder{w: csv.NewWriter(w), ticks: withTicks}
	r.write([]string{"timestamp", "tick", "event", "task_id", "steps", "condition", "error"})
	return r
}

// Observe records ev.
func (r *CSVRecorder) Observe(ev StatusEvent) {
	if ev.Kind == StatusTick && !r.ticks {
		return
	}
	errText := ""
	if ev.Err != nil {
		errText = ev.Err.Error()
	}
	r.write([]string{
		ev.Time.Format(time.RFC3339Nano),
		strconv.FormatInt(ev.Tick, 10),
		ev.Kind.String(),
		strconv.FormatUint(uint64(ev.TaskID), 10),
		strconv.FormatInt(ev.Steps, 10),
		ev.Condition.String(),
		errText,
	})
}

// Err reports the first write error, if any.
func (r *CSVRecorder) Err() error { return r.err }

func (r *CSVRecorder) write(rec []string) {
	if r.err != nil {
		return
	}
	if err := r.w.Write(rec); err != nil {
		r.err = err
		return
	}
	r.w.Flush()
	r.err = r.w.Error()
}
