package host

import "time"

// Time is the frame timing snapshot handed to scripts.
type Time struct {
	DeltaTime         float64 // seconds, scaled by TimeScale
	UnscaledDeltaTime float64 // seconds
	Time              float64 // scaled seconds since the first frame
	UnscaledTime      float64 // seconds since the first frame
	FrameCount        int64
	TimeScale         float64
}

// advance accounts for one frame that took elapsed real time.
func (t *Time) advance(elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	raw := elapsed.Seconds()
	t.UnscaledDeltaTime = raw
	t.DeltaTime = raw * t.TimeScale
	t.UnscaledTime += raw
	t.Time += t.DeltaTime
	t.FrameCount++
}
