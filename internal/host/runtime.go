// internal/host/runtime.go

package host

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"nebulacoro/internal/sched"
	"nebulacoro/internal/script"
)

// Runtime is the host frame loop. Each frame it calls Update on every
// attached script instance, in attach order.
type Runtime struct {
	cfg       sched.Config
	clock     sched.Clock
	logger    *slog.Logger
	schedOpts []sched.Option

	instances []*script.Instance
	time      Time
	last      time.Time
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithClock sets the clock scripts and their schedulers read.
func WithClock(c sched.Clock) Option {
	return func(r *Runtime) { r.clock = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithSchedulerOptions passes opts to every script scheduler.
func WithSchedulerOptions(opts ...sched.Option) Option {
	return func(r *Runtime) { r.schedOpts = append(r.schedOpts, opts...) }
}

// New creates a runtime from cfg.
func New(cfg sched.Config, opts ...Option) *Runtime {
	r := &Runtime{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = sched.SystemClock{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.time.TimeScale = cfg.TimeScale
	return r
}

// Add attaches b and calls its OnCreate.
func (r *Runtime) Add(b script.Behavior) (*script.Instance, error) {
	inst, err := script.Attach(b, script.Env{
		Clock:   r.clock,
		Logger:  r.logger,
		Config:  r.cfg,
		Options: r.schedOpts,
	})
	if err != nil {
		return nil, err
	}
	r.instances = append(r.instances, inst)
	return inst, nil
}

// Remove destroys inst and detaches it. Unknown instances are ignored.
func (r *Runtime) Remove(inst *script.Instance) {
	for i, cur := range r.instances {
		if cur == inst {
			r.instances = append(r.instances[:i], r.instances[i+1:]...)
			inst.Destroy()
			return
		}
	}
}

// Len reports the number of attached instances.
func (r *Runtime) Len() int { return len(r.instances) }

// Time returns the timing of the last frame.
func (r *Runtime) Time() Time { return r.time }

// SetTimeScale changes how fast delta time passes. TimeDelay conditions
// are measured on the clock and are not affected.
func (r *Runtime) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	r.time.TimeScale = scale
}

// Step runs one frame that took elapsed real time. The first failing
// script aborts the frame.
func (r *Runtime) Step(elapsed time.Duration) error {
	r.time.advance(elapsed)
	// Scripts may add or remove instances while updating.
	for _, inst := range slices.Clone(r.instances) {
		if inst.Destroyed() {
			continue
		}
		if err := inst.Update(r.time.DeltaTime); err != nil {
			return fmt.Errorf("frame %d: %w", r.time.FrameCount, err)
		}
	}
	return nil
}

// Run drives frames every cfg.FrameMS until ctx is done, cfg.Frames frames
// have run, or a frame fails. All instances are destroyed on the way out.
func (r *Runtime) Run(ctx context.Context) error {
	clock := NewTickClock(1)
	clock.Start(time.Duration(r.cfg.FrameMS) * time.Millisecond)
	defer func() {
		// stop the underlying clock to release its goroutine
		clock.Stop()
		r.shutdown()
	}()

	r.last = r.clock.Now()
	r.logger.Info("frame loop started", "frame_ms", r.cfg.FrameMS, "frames", r.cfg.Frames, "scripts", len(r.instances))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("frame loop canceled", "frame", r.time.FrameCount)
			return nil
		case _, ok := <-clock.Ch:
			if !ok {
				return nil
			}
		}

		now := r.clock.Now()
		err := r.Step(now.Sub(r.last))
		r.last = now
		if err != nil {
			r.logger.Error("frame failed", "frame", r.time.FrameCount, "error", err)
			return err
		}

		if r.cfg.Frames > 0 && r.time.FrameCount >= int64(r.cfg.Frames) {
			r.logger.Info("frame loop finished", "frames", r.time.FrameCount)
			return nil
		}
	}
}

func (r *Runtime) shutdown() {
	for _, inst := range r.instances {
		inst.Destroy()
	}
	r.instances = nil
}
