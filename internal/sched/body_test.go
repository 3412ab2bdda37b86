package sched

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepsBody(t *testing.T) {
	var order []int
	b := Steps(
		func() Condition { order = append(order, 1); return None() },
		nil,
		func() Condition { order = append(order, 3); return None() },
	)
	for i := 0; i < 3; i++ {
		step, err := b.Resume()
		require.NoError(t, err)
		assert.Equal(t, StepYield, step.Kind)
	}
	step, err := b.Resume()
	require.NoError(t, err)
	assert.Equal(t, StepDone, step.Kind)
	assert.Equal(t, []int{1, 3}, order)

	// Exhausted bodies stay exhausted.
	step, _ = b.Resume()
	assert.Equal(t, StepDone, step.Kind)
}

func TestEmptyBodiesAreNil(t *testing.T) {
	assert.Nil(t, Steps())
	assert.Nil(t, FromSeq(nil))
	assert.Nil(t, FromSeq2(nil))
}

func TestFromSeqYieldsConditions(t *testing.T) {
	clk := NewFakeClock(t0)
	b := FromSeq(func(yield func(Condition) bool) {
		if !yield(WaitSeconds(clk, 2)) {
			return
		}
		yield(None())
	})

	step, err := b.Resume()
	require.NoError(t, err)
	assert.Equal(t, ConditionTimeDelay, step.Cond.Kind())

	step, err = b.Resume()
	require.NoError(t, err)
	assert.Equal(t, StepYield, step.Kind)
	assert.Equal(t, ConditionNone, step.Cond.Kind())

	step, err = b.Resume()
	require.NoError(t, err)
	assert.Equal(t, StepDone, step.Kind)
}

func TestFromSeq2Error(t *testing.T) {
	boom := errors.New("boom")
	s := newTestScheduler(NewFakeClock(t0), DefaultConfig())
	_, err := s.Start(FromSeq2(func(yield func(Condition, error) bool) {
		if !yield(None(), nil) {
			return
		}
		yield(None(), boom)
	}))
	require.NoError(t, err)

	require.NoError(t, s.Tick())
	assert.ErrorIs(t, s.Tick(), boom)
	assert.Zero(t, s.Len())
}

func TestCancelStopsSeqBody(t *testing.T) {
	s := newTestScheduler(NewFakeClock(t0), DefaultConfig())

	cleaned := false
	id, err := s.Start(FromSeq(func(yield func(Condition) bool) {
		defer func() { cleaned = true }()
		for yield(None()) {
		}
	}))
	require.NoError(t, err)

	require.NoError(t, s.Tick())
	require.False(t, cleaned)

	s.Cancel(id)
	assert.True(t, cleaned)
}

func TestSelfCancelStopsSeqBodyAfterResume(t *testing.T) {
	s := newTestScheduler(NewFakeClock(t0), DefaultConfig())

	var id TaskID
	cleaned := false
	id, err := s.Start(FromSeq(func(yield func(Condition) bool) {
		defer func() { cleaned = true }()
		s.Cancel(id)
		for yield(None()) {
		}
	}))
	require.NoError(t, err)

	require.NoError(t, s.Tick())
	assert.True(t, cleaned)
	assert.Zero(t, s.Len())
}

func TestCancelBeforeFirstResumeNeverRunsSeq(t *testing.T) {
	s := newTestScheduler(NewFakeClock(t0), DefaultConfig())
	ran := false
	id, err := s.Start(FromSeq(func(yield func(Condition) bool) {
		ran = true
	}))
	require.NoError(t, err)

	s.Cancel(id)
	require.NoError(t, s.Tick())
	assert.False(t, ran)
}
