package sched

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// rewindClock is a deliberately broken clock that can move backwards.
type rewindClock struct{ now time.Time }

func (c *rewindClock) Now() time.Time { return c.now }

func TestConditionZeroValueIsNone(t *testing.T) {
	var c Condition
	assert.Equal(t, ConditionNone, c.Kind())
	assert.False(t, c.Holds())
	assert.Equal(t, "None", c.String())
}

func TestWaitSecondsHoldsUntilDeadline(t *testing.T) {
	clk := NewFakeClock(t0)
	c := WaitSeconds(clk, 1.0)

	deadline, ok := c.Deadline()
	require.True(t, ok)
	assert.Equal(t, t0.Add(time.Second), deadline)

	assert.True(t, c.Holds())
	clk.Advance(999 * time.Millisecond)
	assert.True(t, c.Holds())
	clk.Advance(time.Millisecond)
	assert.False(t, c.Holds())
	clk.Advance(time.Hour)
	assert.False(t, c.Holds())
}

func TestWaitSecondsStaysReachedOnceObserved(t *testing.T) {
	clk := &rewindClock{now: t0}
	c := WaitSeconds(clk, 1.0)

	clk.now = t0.Add(2 * time.Second)
	require.False(t, c.Holds())

	clk.now = t0
	assert.False(t, c.Holds())
}

func TestWaitSecondsNonPositiveIsImmediatelyReached(t *testing.T) {
	clk := NewFakeClock(t0)
	for _, d := range []float64{0, -3} {
		c := WaitSeconds(clk, d)
		assert.Equal(t, ConditionTimeDelay, c.Kind())
		assert.False(t, c.Holds())
	}
}

func TestWaitSecondsSaturatesHugeDurations(t *testing.T) {
	clk := NewFakeClock(t0)
	for _, d := range []float64{1e10, math.MaxFloat64, math.Inf(1)} {
		c := WaitSeconds(clk, d)
		deadline, ok := c.Deadline()
		require.True(t, ok)
		assert.Equal(t, t0.Add(time.Duration(math.MaxInt64)), deadline, "seconds=%g", d)
		assert.True(t, c.Holds(), "seconds=%g", d)
	}

	clk.Advance(100 * 365 * 24 * time.Hour)
	c := WaitSeconds(clk, math.Inf(1))
	assert.True(t, c.Holds())
}

func TestWaitSecondsLargeButRepresentable(t *testing.T) {
	clk := NewFakeClock(t0)
	c := WaitSeconds(clk, 1e9)
	deadline, _ := c.Deadline()
	assert.Equal(t, t0.Add(1e9*time.Second), deadline)

	clk.Set(deadline.Add(-time.Second))
	assert.True(t, c.Holds())
	clk.Set(deadline)
	assert.False(t, c.Holds())
}

func TestWaitSecondsNaNIsImmediatelyReached(t *testing.T) {
	clk := NewFakeClock(t0)
	c := WaitSeconds(clk, math.NaN())
	deadline, ok := c.Deadline()
	require.True(t, ok)
	assert.Equal(t, t0, deadline)
	assert.False(t, c.Holds())
}

func TestWaitUntilReevaluatesEveryQuery(t *testing.T) {
	calls := 0
	ready := false
	c, err := WaitUntil(func() bool {
		calls++
		return ready
	})
	require.NoError(t, err)
	assert.Equal(t, ConditionPredicate, c.Kind())

	assert.True(t, c.Holds())
	assert.True(t, c.Holds())
	ready = true
	assert.False(t, c.Holds())
	ready = false
	assert.True(t, c.Holds())
	assert.Equal(t, 4, calls)
}

func TestWaitUntilNilTest(t *testing.T) {
	_, err := WaitUntil(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestFakeClockRefusesToRewind(t *testing.T) {
	clk := NewFakeClock(t0)
	clk.Advance(-time.Second)
	assert.Equal(t, t0, clk.Now())

	assert.False(t, clk.Set(t0.Add(-time.Second)))
	assert.Equal(t, t0, clk.Now())

	assert.True(t, clk.Set(t0.Add(time.Minute)))
	assert.Equal(t, t0.Add(time.Minute), clk.Now())
}

func TestConditionKindString(t *testing.T) {
	assert.Equal(t, "TimeDelay", ConditionTimeDelay.String())
	assert.Equal(t, "Predicate", ConditionPredicate.String())
	assert.Equal(t, "Unknown", ConditionKind(42).String())
}
