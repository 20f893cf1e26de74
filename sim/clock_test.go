package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_SchedulesInTimeOrder(t *testing.T) {
	// GIVEN three wake-ups scheduled out of order
	c := NewClock()
	var order []string
	c.Schedule(5, func() { order = append(order, "b") })
	c.Schedule(1, func() { order = append(order, "a") })
	c.Schedule(10, func() { order = append(order, "c") })

	// WHEN the clock runs to completion
	c.Run()

	// THEN callbacks fire in time order
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, Time(10), c.Now())
}

func TestClock_EqualTimeFIFO(t *testing.T) {
	// GIVEN two same-time, same-priority wake-ups
	c := NewClock()
	var order []string
	c.Schedule(1, func() { order = append(order, "first") })
	c.Schedule(1, func() { order = append(order, "second") })

	c.Run()

	// THEN they fire in schedule order
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestClock_DecisionCycleRunsAfterSameTickEvents(t *testing.T) {
	// GIVEN a decision cycle and an ordinary event scheduled for the same
	// instant, decision cycle scheduled first
	c := NewClock()
	var order []string
	c.scheduleDecisionCycle(func() { order = append(order, "decision") })
	c.Schedule(0, func() { order = append(order, "ordinary") })

	c.Run()

	// THEN the ordinary event always runs first, regardless of schedule order
	assert.Equal(t, []string{"ordinary", "decision"}, order)
}

func TestClock_StopAt(t *testing.T) {
	// GIVEN a horizon shorter than a scheduled wake-up
	c := NewClock()
	c.StopAt(5)
	fired := false
	c.Schedule(10, func() { fired = true })

	c.Run()

	// THEN the wake-up never fires and the clock stops at the horizon
	assert.False(t, fired)
	assert.Equal(t, Time(5), c.Now())
}

func TestClock_TimerCancel(t *testing.T) {
	c := NewClock()
	fired := false
	timer := c.Schedule(1, func() { fired = true })
	timer.Cancel()

	c.Run()

	assert.False(t, fired)
}

func TestClock_ScheduleBeforeNowPanics(t *testing.T) {
	c := NewClock()
	c.Schedule(5, func() {})
	c.Run()

	require.Panics(t, func() { c.Schedule(1, func() {}) })
}

func TestClock_MediumTimeoutFiresUninterrupted(t *testing.T) {
	c := NewClock()
	var interrupted *bool
	c.MediumTimeout(5, func(i bool) { interrupted = &i })

	c.Run()

	require.NotNil(t, interrupted)
	assert.False(t, *interrupted)
}

func TestClock_MediumTimeoutInterrupt(t *testing.T) {
	// GIVEN a pending interruptible timeout
	c := NewClock()
	var interrupted *bool
	it := c.MediumTimeout(100, func(i bool) { interrupted = &i })

	// WHEN it is interrupted before its deadline, from within another event
	c.Schedule(3, func() { it.Interrupt(c) })
	c.Run()

	// THEN the callback fires early, at the interrupt time, with interrupted=true
	require.NotNil(t, interrupted)
	assert.True(t, *interrupted)
	assert.Equal(t, Time(3), c.Now())
}

func TestClock_InterruptAfterFireIsNoOp(t *testing.T) {
	c := NewClock()
	calls := 0
	it := c.MediumTimeout(1, func(i bool) { calls++ })
	c.Run()

	it.Interrupt(c)

	assert.Equal(t, 1, calls)
}
