// Event loop and simulated time: a priority queue of scheduled wake-ups
// keyed by (time, priority, schedule sequence), and a monotonically
// increasing simulated clock. Ordering within a timestamp is FIFO by
// default; the decision coordinator's quiesce step relies on a lower
// priority class to always run after ordinary same-tick events (mirrors
// the teacher's EventTypePriority tiebreak in its cluster event heap).

package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Time is simulated time, expressed as a rational (possibly fractional)
// number of simulated units since the start of the run.
type Time = float64

const (
	priorityNormal        = 0
	priorityDecisionCycle = 1 << 30 // sorts after all normal same-tick wake-ups
)

// wakeup is a single scheduled resumption.
type wakeup struct {
	at       Time
	priority int
	seq      uint64
	fn       func()
	canceled bool
}

type wakeupHeap []*wakeup

func (h wakeupHeap) Len() int { return len(h) }
func (h wakeupHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}
func (h wakeupHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *wakeupHeap) Push(x any) { *h = append(*h, x.(*wakeup)) }

func (h *wakeupHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Clock drives the cooperative single-threaded event loop shared by every
// process in a Model: vehicles, order providers, the periodic updater, and
// the decision coordinator all schedule their resumptions through it.
type Clock struct {
	now     Time
	seq     uint64
	pending wakeupHeap
	stopAt  *Time
}

// NewClock returns a Clock at time 0 with an empty wake-up queue.
func NewClock() *Clock {
	c := &Clock{}
	heap.Init(&c.pending)
	return c
}

// Now returns the current simulated time.
func (c *Clock) Now() Time { return c.now }

// Timer is a handle to a scheduled wake-up that can be canceled before it
// fires. Canceling an already-fired timer is a no-op.
type Timer struct{ w *wakeup }

// Cancel removes the wake-up from the queue. It is never observable as an
// error to the waiter; the scheduled function simply never runs.
func (t *Timer) Cancel() {
	if t == nil || t.w == nil {
		return
	}
	t.w.canceled = true
}

// Schedule enqueues fn to run when the clock reaches at, with normal
// priority. Equal-time, equal-priority wake-ups run in schedule order.
func (c *Clock) Schedule(at Time, fn func()) *Timer {
	return c.scheduleWithPriority(at, priorityNormal, fn)
}

func (c *Clock) scheduleWithPriority(at Time, priority int, fn func()) *Timer {
	if at < c.now {
		panic(fmt.Sprintf("sim: cannot schedule at %v before current time %v", at, c.now))
	}
	w := &wakeup{at: at, priority: priority, seq: c.seq, fn: fn}
	c.seq++
	heap.Push(&c.pending, w)
	logrus.Debugf("sim: [t=%07.2f] scheduled wake-up at t=%.2f (priority=%d, seq=%d)", c.now, at, priority, w.seq)
	return &Timer{w: w}
}

// Timeout suspends the caller for d >= 0 simulated units and then runs cb.
// d == 0 yields control without advancing time. Travel and per-order
// service durations use Timeout: they are never interruptible.
func (c *Clock) Timeout(d Time, cb func()) *Timer {
	if d < 0 {
		panic(fmt.Sprintf("sim: timeout duration must be >= 0, got %v", d))
	}
	logrus.Debugf("sim: [t=%07.2f] timeout for %.2f units (non-interruptible)", c.now, d)
	return c.Schedule(c.now+d, cb)
}

// InterruptibleTimer is a Timeout whose waiter the decision coordinator may
// wake early (see MediumTimeout).
type InterruptibleTimer struct {
	timer *Timer
	fired bool
	cb    func(interrupted bool)
}

// MediumTimeout has identical semantics to Timeout, except the returned
// handle may be interrupted before its deadline: the vehicle engine's
// earliest-start waits (after arrival, and idle in place before a visit at
// the current location) use MediumTimeout so the decision coordinator can
// refresh a vehicle's view immediately after a route change. The PreService
// hook is handed no interruptible timer.
func (c *Clock) MediumTimeout(d Time, cb func(interrupted bool)) *InterruptibleTimer {
	if d < 0 {
		panic(fmt.Sprintf("sim: timeout duration must be >= 0, got %v", d))
	}
	it := &InterruptibleTimer{cb: cb}
	it.timer = c.Schedule(c.now+d, func() {
		if it.fired {
			return
		}
		it.fired = true
		cb(false)
	})
	return it
}

// Interrupt cancels the pending deadline and resumes the waiter immediately,
// at the current simulated time, with interrupted=true. No-op if the timer
// already fired.
func (it *InterruptibleTimer) Interrupt(c *Clock) {
	if it == nil || it.fired {
		return
	}
	it.timer.Cancel()
	it.fired = true
	cb := it.cb
	c.Schedule(c.Now(), func() { cb(true) })
}

// StopAt sets a hard deadline: Run returns once the clock would advance past
// it, without executing wake-ups scheduled beyond it.
func (c *Clock) StopAt(at Time) { c.stopAt = &at }

// Run drains the pending wake-up queue until it is empty, or until the next
// wake-up would cross the configured stop deadline.
func (c *Clock) Run() {
	for c.pending.Len() > 0 {
		w := heap.Pop(&c.pending).(*wakeup)
		if w.canceled {
			continue
		}
		if c.stopAt != nil && w.at > *c.stopAt {
			c.now = *c.stopAt
			return
		}
		c.now = w.at
		logrus.Debugf("sim: [t=%07.2f] dispatching wake-up (priority=%d, seq=%d)", c.now, w.priority, w.seq)
		w.fn()
	}
}

// scheduleDecisionCycle enqueues fn at the current time with the lowest
// priority, guaranteeing it runs after every ordinary event already
// scheduled for this instant (the coordinator's "quiesce" step, §4.6).
func (c *Clock) scheduleDecisionCycle(fn func()) *Timer {
	return c.scheduleWithPriority(c.now, priorityDecisionCycle, fn)
}
