package sim

import "github.com/sirupsen/logrus"

// Event is a one-shot signal awaited by any number of processes. Trigger
// atomically wakes all current waiters at the current simulated time, in
// the order they registered (FIFO). An Event cannot be re-armed: a process
// that needs to wait again after a trigger must be handed a fresh Event.
type Event struct {
	clock     *Clock
	triggered bool
	value     any
	waiters   []func(any)
}

// NewEvent returns an un-triggered Event bound to clock.
func NewEvent(clock *Clock) *Event {
	return &Event{clock: clock}
}

// Triggered reports whether Trigger has already fired on this Event.
func (e *Event) Triggered() bool { return e.triggered }

// Await registers cb to run when the event fires. If the event already
// fired, cb runs on the next tick with the value it was triggered with;
// this is a defensive fallback only — correct callers always Await a fresh
// Event rather than one that may already have fired.
func (e *Event) Await(cb func(value any)) {
	if e.triggered {
		value := e.value
		e.clock.Schedule(e.clock.Now(), func() { cb(value) })
		return
	}
	e.waiters = append(e.waiters, cb)
}

// Trigger wakes all current waiters at the current simulated time, FIFO.
// A second call is a no-op.
func (e *Event) Trigger(value any) {
	if e.triggered {
		return
	}
	e.triggered = true
	e.value = value
	waiters := e.waiters
	e.waiters = nil
	logrus.Debugf("sim: [t=%07.2f] event triggered, waking %d waiter(s)", e.clock.Now(), len(waiters))
	for _, w := range waiters {
		cb := w
		e.clock.Schedule(e.clock.Now(), func() { cb(value) })
	}
}
