// The decision coordinator (§4.6): a coalesced routing-request flag, a
// quiesce step that interrupts interruptible vehicle suspensions, a JSON
// snapshot, an opaque callback invocation, validation, and atomic apply.
// Grounded on the teacher's dispatch-by-handler style in
// sim/cluster/cluster.go (handleRouteDecision et al.), generalized from a
// single routing decision per request into a coalesced, potentially
// multi-vehicle routing cycle.

package sim

import "github.com/sirupsen/logrus"

// RequestForRouting sets the routing-request flag. Any number of calls at
// the same simulated time collapse into exactly one routing cycle (§4.6,
// §8 round-trip property). A call made while a cycle is already running
// schedules exactly one more cycle immediately after the current one
// finishes.
func (m *Model) RequestForRouting() {
	m.decisionRequested = true
	if m.decisionRunning {
		return
	}
	m.decisionRunning = true
	m.Clock.scheduleDecisionCycle(m.runDecisionCycle)
}

// runDecisionCycle implements §4.6 steps 1-6.
func (m *Model) runDecisionCycle() {
	m.decisionRequested = false

	m.quiesce()

	snapshot := m.BuildSnapshot()
	decision := m.invokeCallback(snapshot)

	if err := m.ValidateDecision(decision); err != nil {
		logrus.Warnf("sim: %v; vehicles keep their prior plan", err)
	} else {
		m.ApplyDecision(decision)
	}

	if m.decisionRequested {
		m.Clock.scheduleDecisionCycle(m.runDecisionCycle)
	} else {
		m.decisionRunning = false
	}
}

// quiesce interrupts every vehicle's currently-pending interruptible
// suspension (the post-arrival earliest-start wait, or the in-place idle
// wait for a next visit's earliest start) so each observes the upcoming
// decision at its next loop iteration. Uninterruptible suspensions (ongoing
// travel, ongoing service step, a resource wait) are left to run to
// completion (§4.6 step 1, §5). Suspensions inside a PreService hook are
// not registered with the vehicle and are not interrupted.
//
// Because runDecisionCycle itself was scheduled at the lowest priority for
// this instant (scheduleDecisionCycle), every ordinary event already
// queued for "now" has already dispatched by the time this runs — that is
// the engine's equivalent of the reference system's zero-delay yield.
func (m *Model) quiesce() {
	for _, v := range orderedVehicles(m.Vehicles) {
		v.interrupt()
	}
}

// invokeCallback calls the configured RoutingCallback, or the reject-all
// default with a RuntimeWarning if none was configured (§7, §8 scenario 1).
func (m *Model) invokeCallback(s *Snapshot) *Decision {
	if m.RoutingCallback == nil {
		if !m.noCallbackWarned {
			logrus.Warn("sim: no routing callback configured; auto-rejecting all open orders")
			m.noCallbackWarned = true
		}
		return NewRejectAllDecision(s)
	}
	return m.RoutingCallback(s)
}
