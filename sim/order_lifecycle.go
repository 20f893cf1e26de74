// Order lifecycle transitions (§4.3): request, postpone, reject, cancel.
// The RequestForRouting coalescing flag they raise lives in coordinator.go
// (§4.6). Grounded on the teacher's lifecycle-string pattern (sim/request.go)
// generalized into an explicit enum with transition methods.

package sim

import "github.com/sirupsen/logrus"

// RequestOrder transitions o to OPEN at the current time and optionally
// raises a decision point. now must be >= o.ReleaseDate.
func (m *Model) RequestOrder(o *Order, decisionPointOnRequest bool) {
	now := m.Clock.Now()
	if now < o.ReleaseDate {
		panic("sim: RequestOrder called before order's release date")
	}
	o.Status = OrderOpen
	logrus.Infof("sim: order %s requested at t=%v", o.ID, now)
	if m.Hooks != nil {
		m.Hooks.OnOrderRequest(o)
	}
	if decisionPointOnRequest {
		m.RequestForRouting()
	}
}

// PostponeOrder marks o POSTPONED until the given time, at which a
// self-imposed decision point occurs (§4.3, §4.6).
func (m *Model) PostponeOrder(o *Order, until Time) {
	o.Status = OrderPostponed
	o.PostponedUntil = &until
	m.Clock.Schedule(until, func() {
		logrus.Infof("sim: order %s postponement expired at t=%v, requesting routing", o.ID, m.Clock.Now())
		m.RequestForRouting()
	})
}

// RejectOrder marks o REJECTED. Terminal.
func (m *Model) RejectOrder(o *Order) {
	o.Status = OrderRejected
}

// CancelOrder marks o CANCELED, records it, and scrubs it from every
// vehicle route immediately so no stale reference to a canceled order can
// be observed by a snapshot or re-executed by a vehicle (§4.3: "a canceled
// order must be scrubbed from all next_visits by the next valid decision" —
// the engine scrubs proactively rather than waiting on an external
// decision that might never arrive). A current visit whose service has
// already started is left as it is.
func (m *Model) CancelOrder(o *Order) {
	o.Status = OrderCanceled
	m.CanceledOrders = append(m.CanceledOrders, o.ID)

	for _, v := range m.Vehicles {
		v.NextVisits = scrubOrderFromVisits(v.NextVisits, o)
		if v.CurrentVisit != nil && v.CurrentVisit.ServiceStartTime == nil {
			scrubbed := scrubOrderFromVisits([]*Visit{v.CurrentVisit}, o)
			if len(scrubbed) == 1 {
				v.CurrentVisit = scrubbed[0]
			}
		}
	}
	m.RequestForRouting()
}

func scrubOrderFromVisits(visits []*Visit, o *Order) []*Visit {
	out := make([]*Visit, 0, len(visits))
	for _, orig := range visits {
		if !containsOrder(orig.PickupList, o) && !containsOrder(orig.DeliveryList, o) {
			out = append(out, orig)
			continue
		}
		cp := orig.clone()
		cp.PickupList = removeOrder(cp.PickupList, o)
		cp.DeliveryList = removeOrder(cp.DeliveryList, o)
		out = append(out, cp)
	}
	return out
}

func removeOrder(list []*Order, o *Order) []*Order {
	out := make([]*Order, 0, len(list))
	for _, x := range list {
		if x != o {
			out = append(out, x)
		}
	}
	return out
}
