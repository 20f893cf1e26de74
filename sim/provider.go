// Order provider and periodic updater (§4.7): processes that inject
// release events and periodic decision points. Grounded on the teacher's
// GeneratePoissonArrivals (sim/simulator.go), which walks a pre-sorted
// request list and schedules an ArrivalEvent per release time — generalized
// here from a single Poisson-arrival generator into a release-date-ordered
// provider plus an independent periodic-decision scheduler.

package sim

import "sort"

// AddOrderProvider registers every order in orders (adding it to the
// Model first, so its id/location constraints are validated) and schedules
// a RequestOrder call at each order's ReleaseDate, in release-date order.
// decisionPointOnRequest is forwarded to each RequestOrder call.
func (m *Model) AddOrderProvider(orders []*Order, decisionPointOnRequest bool) error {
	sorted := append([]*Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ReleaseDate < sorted[j].ReleaseDate })

	for _, o := range sorted {
		if err := m.AddOrder(o); err != nil {
			return err
		}
	}
	for _, o := range sorted {
		order := o
		m.Clock.Schedule(order.ReleaseDate, func() {
			m.RequestOrder(order, decisionPointOnRequest)
		})
	}
	return nil
}

// StartPeriodicUpdater schedules a routing request every period simulated
// units, starting at period, until either every order has reached a
// finalized status (if stopAfterLastOrderRequest is true) or indefinitely
// (if false) — bounded in the latter case only by the run's horizon.
func (m *Model) StartPeriodicUpdater(period Time, stopAfterLastOrderRequest bool) {
	if period <= 0 {
		panic("sim: periodic updater period must be > 0")
	}
	var tick func()
	tick = func() {
		if stopAfterLastOrderRequest && m.allOrdersFinalized() {
			return
		}
		m.RequestForRouting()
		m.Clock.Schedule(m.Clock.Now()+period, tick)
	}
	m.Clock.Schedule(period, tick)
}

func (m *Model) allOrdersFinalized() bool {
	for _, o := range m.Orders {
		if !o.IsFinalized() {
			return false
		}
	}
	return true
}
