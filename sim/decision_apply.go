// Atomic decision application (§4.6 step 5). Runs only after
// ValidateDecision returns nil; nothing here can fail.

package sim

// ApplyDecision atomically rewrites vehicle routes and order dispositions,
// schedules postponement timers, and wakes any vehicle whose plan changed
// while it was blocked waiting for one.
func (m *Model) ApplyDecision(d *Decision) {
	for orderID, od := range d.Orders {
		o := m.Orders[orderID]
		switch od.Status {
		case DispositionAccepted:
			o.Status = OrderOpen
			o.PostponedUntil = nil
		case DispositionRejected:
			m.RejectOrder(o)
		case DispositionPostponed:
			m.PostponeOrder(o, *od.PostponedUntil)
		}
	}

	for vehicleID, vd := range d.Vehicles {
		if vd == nil {
			continue
		}
		v := m.Vehicles[vehicleID]
		m.applyVehicleDecision(v, vd)
	}
}

func (m *Model) applyVehicleDecision(v *Vehicle, vd *VehicleDecision) {
	if vd.CurrentVisit != nil && v.CurrentVisit != nil {
		v.CurrentVisit.PickupList = m.resolveOrders(vd.CurrentVisit.PickupList)
		v.CurrentVisit.DeliveryList = m.resolveOrders(vd.CurrentVisit.DeliveryList)
		v.CurrentVisit.EarliestStartTime = vd.CurrentVisit.EarliestStartTime
	}

	if v.Status == StatusEnRoute {
		// next_visits[0] is the committed, immutable in-flight
		// destination (already validated identical); it stays the same
		// Visit object so the engine's own reference to it
		// (enRouteDestination) keeps matching what the snapshot exposes.
		// Only the tail is replaced.
		tail := m.resolveVisits(vd.NextVisits[1:])
		v.NextVisits = append([]*Visit{v.enRouteDestination}, tail...)
	} else {
		v.NextVisits = m.resolveVisits(vd.NextVisits)
	}

	m.wakeVehicleIfBlocked(v)
}

// wakeVehicleIfBlocked triggers v's wakeup event if it is currently blocked
// on one (§4.6 step 5: "for each idle or interrupted vehicle whose plan
// changed, trigger its wakeup event"). Harmless no-op if the vehicle is not
// currently awaiting it.
func (m *Model) wakeVehicleIfBlocked(v *Vehicle) {
	if v.wakeup != nil && !v.wakeup.Triggered() {
		v.wakeup.Trigger(nil)
	}
}

func (m *Model) resolveOrders(ids []string) []*Order {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Order, len(ids))
	for i, id := range ids {
		out[i] = m.Orders[id]
	}
	return out
}

func (m *Model) resolveVisits(vjs []*VisitJSON) []*Visit {
	if len(vjs) == 0 {
		return nil
	}
	out := make([]*Visit, len(vjs))
	for i, vj := range vjs {
		out[i] = &Visit{
			Location:          m.Locations[vj.Location],
			PickupList:        m.resolveOrders(vj.PickupList),
			DeliveryList:      m.resolveOrders(vj.DeliveryList),
			EarliestStartTime: vj.EarliestStartTime,
		}
	}
	return out
}
