// Decision validation (§4.6 step 4, §7). On any violation the whole
// decision is rejected with a descriptive *DecisionError; nothing is
// partially applied (§7's propagation rule). Grounded on the teacher's
// Validate() error methods (sim/cluster/engine_config.go,
// sim/cluster/model_config.go), generalized from static config checks into
// checks against live, currently-executing vehicle state.

package sim

// ValidateDecision checks d against the model's current state. A nil error
// means Apply may proceed.
func (m *Model) ValidateDecision(d *Decision) error {
	if d == nil {
		return newDecisionError("decision is nil")
	}

	for orderID, od := range d.Orders {
		o, ok := m.Orders[orderID]
		if !ok {
			return newOrderDecisionError(orderID, "unknown order id")
		}
		if !o.IsOpen() {
			return newOrderDecisionError(orderID, "order is not OPEN or POSTPONED (status=%s)", o.Status)
		}
		switch od.Status {
		case DispositionAccepted, DispositionRejected:
			// no further constraint
		case DispositionPostponed:
			if od.PostponedUntil == nil || *od.PostponedUntil <= m.Clock.Now() {
				return newOrderDecisionError(orderID, "postponed_until must be greater than the current time")
			}
		default:
			return newOrderDecisionError(orderID, "unknown disposition %q", od.Status)
		}
	}

	for vehicleID, vd := range d.Vehicles {
		v, ok := m.Vehicles[vehicleID]
		if !ok {
			return newVehicleDecisionError(vehicleID, "unknown vehicle id")
		}
		if vd == nil {
			continue
		}
		if err := m.validateVehicleDecision(v, vd, d); err != nil {
			return err
		}
	}

	return nil
}

func (m *Model) validateVehicleDecision(v *Vehicle, vd *VehicleDecision, d *Decision) error {
	serviceStarted := v.Status == StatusUnderService ||
		(v.CurrentVisit != nil && v.CurrentVisit.ServiceStartTime != nil)

	if serviceStarted {
		if !sameVisitContent(vd.CurrentVisit, v.CurrentVisit) {
			return newVehicleDecisionError(v.ID, "current_visit service has already started; pickup/delivery lists must be unchanged")
		}
	}

	if v.Status == StatusEnRoute {
		if len(vd.NextVisits) == 0 {
			return newVehicleDecisionError(v.ID, "vehicle is EN_ROUTE; next_visits[0] must match the in-flight destination")
		}
		if !sameVisitContent(vd.NextVisits[0], v.enRouteDestination) {
			return newVehicleDecisionError(v.ID, "vehicle is EN_ROUTE; next_visits[0] must match the in-flight destination (location and pickup/delivery lists)")
		}
		if vd.CurrentVisit != nil {
			return newVehicleDecisionError(v.ID, "vehicle is EN_ROUTE; current_visit must be left unset")
		}
	}

	route := make([]*VisitJSON, 0, len(vd.NextVisits)+1)
	if vd.CurrentVisit != nil {
		route = append(route, vd.CurrentVisit)
	} else if v.CurrentVisit != nil {
		route = append(route, visitToJSON(v.CurrentVisit))
	}
	route = append(route, vd.NextVisits...)

	for _, vj := range route {
		for _, orderID := range append(append([]string(nil), vj.PickupList...), vj.DeliveryList...) {
			o, ok := m.Orders[orderID]
			if !ok {
				return newVehicleDecisionError(v.ID, "route references unknown order %q", orderID)
			}
			if o.Status == OrderCanceled || o.Status == OrderRejected {
				return newVehicleDecisionError(v.ID, "route references canceled/rejected order %q", orderID)
			}
		}
		for _, orderID := range vj.PickupList {
			if !m.orderAcceptedForPickup(orderID, d) {
				return newVehicleDecisionError(v.ID, "order %q appears in a pickup_list without being accepted", orderID)
			}
		}
	}

	if err := m.validateCapacityAndLIFO(v, route); err != nil {
		return err
	}

	return nil
}

// orderAcceptedForPickup reports whether orderID may legitimately appear in
// a pickup_list this cycle: either this decision accepts it, or it was
// already assigned to some vehicle's route before this decision (§4.6 step
// 4: "Every order appearing in a pickup_list must be accepted (either
// pre-existing or in this decision)").
//
// An order that was accepted in some earlier cycle but never routed is
// OrderOpen by the time this runs (ACCEPTED collapses into OPEN, §3), so it
// falls through to orderAlreadyAssignedInRoute and reads as "not yet
// assigned" here. It needs DispositionAccepted again in the decision that
// finally routes it; this is the accepted-status model's tradeoff, not a
// bug.
func (m *Model) orderAcceptedForPickup(orderID string, d *Decision) bool {
	if od, ok := d.Orders[orderID]; ok {
		return od.Status == DispositionAccepted
	}
	o, ok := m.Orders[orderID]
	if !ok {
		return false
	}
	if o.Status == OrderPickedUp || o.Status == OrderDelivered {
		return true
	}
	return m.orderAlreadyAssignedInRoute(orderID)
}

func (m *Model) orderAlreadyAssignedInRoute(orderID string) bool {
	for _, v := range m.Vehicles {
		if v.CurrentVisit != nil && (containsOrderID(v.CurrentVisit.PickupList, orderID)) {
			return true
		}
		for _, visit := range v.NextVisits {
			if containsOrderID(visit.PickupList, orderID) {
				return true
			}
		}
	}
	return false
}

func containsOrderID(orders []*Order, id string) bool {
	for _, o := range orders {
		if o.ID == id {
			return true
		}
	}
	return false
}

// sameVisitContent reports whether a (possibly nil) decision visit and a
// (possibly nil) live Visit describe the same location and pickup/delivery
// order sets. A nil decision visit means "unchanged", which always matches.
func sameVisitContent(vj *VisitJSON, v *Visit) bool {
	if vj == nil {
		return true
	}
	if v == nil {
		return false
	}
	if vj.Location != v.Location.ID {
		return false
	}
	return sameIDSet(vj.PickupList, v.PickupList) && sameIDSet(vj.DeliveryList, v.DeliveryList)
}

func sameIDSet(ids []string, orders []*Order) bool {
	if len(ids) != len(orders) {
		return false
	}
	seen := map[string]bool{}
	for _, o := range orders {
		seen[o.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return false
		}
	}
	return true
}

// validateCapacityAndLIFO replays route (current visit, if replaced or
// kept, followed by the tentative next visits) against v's existing
// CarryingOrders stack, checking the capacity invariant and, under LIFO,
// that every delivery_list is exactly the top of the carried-orders stack
// at that point (§3 invariants).
func (m *Model) validateCapacityAndLIFO(v *Vehicle, route []*VisitJSON) error {
	stack := append([]*Order(nil), v.CarryingOrders...)
	qty := v.CarriedQuantity()

	for _, vj := range route {
		if len(vj.DeliveryList) > 0 {
			if v.LoadingRule == LoadingLIFO {
				// The delivered set must be exactly the top-k carried
				// orders; any ordering within the visit is allowed (§3:
				// "each delivery_list[i] is a suffix (possibly reordered
				// within the visit)").
				if len(vj.DeliveryList) > len(stack) {
					return newVehicleDecisionError(v.ID, "delivers more orders than are carried")
				}
				top := stack[len(stack)-len(vj.DeliveryList):]
				if !sameIDSet(vj.DeliveryList, top) {
					return newVehicleDecisionError(v.ID, "LIFO violation: delivered orders are not exactly the most recently loaded ones")
				}
			}
			for _, orderID := range vj.DeliveryList {
				idx := -1
				for i, o := range stack {
					if o.ID == orderID {
						idx = i
						break
					}
				}
				if idx == -1 {
					return newVehicleDecisionError(v.ID, "delivers order %q that it is not carrying", orderID)
				}
				if q := stack[idx].Quantity; q != nil {
					qty -= *q
				}
				stack = append(stack[:idx], stack[idx+1:]...)
			}
		}
		for _, orderID := range vj.PickupList {
			o := m.Orders[orderID]
			stack = append(stack, o)
			if o.Quantity != nil {
				qty += *o.Quantity
			}
			if v.Capacity != nil && qty > *v.Capacity {
				return newVehicleDecisionError(v.ID, "carried quantity %d exceeds capacity %d after picking up %q", qty, *v.Capacity, orderID)
			}
		}
	}
	return nil
}
