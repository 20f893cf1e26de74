// Model-wide invariant checks (§8). Called from tests and, after a run, by
// the CLI's --check-invariants flag; the engine never calls it while
// running. Grounded on the teacher's Validate()-style aggregate checks
// (sim/cluster/engine_config.go).

package sim

import "fmt"

// CheckInvariants walks every vehicle and order and returns the first
// violation it finds, or nil. It checks that each carried order is carried
// by exactly one vehicle and is PICKED_UP (and vice versa), carried quantity
// against capacity, pickup/delivery times on picked-up and delivered orders,
// and arrival <= service start <= service finish <= departure on each
// vehicle's previous, current and next visits. The earliest-start bound is
// compared only for visits still listed in next_visits, and LIFO delivery
// order is not checked.
func CheckInvariants(m *Model) error {
	carriedBy := map[string]string{}

	for _, v := range m.Vehicles {
		if err := checkVehicleInvariants(v, carriedBy); err != nil {
			return err
		}
	}

	for id, o := range m.Orders {
		if o.Status == OrderPickedUp {
			if _, ok := carriedBy[id]; !ok {
				return fmt.Errorf("invariant: order %s is PICKED_UP but no vehicle carries it", id)
			}
		} else if _, ok := carriedBy[id]; ok {
			return fmt.Errorf("invariant: order %s is carried by a vehicle but status is %s, want PICKED_UP", id, o.Status)
		}
		if o.Status == OrderPickedUp || o.Status == OrderDelivered {
			if o.PickupTime == nil {
				return fmt.Errorf("invariant: order %s is %s but has no pickup_time", id, o.Status)
			}
		}
		if o.Status == OrderDelivered && o.DeliveryTime == nil {
			return fmt.Errorf("invariant: order %s is DELIVERED but has no delivery_time", id)
		}
	}

	return nil
}

func checkVehicleInvariants(v *Vehicle, carriedBy map[string]string) error {
	qty := 0
	for _, o := range v.CarryingOrders {
		if prev, seen := carriedBy[o.ID]; seen {
			return fmt.Errorf("invariant: order %s is carried by both %s and %s", o.ID, prev, v.ID)
		}
		carriedBy[o.ID] = v.ID
		if o.Quantity != nil {
			qty += *o.Quantity
		}
	}
	if v.Capacity != nil && qty > *v.Capacity {
		return fmt.Errorf("invariant: vehicle %s carries quantity %d exceeding capacity %d", v.ID, qty, *v.Capacity)
	}

	if err := checkVisitTimeOrdering(v.ID, v.PreviousVisit); err != nil {
		return err
	}
	if err := checkVisitTimeOrdering(v.ID, v.CurrentVisit); err != nil {
		return err
	}
	for _, visit := range v.NextVisits {
		if err := checkVisitTimeOrdering(v.ID, visit); err != nil {
			return err
		}
		if visit.EarliestStartTime != nil && visit.ArrivalTime != nil &&
			visit.ServiceStartTime != nil && *visit.ServiceStartTime < *visit.EarliestStartTime {
			return fmt.Errorf("invariant: vehicle %s visit at %s started service before its earliest_start_time", v.ID, visit.Location.ID)
		}
	}
	return nil
}

// checkVisitTimeOrdering enforces arrival_time <= service_start_time <=
// service_finish_time <= departure_time wherever both sides of a pair are
// set (§3, §8).
func checkVisitTimeOrdering(vehicleID string, v *Visit) error {
	if v == nil {
		return nil
	}
	pairs := []struct {
		name string
		a, b *Time
	}{
		{"arrival/service_start", v.ArrivalTime, v.ServiceStartTime},
		{"service_start/service_finish", v.ServiceStartTime, v.ServiceFinishTime},
		{"service_finish/departure", v.ServiceFinishTime, v.DepartureTime},
	}
	for _, p := range pairs {
		if p.a != nil && p.b != nil && *p.b < *p.a {
			return fmt.Errorf("invariant: vehicle %s visit at %s has %s out of order", vehicleID, v.Location.ID, p.name)
		}
	}
	return nil
}
