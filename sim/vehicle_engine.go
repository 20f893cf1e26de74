// The per-vehicle execution state machine (§4.4). Re-expressed, per §9's
// design notes, as an explicit continuation-passing state machine rather
// than a coroutine: each step schedules the next one through the Clock and
// returns. This mirrors the teacher's single-threaded Execute(sim)
// dispatch style (sim/cluster/instance.go), generalized from one inference
// step to a full travel/arrival/service/departure cycle.

package sim

// startVehicle brings a vehicle to its initial IDLE state at
// InitialLocation and enters the execution loop (§4.4: "Initial state:
// IDLE at initial_location with current_visit = Visit(...)").
func (m *Model) startVehicle(v *Vehicle) {
	v.Status = StatusIdle
	start := NewVisit(v.InitialLocation)
	zero := Time(0)
	start.ArrivalTime = &zero
	v.CurrentVisit = start
	m.vehicleLoop(v)
}

// vehicleLoop implements §4.4 step 1: if NextVisits is empty, block on the
// vehicle's wakeup Event; otherwise commit to the head visit.
func (m *Model) vehicleLoop(v *Vehicle) {
	if len(v.NextVisits) == 0 {
		v.Status = StatusIdle
		v.wakeup = NewEvent(m.Clock)
		v.wakeup.Await(func(any) { m.vehicleLoop(v) })
		return
	}

	next := v.NextVisits[0]
	alreadyThere := v.CurrentVisit != nil && v.CurrentVisit.Location == next.Location
	if alreadyThere && next.EarliestStartTime != nil && *next.EarliestStartTime > m.Clock.Now() {
		// §4.4 step 7 continuation: the vehicle is already at the next
		// visit's location, so it idle-waits in place for the earliest
		// start rather than committing to a (non-interruptible) travel
		// leg early. Interruptible: a decision may rewrite NextVisits
		// while waiting. When travel is required, the engine departs
		// immediately and lets the post-arrival wait (waitEarliestStart)
		// absorb any remaining earliest-start gap instead, so travel is
		// never delayed by a bound at the destination.
		v.Status = StatusIdle
		it := m.Clock.MediumTimeout(*next.EarliestStartTime-m.Clock.Now(), func(interrupted bool) {
			v.clearActiveInterrupt()
			m.vehicleLoop(v)
		})
		v.setActiveInterrupt(it)
		return
	}

	m.commitDeparture(v, next)
}

// commitDeparture implements §4.4 step 2: the visit at next_visits[0] is now
// committed. It stays at next_visits[0] (not popped) for the duration of the
// trip, so a snapshot taken mid-travel still shows the committed destination
// where the decision coordinator expects it (§3: current_visit is null while
// EN_ROUTE, so next_visits is the only place the destination can live);
// vehicleArrive pops it once the vehicle actually gets there. The vehicle is
// EN_ROUTE for the duration of travel, which is non-interruptible.
func (m *Model) commitDeparture(v *Vehicle, next *Visit) {
	prev := v.CurrentVisit
	v.PreviousVisit = prev
	v.CurrentVisit = nil
	v.Status = StatusEnRoute
	v.enRouteDestination = next

	now := m.Clock.Now()
	if prev != nil {
		prev.DepartureTime = &now
	}

	arrive := func() { m.vehicleArrive(v, next) }

	if prev != nil && prev.Location == next.Location {
		m.Clock.Timeout(0, arrive)
		return
	}
	var travelTime Time
	if prev != nil {
		travelTime = v.Hooks.TravelTime(prev.Location, next.Location)
	} else {
		travelTime = v.Hooks.TravelTime(v.InitialLocation, next.Location)
	}
	m.Clock.Timeout(travelTime, arrive)
}

// vehicleArrive implements the remainder of §4.4 step 2: on wake, the
// vehicle has arrived.
func (m *Model) vehicleArrive(v *Vehicle, visit *Visit) {
	now := m.Clock.Now()
	visit.ArrivalTime = &now
	v.CurrentVisit = visit
	v.enRouteDestination = nil
	if len(v.NextVisits) > 0 && v.NextVisits[0] == visit {
		v.NextVisits = v.NextVisits[1:]
	}
	v.Status = StatusWaitingForService
	v.Hooks.OnArrival(v)
	m.callModelHook(func(h ModelHooks) { h.OnArrival(v) })

	m.requestLocationResource(v, visit)
}

// requestLocationResource implements §4.4 step 3.
func (m *Model) requestLocationResource(v *Vehicle, visit *Visit) {
	if visit.Location.Resource == nil {
		m.waitEarliestStart(v, visit)
		return
	}
	visit.Location.Resource.Request(func(h *Handle) {
		visit.resourceHandle = h
		m.waitEarliestStart(v, visit)
	})
}

// waitEarliestStart implements §4.4 step 4: an interruptible wait for the
// visit's earliest start time, re-evaluated after any interruption so a
// decision that rewrote this visit is observed immediately.
func (m *Model) waitEarliestStart(v *Vehicle, visit *Visit) {
	now := m.Clock.Now()
	if visit.EarliestStartTime == nil || *visit.EarliestStartTime <= now {
		m.enterService(v, visit)
		return
	}
	it := m.Clock.MediumTimeout(*visit.EarliestStartTime-now, func(interrupted bool) {
		v.clearActiveInterrupt()
		m.waitEarliestStart(v, visit)
	})
	v.setActiveInterrupt(it)
}

// enterService implements §4.4 step 5: transition to UNDER_SERVICE, run the
// pre-service hook, then the service procedure.
func (m *Model) enterService(v *Vehicle, visit *Visit) {
	now := m.Clock.Now()
	visit.ServiceStartTime = &now
	v.Status = StatusUnderService
	v.Hooks.OnServiceStart(v)
	m.callModelHook(func(h ModelHooks) { h.OnServiceStart(v) })

	v.Hooks.PreService(v, func() {
		v.Hooks.Service(v, func() { m.finishService(v, visit) })
	})
}

// completeDelivery marks o delivered and removes it from the carrying list
// (§4.4 step 5a).
func (v *Vehicle) completeDelivery(o *Order) {
	now := v.model.Clock.Now()
	o.DeliveryTime = &now
	o.Status = OrderDelivered
	v.removeCarrying(o)
}

// completePickup marks o picked up, assigns it to this vehicle, and appends
// it to the carrying list (§4.4 step 5a; LIFO order is the push order).
func (v *Vehicle) completePickup(o *Order) {
	now := v.model.Clock.Now()
	o.PickupTime = &now
	o.Status = OrderPickedUp
	o.AssignedVehicle = v
	v.CarryingOrders = append(v.CarryingOrders, o)
}

// finishService implements §4.4 step 6.
func (m *Model) finishService(v *Vehicle, visit *Visit) {
	now := m.Clock.Now()
	visit.ServiceFinishTime = &now
	if visit.resourceHandle != nil {
		visit.Location.Resource.Release(visit.resourceHandle)
		visit.resourceHandle = nil
	}
	v.Hooks.OnServiceFinish(v)
	m.callModelHook(func(h ModelHooks) { h.OnServiceFinish(v) })

	m.goIdle(v)
}

// goIdle implements §4.4 step 7.
func (m *Model) goIdle(v *Vehicle) {
	v.Status = StatusIdle
	v.Hooks.OnIdle(v)
	m.callModelHook(func(h ModelHooks) { h.OnIdle(v) })

	m.vehicleLoop(v)
}

func (m *Model) callModelHook(call func(h ModelHooks)) {
	if m.Hooks != nil {
		call(m.Hooks)
	}
}
