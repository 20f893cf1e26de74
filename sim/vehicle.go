package sim

// VehicleStatus is the vehicle's dynamic execution state (§3).
type VehicleStatus int

const (
	StatusEnRoute VehicleStatus = iota
	StatusWaitingForService
	StatusUnderService
	StatusIdle
)

func (s VehicleStatus) String() string {
	switch s {
	case StatusEnRoute:
		return "EN_ROUTE"
	case StatusWaitingForService:
		return "WAITING_FOR_SERVICE"
	case StatusUnderService:
		return "UNDER_SERVICE"
	case StatusIdle:
		return "IDLE"
	default:
		return "UNKNOWN"
	}
}

// LoadingRule constrains the order in which carried orders may be
// delivered relative to their pickup order (§3).
type LoadingRule int

const (
	LoadingFree LoadingRule = iota
	LoadingLIFO
)

// Vehicle is a single vehicle's identity, configuration, and dynamic
// execution state. Each Vehicle runs an independent state machine driven
// by Clock wake-ups (vehicle_engine.go); between those wake-ups it is
// immutable except through the decision coordinator's atomic apply.
type Vehicle struct {
	ID              string
	InitialLocation *Location
	Capacity        *int
	LoadingRule     LoadingRule
	Hooks           Hooks

	Status         VehicleStatus
	PreviousVisit  *Visit
	CurrentVisit   *Visit
	NextVisits     []*Visit
	CarryingOrders []*Order

	model *Model

	wakeup          *Event
	activeInterrupt *InterruptibleTimer

	// enRouteDestination is the committed visit being traveled toward
	// while Status == StatusEnRoute; nil otherwise. Recorded so the
	// decision validator can enforce that next_visits[0] is unchanged
	// for an in-flight vehicle (§4.6 step 4).
	enRouteDestination *Visit

	seq uint64
}

// Model returns the Model this vehicle is registered with, for use by Hooks
// implementations that need to call RequestForRouting or read other state.
func (v *Vehicle) Model() *Model { return v.model }

// CarriedQuantity returns the sum of Quantity across CarryingOrders,
// treating unspecified quantities as 0.
func (v *Vehicle) CarriedQuantity() int {
	total := 0
	for _, o := range v.CarryingOrders {
		if o.Quantity != nil {
			total += *o.Quantity
		}
	}
	return total
}

func (v *Vehicle) removeCarrying(o *Order) {
	for i, c := range v.CarryingOrders {
		if c == o {
			v.CarryingOrders = append(v.CarryingOrders[:i], v.CarryingOrders[i+1:]...)
			return
		}
	}
}

// setActiveInterrupt records the vehicle's current interruptible
// suspension, if any, so the decision coordinator can interrupt it during
// quiesce (§4.6 step 1).
func (v *Vehicle) setActiveInterrupt(it *InterruptibleTimer) { v.activeInterrupt = it }
func (v *Vehicle) clearActiveInterrupt()                     { v.activeInterrupt = nil }

// interrupt cancels and immediately resumes the vehicle's active
// interruptible suspension, if one is pending. No-op otherwise.
func (v *Vehicle) interrupt() {
	if v.activeInterrupt == nil {
		return
	}
	it := v.activeInterrupt
	v.activeInterrupt = nil
	it.Interrupt(v.model.Clock)
}
