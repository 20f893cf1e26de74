// Model is the container for the whole simulation: locations, vehicles,
// orders, the shared Clock, and the decision coordinator's state. A single
// Model instance confines all simulation state (§9's design notes on
// global state), so multiple models may run sequentially or in separate
// OS processes without interference — grounded on the teacher's pattern of
// passing *Simulator explicitly through every Event.Execute call rather
// than relying on package-level state.

package sim

import (
	"github.com/sirupsen/logrus"
)

// RoutingCallback is the external, opaque routing algorithm (§1, §4.6). It
// must not advance simulated time; the engine treats it as a pure
// Snapshot -> Decision function.
type RoutingCallback func(*Snapshot) *Decision

// Model holds every entity in one simulation run plus the shared Clock.
type Model struct {
	Clock *Clock

	Locations map[string]*Location
	Vehicles  map[string]*Vehicle
	Orders    map[string]*Order

	CanceledOrders []string
	Aux            map[string]any

	Hooks           ModelHooks
	RoutingCallback RoutingCallback

	// decisionRequested/decisionRunning implement the coalescing routing
	// request flag (§4.6): at most one cycle runs at a time, and any
	// request raised while a cycle is running triggers exactly one more
	// cycle immediately after it completes.
	decisionRequested bool
	decisionRunning   bool
	noCallbackWarned  bool

	seq uint64

	started bool
}

// NewModel returns an empty Model with its own Clock.
func NewModel() *Model {
	return &Model{
		Clock:     NewClock(),
		Locations: map[string]*Location{},
		Vehicles:  map[string]*Vehicle{},
		Orders:    map[string]*Order{},
		Aux:       map[string]any{},
	}
}

// AddLocation registers loc. Returns a ModelError on a duplicate id.
func (m *Model) AddLocation(loc *Location) error {
	if _, exists := m.Locations[loc.ID]; exists {
		return newModelError("AddLocation", "duplicate location id %q", loc.ID)
	}
	m.Locations[loc.ID] = loc
	return nil
}

// AddVehicle registers v, validating it against ConfigError/ModelError
// constraints. Vehicles must be added before Run.
func (m *Model) AddVehicle(v *Vehicle) error {
	if _, exists := m.Vehicles[v.ID]; exists {
		return newModelError("AddVehicle", "duplicate vehicle id %q", v.ID)
	}
	if v.InitialLocation == nil {
		return newModelError("AddVehicle", "vehicle %q has no initial location", v.ID)
	}
	if _, known := m.Locations[v.InitialLocation.ID]; !known {
		return newModelError("AddVehicle", "vehicle %q initial location %q not registered", v.ID, v.InitialLocation.ID)
	}
	if v.Capacity != nil && *v.Capacity < 1 {
		return newConfigError("AddVehicle", "vehicle %q capacity must be >= 1, got %d", v.ID, *v.Capacity)
	}
	if v.Hooks == nil {
		v.Hooks = BaseHooks{}
	}
	v.model = m
	m.seq++
	v.seq = m.seq
	m.Vehicles[v.ID] = v
	return nil
}

// AddOrder registers o immediately, validating it against
// ModelError/ConfigError constraints. The order starts UNREQUESTED; call
// RequestOrder (directly, or via an order provider) to open it.
func (m *Model) AddOrder(o *Order) error {
	if _, exists := m.Orders[o.ID]; exists {
		return newModelError("AddOrder", "duplicate order id %q", o.ID)
	}
	if o.PickupLocation == nil || o.DeliveryLocation == nil {
		return newModelError("AddOrder", "order %q must have both pickup and delivery locations", o.ID)
	}
	if _, known := m.Locations[o.PickupLocation.ID]; !known {
		return newModelError("AddOrder", "order %q pickup location %q not registered", o.ID, o.PickupLocation.ID)
	}
	if _, known := m.Locations[o.DeliveryLocation.ID]; !known {
		return newModelError("AddOrder", "order %q delivery location %q not registered", o.ID, o.DeliveryLocation.ID)
	}
	if o.ReleaseDate < 0 {
		return newConfigError("AddOrder", "order %q release date must be >= 0, got %v", o.ID, o.ReleaseDate)
	}
	if o.PickupDuration < 0 || o.DeliveryDuration < 0 {
		return newConfigError("AddOrder", "order %q pickup/delivery duration must be >= 0", o.ID)
	}
	if o.Quantity != nil && *o.Quantity <= 0 {
		return newConfigError("AddOrder", "order %q quantity must be positive, got %d", o.ID, *o.Quantity)
	}
	m.seq++
	o.seq = m.seq
	m.Orders[o.ID] = o
	return nil
}

// Run starts every registered vehicle's execution loop and drains the
// event queue until no runnable process and no future event remain, or
// until the until deadline is reached (§4.1).
func (m *Model) Run(until Time) {
	if m.started {
		panic("sim: Model.Run called twice")
	}
	m.started = true
	m.Clock.StopAt(until)

	logrus.Infof("sim: starting run, horizon=%v, %d vehicle(s), %d location(s)",
		until, len(m.Vehicles), len(m.Locations))

	for _, v := range orderedVehicles(m.Vehicles) {
		m.startVehicle(v)
	}

	m.Clock.Run()

	m.warnUnfinishedOrders()
	logrus.Infof("sim: run finished at t=%v", m.Clock.Now())
}

// warnUnfinishedOrders emits a RuntimeWarning (§7) for every order that was
// accepted but never delivered, and for every order still open with no
// decision ever made on it, by the end of the horizon.
func (m *Model) warnUnfinishedOrders() {
	for _, o := range orderedOrders(m.Orders) {
		switch o.Status {
		case OrderOpen, OrderPostponed:
			logrus.Warnf("sim: order %s had no final decision by end of horizon (status=%s)", o.ID, o.Status)
		case OrderPickedUp:
			logrus.Warnf("sim: order %s was accepted and picked up but not delivered by end of horizon", o.ID)
		}
	}
}

func orderedOrders(m map[string]*Order) []*Order {
	out := make([]*Order, 0, len(m))
	for _, o := range m {
		out = append(out, o)
	}
	sortBySeq(out)
	return out
}

func sortBySeq(orders []*Order) {
	for i := 1; i < len(orders); i++ {
		for j := i; j > 0 && orders[j-1].seq > orders[j].seq; j-- {
			orders[j-1], orders[j] = orders[j], orders[j-1]
		}
	}
}

// orderedVehicles returns m's vehicles sorted by registration order, so that
// Run's startup and any other whole-model walk are deterministic regardless
// of Go's randomized map iteration (§8 determinism property).
func orderedVehicles(m map[string]*Vehicle) []*Vehicle {
	out := make([]*Vehicle, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].seq > out[j].seq; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
