package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vehicleWithCarrying(t *testing.T, loc *Location, orders ...*Order) *Vehicle {
	t.Helper()
	return &Vehicle{ID: "v1", InitialLocation: loc, Hooks: BaseHooks{}, LoadingRule: LoadingLIFO,
		Status: StatusIdle, CarryingOrders: orders}
}

func TestValidateDecision_EnRouteNextVisitMustMatchCommittedDestination(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}, Status: StatusEnRoute}
	v.enRouteDestination = &Visit{Location: b}
	require.NoError(t, m.AddVehicle(v))

	d := &Decision{Vehicles: map[string]*VehicleDecision{
		"v1": {NextVisits: []*VisitJSON{{Location: "a"}}}, // wrong location
	}}

	err := m.ValidateDecision(d)

	require.Error(t, err)
	assert.IsType(t, &DecisionError{}, err)
}

func TestValidateDecision_EnRouteCurrentVisitMustBeUnset(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}, Status: StatusEnRoute}
	v.enRouteDestination = &Visit{Location: b}
	require.NoError(t, m.AddVehicle(v))

	d := &Decision{Vehicles: map[string]*VehicleDecision{
		"v1": {CurrentVisit: &VisitJSON{Location: "a"}, NextVisits: []*VisitJSON{{Location: "b"}}},
	}}

	err := m.ValidateDecision(d)

	require.Error(t, err)
}

func TestValidateDecision_ServiceStartedCurrentVisitImmutable(t *testing.T) {
	m, a, _ := newTwoLocationModel(t)
	o := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: a}
	require.NoError(t, m.AddOrder(o))
	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}, Status: StatusUnderService}
	started := Time(1)
	v.CurrentVisit = &Visit{Location: a, PickupList: []*Order{o}, ServiceStartTime: &started}
	require.NoError(t, m.AddVehicle(v))

	d := &Decision{Vehicles: map[string]*VehicleDecision{
		"v1": {CurrentVisit: &VisitJSON{Location: "a"}}, // drops the pickup
	}}

	err := m.ValidateDecision(d)

	require.Error(t, err)
}

func TestValidateDecision_CapacityExceeded(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o1 := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(o1))
	m.RequestOrder(o1, false)

	cap := 1
	v := vehicleWithCarrying(t, a)
	v.Capacity = &cap
	require.NoError(t, m.AddVehicle(v))

	two := 2
	o1.Quantity = &two
	d := &Decision{
		Orders: map[string]*OrderDecision{"o1": {Status: DispositionAccepted}},
		Vehicles: map[string]*VehicleDecision{
			"v1": {NextVisits: []*VisitJSON{{Location: "a", PickupList: []string{"o1"}}}},
		},
	}

	err := m.ValidateDecision(d)

	require.Error(t, err)
}

func TestValidateDecision_LIFOViolationRejected(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o1 := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b}
	o2 := &Order{ID: "o2", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(o1))
	require.NoError(t, m.AddOrder(o2))
	m.RequestOrder(o1, false)
	m.RequestOrder(o2, false)

	// o1 loaded first, o2 second: LIFO requires o2 delivered before o1
	v := vehicleWithCarrying(t, b, o1, o2)
	require.NoError(t, m.AddVehicle(v))

	d := &Decision{Vehicles: map[string]*VehicleDecision{
		"v1": {NextVisits: []*VisitJSON{{Location: "b", DeliveryList: []string{"o1"}}}},
	}}

	err := m.ValidateDecision(d)

	require.Error(t, err)
}

func TestValidateDecision_LIFOAllowsInVisitReordering(t *testing.T) {
	// GIVEN a vehicle carrying o1 then o2 (o2 on top), and a decision that
	// delivers both together in a single visit, listed in the "wrong" order
	m, a, b := newTwoLocationModel(t)
	o1 := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b}
	o2 := &Order{ID: "o2", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(o1))
	require.NoError(t, m.AddOrder(o2))
	m.RequestOrder(o1, false)
	m.RequestOrder(o2, false)

	v := vehicleWithCarrying(t, b, o1, o2)
	require.NoError(t, m.AddVehicle(v))

	d := &Decision{Vehicles: map[string]*VehicleDecision{
		"v1": {NextVisits: []*VisitJSON{{Location: "b", DeliveryList: []string{"o1", "o2"}}}},
	}}

	// THEN validation succeeds: the delivered set exactly matches the top
	// of the stack, reordering within the visit is allowed
	assert.NoError(t, m.ValidateDecision(d))
}

func TestValidateDecision_CanceledOrderInRouteRejected(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(o))
	m.RequestOrder(o, false)
	m.CancelOrder(o)

	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}, Status: StatusIdle}
	require.NoError(t, m.AddVehicle(v))

	d := &Decision{Vehicles: map[string]*VehicleDecision{
		"v1": {NextVisits: []*VisitJSON{{Location: "a", PickupList: []string{"o1"}}}},
	}}

	err := m.ValidateDecision(d)

	require.Error(t, err)
}

func TestValidateDecision_PickupWithoutAcceptanceRejected(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(o))
	m.RequestOrder(o, false)

	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}, Status: StatusIdle}
	require.NoError(t, m.AddVehicle(v))

	d := &Decision{Vehicles: map[string]*VehicleDecision{
		"v1": {NextVisits: []*VisitJSON{{Location: "a", PickupList: []string{"o1"}}}},
	}}

	err := m.ValidateDecision(d)

	require.Error(t, err)
}

func TestValidateDecision_PickupWithAcceptanceSucceeds(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(o))
	m.RequestOrder(o, false)

	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}, Status: StatusIdle}
	require.NoError(t, m.AddVehicle(v))

	d := &Decision{
		Orders: map[string]*OrderDecision{"o1": {Status: DispositionAccepted}},
		Vehicles: map[string]*VehicleDecision{
			"v1": {NextVisits: []*VisitJSON{{Location: "a", PickupList: []string{"o1"}}}},
		},
	}

	assert.NoError(t, m.ValidateDecision(d))
}

func TestValidateDecision_PostponeWithoutFutureTimeRejected(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(o))
	m.RequestOrder(o, false)

	d := &Decision{Orders: map[string]*OrderDecision{"o1": {Status: DispositionPostponed}}}

	err := m.ValidateDecision(d)

	require.Error(t, err)
}
