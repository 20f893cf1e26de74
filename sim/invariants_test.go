package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInvariants_PassesOnFreshModel(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(o))
	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}}
	require.NoError(t, m.AddVehicle(v))

	assert.NoError(t, CheckInvariants(m))
}

func TestCheckInvariants_DoubleCarriedOrderFails(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b, Status: OrderPickedUp}
	require.NoError(t, m.AddOrder(o))

	v1 := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}, CarryingOrders: []*Order{o}}
	v2 := &Vehicle{ID: "v2", InitialLocation: a, Hooks: BaseHooks{}, CarryingOrders: []*Order{o}}
	require.NoError(t, m.AddVehicle(v1))
	require.NoError(t, m.AddVehicle(v2))

	err := CheckInvariants(m)

	require.Error(t, err)
}

func TestCheckInvariants_PickedUpStatusWithoutCarrierFails(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b, Status: OrderPickedUp}
	require.NoError(t, m.AddOrder(o))

	err := CheckInvariants(m)

	require.Error(t, err)
}

func TestCheckInvariants_CapacityExceededFails(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o1 := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b, Status: OrderPickedUp}
	two := 2
	o1.Quantity = &two
	require.NoError(t, m.AddOrder(o1))

	cap := 1
	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}, Capacity: &cap, CarryingOrders: []*Order{o1}}
	require.NoError(t, m.AddVehicle(v))

	err := CheckInvariants(m)

	require.Error(t, err)
}

func TestCheckInvariants_VisitTimeOutOfOrderFails(t *testing.T) {
	m, a, _ := newTwoLocationModel(t)
	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}}
	require.NoError(t, m.AddVehicle(v))

	arrival := Time(10)
	serviceStart := Time(5) // before arrival: invalid
	v.CurrentVisit = &Visit{Location: a, ArrivalTime: &arrival, ServiceStartTime: &serviceStart}

	err := CheckInvariants(m)

	require.Error(t, err)
}
