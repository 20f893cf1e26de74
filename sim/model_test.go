package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLocation_DuplicateIDRejected(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.AddLocation(NewLocation("a")))

	err := m.AddLocation(NewLocation("a"))

	require.Error(t, err)
	assert.IsType(t, &ModelError{}, err)
}

func TestAddVehicle_UnregisteredLocationRejected(t *testing.T) {
	m := NewModel()

	err := m.AddVehicle(&Vehicle{ID: "v1", InitialLocation: NewLocation("depot")})

	require.Error(t, err)
	assert.IsType(t, &ModelError{}, err)
}

func TestAddVehicle_CapacityBelowOneRejected(t *testing.T) {
	m := NewModel()
	depot := NewLocation("depot")
	require.NoError(t, m.AddLocation(depot))
	cap := 0

	err := m.AddVehicle(&Vehicle{ID: "v1", InitialLocation: depot, Capacity: &cap})

	require.Error(t, err)
	assert.IsType(t, &ConfigError{}, err)
}

func TestAddVehicle_DefaultsHooksToBaseHooks(t *testing.T) {
	m := NewModel()
	depot := NewLocation("depot")
	require.NoError(t, m.AddLocation(depot))

	v := &Vehicle{ID: "v1", InitialLocation: depot}
	require.NoError(t, m.AddVehicle(v))

	assert.Equal(t, BaseHooks{}, v.Hooks)
}

func TestAddOrder_UnregisteredPickupLocationRejected(t *testing.T) {
	m := NewModel()
	depot := NewLocation("depot")
	require.NoError(t, m.AddLocation(depot))

	err := m.AddOrder(&Order{ID: "o1", PickupLocation: NewLocation("x"), DeliveryLocation: depot})

	require.Error(t, err)
	assert.IsType(t, &ModelError{}, err)
}

func TestAddOrder_NonPositiveQuantityRejected(t *testing.T) {
	m := NewModel()
	a := NewLocation("a")
	b := NewLocation("b")
	require.NoError(t, m.AddLocation(a))
	require.NoError(t, m.AddLocation(b))
	qty := 0

	err := m.AddOrder(&Order{ID: "o1", PickupLocation: a, DeliveryLocation: b, Quantity: &qty})

	require.Error(t, err)
	assert.IsType(t, &ConfigError{}, err)
}

func TestRun_PanicsOnSecondCall(t *testing.T) {
	m := NewModel()
	m.Run(0)

	assert.Panics(t, func() { m.Run(0) })
}
