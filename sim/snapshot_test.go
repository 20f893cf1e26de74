package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnapshot_IncludesOpenPostponedAndPickedUpOrders(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	open := &Order{ID: "open", PickupLocation: a, DeliveryLocation: b}
	postponed := &Order{ID: "postponed", PickupLocation: a, DeliveryLocation: b}
	pickedUp := &Order{ID: "picked", PickupLocation: a, DeliveryLocation: b}
	delivered := &Order{ID: "delivered", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(open))
	require.NoError(t, m.AddOrder(postponed))
	require.NoError(t, m.AddOrder(pickedUp))
	require.NoError(t, m.AddOrder(delivered))
	m.RequestOrder(open, false)
	m.RequestOrder(postponed, false)
	m.PostponeOrder(postponed, 100)
	pickedUp.Status = OrderPickedUp
	delivered.Status = OrderDelivered

	s := m.BuildSnapshot()

	assert.Contains(t, s.OpenOrders, "open")
	assert.Contains(t, s.OpenOrders, "postponed")
	assert.Contains(t, s.OpenOrders, "picked")
	assert.NotContains(t, s.OpenOrders, "delivered")
}

func TestBuildSnapshot_RoundTripsThroughJSON(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(o))
	m.RequestOrder(o, false)

	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{},
		NextVisits: []*Visit{{Location: b, PickupList: []*Order{o}}}}
	require.NoError(t, m.AddVehicle(v))

	s := m.BuildSnapshot()
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, s.Time, decoded.Time)
	require.Contains(t, decoded.Vehicles, "v1")
	require.Len(t, decoded.Vehicles["v1"].NextVisits, 1)
	assert.Equal(t, "b", decoded.Vehicles["v1"].NextVisits[0].Location)
	assert.Equal(t, []string{"o1"}, decoded.Vehicles["v1"].NextVisits[0].PickupList)
}

func TestBuildSnapshot_CanceledOrdersListed(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(o))
	m.RequestOrder(o, false)
	m.CancelOrder(o)

	s := m.BuildSnapshot()

	assert.Equal(t, []string{"o1"}, s.CanceledOrders)
	assert.NotContains(t, s.OpenOrders, "o1")
}
