package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDecision_AcceptsRejectsAndPostpones(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	accepted := &Order{ID: "accepted", PickupLocation: a, DeliveryLocation: b}
	rejected := &Order{ID: "rejected", PickupLocation: a, DeliveryLocation: b}
	postponed := &Order{ID: "postponed", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(accepted))
	require.NoError(t, m.AddOrder(rejected))
	require.NoError(t, m.AddOrder(postponed))
	m.RequestOrder(accepted, false)
	m.RequestOrder(rejected, false)
	m.RequestOrder(postponed, false)

	until := Time(50)
	d := &Decision{Orders: map[string]*OrderDecision{
		"accepted":  {Status: DispositionAccepted},
		"rejected":  {Status: DispositionRejected},
		"postponed": {Status: DispositionPostponed, PostponedUntil: &until},
	}}

	m.ApplyDecision(d)

	assert.Equal(t, OrderOpen, accepted.Status)
	assert.Equal(t, OrderRejected, rejected.Status)
	assert.Equal(t, OrderPostponed, postponed.Status)
	require.NotNil(t, postponed.PostponedUntil)
	assert.Equal(t, until, *postponed.PostponedUntil)
}

func TestApplyDecision_ReplacesNextVisitsAndWakesIdleVehicle(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	o := &Order{ID: "o1", PickupLocation: a, DeliveryLocation: b}
	require.NoError(t, m.AddOrder(o))
	m.RequestOrder(o, false)

	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}, Status: StatusIdle}
	require.NoError(t, m.AddVehicle(v))
	v.wakeup = NewEvent(m.Clock)
	woke := false
	v.wakeup.Await(func(any) { woke = true })

	d := &Decision{
		Orders: map[string]*OrderDecision{"o1": {Status: DispositionAccepted}},
		Vehicles: map[string]*VehicleDecision{
			"v1": {NextVisits: []*VisitJSON{{Location: "a", PickupList: []string{"o1"}}}},
		},
	}

	m.ApplyDecision(d)
	m.Clock.Run()

	require.Len(t, v.NextVisits, 1)
	assert.Equal(t, a, v.NextVisits[0].Location)
	assert.Same(t, o, v.NextVisits[0].PickupList[0])
	assert.True(t, woke)
}

func TestApplyDecision_EnRouteKeepsTailAfterCommittedDestination(t *testing.T) {
	m, a, b := newTwoLocationModel(t)
	v := &Vehicle{ID: "v1", InitialLocation: a, Hooks: BaseHooks{}, Status: StatusEnRoute}
	dest := &Visit{Location: b}
	v.enRouteDestination = dest
	require.NoError(t, m.AddVehicle(v))

	d := &Decision{Vehicles: map[string]*VehicleDecision{
		"v1": {NextVisits: []*VisitJSON{
			{Location: "b"},
			{Location: "a"},
		}},
	}}

	m.ApplyDecision(d)

	// next_visits[0] stays the committed destination itself (same object,
	// so it remains visible to a snapshot taken while still EN_ROUTE); only
	// the tail is replaced from the decision.
	require.Len(t, v.NextVisits, 2)
	assert.Same(t, dest, v.NextVisits[0])
	assert.Equal(t, a, v.NextVisits[1].Location)
}
