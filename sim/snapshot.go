// State serialization (§6): the language-neutral JSON schema a routing
// callback consumes. Grounded on the teacher's RoutingSnapshot (a
// lightweight JSON-friendly view built from live state, sim/routing.go)
// and its encoding/json usage in cmd/observe.go.

package sim

// VisitJSON is the wire shape of a Visit, shared by Snapshot (output) and
// Decision (input). Empty lists are omitted, matching §6.
type VisitJSON struct {
	Location          string   `json:"location"`
	PickupList        []string `json:"pickup_list,omitempty"`
	DeliveryList      []string `json:"delivery_list,omitempty"`
	EarliestStartTime *Time    `json:"earliest_start_time,omitempty"`
	ArrivalTime       *Time    `json:"arrival_time,omitempty"`
	ServiceStartTime  *Time    `json:"service_start_time,omitempty"`
	ServiceFinishTime *Time    `json:"service_finish_time,omitempty"`
	DepartureTime     *Time    `json:"departure_time,omitempty"`
}

// VehicleState is the snapshot view of one vehicle (§6).
type VehicleState struct {
	Status         string       `json:"status"`
	PreviousVisit  *VisitJSON   `json:"previous_visit"`
	CurrentVisit   *VisitJSON   `json:"current_visit"`
	NextVisits     []*VisitJSON `json:"next_visits"`
	CarryingOrders []string     `json:"carrying_orders"`
}

// OrderState is the snapshot view of one non-finalized order (§6). Included
// in Snapshot.OpenOrders for every order with status OPEN, POSTPONED, or
// PICKED_UP — i.e. every order that is neither UNREQUESTED, REJECTED,
// CANCELED, nor DELIVERED.
type OrderState struct {
	ID               string `json:"id"`
	PickupLocation   string `json:"pickup_location"`
	DeliveryLocation string `json:"delivery_location"`

	ReleaseDate Time  `json:"release_date"`
	DueDate     *Time `json:"due_date,omitempty"`

	EarliestServiceStartPickup   *Time `json:"earliest_service_start_pickup,omitempty"`
	LatestServiceStartPickup     *Time `json:"latest_service_start_pickup,omitempty"`
	EarliestServiceStartDelivery *Time `json:"earliest_service_start_delivery,omitempty"`
	LatestServiceStartDelivery   *Time `json:"latest_service_start_delivery,omitempty"`

	Quantity        *int    `json:"quantity,omitempty"`
	AssignedVehicle *string `json:"assigned_vehicle,omitempty"`
	PickupTime      *Time   `json:"pickup_time,omitempty"`
	PickupVehicle   *string `json:"pickup_vehicle,omitempty"`
	Status          string  `json:"status"`
}

// Snapshot is the frozen, JSON-serializable view of the model at a decision
// point (§4.6 step 2, §6).
type Snapshot struct {
	Time           Time                     `json:"time"`
	Vehicles       map[string]*VehicleState `json:"vehicles"`
	OpenOrders     map[string]*OrderState   `json:"open_orders"`
	CanceledOrders []string                 `json:"canceled_orders,omitempty"`
	Aux            map[string]any           `json:"aux,omitempty"`
}

func visitToJSON(v *Visit) *VisitJSON {
	if v == nil {
		return nil
	}
	return &VisitJSON{
		Location:          v.Location.ID,
		PickupList:        orderIDs(v.PickupList),
		DeliveryList:      orderIDs(v.DeliveryList),
		EarliestStartTime: v.EarliestStartTime,
		ArrivalTime:       v.ArrivalTime,
		ServiceStartTime:  v.ServiceStartTime,
		ServiceFinishTime: v.ServiceFinishTime,
		DepartureTime:     v.DepartureTime,
	}
}

func orderIDs(orders []*Order) []string {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

func visitsToJSON(visits []*Visit) []*VisitJSON {
	out := make([]*VisitJSON, len(visits))
	for i, v := range visits {
		out[i] = visitToJSON(v)
	}
	return out
}

// BuildSnapshot freezes the current model state into a Snapshot (§4.6 step 2).
func (m *Model) BuildSnapshot() *Snapshot {
	s := &Snapshot{
		Time:           m.Clock.Now(),
		Vehicles:       map[string]*VehicleState{},
		OpenOrders:     map[string]*OrderState{},
		CanceledOrders: append([]string(nil), m.CanceledOrders...),
		Aux:            m.Aux,
	}

	for id, v := range m.Vehicles {
		s.Vehicles[id] = &VehicleState{
			Status:         v.Status.String(),
			PreviousVisit:  visitToJSON(v.PreviousVisit),
			CurrentVisit:   visitToJSON(v.CurrentVisit),
			NextVisits:     visitsToJSON(v.NextVisits),
			CarryingOrders: orderIDs(v.CarryingOrders),
		}
	}

	for id, o := range m.Orders {
		if o.Status != OrderOpen && o.Status != OrderPostponed && o.Status != OrderPickedUp {
			continue
		}
		var assigned, pickupVehicle *string
		if o.AssignedVehicle != nil {
			id := o.AssignedVehicle.ID
			assigned = &id
			pickupVehicle = &id
		}
		s.OpenOrders[id] = &OrderState{
			ID:                           o.ID,
			PickupLocation:               o.PickupLocation.ID,
			DeliveryLocation:             o.DeliveryLocation.ID,
			ReleaseDate:                  o.ReleaseDate,
			DueDate:                      o.DueDate,
			EarliestServiceStartPickup:   o.EarliestServiceStartPickup,
			LatestServiceStartPickup:     o.LatestServiceStartPickup,
			EarliestServiceStartDelivery: o.EarliestServiceStartDelivery,
			LatestServiceStartDelivery:   o.LatestServiceStartDelivery,
			Quantity:                     o.Quantity,
			AssignedVehicle:              assigned,
			PickupTime:                   o.PickupTime,
			PickupVehicle:                pickupVehicle,
			Status:                       o.Status.String(),
		}
	}

	return s
}
