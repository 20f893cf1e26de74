package sim

// Visit is an atomic stop at a Location with pickup and delivery lists.
// Times are set once, on the transition they correspond to (§3).
type Visit struct {
	Location *Location

	PickupList   []*Order
	DeliveryList []*Order

	EarliestStartTime *Time

	ArrivalTime       *Time
	ServiceStartTime  *Time
	ServiceFinishTime *Time
	DepartureTime     *Time

	resourceHandle *Handle // held while UNDER_SERVICE at a resource-bearing location
}

// NewVisit returns an empty Visit at loc with no pickups or deliveries.
func NewVisit(loc *Location) *Visit {
	return &Visit{Location: loc}
}

// clone returns a shallow copy of v with its own pickup/delivery slices,
// used by CancelOrder's scrub so the edited visit is a copy, not the original.
func (v *Visit) clone() *Visit {
	cp := *v
	cp.PickupList = append([]*Order(nil), v.PickupList...)
	cp.DeliveryList = append([]*Order(nil), v.DeliveryList...)
	return &cp
}

func containsOrder(list []*Order, o *Order) bool {
	for _, x := range list {
		if x == o {
			return true
		}
	}
	return false
}
