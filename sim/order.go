package sim

// OrderStatus is the derived lifecycle state of an Order (§3).
type OrderStatus int

const (
	OrderUnrequested OrderStatus = iota
	OrderOpen
	OrderPostponed
	OrderRejected
	OrderCanceled
	OrderPickedUp
	OrderDelivered
)

// String renders the status using the JSON schema's spelling (§6).
func (s OrderStatus) String() string {
	switch s {
	case OrderUnrequested:
		return "UNREQUESTED"
	case OrderOpen:
		return "OPEN"
	case OrderPostponed:
		return "POSTPONED"
	case OrderRejected:
		return "REJECTED"
	case OrderCanceled:
		return "CANCELED"
	case OrderPickedUp:
		return "PICKED_UP"
	case OrderDelivered:
		return "DELIVERED"
	default:
		return "UNKNOWN"
	}
}

// Order models a single pickup-and-delivery request (§3). Pointer fields
// that are optional in the spec (DueDate, time windows, Quantity,
// PostponedUntil, PickupTime, DeliveryTime) are nil when unset.
type Order struct {
	ID               string
	PickupLocation   *Location
	DeliveryLocation *Location

	ReleaseDate Time
	DueDate     *Time

	EarliestServiceStartPickup   *Time
	LatestServiceStartPickup     *Time
	EarliestServiceStartDelivery *Time
	LatestServiceStartDelivery   *Time

	PickupDuration   Time
	DeliveryDuration Time
	Quantity         *int

	Status          OrderStatus
	AssignedVehicle *Vehicle
	PickupTime      *Time
	DeliveryTime    *Time
	PostponedUntil  *Time

	seq uint64 // registration order; orders the end-of-run warnings deterministically
}

// IsOpen reports whether the order can still be targeted by a decision
// (requested, not yet finalized).
func (o *Order) IsOpen() bool {
	return o.Status == OrderOpen || o.Status == OrderPostponed
}

// IsFinalized reports whether the order has reached a terminal state.
func (o *Order) IsFinalized() bool {
	switch o.Status {
	case OrderRejected, OrderCanceled, OrderDelivered:
		return true
	default:
		return false
	}
}
