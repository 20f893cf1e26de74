package sim

// Decision is the external routing callback's reply to a Snapshot (§6).
// A vehicle id missing from Vehicles, or present with a nil value (JSON
// null), means "no change" for that vehicle. An order missing from Orders
// means no disposition was made this cycle.
type Decision struct {
	Vehicles map[string]*VehicleDecision `json:"vehicles,omitempty"`
	Orders   map[string]*OrderDecision   `json:"orders,omitempty"`
}

// VehicleDecision replaces a vehicle's tentative route. Once the vehicle's
// current visit has started service, CurrentVisit must name the same
// location and the same pickup/delivery orders, or the coordinator rejects
// the whole decision (§4.6 step 4).
type VehicleDecision struct {
	CurrentVisit *VisitJSON   `json:"current_visit"`
	NextVisits   []*VisitJSON `json:"next_visits"`
}

// OrderDisposition is the accept/reject/postpone outcome for one order.
type OrderDisposition string

const (
	DispositionAccepted  OrderDisposition = "accepted"
	DispositionRejected  OrderDisposition = "rejected"
	DispositionPostponed OrderDisposition = "postponed"
)

// OrderDecision is the disposition assigned to one order this cycle.
type OrderDecision struct {
	Status         OrderDisposition `json:"status"`
	PostponedUntil *Time            `json:"postponed_until,omitempty"`
}

// NewRejectAllDecision returns a Decision that rejects every OPEN or
// POSTPONED order in s (PICKED_UP orders are left alone) and changes no
// vehicle — the default behavior when no routing callback is
// configured (§8 scenario 1, §7 RuntimeWarning).
func NewRejectAllDecision(s *Snapshot) *Decision {
	d := &Decision{Orders: map[string]*OrderDecision{}}
	for id, o := range s.OpenOrders {
		if o.Status == "OPEN" || o.Status == "POSTPONED" {
			d.Orders[id] = &OrderDecision{Status: DispositionRejected}
		}
	}
	return d
}
