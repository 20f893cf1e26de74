// Observable hooks (§4.5). The engine calls only this fixed, enumerated set
// of capability methods — a Go-native replacement for the reference
// system's duck-typed dynamic callbacks (§9's design notes). BaseHooks
// supplies the no-op/default-contract implementation of every method so a
// caller can embed it and override only what it needs.

package sim

// Hooks is the per-vehicle capability interface. Implementations may
// suspend inside PreService and Service (they receive a done callback to
// invoke when finished); the other hooks must return without suspending.
type Hooks interface {
	// TravelTime returns the simulated duration to travel from origin to
	// destination. Distance formulas are an external concern (§1); the
	// engine treats this as opaque.
	TravelTime(origin, destination *Location) Time

	// TravelDistance returns a caller-defined distance metric, unused by
	// the engine itself but available to hooks and routing callbacks via
	// the vehicle reference.
	TravelDistance(origin, destination *Location) float64

	OnArrival(v *Vehicle)
	OnServiceStart(v *Vehicle)
	OnServiceFinish(v *Vehicle)
	OnIdle(v *Vehicle)

	// PreService runs after the vehicle transitions to UNDER_SERVICE and
	// before the service procedure executes; it may suspend and must call
	// done() exactly once when finished.
	PreService(v *Vehicle, done func())

	// Service implements the service procedure itself (§4.4 step 5).
	// BaseHooks.Service is the default contract: unload, then load, each
	// order waiting its configured duration. An override replaces the
	// contract entirely but must call done() exactly once when finished.
	Service(v *Vehicle, done func())
}

// BaseHooks is the default, no-op implementation of Hooks; embed it and
// override individual methods as needed.
type BaseHooks struct{}

func (BaseHooks) TravelTime(_, _ *Location) Time           { return 0 }
func (BaseHooks) TravelDistance(_, _ *Location) float64    { return 0 }
func (BaseHooks) OnArrival(_ *Vehicle)                     {}
func (BaseHooks) OnServiceStart(_ *Vehicle)                {}
func (BaseHooks) OnServiceFinish(_ *Vehicle)                {}
func (BaseHooks) OnIdle(_ *Vehicle)                         {}
func (BaseHooks) PreService(_ *Vehicle, done func())        { done() }

// Service is the default service procedure: unload first, then load (§4.4
// step 5a). Each order waits its configured PickupDuration/DeliveryDuration
// before the corresponding state transition fires.
func (BaseHooks) Service(v *Vehicle, done func()) {
	visit := v.CurrentVisit
	deliveries := append([]*Order(nil), visit.DeliveryList...)
	pickups := append([]*Order(nil), visit.PickupList...)

	var step func()
	step = func() {
		if len(deliveries) > 0 {
			o := deliveries[0]
			deliveries = deliveries[1:]
			v.model.Clock.Timeout(o.DeliveryDuration, func() {
				v.completeDelivery(o)
				step()
			})
			return
		}
		if len(pickups) > 0 {
			o := pickups[0]
			pickups = pickups[1:]
			v.model.Clock.Timeout(o.PickupDuration, func() {
				v.completePickup(o)
				step()
			})
			return
		}
		done()
	}
	step()
}

// ModelHooks mirrors the vehicle hooks at the model level, plus
// OnOrderRequest (§4.5).
type ModelHooks interface {
	OnOrderRequest(o *Order)
	OnArrival(v *Vehicle)
	OnServiceStart(v *Vehicle)
	OnServiceFinish(v *Vehicle)
	OnIdle(v *Vehicle)
}

// BaseModelHooks is the no-op default; embed and override as needed.
type BaseModelHooks struct{}

func (BaseModelHooks) OnOrderRequest(_ *Order)   {}
func (BaseModelHooks) OnArrival(_ *Vehicle)      {}
func (BaseModelHooks) OnServiceStart(_ *Vehicle) {}
func (BaseModelHooks) OnServiceFinish(_ *Vehicle) {}
func (BaseModelHooks) OnIdle(_ *Vehicle)          {}
