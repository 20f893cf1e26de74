package sim

// Location is an immutable point of interest in the model: a depot, a
// customer address, or any other place a vehicle can visit. Locations are
// created before Run and never change identity or coordinates thereafter.
type Location struct {
	ID string

	// X, Y are optional coordinates; the engine never interprets them —
	// travel_time/travel_distance are caller-supplied (Hooks), per §1's
	// scope exclusion of distance formulas.
	X, Y float64
	HasCoords bool

	// Resource serializes service at this location when non-nil (e.g. a
	// loading dock with finite capacity). Nil means unlimited concurrent
	// service.
	Resource *Resource
}

// NewLocation returns a Location with no resource and no coordinates.
func NewLocation(id string) *Location {
	return &Location{ID: id}
}

// WithCoords sets optional coordinates and returns the receiver for chaining.
func (l *Location) WithCoords(x, y float64) *Location {
	l.X, l.Y, l.HasCoords = x, y, true
	return l
}

// WithResource attaches a counted-semaphore resource of the given capacity
// and returns the receiver for chaining. Panics via NewResource if
// capacity < 1.
func (l *Location) WithResource(capacity int) *Location {
	l.Resource = NewResource(capacity)
	return l
}
