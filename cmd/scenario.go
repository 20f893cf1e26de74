// Scenario loading: a YAML harness description translated into sim.Model
// registrations. This is ambient tooling for running the engine from the
// command line, not part of the core model (§6 scopes wire formats to the
// decision-point JSON only). Grounded on the teacher's YAML config loaders
// (cmd/hfconfig.go, cmd/workload_config.go) and its use of gopkg.in/yaml.v3.

package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	sim "github.com/dvrpsim/dvrpsim/sim"
)

// ScenarioConfig is the top-level YAML document read by "dvrpsim run".
type ScenarioConfig struct {
	Horizon sim.Time `yaml:"horizon"`

	Locations []LocationConfig `yaml:"locations"`
	Vehicles  []VehicleConfig  `yaml:"vehicles"`
	Orders    []OrderConfig    `yaml:"orders"`

	// VehicleSpeed converts Euclidean distance between located coordinates
	// into travel time (distance / speed). Ignored for legs between
	// locations that lack coordinates, which take zero travel time.
	VehicleSpeed float64 `yaml:"vehicle_speed"`

	DecisionPointOnRequest bool `yaml:"decision_point_on_request"`

	// PeriodicUpdatePeriod, if > 0, starts a periodic routing-request
	// timer in addition to any order-triggered ones (§4.7).
	PeriodicUpdatePeriod       sim.Time `yaml:"periodic_update_period"`
	StopPeriodicAfterFinalized bool     `yaml:"stop_periodic_after_finalized"`
}

// LocationConfig describes one sim.Location.
type LocationConfig struct {
	ID       string  `yaml:"id"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	HasCoord bool    `yaml:"-"`
	Capacity *int    `yaml:"capacity"`
}

// UnmarshalYAML tracks whether x/y were present so we don't silently treat
// an omitted coordinate pair as (0, 0) with coordinates.
func (l *LocationConfig) UnmarshalYAML(unmarshal func(any) error) error {
	type raw struct {
		ID       string   `yaml:"id"`
		X        *float64 `yaml:"x"`
		Y        *float64 `yaml:"y"`
		Capacity *int     `yaml:"capacity"`
	}
	var r raw
	if err := unmarshal(&r); err != nil {
		return err
	}
	l.ID = r.ID
	l.Capacity = r.Capacity
	if r.X != nil && r.Y != nil {
		l.X, l.Y, l.HasCoord = *r.X, *r.Y, true
	}
	return nil
}

// VehicleConfig describes one sim.Vehicle.
type VehicleConfig struct {
	ID              string `yaml:"id"`
	InitialLocation string `yaml:"initial_location"`
	Capacity        *int   `yaml:"capacity"`
	LoadingRule     string `yaml:"loading_rule"` // "free" (default) or "lifo"
}

// OrderConfig describes one sim.Order. ID is generated via uuid if omitted.
type OrderConfig struct {
	ID               string `yaml:"id"`
	PickupLocation   string `yaml:"pickup_location"`
	DeliveryLocation string `yaml:"delivery_location"`

	ReleaseDate sim.Time  `yaml:"release_date"`
	DueDate     *sim.Time `yaml:"due_date"`

	EarliestServiceStartPickup   *sim.Time `yaml:"earliest_service_start_pickup"`
	LatestServiceStartPickup     *sim.Time `yaml:"latest_service_start_pickup"`
	EarliestServiceStartDelivery *sim.Time `yaml:"earliest_service_start_delivery"`
	LatestServiceStartDelivery   *sim.Time `yaml:"latest_service_start_delivery"`

	PickupDuration   sim.Time `yaml:"pickup_duration"`
	DeliveryDuration sim.Time `yaml:"delivery_duration"`
	Quantity         *int     `yaml:"quantity"`
}

// LoadScenarioConfig reads and parses a scenario YAML file.
func LoadScenarioConfig(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %q: %w", path, err)
	}
	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario file %q: %w", path, err)
	}
	return &cfg, nil
}

// Build registers every location, vehicle, and order from cfg into a fresh
// Model and starts the order provider and (if configured) the periodic
// updater. The model is returned unstarted; call Run on it.
func (cfg *ScenarioConfig) Build() (*sim.Model, error) {
	m := sim.NewModel()

	for _, lc := range cfg.Locations {
		loc := sim.NewLocation(lc.ID)
		if lc.HasCoord {
			loc.WithCoords(lc.X, lc.Y)
		}
		if lc.Capacity != nil {
			loc.WithResource(*lc.Capacity)
		}
		if err := m.AddLocation(loc); err != nil {
			return nil, err
		}
	}

	hooks := &EuclideanHooks{Speed: cfg.VehicleSpeed}

	for _, vc := range cfg.Vehicles {
		loc, ok := m.Locations[vc.InitialLocation]
		if !ok {
			return nil, fmt.Errorf("vehicle %q: unknown initial_location %q", vc.ID, vc.InitialLocation)
		}
		v := &sim.Vehicle{
			ID:              vc.ID,
			InitialLocation: loc,
			Capacity:        vc.Capacity,
			Hooks:           hooks,
		}
		if vc.LoadingRule == "lifo" {
			v.LoadingRule = sim.LoadingLIFO
		}
		if err := m.AddVehicle(v); err != nil {
			return nil, err
		}
	}

	orders := make([]*sim.Order, 0, len(cfg.Orders))
	for _, oc := range cfg.Orders {
		id := oc.ID
		if id == "" {
			id = uuid.NewString()
		}
		pickup, ok := m.Locations[oc.PickupLocation]
		if !ok {
			return nil, fmt.Errorf("order %q: unknown pickup_location %q", id, oc.PickupLocation)
		}
		delivery, ok := m.Locations[oc.DeliveryLocation]
		if !ok {
			return nil, fmt.Errorf("order %q: unknown delivery_location %q", id, oc.DeliveryLocation)
		}
		orders = append(orders, &sim.Order{
			ID:                           id,
			PickupLocation:               pickup,
			DeliveryLocation:             delivery,
			ReleaseDate:                  oc.ReleaseDate,
			DueDate:                      oc.DueDate,
			EarliestServiceStartPickup:   oc.EarliestServiceStartPickup,
			LatestServiceStartPickup:     oc.LatestServiceStartPickup,
			EarliestServiceStartDelivery: oc.EarliestServiceStartDelivery,
			LatestServiceStartDelivery:   oc.LatestServiceStartDelivery,
			PickupDuration:               oc.PickupDuration,
			DeliveryDuration:             oc.DeliveryDuration,
			Quantity:                     oc.Quantity,
		})
	}

	if err := m.AddOrderProvider(orders, cfg.DecisionPointOnRequest); err != nil {
		return nil, err
	}
	if cfg.PeriodicUpdatePeriod > 0 {
		m.StartPeriodicUpdater(cfg.PeriodicUpdatePeriod, cfg.StopPeriodicAfterFinalized)
	}

	return m, nil
}

// EuclideanHooks is the default Hooks implementation for the CLI harness:
// travel time is Euclidean distance divided by Speed, or zero between
// locations that lack coordinates. Embeds BaseHooks for the service
// procedure and observable-event no-ops (§4.5).
type EuclideanHooks struct {
	sim.BaseHooks
	Speed float64
}

func (h *EuclideanHooks) TravelDistance(origin, destination *sim.Location) float64 {
	if !origin.HasCoords || !destination.HasCoords {
		return 0
	}
	dx := origin.X - destination.X
	dy := origin.Y - destination.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func (h *EuclideanHooks) TravelTime(origin, destination *sim.Location) sim.Time {
	if h.Speed <= 0 {
		return 0
	}
	return sim.Time(h.TravelDistance(origin, destination) / h.Speed)
}
