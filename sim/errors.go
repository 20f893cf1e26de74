package sim

import "fmt"

// ModelError reports a structural problem in the model as configured:
// an unknown location reference, a vehicle without an initial location, a
// duplicate id. Fatal at setup (§7).
type ModelError struct {
	Op  string
	Msg string
}

func (e *ModelError) Error() string { return fmt.Sprintf("sim: model error in %s: %s", e.Op, e.Msg) }

func newModelError(op, format string, args ...any) *ModelError {
	return &ModelError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ConfigError reports an invalid parameter: a negative duration, a
// capacity < 1. Fatal at setup (§7).
type ConfigError struct {
	Op  string
	Msg string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("sim: config error in %s: %s", e.Op, e.Msg) }

func newConfigError(op, format string, args ...any) *ConfigError {
	return &ConfigError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// DecisionError reports that a routing decision violates a validity
// constraint against currently executing visits, capacities, or loading
// rules (§7). The coordinator rejects the whole decision on any
// DecisionError; nothing is partially applied.
type DecisionError struct {
	VehicleID string
	OrderID   string
	Msg       string
}

func (e *DecisionError) Error() string {
	switch {
	case e.VehicleID != "" && e.OrderID != "":
		return fmt.Sprintf("sim: decision rejected (vehicle %s, order %s): %s", e.VehicleID, e.OrderID, e.Msg)
	case e.VehicleID != "":
		return fmt.Sprintf("sim: decision rejected (vehicle %s): %s", e.VehicleID, e.Msg)
	case e.OrderID != "":
		return fmt.Sprintf("sim: decision rejected (order %s): %s", e.OrderID, e.Msg)
	default:
		return fmt.Sprintf("sim: decision rejected: %s", e.Msg)
	}
}

func newDecisionError(format string, args ...any) *DecisionError {
	return &DecisionError{Msg: fmt.Sprintf(format, args...)}
}

func newVehicleDecisionError(vehicleID, format string, args ...any) *DecisionError {
	return &DecisionError{VehicleID: vehicleID, Msg: fmt.Sprintf(format, args...)}
}

func newOrderDecisionError(orderID, format string, args ...any) *DecisionError {
	return &DecisionError{OrderID: orderID, Msg: fmt.Sprintf(format, args...)}
}
