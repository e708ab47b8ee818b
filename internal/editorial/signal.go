package editorial

import "fmt"

// State is the editorial judgment of where the indicator sits. It is
// set by editors in configuration, never derived from data.
type State string

const (
	StateCooling    State = "cooling"
	StateStable     State = "stable"
	StateTightening State = "tightening"
	StateHeating    State = "heating"
)

// Pressure is the editorial judgment of directional pressure.
type Pressure string

const (
	PressureEasing     Pressure = "easing"
	PressureBalanced   Pressure = "balanced"
	PressureBuilding   Pressure = "building"
	PressurePersistent Pressure = "persistent"
)

// Signal is the locked editorial block of a release document. Only
// the sentence text is machine-written, and only ever from the fixed
// table below.
type Signal struct {
	State      State    `json:"state"`
	Pressure   Pressure `json:"pressure"`
	Confidence string   `json:"confidence"`
}

// Sentence returns the one true signal sentence for a (state,
// pressure) pair. The mapping is a total function: combinations
// outside the table fall through to a mechanical sentence built only
// from the literal state and pressure strings, never from free text.
func (s Signal) Sentence() string {
	switch s.State {
	case StateCooling:
		switch s.Pressure {
		case PressureEasing:
			return "The labor market is cooling and price pressure is easing."
		case PressureBalanced:
			return "The labor market is cooling while price pressure holds balanced."
		case PressureBuilding:
			return "The labor market is cooling even as price pressure builds."
		case PressurePersistent:
			return "The labor market is cooling but price pressure remains persistent."
		}
	case StateStable:
		switch s.Pressure {
		case PressureEasing:
			return "The labor market is stable and price pressure is easing."
		case PressureBalanced:
			return "The labor market is stable and price pressure holds balanced."
		case PressureBuilding:
			return "The labor market is stable while price pressure builds."
		case PressurePersistent:
			return "The labor market is stable but price pressure remains persistent."
		}
	case StateTightening:
		switch s.Pressure {
		case PressureEasing:
			return "The labor market is tightening while price pressure eases."
		case PressureBalanced:
			return "The labor market is tightening with price pressure balanced."
		case PressureBuilding:
			return "The labor market is tightening and price pressure is building."
		case PressurePersistent:
			return "The labor market is tightening and price pressure remains persistent."
		}
	case StateHeating:
		switch s.Pressure {
		case PressureEasing:
			return "The labor market is heating up while price pressure eases."
		case PressureBalanced:
			return "The labor market is heating up with price pressure balanced."
		case PressureBuilding:
			return "The labor market is heating up and price pressure is building."
		case PressurePersistent:
			return "The labor market is heating up and price pressure remains persistent."
		}
	}
	return fmt.Sprintf("Current state is %s with %s pressure.", s.State, s.Pressure)
}
