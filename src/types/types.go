package types

import "fmt"

// Direction is a vertical travel direction in floor-grid space.
// The sign doubles as the motion multiplier in the physics update.
type Direction int

const (
	Up         Direction = 1
	Stationary Direction = 0
	Down       Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Stationary:
		return "stationary"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Opposite inverts Up/Down. Stationary maps to itself.
func (d Direction) Opposite() Direction {
	return Direction(-int(d))
}

// DirectionTo returns the direction of travel from one floor to another.
func DirectionTo(from, to int) Direction {
	switch {
	case to > from:
		return Up
	case to < from:
		return Down
	default:
		return Stationary
	}
}

// ElevatorState is the operational state of a single car.
type ElevatorState int

const (
	Idle ElevatorState = iota
	Moving
	Arrived
	Loading
	Unloading
	ReadyToMove
)

func (s ElevatorState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case Arrived:
		return "arrived"
	case Loading:
		return "loading"
	case Unloading:
		return "unloading"
	case ReadyToMove:
		return "ready_to_move"
	default:
		return fmt.Sprintf("ElevatorState(%d)", int(s))
	}
}
