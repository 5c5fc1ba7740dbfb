package config

import "time"

const (
	// TickRate is the fixed simulation step used by the demo loop.
	TickRate = 100 * time.Millisecond

	DefaultFloors    = 10
	DefaultElevators = 1

	MaxSpeed             = 0.75 // blocks per second
	MaxCapacity          = 15
	PassengerLoadingTime = 1 * time.Second
	IdleWaitTimeout      = 500 * time.Millisecond
)

// Elevator carries the per-car construction inputs. Supplied once when the
// bank is assembled; never mutated afterwards.
type Elevator struct {
	MaxSpeed             float64 // blocks per second
	MaxCapacity          int
	PassengerLoadingTime time.Duration
	IdleWaitTimeout      time.Duration
	StartFloor           int // clamped to the bank's min floor when zero
}

func DefaultElevator() Elevator {
	return Elevator{
		MaxSpeed:             MaxSpeed,
		MaxCapacity:          MaxCapacity,
		PassengerLoadingTime: PassengerLoadingTime,
		IdleWaitTimeout:      IdleWaitTimeout,
	}
}
