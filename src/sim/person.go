package sim

import (
	"log/slog"

	"github.com/google/uuid"

	"towersim/src/types"
)

// PersonState tracks a rider through the narrow contract the scheduler
// needs: waiting on a floor, riding a car, or delivered.
type PersonState int

const (
	WaitingForElevator PersonState = iota
	InElevator
	ArrivedAtDestination
)

func (s PersonState) String() string {
	switch s {
	case WaitingForElevator:
		return "waiting"
	case InElevator:
		return "in_elevator"
	case ArrivedAtDestination:
		return "arrived"
	default:
		return "unknown"
	}
}

// Person is the production implementation of the Passenger contract.
// Walking physics and mood are out of scope; a person only knows where it
// is, where it is going, and which car (if any) is carrying it.
type Person struct {
	id               string
	currentFloor     int
	destinationFloor int
	state            PersonState
	car              types.Car
}

func NewPerson(currentFloor, destinationFloor int) *Person {
	return &Person{
		id:               "person-" + uuid.NewString(),
		currentFloor:     currentFloor,
		destinationFloor: destinationFloor,
		state:            WaitingForElevator,
	}
}

func (p *Person) ID() string            { return p.id }
func (p *Person) CurrentFloor() int     { return p.currentFloor }
func (p *Person) DestinationFloor() int { return p.destinationFloor }
func (p *Person) State() PersonState    { return p.state }

// Board latches the carrying car. Called by the elevator when the person
// steps in.
func (p *Person) Board(car types.Car) {
	p.car = car
	p.state = InElevator
	slog.Debug("Person boarded", "person", p.id, "elevator", car.ID(), "floor", car.CurrentFloor())
}

// Disembark adopts the car's floor and releases the car reference.
func (p *Person) Disembark() {
	if p.car != nil {
		p.currentFloor = p.car.CurrentFloor()
	}
	p.car = nil
	p.state = ArrivedAtDestination
	slog.Debug("Person disembarked", "person", p.id, "floor", p.currentFloor)
}
