package types

// Car is the rider-facing view of an elevator: the only thing a passenger
// may observe about the car carrying it.
type Car interface {
	ID() string
	CurrentFloor() int
	VerticalPosition() float64
}

// Passenger is the contract a person must satisfy to interact with the
// scheduler. The core never inspects anything else about a person.
type Passenger interface {
	CurrentFloor() int
	DestinationFloor() int
	Board(car Car)
	Disembark()
}
