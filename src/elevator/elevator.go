// Package elevator implements the physical and operational state machine of
// a single car: position, door, manifest, motion/nominal direction and the
// dwell timers that pace loading and unloading.
package elevator

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"towersim/src/config"
	"towersim/src/timer"
	"towersim/src/types"
	"towersim/src/utils"
)

// BoardingQueue is the slice of the owning bank a car consumes while
// loading. The bank is the production implementation; tests supply a stub.
type BoardingQueue interface {
	TryDequeueWaitingPassenger(floor int, direction types.Direction) (types.Passenger, error)
}

type Elevator struct {
	id    string
	queue BoardingQueue

	minFloor int
	maxFloor int
	cfg      config.Elevator

	state            types.ElevatorState
	verticalPosition float64 // blocks; fractional while moving
	destinationFloor int
	doorOpen         bool
	motionDirection  types.Direction
	nominalDirection types.Direction
	passengers       []types.Passenger

	idleTime         timer.Dwell
	loadingTimeout   timer.Dwell
	unloadingTimeout timer.Dwell

	lastLoggedState types.ElevatorState
}

// New builds a car serving [minFloor, maxFloor], parked at cfg.StartFloor
// (or minFloor when unset). queue is consulted while loading.
func New(queue BoardingQueue, minFloor, maxFloor int, cfg config.Elevator) (*Elevator, error) {
	if maxFloor < minFloor {
		return nil, fmt.Errorf("%w: max floor %d below min floor %d", types.ErrFloorOutOfRange, maxFloor, minFloor)
	}
	start := cfg.StartFloor
	if start == 0 {
		start = minFloor
	}
	if start < minFloor || start > maxFloor {
		return nil, fmt.Errorf("%w: start floor %d outside %d-%d", types.ErrFloorOutOfRange, start, minFloor, maxFloor)
	}

	return &Elevator{
		id:               "elevator-" + uuid.NewString(),
		queue:            queue,
		minFloor:         minFloor,
		maxFloor:         maxFloor,
		cfg:              cfg,
		state:            types.Idle,
		verticalPosition: float64(start),
		destinationFloor: start,
		motionDirection:  types.Stationary,
		nominalDirection: types.Stationary,
		idleTime:         timer.NewDwell(cfg.IdleWaitTimeout),
		loadingTimeout:   timer.NewDwell(cfg.PassengerLoadingTime),
		unloadingTimeout: timer.NewDwell(cfg.PassengerLoadingTime),
		lastLoggedState:  types.Idle,
	}, nil
}

func (e *Elevator) ID() string                         { return e.id }
func (e *Elevator) State() types.ElevatorState         { return e.state }
func (e *Elevator) VerticalPosition() float64          { return e.verticalPosition }
func (e *Elevator) CurrentFloor() int                  { return int(math.Floor(e.verticalPosition)) }
func (e *Elevator) DestinationFloor() int              { return e.destinationFloor }
func (e *Elevator) DoorOpen() bool                     { return e.doorOpen }
func (e *Elevator) MotionDirection() types.Direction   { return e.motionDirection }
func (e *Elevator) NominalDirection() types.Direction  { return e.nominalDirection }
func (e *Elevator) MinFloor() int                      { return e.minFloor }
func (e *Elevator) MaxFloor() int                      { return e.maxFloor }
func (e *Elevator) MaxCapacity() int                   { return e.cfg.MaxCapacity }
func (e *Elevator) PassengerCount() int                { return len(e.passengers) }
func (e *Elevator) AvailableCapacity() int             { return e.cfg.MaxCapacity - len(e.passengers) }
func (e *Elevator) IsEmpty() bool                      { return len(e.passengers) == 0 }
func (e *Elevator) IdleWaitTimeout() time.Duration     { return e.cfg.IdleWaitTimeout }

// Passengers returns a copy of the manifest in boarding order.
func (e *Elevator) Passengers() []types.Passenger {
	return slices.Clone(e.passengers)
}

// TickIdle accrues idle time and reports whether the idle debounce period
// has elapsed. The accumulator is consumed on firing, so the owning bank
// re-evaluates an idle car once per timeout, not every tick.
func (e *Elevator) TickIdle(dt time.Duration) bool {
	return e.idleTime.Tick(dt)
}

// SetDestination commits the car to a destination floor. The direction hint
// becomes the nominal service direction; the motion direction is derived
// from the floor delta. Assigning the current floor parks the car.
func (e *Elevator) SetDestination(floor int, hint types.Direction) error {
	if floor < e.minFloor || floor > e.maxFloor {
		return fmt.Errorf("%w: destination %d outside %d-%d", types.ErrFloorOutOfRange, floor, e.minFloor, e.maxFloor)
	}

	slog.Debug("Setting destination",
		"elevator", e.id,
		"from", e.CurrentFloor(),
		"to", floor,
		"hint", hint)

	switch {
	case e.CurrentFloor() < floor:
		e.motionDirection = types.Up
		e.nominalDirection = hint
		e.state = types.ReadyToMove
	case e.CurrentFloor() > floor:
		e.motionDirection = types.Down
		e.nominalDirection = hint
		e.state = types.ReadyToMove
	default:
		e.motionDirection = types.Stationary
		e.nominalDirection = types.Stationary
		e.state = types.Idle
	}

	e.destinationFloor = floor
	return nil
}

// RequestLoadPassengers instructs an idle car to open up and start draining
// the waiting queue for direction. Loading itself happens on subsequent
// ticks, paced by the dwell timer.
func (e *Elevator) RequestLoadPassengers(direction types.Direction) error {
	if e.state != types.Idle {
		return fmt.Errorf("%w: cannot load passengers while %s", types.ErrInvalidState, e.state)
	}
	e.state = types.Loading
	e.nominalDirection = direction
	slog.Debug("Loading requested", "elevator", e.id, "direction", direction)
	return nil
}

// Board adds a passenger to the manifest, enforcing capacity. This is the
// only mutation path into the manifest.
func (e *Elevator) Board(p types.Passenger) error {
	if len(e.passengers) >= e.cfg.MaxCapacity {
		return fmt.Errorf("%w: %d passengers aboard", types.ErrCapacityExceeded, len(e.passengers))
	}
	p.Board(e)
	e.passengers = append(e.passengers, p)
	return nil
}

// PassengersWhoWantOff lists passengers whose destination is the current
// floor, in manifest order.
func (e *Elevator) PassengersWhoWantOff() []types.Passenger {
	var off []types.Passenger
	floor := e.CurrentFloor()
	for _, p := range e.passengers {
		if p.DestinationFloor() == floor {
			off = append(off, p)
		}
	}
	return off
}

// PassengerDestinationsInDirection returns the distinct onboard destinations
// strictly beyond floor in direction, sorted nearest-first (ascending for
// up, descending for down).
func (e *Elevator) PassengerDestinationsInDirection(floor int, direction types.Direction) ([]int, error) {
	if direction == types.Stationary {
		return nil, fmt.Errorf("%w: stationary has no onboard destinations", types.ErrInvalidDirection)
	}

	seen := make(map[int]bool)
	var floors []int
	for _, p := range e.passengers {
		dest := p.DestinationFloor()
		beyond := (direction == types.Up && dest > floor) || (direction == types.Down && dest < floor)
		if beyond && !seen[dest] {
			seen[dest] = true
			floors = append(floors, dest)
		}
	}

	slices.Sort(floors)
	if direction == types.Down {
		slices.Reverse(floors)
	}
	return floors, nil
}

// Update advances the state machine by dt. Dispatch decisions are external:
// the owning bank drives idle and ready cars; everything else is
// self-driven here.
func (e *Elevator) Update(dt time.Duration) {
	if e.state != e.lastLoggedState {
		slog.Debug("Elevator state changed",
			"elevator", e.id,
			"state", e.state,
			"floor", e.CurrentFloor())
		e.lastLoggedState = e.state
	}

	switch e.state {
	case types.Idle:
		e.doorOpen = false
		e.motionDirection = types.Stationary
	case types.Moving:
		e.doorOpen = false
		e.updateMoving(dt)
	case types.Arrived:
		e.updateArrived()
	case types.Unloading:
		e.doorOpen = true
		e.updateUnloading(dt)
	case types.Loading:
		e.doorOpen = true
		e.updateLoading(dt)
	case types.ReadyToMove:
		e.doorOpen = false
		e.updateReadyToMove()
	}
}

func (e *Elevator) updateMoving(dt time.Duration) {
	distance := e.cfg.MaxSpeed * dt.Seconds() // blocks
	position := e.verticalPosition + distance*float64(e.motionDirection)

	// Directional inequality, never tolerance-based equality: a missed
	// comparison here oscillates around the destination forever.
	arrived := false
	switch e.motionDirection {
	case types.Up:
		arrived = position >= float64(e.destinationFloor)
	case types.Down:
		arrived = position <= float64(e.destinationFloor)
	}

	if arrived {
		slog.Debug("Arrived at destination",
			"elevator", e.id,
			"floor", e.destinationFloor,
			"direction", e.motionDirection)
		position = float64(e.destinationFloor)
		e.state = types.Arrived
		e.motionDirection = types.Stationary
	}

	e.verticalPosition = utils.Clamp(position, float64(e.minFloor), float64(e.maxFloor))
}

func (e *Elevator) updateArrived() {
	if len(e.PassengersWhoWantOff()) > 0 {
		e.state = types.Unloading
	} else {
		e.state = types.Idle
	}
}

func (e *Elevator) updateUnloading(dt time.Duration) {
	if !e.unloadingTimeout.Tick(dt) {
		return
	}

	off := e.PassengersWhoWantOff()
	if len(off) == 0 {
		slog.Debug("Unloading complete", "elevator", e.id, "floor", e.CurrentFloor())
		e.state = types.Loading
		return
	}

	// One passenger per dwell period, most recently boarded first.
	leaving := off[len(off)-1]
	if i := slices.Index(e.passengers, leaving); i >= 0 {
		e.passengers = slices.Delete(e.passengers, i, i+1)
	}
	leaving.Disembark()
	slog.Debug("Passenger disembarked",
		"elevator", e.id,
		"floor", e.CurrentFloor(),
		"remaining", len(e.passengers))
}

func (e *Elevator) updateLoading(dt time.Duration) {
	if !e.loadingTimeout.Tick(dt) {
		return
	}

	if e.AvailableCapacity() <= 0 {
		slog.Debug("Loading at capacity", "elevator", e.id, "floor", e.CurrentFloor())
		e.state = types.ReadyToMove
		e.doorOpen = false
		return
	}

	p, err := e.queue.TryDequeueWaitingPassenger(e.CurrentFloor(), e.nominalDirection)
	if err != nil {
		slog.Error("Dequeue failed while loading",
			"elevator", e.id,
			"floor", e.CurrentFloor(),
			"direction", e.nominalDirection,
			"error", err)
		e.state = types.ReadyToMove
		e.doorOpen = false
		return
	}
	if p == nil {
		slog.Debug("Loading complete, no more willing passengers",
			"elevator", e.id,
			"floor", e.CurrentFloor())
		e.state = types.ReadyToMove
		e.doorOpen = false
		return
	}

	if err := e.Board(p); err != nil {
		// Capacity was checked above; a failure here means the queue handed
		// us a passenger while another path filled the car.
		slog.Error("Boarding failed", "elevator", e.id, "error", err)
		e.state = types.ReadyToMove
		e.doorOpen = false
	}
}

func (e *Elevator) updateReadyToMove() {
	switch {
	case e.CurrentFloor() != e.destinationFloor:
		slog.Debug("Starting to move",
			"elevator", e.id,
			"from", e.CurrentFloor(),
			"to", e.destinationFloor,
			"direction", e.nominalDirection)
		e.state = types.Moving
	case e.IsEmpty():
		e.state = types.Idle
	}
	// Otherwise hold here with passengers aboard until the bank assigns a
	// new destination.
}
