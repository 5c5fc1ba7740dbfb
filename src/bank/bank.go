// Package bank implements the scheduler: a set of cars serving a contiguous
// floor range, the per-floor call-request registry, and the per-floor FIFO
// waiting queues the dispatch algorithm drains.
package bank

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"towersim/src/elevator"
	"towersim/src/types"
)

// callSet is the "which buttons are lit" entry for one floor. Only Up and
// Down are representable.
type callSet map[types.Direction]bool

type Bank struct {
	id                 string
	horizontalPosition int // block column of the shaft
	minFloor           int
	maxFloor           int

	elevators []*elevator.Elevator

	// Indexed by floor - minFloor, sized once at construction. In-range is
	// enforced at the API boundary so interior code indexes directly.
	requests    []callSet
	waitingUp   [][]types.Passenger
	waitingDown [][]types.Passenger
}

// New builds a bank serving [minFloor, maxFloor] inside a building of
// buildingFloors floors. The range is validated once here; a violation is a
// construction bug, not a runtime condition.
func New(horizontalPosition, minFloor, maxFloor, buildingFloors int) (*Bank, error) {
	if minFloor < 1 {
		return nil, fmt.Errorf("%w: min floor must be >= 1, got %d", types.ErrFloorOutOfRange, minFloor)
	}
	if maxFloor < minFloor {
		return nil, fmt.Errorf("%w: max floor %d below min floor %d", types.ErrFloorOutOfRange, maxFloor, minFloor)
	}
	if maxFloor > buildingFloors {
		return nil, fmt.Errorf("%w: max floor %d exceeds building's %d floors", types.ErrFloorOutOfRange, maxFloor, buildingFloors)
	}

	span := maxFloor - minFloor + 1
	b := &Bank{
		id:                 "bank-" + uuid.NewString(),
		horizontalPosition: horizontalPosition,
		minFloor:           minFloor,
		maxFloor:           maxFloor,
		requests:           make([]callSet, span),
		waitingUp:          make([][]types.Passenger, span),
		waitingDown:        make([][]types.Passenger, span),
	}
	for i := range b.requests {
		b.requests[i] = make(callSet)
	}
	return b, nil
}

func (b *Bank) ID() string              { return b.id }
func (b *Bank) HorizontalPosition() int { return b.horizontalPosition }
func (b *Bank) MinFloor() int           { return b.minFloor }
func (b *Bank) MaxFloor() int           { return b.maxFloor }

func (b *Bank) Elevators() []*elevator.Elevator { return b.elevators }

// AddElevator registers a car with this bank. Cars live for the process
// lifetime; there is no removal path.
func (b *Bank) AddElevator(el *elevator.Elevator) error {
	if el == nil {
		return fmt.Errorf("%w: nil elevator", types.ErrInvalidState)
	}
	b.elevators = append(b.elevators, el)
	return nil
}

func (b *Bank) validateFloor(floor int) error {
	if floor < b.minFloor || floor > b.maxFloor {
		return fmt.Errorf("%w: floor %d outside %d-%d", types.ErrFloorOutOfRange, floor, b.minFloor, b.maxFloor)
	}
	return nil
}

func (b *Bank) idx(floor int) int { return floor - b.minFloor }

// RequestElevator lights the call button for direction on floor. Lighting an
// already-lit button is a no-op; the entry stays lit until a dispatch
// decision clears it.
func (b *Bank) RequestElevator(floor int, direction types.Direction) error {
	if err := b.validateFloor(floor); err != nil {
		return err
	}
	if direction != types.Up && direction != types.Down {
		return fmt.Errorf("%w: cannot request elevator going %s", types.ErrInvalidDirection, direction)
	}
	b.requests[b.idx(floor)][direction] = true
	return nil
}

// AddWaitingPassenger derives the travel direction from the passenger's
// floors, lights the matching call button and appends the passenger to the
// tail of the matching FIFO.
func (b *Bank) AddWaitingPassenger(p types.Passenger) error {
	from, to := p.CurrentFloor(), p.DestinationFloor()
	if from == to {
		return fmt.Errorf("%w: floor %d", types.ErrSameFloorDestination, from)
	}
	if err := b.validateFloor(from); err != nil {
		return err
	}

	direction := types.DirectionTo(from, to)
	if err := b.RequestElevator(from, direction); err != nil {
		return err
	}

	slog.Debug("Passenger waiting",
		"bank", b.id,
		"floor", from,
		"destination", to,
		"direction", direction)

	i := b.idx(from)
	if direction == types.Up {
		b.waitingUp[i] = append(b.waitingUp[i], p)
	} else {
		b.waitingDown[i] = append(b.waitingDown[i], p)
	}
	return nil
}

// TryDequeueWaitingPassenger pops the head of the (floor, direction) FIFO.
// An empty queue returns (nil, nil): nobody waiting is a normal outcome.
func (b *Bank) TryDequeueWaitingPassenger(floor int, direction types.Direction) (types.Passenger, error) {
	if err := b.validateFloor(floor); err != nil {
		return nil, err
	}
	if direction != types.Up && direction != types.Down {
		return nil, fmt.Errorf("%w: cannot dequeue the %s queue", types.ErrInvalidDirection, direction)
	}

	i := b.idx(floor)
	q := &b.waitingUp[i]
	if direction == types.Down {
		q = &b.waitingDown[i]
	}
	if len(*q) == 0 {
		return nil, nil
	}

	p := (*q)[0]
	*q = (*q)[1:]
	slog.Debug("Dequeued waiting passenger", "bank", b.id, "floor", floor, "direction", direction)
	return p, nil
}

// RequestsForFloor reports which call buttons are lit on floor. The set is
// deep-copied so readers can never alias scheduler-owned state.
func (b *Bank) RequestsForFloor(floor int) (map[types.Direction]bool, error) {
	if err := b.validateFloor(floor); err != nil {
		return nil, err
	}
	out := make(map[types.Direction]bool)
	if err := deepcopy.Copy(&out, b.requests[b.idx(floor)]); err != nil {
		return nil, err
	}
	return out, nil
}

// WaitingCount reports the FIFO length for (floor, direction).
func (b *Bank) WaitingCount(floor int, direction types.Direction) (int, error) {
	if err := b.validateFloor(floor); err != nil {
		return 0, err
	}
	if direction != types.Up && direction != types.Down {
		return 0, fmt.Errorf("%w: no %s queue", types.ErrInvalidDirection, direction)
	}
	if direction == types.Up {
		return len(b.waitingUp[b.idx(floor)]), nil
	}
	return len(b.waitingDown[b.idx(floor)]), nil
}
