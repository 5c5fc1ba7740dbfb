package bank

import (
	"log/slog"
	"time"

	"towersim/src/elevator"
	"towersim/src/types"
	"towersim/src/utils"
)

// destination is a dispatch decision: where to send a car and which service
// direction it commits to on arrival.
type destination struct {
	floor     int
	direction types.Direction
}

// Update resolves dispatch for every owned car that is idle or awaiting a
// new assignment. All other states are self-driven by the car; callers
// advance the cars themselves before calling this (fixed tick ordering).
func (b *Bank) Update(dt time.Duration) {
	for _, el := range b.elevators {
		switch el.State() {
		case types.Idle:
			b.updateIdleElevator(el, dt)
		case types.ReadyToMove:
			b.updateReadyElevator(el)
		}
	}
}

// updateIdleElevator debounces on the car's idle timer, then loads local
// waiting passengers if any match the nominal direction; otherwise it falls
// through to the dispatch search.
func (b *Bank) updateIdleElevator(el *elevator.Elevator, dt time.Duration) {
	if !el.TickIdle(dt) {
		return
	}

	floor := el.CurrentFloor()
	direction, waiting := b.selectWaitingQueue(floor, el.NominalDirection())
	if waiting {
		if err := el.RequestLoadPassengers(direction); err != nil {
			slog.Error("Load request rejected", "bank", b.id, "elevator", el.ID(), "error", err)
		}
		return
	}

	// Nobody to pick up here; see if the car has a reason to go anywhere.
	b.updateReadyElevator(el)
}

// selectWaitingQueue picks the queue an idle car at floor should drain. A
// committed direction selects its own queue; a stationary car checks up
// first, then down.
func (b *Bank) selectWaitingQueue(floor int, nominal types.Direction) (types.Direction, bool) {
	i := b.idx(floor)
	switch nominal {
	case types.Up:
		return types.Up, len(b.waitingUp[i]) > 0
	case types.Down:
		return types.Down, len(b.waitingDown[i]) > 0
	default:
		if len(b.waitingUp[i]) > 0 {
			return types.Up, true
		}
		if len(b.waitingDown[i]) > 0 {
			return types.Down, true
		}
		return types.Stationary, false
	}
}

// updateReadyElevator runs the dispatch search and commits the result.
// Exactly one call-request entry is cleared per successful decision: the one
// being fulfilled.
func (b *Bank) updateReadyElevator(el *elevator.Elevator) {
	next, found := b.nextDestination(el)
	if !found {
		return
	}

	if err := el.SetDestination(next.floor, next.direction); err != nil {
		slog.Error("Destination rejected", "bank", b.id, "elevator", el.ID(), "error", err)
		return
	}

	slog.Debug("Dispatched elevator",
		"bank", b.id,
		"elevator", el.ID(),
		"floor", next.floor,
		"direction", next.direction)
	delete(b.requests[b.idx(next.floor)], next.direction)
}

// nextDestination is the scheduling core: a directional search with the
// car's bias, a reversed search, then a full-building fallback so a car
// never idles while a distant, differently-directioned request is pending.
func (b *Bank) nextDestination(el *elevator.Elevator) (destination, bool) {
	floor := el.CurrentFloor()

	// Stationary bias is normalized to up for the search only.
	searchDir := el.NominalDirection()
	if searchDir == types.Stationary {
		searchDir = types.Up
	}

	if floors := b.collectDestinations(el, floor, searchDir); len(floors) > 0 {
		return destination{selectNextFloor(floors, searchDir), searchDir}, true
	}

	opposite := searchDir.Opposite()
	if floors := b.collectDestinations(el, floor, opposite); len(floors) > 0 {
		return destination{selectNextFloor(floors, opposite), opposite}, true
	}

	return b.nearestRequestAnywhere(floor, searchDir)
}

// collectDestinations gathers candidate floors strictly beyond floor in
// direction: onboard passenger destinations plus lit call requests matching
// the direction.
func (b *Bank) collectDestinations(el *elevator.Elevator, floor int, direction types.Direction) []int {
	floors, err := el.PassengerDestinationsInDirection(floor, direction)
	if err != nil {
		// Direction is normalized before the search; this is unreachable
		// short of a caller bug.
		slog.Error("Destination collection failed", "bank", b.id, "error", err)
		return nil
	}
	return append(floors, b.requestsInDirection(floor, direction)...)
}

// requestsInDirection lists floors beyond start in the search direction
// whose call button for that same direction is lit.
func (b *Bank) requestsInDirection(start int, direction types.Direction) []int {
	var floors []int
	switch direction {
	case types.Up:
		for f := start + 1; f <= b.maxFloor; f++ {
			if b.requests[b.idx(f)][direction] {
				floors = append(floors, f)
			}
		}
	case types.Down:
		for f := start - 1; f >= b.minFloor; f-- {
			if b.requests[b.idx(f)][direction] {
				floors = append(floors, f)
			}
		}
	}
	return floors
}

// selectNextFloor applies the nearest-wins rule: the lowest candidate when
// heading up, the highest when heading down.
func selectNextFloor(floors []int, direction types.Direction) int {
	next := floors[0]
	for _, f := range floors[1:] {
		if (direction == types.Up && f < next) || (direction != types.Up && f > next) {
			next = f
		}
	}
	return next
}

// nearestRequestAnywhere scans the whole range for any lit request in either
// direction and picks the closest by absolute distance, preferring the bias
// direction on a tie. The request's own direction becomes the new nominal
// direction.
func (b *Bank) nearestRequestAnywhere(floor int, bias types.Direction) (destination, bool) {
	var best destination
	bestDist := -1

	for f := b.minFloor; f <= b.maxFloor; f++ {
		calls := b.requests[b.idx(f)]
		if len(calls) == 0 {
			continue
		}

		dist := utils.Abs(f - floor)
		onBiasSide := types.DirectionTo(floor, f) == bias
		if bestDist >= 0 && (dist > bestDist || (dist == bestDist && !onBiasSide)) {
			continue
		}

		direction := bias
		if !calls[direction] {
			direction = direction.Opposite()
		}
		best = destination{f, direction}
		bestDist = dist
	}

	return best, bestDist >= 0
}
