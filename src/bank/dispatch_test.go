package bank

import (
	"testing"
	"time"

	"towersim/src/types"
)

const idleTimeout = 500 * time.Millisecond

func TestIdleDispatchPicksUpCall(t *testing.T) {
	// Bank [1,10], idle car at floor 1, call at floor 5 going up: after one
	// idle-timeout tick the car is bound for 5 and the button is cleared.
	b := newTestBank(t, 1, 10)
	el := addCar(t, b, testConfig(1))

	if err := b.RequestElevator(5, types.Up); err != nil {
		t.Fatalf("RequestElevator: %v", err)
	}

	b.Update(idleTimeout)

	if el.DestinationFloor() != 5 {
		t.Errorf("destination: got %d, want 5", el.DestinationFloor())
	}
	if el.NominalDirection() != types.Up {
		t.Errorf("nominal direction: got %v, want up", el.NominalDirection())
	}
	if el.State() != types.ReadyToMove {
		t.Errorf("state: got %v, want ready_to_move", el.State())
	}
	if requests(t, b, 5)[types.Up] {
		t.Error("fulfilled request must be cleared")
	}
}

func TestIdleDispatchDebounces(t *testing.T) {
	b := newTestBank(t, 1, 10)
	el := addCar(t, b, testConfig(1))

	if err := b.RequestElevator(5, types.Up); err != nil {
		t.Fatalf("RequestElevator: %v", err)
	}

	b.Update(idleTimeout / 2)
	if el.State() != types.Idle || el.DestinationFloor() != 1 {
		t.Errorf("dispatch ran before the idle timeout: state=%v dest=%d", el.State(), el.DestinationFloor())
	}

	b.Update(idleTimeout / 2)
	if el.DestinationFloor() != 5 {
		t.Errorf("dispatch should run once the timeout accumulates: dest=%d", el.DestinationFloor())
	}
}

func TestIdleElevatorLoadsLocalPassengersFirst(t *testing.T) {
	b := newTestBank(t, 1, 10)
	el := addCar(t, b, testConfig(3))

	if err := b.AddWaitingPassenger(&stubPassenger{floor: 3, dest: 7}); err != nil {
		t.Fatalf("AddWaitingPassenger: %v", err)
	}
	// A distant call must not outrank riders already at the car's door.
	if err := b.RequestElevator(9, types.Up); err != nil {
		t.Fatalf("RequestElevator: %v", err)
	}

	b.Update(idleTimeout)

	if el.State() != types.Loading {
		t.Fatalf("state: got %v, want loading", el.State())
	}
	if el.NominalDirection() != types.Up {
		t.Errorf("nominal direction: got %v, want up", el.NominalDirection())
	}
}

func TestStationaryCarChecksUpQueueFirst(t *testing.T) {
	b := newTestBank(t, 1, 10)
	el := addCar(t, b, testConfig(5))

	if err := b.AddWaitingPassenger(&stubPassenger{floor: 5, dest: 2}); err != nil {
		t.Fatalf("down rider: %v", err)
	}
	if err := b.AddWaitingPassenger(&stubPassenger{floor: 5, dest: 8}); err != nil {
		t.Fatalf("up rider: %v", err)
	}

	b.Update(idleTimeout)

	if el.State() != types.Loading || el.NominalDirection() != types.Up {
		t.Errorf("stationary car should drain up first: state=%v nominal=%v", el.State(), el.NominalDirection())
	}
}

func TestDispatchSelectsNearestInDirection(t *testing.T) {
	b := newTestBank(t, 1, 10)
	el := addCar(t, b, testConfig(2))

	for _, f := range []int{5, 8} {
		if err := b.RequestElevator(f, types.Up); err != nil {
			t.Fatalf("RequestElevator(%d): %v", f, err)
		}
	}

	b.Update(idleTimeout)

	if el.DestinationFloor() != 5 {
		t.Errorf("nearest-in-direction: got %d, want 5", el.DestinationFloor())
	}
	if requests(t, b, 5)[types.Up] {
		t.Error("request at 5 must be cleared")
	}
	if !requests(t, b, 8)[types.Up] {
		t.Error("request at 8 must stay lit")
	}
}

func TestDispatchIgnoresSameDirectionRequestsBehind(t *testing.T) {
	b := newTestBank(t, 1, 10)
	el := addCar(t, b, testConfig(5))

	// Up bias: the up request behind the car is not a primary candidate.
	if err := b.RequestElevator(3, types.Up); err != nil {
		t.Fatalf("RequestElevator(3): %v", err)
	}
	if err := b.RequestElevator(7, types.Up); err != nil {
		t.Fatalf("RequestElevator(7): %v", err)
	}

	b.Update(idleTimeout)

	if el.DestinationFloor() != 7 {
		t.Errorf("destination: got %d, want 7", el.DestinationFloor())
	}
	if !requests(t, b, 3)[types.Up] {
		t.Error("request behind the car must stay lit")
	}
}

func TestReversedSearchTurnsTheCarAround(t *testing.T) {
	b := newTestBank(t, 1, 10)
	el := addCar(t, b, testConfig(6))

	// Nothing up-bound anywhere; a down call below is found by the
	// reversed search.
	if err := b.RequestElevator(2, types.Down); err != nil {
		t.Fatalf("RequestElevator: %v", err)
	}

	b.Update(idleTimeout)

	if el.DestinationFloor() != 2 {
		t.Errorf("destination: got %d, want 2", el.DestinationFloor())
	}
	if el.NominalDirection() != types.Down {
		t.Errorf("nominal direction: got %v, want down", el.NominalDirection())
	}
	if requests(t, b, 2)[types.Down] {
		t.Error("fulfilled request must be cleared")
	}
}

func TestFallbackFindsWrongSideRequest(t *testing.T) {
	// Car at 7; the only call is an up request at 1. Both directional
	// searches miss it (up looks above, reversed looks for down calls
	// below); the full-building fallback must reach it.
	b := newTestBank(t, 1, 18)
	el := addCar(t, b, testConfig(7))

	if err := b.RequestElevator(1, types.Up); err != nil {
		t.Fatalf("RequestElevator: %v", err)
	}

	b.Update(idleTimeout)

	if el.DestinationFloor() != 1 {
		t.Errorf("destination: got %d, want 1", el.DestinationFloor())
	}
	if el.NominalDirection() != types.Up {
		t.Errorf("nominal direction takes the request's own direction: got %v", el.NominalDirection())
	}
	if requests(t, b, 1)[types.Up] {
		t.Error("fulfilled request must be cleared")
	}
}

func TestFallbackPicksClosestRequest(t *testing.T) {
	// Car at 7 with an up call at 1 (distance 6) and a down call at 12
	// (distance 5): the closer one wins.
	b := newTestBank(t, 1, 18)
	el := addCar(t, b, testConfig(7))

	if err := b.RequestElevator(1, types.Up); err != nil {
		t.Fatalf("RequestElevator(1): %v", err)
	}
	if err := b.RequestElevator(12, types.Down); err != nil {
		t.Fatalf("RequestElevator(12): %v", err)
	}

	b.Update(idleTimeout)

	if el.DestinationFloor() != 12 {
		t.Errorf("destination: got %d, want 12", el.DestinationFloor())
	}
	if el.NominalDirection() != types.Down {
		t.Errorf("nominal direction: got %v, want down", el.NominalDirection())
	}
	if requests(t, b, 12)[types.Down] {
		t.Error("fulfilled request must be cleared")
	}
	if !requests(t, b, 1)[types.Up] {
		t.Error("losing request must stay lit")
	}
}

func TestFallbackTiePrefersBiasDirection(t *testing.T) {
	// Equidistant calls above and below a car with an up bias: the one on
	// the bias side wins.
	b := newTestBank(t, 1, 18)
	el := addCar(t, b, testConfig(7))

	if err := b.RequestElevator(4, types.Up); err != nil {
		t.Fatalf("RequestElevator(4): %v", err)
	}
	if err := b.RequestElevator(10, types.Down); err != nil {
		t.Fatalf("RequestElevator(10): %v", err)
	}

	b.Update(idleTimeout)

	if el.DestinationFloor() != 10 {
		t.Errorf("tie should break toward the bias side: got %d, want 10", el.DestinationFloor())
	}
}

func TestDispatchClearsExactlyOneEntry(t *testing.T) {
	b := newTestBank(t, 1, 10)
	el := addCar(t, b, testConfig(1))

	if err := b.RequestElevator(5, types.Up); err != nil {
		t.Fatalf("RequestElevator up: %v", err)
	}
	if err := b.RequestElevator(5, types.Down); err != nil {
		t.Fatalf("RequestElevator down: %v", err)
	}

	b.Update(idleTimeout)

	if el.DestinationFloor() != 5 {
		t.Fatalf("destination: got %d, want 5", el.DestinationFloor())
	}
	r := requests(t, b, 5)
	if r[types.Up] {
		t.Error("the fulfilled up entry must be cleared")
	}
	if !r[types.Down] {
		t.Error("the down entry on the same floor must stay lit")
	}
}

func TestPassengerDestinationsJoinTheSearch(t *testing.T) {
	b := newTestBank(t, 1, 10)
	el := addCar(t, b, testConfig(1))

	// Onboard destination 3 is nearer than the call at 6; no call entry
	// exists at 3, so nothing is cleared.
	if err := el.Board(&stubPassenger{floor: 1, dest: 3}); err != nil {
		t.Fatalf("Board: %v", err)
	}
	if err := b.RequestElevator(6, types.Up); err != nil {
		t.Fatalf("RequestElevator: %v", err)
	}

	b.Update(idleTimeout)

	if el.DestinationFloor() != 3 {
		t.Errorf("destination: got %d, want 3", el.DestinationFloor())
	}
	if !requests(t, b, 6)[types.Up] {
		t.Error("unfulfilled call must stay lit")
	}
}

func TestNoRequestsLeavesCarAlone(t *testing.T) {
	b := newTestBank(t, 1, 10)
	el := addCar(t, b, testConfig(4))

	b.Update(idleTimeout)

	if el.State() != types.Idle {
		t.Errorf("state: got %v, want idle", el.State())
	}
	if el.DestinationFloor() != 4 {
		t.Errorf("destination changed with nothing pending: %d", el.DestinationFloor())
	}
}

func TestLoadingCarFillsToCapacityThenMoves(t *testing.T) {
	// A loading car with one free slot and one matching rider: the rider
	// boards on the first dwell, and the now-full car closes up and gets
	// ready to move on the next.
	b := newTestBank(t, 1, 10)
	cfg := testConfig(1)
	cfg.MaxCapacity = 2
	el := addCar(t, b, cfg)

	if err := el.Board(&stubPassenger{floor: 1, dest: 9}); err != nil {
		t.Fatalf("Board: %v", err)
	}
	rider := &stubPassenger{floor: 1, dest: 5}
	if err := b.AddWaitingPassenger(rider); err != nil {
		t.Fatalf("AddWaitingPassenger: %v", err)
	}
	if err := el.RequestLoadPassengers(types.Up); err != nil {
		t.Fatalf("RequestLoadPassengers: %v", err)
	}

	el.Update(time.Second)
	if el.AvailableCapacity() != 0 {
		t.Fatalf("available capacity: got %d, want 0", el.AvailableCapacity())
	}
	if rider.boardedOn != types.Car(el) {
		t.Error("rider must have boarded this car")
	}
	if n, _ := b.WaitingCount(1, types.Up); n != 0 {
		t.Errorf("waiting queue: got %d entries, want 0", n)
	}

	el.Update(time.Second)
	if el.State() != types.ReadyToMove {
		t.Errorf("state: got %v, want ready_to_move", el.State())
	}
	if el.DoorOpen() {
		t.Error("door must be closed")
	}
}
