// Package snapshot builds read-only views of the simulation for telemetry
// consumers. Builders read exported getters only; the core never blocks on
// or waits for a snapshot reader.
package snapshot

import (
	"towersim/src/bank"
	"towersim/src/elevator"
	"towersim/src/sim"
	"towersim/src/types"
)

type ElevatorSnapshot struct {
	ID                string
	VerticalPosition  float64
	CurrentFloor      int
	DestinationFloor  int
	State             types.ElevatorState
	NominalDirection  types.Direction
	DoorOpen          bool
	PassengerCount    int
	AvailableCapacity int
	MaxCapacity       int
}

// FloorCalls is the per-floor diagnostic view: which buttons are lit and how
// long each waiting queue is.
type FloorCalls struct {
	Floor         int
	UpRequested   bool
	DownRequested bool
	UpWaiting     int
	DownWaiting   int
}

type BankSnapshot struct {
	ID                 string
	HorizontalPosition int
	MinFloor           int
	MaxFloor           int
	Elevators          []ElevatorSnapshot
	Floors             []FloorCalls
}

type BuildingSnapshot struct {
	Floors int
	Clock  float64 // seconds
	Paused bool
	Banks  []BankSnapshot
}

func BuildElevatorSnapshot(el *elevator.Elevator) ElevatorSnapshot {
	return ElevatorSnapshot{
		ID:                el.ID(),
		VerticalPosition:  el.VerticalPosition(),
		CurrentFloor:      el.CurrentFloor(),
		DestinationFloor:  el.DestinationFloor(),
		State:             el.State(),
		NominalDirection:  el.NominalDirection(),
		DoorOpen:          el.DoorOpen(),
		PassengerCount:    el.PassengerCount(),
		AvailableCapacity: el.AvailableCapacity(),
		MaxCapacity:       el.MaxCapacity(),
	}
}

func BuildBankSnapshot(bk *bank.Bank) BankSnapshot {
	snap := BankSnapshot{
		ID:                 bk.ID(),
		HorizontalPosition: bk.HorizontalPosition(),
		MinFloor:           bk.MinFloor(),
		MaxFloor:           bk.MaxFloor(),
	}

	for _, el := range bk.Elevators() {
		snap.Elevators = append(snap.Elevators, BuildElevatorSnapshot(el))
	}

	for f := bk.MinFloor(); f <= bk.MaxFloor(); f++ {
		calls, err := bk.RequestsForFloor(f)
		if err != nil {
			continue
		}
		up, _ := bk.WaitingCount(f, types.Up)
		down, _ := bk.WaitingCount(f, types.Down)
		snap.Floors = append(snap.Floors, FloorCalls{
			Floor:         f,
			UpRequested:   calls[types.Up],
			DownRequested: calls[types.Down],
			UpWaiting:     up,
			DownWaiting:   down,
		})
	}

	return snap
}

func BuildBuildingSnapshot(m *sim.Model) BuildingSnapshot {
	snap := BuildingSnapshot{
		Floors: m.Floors(),
		Clock:  m.Clock().Seconds(),
		Paused: m.Paused(),
	}
	for _, bk := range m.Banks() {
		snap.Banks = append(snap.Banks, BuildBankSnapshot(bk))
	}
	return snap
}
