// Package sim owns the simulation clock and tick ordering: every car
// advances its own state machine first, then every bank resolves dispatch.
// Passenger arrivals are external inputs between ticks.
package sim

import (
	"fmt"
	"log/slog"
	"time"

	"towersim/src/bank"
	"towersim/src/config"
	"towersim/src/elevator"
	"towersim/src/types"
)

type Model struct {
	floors int
	banks  []*bank.Bank
	people []*Person

	clock  time.Duration
	speed  float64
	paused bool
}

func NewModel(floors int) (*Model, error) {
	if floors < 1 {
		return nil, fmt.Errorf("%w: building needs at least one floor, got %d", types.ErrFloorOutOfRange, floors)
	}
	return &Model{floors: floors, speed: 1.0}, nil
}

func (m *Model) Floors() int          { return m.floors }
func (m *Model) Banks() []*bank.Bank  { return m.banks }
func (m *Model) People() []*Person    { return m.people }
func (m *Model) Clock() time.Duration { return m.clock }
func (m *Model) Paused() bool         { return m.paused }
func (m *Model) Speed() float64       { return m.speed }

// AddBank builds a bank at the given shaft column with cars attached, all
// validated against the building's floor count.
func (m *Model) AddBank(horizontalPosition, minFloor, maxFloor, cars int, cfg config.Elevator) (*bank.Bank, error) {
	bk, err := bank.New(horizontalPosition, minFloor, maxFloor, m.floors)
	if err != nil {
		return nil, err
	}
	for i := 0; i < cars; i++ {
		el, err := elevator.New(bk, minFloor, maxFloor, cfg)
		if err != nil {
			return nil, err
		}
		if err := bk.AddElevator(el); err != nil {
			return nil, err
		}
	}
	m.banks = append(m.banks, bk)
	slog.Info("Bank added",
		"bank", bk.ID(),
		"minFloor", minFloor,
		"maxFloor", maxFloor,
		"elevators", cars)
	return bk, nil
}

// AddPerson spawns a rider and enqueues it with the first bank serving both
// floors. The rider becomes visible to dispatch on the next tick.
func (m *Model) AddPerson(from, to int) (*Person, error) {
	for _, bk := range m.banks {
		if from < bk.MinFloor() || from > bk.MaxFloor() || to < bk.MinFloor() || to > bk.MaxFloor() {
			continue
		}
		p := NewPerson(from, to)
		if err := bk.AddWaitingPassenger(p); err != nil {
			return nil, err
		}
		m.people = append(m.people, p)
		return p, nil
	}
	return nil, fmt.Errorf("%w: no bank serves floors %d-%d", types.ErrFloorOutOfRange, from, to)
}

// SetSpeed scales the simulation clock. Out-of-range values are refused.
func (m *Model) SetSpeed(speed float64) bool {
	if speed < 0 || speed > 10 {
		slog.Warn("Refusing invalid game speed", "speed", speed)
		return false
	}
	m.speed = speed
	return true
}

func (m *Model) SetPaused(paused bool) { m.paused = paused }

func (m *Model) TogglePause() bool {
	m.paused = !m.paused
	return m.paused
}

// Update advances the whole simulation by dt. Ordering within a tick is
// fixed: cars first (pure functions of their own state and dt), then banks
// resolve idle and ready cars against the shared queues and registry.
func (m *Model) Update(dt time.Duration) {
	if m.paused {
		return
	}
	if m.speed != 1.0 {
		dt = time.Duration(float64(dt) * m.speed)
	}
	m.clock += dt

	for _, bk := range m.banks {
		for _, el := range bk.Elevators() {
			el.Update(dt)
		}
	}
	for _, bk := range m.banks {
		bk.Update(dt)
	}
}
