package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"time"

	"towersim/src/config"
	"towersim/src/sim"
	"towersim/src/snapshot"
)

func main() {
	floors := flag.Int("floors", config.DefaultFloors, "Number of floors in the building")
	cars := flag.Int("elevators", config.DefaultElevators, "Number of elevators in the bank")
	people := flag.Int("people", 20, "Number of riders to spawn over the run")
	seed := flag.Int64("seed", 1, "Random seed for rider spawning")
	duration := flag.Duration("duration", 2*time.Minute, "Simulated time to run")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	sim.InitLogger(level)

	model, err := sim.NewModel(*floors)
	if err != nil {
		slog.Error("Model setup failed", "error", err)
		return
	}
	if _, err := model.AddBank(1, 1, *floors, *cars, config.DefaultElevator()); err != nil {
		slog.Error("Bank setup failed", "error", err)
		return
	}

	rng := rand.New(rand.NewSource(*seed))
	spawnEvery := *duration / time.Duration(*people+1)

	var nextSpawn time.Duration
	spawned := 0
	for elapsed := time.Duration(0); elapsed < *duration; elapsed += config.TickRate {
		if spawned < *people && elapsed >= nextSpawn {
			from := 1 + rng.Intn(*floors)
			to := 1 + rng.Intn(*floors)
			for to == from {
				to = 1 + rng.Intn(*floors)
			}
			if _, err := model.AddPerson(from, to); err != nil {
				slog.Error("Rider rejected", "error", err)
			} else {
				slog.Info("Rider spawned", "from", from, "to", to)
			}
			spawned++
			nextSpawn += spawnEvery
		}

		model.Update(config.TickRate)

		if elapsed%(10*time.Second) == 0 {
			logStatus(model)
		}
	}

	logStatus(model)
	delivered := 0
	for _, p := range model.People() {
		if p.State() == sim.ArrivedAtDestination {
			delivered++
		}
	}
	slog.Info("Run complete",
		"simulated", duration.String(),
		"spawned", spawned,
		"delivered", delivered)
}

func logStatus(model *sim.Model) {
	building := snapshot.BuildBuildingSnapshot(model)
	for _, bk := range building.Banks {
		for _, el := range bk.Elevators {
			slog.Info("Elevator status",
				"clock", building.Clock,
				"elevator", el.ID,
				"state", el.State,
				"position", el.VerticalPosition,
				"destination", el.DestinationFloor,
				"passengers", el.PassengerCount)
		}
	}
}
