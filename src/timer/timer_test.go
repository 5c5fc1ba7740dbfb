package timer

import (
	"testing"
	"time"
)

func TestDwellFiresOnceThresholdElapses(t *testing.T) {
	d := NewDwell(time.Second)

	if d.Tick(400 * time.Millisecond) {
		t.Error("fired early")
	}
	if d.Tick(400 * time.Millisecond) {
		t.Error("fired early")
	}
	if !d.Tick(400 * time.Millisecond) {
		t.Error("should fire once 1s has accumulated")
	}
	if d.Elapsed() != 0 {
		t.Error("accumulator must be consumed on firing")
	}
	if d.Tick(100 * time.Millisecond) {
		t.Error("fired again immediately after consuming")
	}
}

func TestDwellReset(t *testing.T) {
	d := NewDwell(time.Second)
	d.Tick(900 * time.Millisecond)
	d.Reset()
	if d.Tick(900 * time.Millisecond) {
		t.Error("reset should discard accumulated time")
	}
}
