package timer

import "time"

// Dwell accumulates elapsed tick time and fires once the threshold is
// reached. It gates transitions that would otherwise trigger every tick
// (idle debounce, loading/unloading duration).
type Dwell struct {
	elapsed   time.Duration
	threshold time.Duration
}

func NewDwell(threshold time.Duration) Dwell {
	return Dwell{threshold: threshold}
}

// Tick adds dt to the accumulator. It reports true and resets to zero when
// the threshold has elapsed; the accumulated time is consumed on firing.
func (d *Dwell) Tick(dt time.Duration) bool {
	d.elapsed += dt
	if d.elapsed < d.threshold {
		return false
	}
	d.elapsed = 0
	return true
}

func (d *Dwell) Reset() {
	d.elapsed = 0
}

func (d *Dwell) Elapsed() time.Duration {
	return d.elapsed
}
