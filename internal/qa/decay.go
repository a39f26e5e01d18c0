package qa

import (
	"math"
	"time"
)

// Co60HalfLife is the half-life of cobalt-60.
const Co60HalfLife = time.Duration(5.2714 * 365.25 * 24 * float64(time.Hour))

// DecayedActivity applies single exponential decay to an initial source
// activity. Used to project a stored initial_activity baseline to the
// measurement date for cobalt and HDR sources.
func DecayedActivity(initial float64, elapsed, halfLife time.Duration) float64 {
	if halfLife <= 0 {
		return initial
	}
	return initial * math.Exp(-math.Ln2*elapsed.Hours()/halfLife.Hours())
}
