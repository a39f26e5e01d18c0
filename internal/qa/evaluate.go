package qa

import (
	"fmt"
	"math"
)

// Test result statuses. The empty status means no verdict yet.
const (
	StatusNone = ""
	StatusPass = "pass"
	StatusFail = "fail"
	StatusNA   = "na"
)

// Verdict is the outcome of evaluating one measurement against its
// tolerance and action-level rules. Deviation is a relative percentage
// for percent tolerances, the raw measurement for max-threshold ones,
// and an absolute difference otherwise; the three conventions are kept
// deliberately distinct because downstream consumers depend on them.
type Verdict struct {
	Status    string   `json:"status"`
	Deviation *float64 `json:"deviation,omitempty"`
	// Message encodes the deviation and the boundary it was judged
	// against; it is used verbatim as the default failure note.
	Message string `json:"message"`
}

// Evaluate computes a verdict from a measurement, an optional baseline,
// and the raw tolerance/action-level strings. It is a pure function:
// invalid or incomplete input degrades to the empty status, never an
// error.
func Evaluate(measurement, baseline *float64, tolerance, action string) Verdict {
	if measurement == nil {
		return Verdict{Status: StatusNone}
	}

	tol := ParseTolerance(tolerance)
	if tol == nil {
		return Verdict{Status: StatusNone, Message: "Enter measurement"}
	}
	act := ParseTolerance(action)
	m := *measurement

	// Percent is checked before max-threshold: a bare "2.00%" parses as
	// both, but output constancy is always a relative comparison.
	switch {
	case tol.IsPercent:
		if baseline == nil || *baseline == 0 {
			return Verdict{Status: StatusNone, Message: "Enter reference value"}
		}
		dev := (m - *baseline) / *baseline * 100
		return judge(dev, tol, act, "%%")

	case tol.IsMaxThreshold:
		return judgeThreshold(m, tol, act)

	case tol.ExpectedValue != nil:
		expected := *tol.ExpectedValue
		if baseline != nil {
			expected = *baseline
		}
		return judge(m-expected, tol, act, "")

	case baseline != nil:
		return judge(m-*baseline, tol, act, "")

	default:
		// No reference at all: the raw measurement is the deviation from
		// an implicit zero.
		return judge(m, tol, act, "")
	}
}

// judge applies the inclusive tolerance/action comparison to a computed
// deviation. unitSuffix is "%%" for percent tolerances, empty otherwise.
func judge(dev float64, tol, act *ToleranceSpec, unitSuffix string) Verdict {
	abs := math.Abs(dev)

	switch {
	case abs <= tol.Magnitude:
		return Verdict{
			Status:    StatusPass,
			Deviation: &dev,
			Message:   fmt.Sprintf("Deviation %+.2f"+unitSuffix+" within tolerance ±%.2f"+unitSuffix, dev, tol.Magnitude),
		}
	case act != nil && abs <= act.Magnitude:
		return Verdict{
			Status:    StatusPass,
			Deviation: &dev,
			Message: fmt.Sprintf("Deviation %+.2f"+unitSuffix+" exceeds tolerance ±%.2f"+unitSuffix+" but is within action level ±%.2f"+unitSuffix+" - investigate",
				dev, tol.Magnitude, act.Magnitude),
		}
	case act != nil:
		return Verdict{
			Status:    StatusFail,
			Deviation: &dev,
			Message:   fmt.Sprintf("Deviation %+.2f"+unitSuffix+" exceeds action level ±%.2f"+unitSuffix, dev, act.Magnitude),
		}
	default:
		return Verdict{
			Status:    StatusFail,
			Deviation: &dev,
			Message:   fmt.Sprintf("Deviation %+.2f"+unitSuffix+" exceeds tolerance ±%.2f"+unitSuffix, dev, tol.Magnitude),
		}
	}
}

// judgeThreshold applies the max-threshold comparison: the raw value is
// judged against the limit and reported as-is, never as a "tolerance".
func judgeThreshold(m float64, tol, act *ToleranceSpec) Verdict {
	abs := math.Abs(m)

	switch {
	case abs <= tol.Magnitude:
		return Verdict{
			Status:    StatusPass,
			Deviation: &m,
			Message:   fmt.Sprintf("Value %+.2f within limit %.2f", m, tol.Magnitude),
		}
	case act != nil && abs <= act.Magnitude:
		return Verdict{
			Status:    StatusPass,
			Deviation: &m,
			Message:   fmt.Sprintf("Value %+.2f exceeds limit %.2f but is within action level %.2f - investigate", m, tol.Magnitude, act.Magnitude),
		}
	case act != nil:
		return Verdict{
			Status:    StatusFail,
			Deviation: &m,
			Message:   fmt.Sprintf("Value %+.2f exceeds action level %.2f", m, act.Magnitude),
		}
	default:
		return Verdict{
			Status:    StatusFail,
			Deviation: &m,
			Message:   fmt.Sprintf("Value %+.2f exceeds limit %.2f", m, tol.Magnitude),
		}
	}
}
