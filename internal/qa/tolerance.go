// Package qa implements the tolerance evaluation engine: parsing of
// tolerance and action-level strings, pass/fail verdicts against stored
// baselines, per-equipment baseline field resolution, and expansion of
// nominal tests into per-energy, per-detector or per-position variants.
package qa

import (
	"regexp"
	"strconv"
	"strings"
)

// ToleranceSpec is a structured tolerance or action-level rule parsed
// from a catalog string. Exactly one interpretation applies per spec:
// percent, max-threshold, expected-value-anchored, or plain absolute.
type ToleranceSpec struct {
	// Magnitude is the half-width of the acceptance band, always >= 0.
	Magnitude float64
	// IsPercent marks a relative tolerance judged against a reference value.
	IsPercent bool
	// ExpectedValue is set when the tolerance string carried its own
	// offset, e.g. "0 ± 3 HU".
	ExpectedValue *float64
	// IsMaxThreshold marks a limit on the raw measurement itself rather
	// than on a deviation from a reference.
	IsMaxThreshold bool
}

var (
	// "<signed-number> ± <number> [unit]", e.g. "0 ± 3 HU", "120 +/- 2".
	rangeWithOffsetRe = regexp.MustCompile(`^\s*([+-]?\d+(?:\.\d+)?)\s*(?:±|\+/-)\s*(\d+(?:\.\d+)?)\s*(\S.*)?$`)

	// Entire string is a bare unsigned number with an optional known
	// unit, e.g. "5 HU", "2.00%", "1 mm", "4 lp/cm".
	bareThresholdRe = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*(%|HU|mm|°|lp/cm|RED)?\s*$`)

	// First numeric token anywhere, with a trailing "%" capture. Covers
	// "±3%", "< 1 MU", "1%/2mm", "0.5°".
	firstNumberRe = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*(%)?`)
)

// ParseTolerance turns a free-form tolerance or action-level string into
// a structured rule. It returns nil for empty input and for strings with
// no numeric token ("Functional", "Complete", "Safe"). Unit tokens beyond
// the percent check are informational only.
func ParseTolerance(s string) *ToleranceSpec {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if m := rangeWithOffsetRe.FindStringSubmatch(s); m != nil {
		expected, err1 := strconv.ParseFloat(m[1], 64)
		magnitude, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return &ToleranceSpec{Magnitude: magnitude, ExpectedValue: &expected}
		}
	}

	if !strings.Contains(s, "±") && !strings.Contains(s, "+/-") {
		if m := bareThresholdRe.FindStringSubmatch(s); m != nil {
			magnitude, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return &ToleranceSpec{
					Magnitude:      magnitude,
					IsMaxThreshold: true,
					IsPercent:      m[2] == "%",
				}
			}
		}
	}

	if m := firstNumberRe.FindStringSubmatch(s); m != nil {
		magnitude, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			if magnitude < 0 {
				magnitude = -magnitude
			}
			return &ToleranceSpec{Magnitude: magnitude, IsPercent: m[2] == "%"}
		}
	}

	return nil
}
