package qa

import (
	"math"
	"strings"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func TestEvaluate_PercentTolerance(t *testing.T) {
	tests := []struct {
		name        string
		measurement float64
		baseline    float64
		tolerance   string
		action      string
		wantStatus  string
		wantDev     float64
		investigate bool
	}{
		{"on-boundary-passes", 103, 100, "±3%", "±5%", StatusPass, 3.0, false},
		{"within-tolerance", 101, 100, "±3%", "±5%", StatusPass, 1.0, false},
		{"within-action", 104, 100, "±3%", "±5%", StatusPass, 4.0, true},
		{"on-action-boundary", 105, 100, "±3%", "±5%", StatusPass, 5.0, true},
		{"beyond-action", 106, 100, "±3%", "±5%", StatusFail, 6.0, false},
		{"negative-deviation", 97, 100, "±3%", "±5%", StatusPass, -3.0, false},
		{"bare-percent-is-relative", 102, 100, "2.00%", "3.00%", StatusPass, 2.0, false},
		{"no-action-fails-immediately", 104, 100, "±3%", "", StatusFail, 4.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(fptr(tt.measurement), fptr(tt.baseline), tt.tolerance, tt.action)
			if v.Status != tt.wantStatus {
				t.Errorf("status: got %q, want %q (message %q)", v.Status, tt.wantStatus, v.Message)
			}
			if v.Deviation == nil || math.Abs(*v.Deviation-tt.wantDev) > 1e-9 {
				t.Errorf("deviation: got %v, want %v", v.Deviation, tt.wantDev)
			}
			gotInvestigate := strings.Contains(v.Message, "investigate")
			if gotInvestigate != tt.investigate {
				t.Errorf("investigate message: got %v, want %v (message %q)", gotInvestigate, tt.investigate, v.Message)
			}
		})
	}
}

func TestEvaluate_PercentNeedsReference(t *testing.T) {
	v := Evaluate(fptr(103), nil, "±3%", "")
	if v.Status != StatusNone || v.Message != "Enter reference value" {
		t.Errorf("missing baseline: got status %q message %q", v.Status, v.Message)
	}

	zero := 0.0
	v = Evaluate(fptr(103), &zero, "±3%", "")
	if v.Status != StatusNone || v.Message != "Enter reference value" {
		t.Errorf("zero baseline: got status %q message %q", v.Status, v.Message)
	}
}

func TestEvaluate_MaxThreshold(t *testing.T) {
	tests := []struct {
		name        string
		measurement float64
		wantStatus  string
	}{
		{"within-limit", 4, StatusPass},
		{"on-limit", 5, StatusPass},
		{"within-action", 6, StatusPass},
		{"on-action", 10, StatusPass},
		{"beyond-action", 12, StatusFail},
		{"negative-within", -4, StatusPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(fptr(tt.measurement), nil, "5 HU", "10 HU")
			if v.Status != tt.wantStatus {
				t.Errorf("status: got %q, want %q (message %q)", v.Status, tt.wantStatus, v.Message)
			}
			// The displayed deviation is the raw value for this kind.
			if v.Deviation == nil || *v.Deviation != tt.measurement {
				t.Errorf("deviation: got %v, want raw value %v", v.Deviation, tt.measurement)
			}
			if strings.Contains(v.Message, "tolerance") {
				t.Errorf("max-threshold message must not mention tolerance: %q", v.Message)
			}
		})
	}
}

func TestEvaluate_ExpectedValueAnchored(t *testing.T) {
	// "0 ± 3 HU": a tolerance carrying its own offset. Without a stored
	// baseline the catalog's expected value anchors the deviation.
	v := Evaluate(fptr(2), nil, "0 ± 3 HU", "5 HU")
	if v.Status != StatusPass {
		t.Fatalf("status: got %q (message %q)", v.Status, v.Message)
	}
	if v.Deviation == nil || *v.Deviation != 2 {
		t.Errorf("deviation: got %v, want 2", v.Deviation)
	}

	// A stored baseline takes over as the anchor.
	v = Evaluate(fptr(2), fptr(1), "0 ± 3 HU", "")
	if v.Deviation == nil || *v.Deviation != 1 {
		t.Errorf("deviation with baseline anchor: got %v, want 1", v.Deviation)
	}
}

func TestEvaluate_PlainAbsolute(t *testing.T) {
	// With a baseline the deviation is the difference.
	v := Evaluate(fptr(90.5), fptr(90.0), "±1°", "±2°")
	if v.Status != StatusPass {
		t.Fatalf("status: got %q (message %q)", v.Status, v.Message)
	}
	if v.Deviation == nil || math.Abs(*v.Deviation-0.5) > 1e-9 {
		t.Errorf("deviation: got %v, want 0.5", v.Deviation)
	}

	// Without a baseline the raw measurement is the deviation from an
	// implicit zero.
	v = Evaluate(fptr(1.5), nil, "±1 mm", "±2 mm")
	if v.Status != StatusPass || !strings.Contains(v.Message, "investigate") {
		t.Fatalf("raw deviation within action: got status %q message %q", v.Status, v.Message)
	}
}

func TestEvaluate_IncompleteInput(t *testing.T) {
	if v := Evaluate(nil, nil, "±3%", ""); v.Status != StatusNone || v.Message != "" || v.Deviation != nil {
		t.Errorf("nil measurement: got %+v", v)
	}
	if v := Evaluate(fptr(1), nil, "Functional", ""); v.Status != StatusNone || v.Message != "Enter measurement" {
		t.Errorf("unparsable tolerance: got %+v", v)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	first := Evaluate(fptr(104), fptr(100), "±3%", "±5%")
	for i := 0; i < 5; i++ {
		again := Evaluate(fptr(104), fptr(100), "±3%", "±5%")
		if again.Status != first.Status || again.Message != first.Message ||
			*again.Deviation != *first.Deviation {
			t.Fatalf("evaluation is not idempotent: %+v vs %+v", first, again)
		}
	}
}

func TestEvaluate_MessageFormat(t *testing.T) {
	v := Evaluate(fptr(106), fptr(100), "±3%", "±5%")
	if !strings.Contains(v.Message, "+6.00%") {
		t.Errorf("message must carry the sign-prefixed deviation: %q", v.Message)
	}
	if !strings.Contains(v.Message, "5.00%") {
		t.Errorf("message must name the boundary it was judged against: %q", v.Message)
	}
}
