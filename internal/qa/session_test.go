package qa

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

func dailyOutputSession(t *testing.T) *Session {
	t.Helper()
	eq := &models.Equipment{
		Name:           "Linac 1",
		EquipmentType:  models.TypeLinac,
		PhotonEnergies: []string{"6MV", "10MV", "15MV"},
	}
	tests := []models.TestDefinition{
		{ID: "DL1", Description: "Door interlock", Tolerance: "Functional", ActionLevel: "Functional"},
		{ID: "DL8", Description: "Output constancy – photons", Tolerance: "2.00%", ActionLevel: "3.00%", RequiresMeasurement: true},
	}
	baselines := map[string]map[string]any{
		"OUTPUT_6MV":  {"reference_output": 100.0},
		"OUTPUT_10MV": {"reference_output": 100.0},
		"OUTPUT_15MV": {"reference_output": 100.0},
	}
	return NewSession(eq, "daily", tests, baselines)
}

func TestSession_InitializesVariants(t *testing.T) {
	s := dailyOutputSession(t)

	if len(s.Variants["DL1"]) != 0 {
		t.Error("functional test must not expand")
	}
	variants := s.Variants["DL8"]
	if len(variants) != 3 {
		t.Fatalf("got %d variants, want 3", len(variants))
	}
	for _, vr := range variants {
		if vr.Baseline == nil || *vr.Baseline != 100.0 {
			t.Errorf("variant %s: baseline %v, want 100", vr.VariantLabel, vr.Baseline)
		}
	}
}

func TestSession_AggregateFailWins(t *testing.T) {
	s := dailyOutputSession(t)

	s.SetVariantMeasurement("DL8", "6MV", fptr(101))  // pass
	s.SetVariantMeasurement("DL8", "10MV", fptr(100)) // pass
	s.SetVariantMeasurement("DL8", "15MV", fptr(105)) // fail, beyond 3% action

	if got := s.Results["DL8"].Status; got != StatusFail {
		t.Errorf("parent status: got %q, want fail", got)
	}
}

func TestSession_AggregatePassWithNA(t *testing.T) {
	s := dailyOutputSession(t)

	s.SetVariantMeasurement("DL8", "6MV", fptr(101))
	s.SetVariantMeasurement("DL8", "10MV", fptr(99))
	s.SetVariantNA("DL8", "15MV")

	if got := s.Results["DL8"].Status; got != StatusPass {
		t.Errorf("parent status: got %q, want pass", got)
	}
}

func TestSession_AggregateUnmeasuredBlocks(t *testing.T) {
	s := dailyOutputSession(t)

	s.SetVariantMeasurement("DL8", "6MV", fptr(101))
	s.SetVariantMeasurement("DL8", "15MV", fptr(99))
	// 10MV stays unmeasured.

	if got := s.Results["DL8"].Status; got != StatusNone {
		t.Errorf("parent status: got %q, want unresolved", got)
	}
}

func TestSession_FailClearsOnRemeasure(t *testing.T) {
	s := dailyOutputSession(t)

	s.SetVariantMeasurement("DL8", "6MV", fptr(105))
	if s.Results["DL8"].Status != StatusFail {
		t.Fatal("a single measured fail must fail the parent immediately")
	}
	s.SetVariantMeasurement("DL8", "10MV", fptr(100))
	s.SetVariantMeasurement("DL8", "15MV", fptr(100))
	if s.Results["DL8"].Status != StatusFail {
		t.Fatal("parent must stay failed while a variant is out of band")
	}

	// Re-measuring the failed variant back in band recovers the parent.
	s.SetVariantMeasurement("DL8", "6MV", fptr(100.5))
	if got := s.Results["DL8"].Status; got != StatusPass {
		t.Errorf("parent after re-measure: got %q, want pass", got)
	}
}

func TestSession_ManualOverrideWins(t *testing.T) {
	s := dailyOutputSession(t)

	s.OverrideStatus("DL8", StatusNA)
	s.SetVariantMeasurement("DL8", "6MV", fptr(105)) // would fail

	if got := s.Results["DL8"].Status; got != StatusNA {
		t.Errorf("override lost: got %q, want na", got)
	}
}

func TestSession_ConfigurationWarning(t *testing.T) {
	eq := &models.Equipment{Name: "Bare", EquipmentType: models.TypeLinac}
	tests := []models.TestDefinition{
		{ID: "ML13", Description: "Beam flatness constancy", Tolerance: "1%", ActionLevel: "2%"},
		{ID: "ML2", Description: "Lasers and crosswires", Tolerance: "1 mm", ActionLevel: "2 mm"},
	}

	s := NewSession(eq, "monthly", tests, nil)

	if len(s.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(s.Warnings), s.Warnings)
	}
	// The rest of the form stays usable.
	v := s.SetMeasurement("ML2", fptr(0.5))
	if v.Status != StatusPass {
		t.Errorf("unexpanded test after warning: got %q", v.Status)
	}
}

func TestSession_FailureNoteDefaultsToMessage(t *testing.T) {
	s := dailyOutputSession(t)

	v := s.SetVariantMeasurement("DL8", "6MV", fptr(105))
	if v.Status != StatusFail {
		t.Fatalf("expected fail, got %q", v.Status)
	}
	variants := s.Variants["DL8"]
	if variants[0].Notes != v.Message {
		t.Errorf("failure note: got %q, want evaluator message %q", variants[0].Notes, v.Message)
	}
}

func TestSession_BuildSubmission(t *testing.T) {
	eq := &models.Equipment{
		Name:           "Linac 1",
		EquipmentType:  models.TypeLinac,
		PhotonEnergies: []string{"6MV", "10MV"},
	}
	tests := []models.TestDefinition{
		{ID: "DL8", Description: "Output constancy – photons", Tolerance: "2.00%", ActionLevel: "3.00%", RequiresMeasurement: true},
	}
	baselines := map[string]map[string]any{
		"OUTPUT_6MV":  {"reference_output": 100.0},
		"OUTPUT_10MV": {"reference_output": 100.0},
	}
	s := NewSession(eq, "daily", tests, baselines)
	s.SetVariantMeasurement("DL8", "6MV", fptr(101))
	s.SetVariantMeasurement("DL8", "10MV", fptr(99))

	entries := s.BuildSubmission()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 2 variants + 1 roll-up", len(entries))
	}

	ids := []string{entries[0].TestID, entries[1].TestID, entries[2].TestID}
	want := []string{"DL8_6MV", "DL8_10MV", "DL8"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("entry ids (-want +got):\n%s", diff)
	}

	// Variant entries carry their own evidence.
	if entries[0].Measurement == nil || *entries[0].Measurement != 101 {
		t.Errorf("variant measurement missing: %+v", entries[0])
	}
	if entries[0].Deviation == nil || *entries[0].Deviation != 1.0 {
		t.Errorf("variant deviation: %+v", entries[0])
	}
	// Roll-up carries the computed overall status.
	if entries[2].Status != StatusPass {
		t.Errorf("roll-up status: got %q, want pass", entries[2].Status)
	}
}
