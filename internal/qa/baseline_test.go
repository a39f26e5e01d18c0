package qa

import (
	"testing"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

func TestResolveBaseline_SpecificOutranksGeneric(t *testing.T) {
	values := map[string]any{
		"water_hu":        1.5,
		"reference_value": 99.0,
	}
	got, ok := ResolveBaseline(models.TypeCTSimulator, "DCS2", values)
	if !ok {
		t.Fatal("expected a baseline value")
	}
	if got != 1.5 {
		t.Errorf("got %v, want water_hu (1.5) to outrank reference_value", got)
	}
}

func TestResolveBaseline_EquipmentTable(t *testing.T) {
	tests := []struct {
		name          string
		equipmentType string
		testID        string
		values        map[string]any
		want          float64
	}{
		{"ct-noise", models.TypeCTSimulator, "DCS3", map[string]any{"noise_std": 4.2}, 4.2},
		{"ct-ctdi", models.TypeCTSimulator, "CTB1", map[string]any{"ctdi_vol_reference": 12.3}, 12.3},
		{"ct-4dct", models.TypeCTSimulator, "CTB2", map[string]any{"ctdi_vol_4dct_reference": 20.1}, 20.1},
		{"linac-flatness", models.TypeLinac, "ML13", map[string]any{"reference_flatness": 102.0}, 102.0},
		{"linac-symmetry", models.TypeLinac, "ML14", map[string]any{"reference_symmetry": 100.5}, 100.5},
		{"linac-end-effect", models.TypeLinac, "AL13", map[string]any{"end_effect": 0.4}, 0.4},
		{"linac-wedge", models.TypeLinac, "AL8", map[string]any{"wedge_factors": 0.71}, 0.71},
		{"cobalt-activity", models.TypeCobalt60, "CO1", map[string]any{"initial_activity": 185.0}, 185.0},
		{"gammaknife-dose-rate", models.TypeGammaKnife, "GK1", map[string]any{"dose_rate": 2.95}, 2.95},
		{"mlc-transmission", models.TypeMLC, "MLC_TRANSMISSION_A", map[string]any{"leaf_transmission": 1.8}, 1.8},
		{"mlc-leakage", models.TypeMLC, "MLC_LEAKAGE_CHECK", map[string]any{"interleaf_leakage": 2.4}, 2.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveBaseline(tt.equipmentType, tt.testID, tt.values)
			if !ok {
				t.Fatalf("ResolveBaseline(%s, %s): no value", tt.equipmentType, tt.testID)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveBaseline_GenericFallbackPriority(t *testing.T) {
	// reference_value outranks reference_output outranks expected_position.
	values := map[string]any{
		"reference_output":  200.0,
		"reference_value":   100.0,
		"expected_position": 995.0,
	}
	got, ok := ResolveBaseline(models.TypeBrachyHDR, "HDR9", values)
	if !ok || got != 100.0 {
		t.Fatalf("got %v ok=%v, want reference_value (100)", got, ok)
	}

	delete(values, "reference_value")
	got, _ = ResolveBaseline(models.TypeBrachyHDR, "HDR9", values)
	if got != 200.0 {
		t.Errorf("got %v, want reference_output (200)", got)
	}

	delete(values, "reference_output")
	got, _ = ResolveBaseline(models.TypeBrachyHDR, "HDR9", values)
	if got != 995.0 {
		t.Errorf("got %v, want expected_position (995)", got)
	}
}

func TestResolveBaseline_NoMatch(t *testing.T) {
	if _, ok := ResolveBaseline(models.TypeLinac, "ML2", map[string]any{"unknown_field": 1.0}); ok {
		t.Error("unknown fields must be ignored")
	}
	if _, ok := ResolveBaseline(models.TypeLinac, "ML2", nil); ok {
		t.Error("empty baseline must resolve to absent")
	}
}

func TestResolveBaseline_LooseTypes(t *testing.T) {
	got, ok := ResolveBaseline(models.TypeLinac, "DL8", map[string]any{"reference_output": "101.3"})
	if !ok || got != 101.3 {
		t.Errorf("numeric string: got %v ok=%v", got, ok)
	}
	if _, ok := ResolveBaseline(models.TypeLinac, "DL8", map[string]any{"reference_output": true}); ok {
		t.Error("non-numeric field must be skipped")
	}
}

func TestBaselineKey(t *testing.T) {
	tests := []struct {
		testID string
		label  string
		want   string
	}{
		{"ML2", "", "ML2"},
		{"NMD2", "Detector 1", "NMD2_Detector_1"},
		{"HDR1", "Position 3", "HDR1_Position_3"},
		{"DL8", "6MV", "OUTPUT_6MV"},
		{"DL9", "9MeV", "OUTPUT_9MeV"},
		{"DL10", "6MV FFF", "OUTPUT_6MV_FFF"},
	}
	for _, tt := range tests {
		if got := BaselineKey(tt.testID, tt.label); got != tt.want {
			t.Errorf("BaselineKey(%q, %q) = %q, want %q", tt.testID, tt.label, got, tt.want)
		}
	}
}

func TestResolveVariantBaseline(t *testing.T) {
	baselines := map[string]map[string]any{
		"OUTPUT_6MV":      {"reference_output": 100.2},
		"NMD2_Detector_2": {"reference_value": 3.1},
	}

	got, ok := ResolveVariantBaseline(ExpandEnergy, "DL8", "6MV", baselines)
	if !ok || got != 100.2 {
		t.Errorf("energy variant: got %v ok=%v", got, ok)
	}

	got, ok = ResolveVariantBaseline(ExpandDetector, "NMD2", "Detector 2", baselines)
	if !ok || got != 3.1 {
		t.Errorf("detector variant: got %v ok=%v", got, ok)
	}

	if _, ok := ResolveVariantBaseline(ExpandEnergy, "DL8", "15MV", baselines); ok {
		t.Error("missing variant key must resolve to absent")
	}
}

func TestResolveVariantBaseline_GenericFieldFallback(t *testing.T) {
	// Only the daily output family stores under reference_output;
	// other expanded tests may use any generic field.
	baselines := map[string]map[string]any{
		"ML13_6MV":        {"reference_value": 102.5},
		"NMD1_Detector_1": {"reference_output": 88.0},
		"HDR1_Position_1": {"expected_position": 995.0},
	}

	got, ok := ResolveVariantBaseline(ExpandEnergy, "ML13", "6MV", baselines)
	if !ok || got != 102.5 {
		t.Errorf("energy variant under reference_value: got %v ok=%v", got, ok)
	}

	got, ok = ResolveVariantBaseline(ExpandDetector, "NMD1", "Detector 1", baselines)
	if !ok || got != 88.0 {
		t.Errorf("detector variant under reference_output: got %v ok=%v", got, ok)
	}

	got, ok = ResolveVariantBaseline(ExpandPosition, "HDR1", "Position 1", baselines)
	if !ok || got != 995.0 {
		t.Errorf("position variant under expected_position: got %v ok=%v", got, ok)
	}
}
