package qa

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

func testLinac() *models.Equipment {
	return &models.Equipment{
		Name:             "TrueBeam",
		EquipmentType:    models.TypeLinac,
		PhotonEnergies:   []string{"6MV", "10MV", "15MV"},
		ElectronEnergies: []string{"6MeV", "9MeV"},
		FFFEnergies:      []string{"6MV FFF"},
	}
}

func TestClassify_EnergyTests(t *testing.T) {
	tests := []struct {
		name     string
		def      models.TestDefinition
		wantPool EnergyPool
	}{
		{"photon-output", models.TestDefinition{ID: "DL8", Description: "Output constancy – photons"}, PoolPhoton},
		{"electron-output", models.TestDefinition{ID: "DL9", Description: "Output constancy – electrons"}, PoolElectron},
		{"fff-output", models.TestDefinition{ID: "DL10", Description: "Output constancy – FFF beams"}, PoolFFF},
		{"flatness", models.TestDefinition{ID: "ML13", Description: "Beam flatness constancy"}, PoolAll},
		{"trs398", models.TestDefinition{ID: "AL6", Description: "TRS-398 calibration"}, PoolAll},
		{"depth-dose", models.TestDefinition{ID: "Q1", Description: "Central axis depth dose reproducibility"}, PoolAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := Classify(models.TypeLinac, tt.def)
			if class.Kind != ExpandEnergy {
				t.Fatalf("kind: got %s, want energy", class.Kind)
			}
			if class.Pool != tt.wantPool {
				t.Errorf("pool: got %v, want %v", class.Pool, tt.wantPool)
			}
		})
	}
}

func TestClassify_DescriptionFallback(t *testing.T) {
	// An edited catalog id still classifies through the description.
	def := models.TestDefinition{ID: "ML99", Description: "Relative dosimetry constancy check"}
	class := Classify(models.TypeLinac, def)
	if class.Kind != ExpandEnergy || class.Pool != PoolAll {
		t.Errorf("got %s/%v, want energy/all", class.Kind, class.Pool)
	}
}

func TestClassify_EquipmentGate(t *testing.T) {
	// The same wording never classifies on a non-applicable equipment
	// type: the gate is checked before string matching.
	def := models.TestDefinition{ID: "DCS9", Description: "Output constancy"}
	if class := Classify(models.TypeCTSimulator, def); class.Kind != ExpandNone {
		t.Errorf("ct_simulator test classified as %s", class.Kind)
	}

	det := models.TestDefinition{ID: "NMD2", Description: "Flood uniformity"}
	if class := Classify(models.TypeLinac, det); class.Kind != ExpandNone {
		t.Errorf("detector test on linac classified as %s", class.Kind)
	}
}

func TestClassify_DetectorAndPosition(t *testing.T) {
	det := Classify(models.TypeSPECT, models.TestDefinition{ID: "NMQ1", Description: "Center of rotation"})
	if det.Kind != ExpandDetector {
		t.Errorf("detector: got %s", det.Kind)
	}

	pos := Classify(models.TypeBrachyHDR, models.TestDefinition{ID: "HDR1", Description: "Source positional accuracy"})
	if pos.Kind != ExpandPosition {
		t.Errorf("position: got %s", pos.Kind)
	}

	plain := Classify(models.TypeBrachyHDR, models.TestDefinition{ID: "HDR3", Description: "Timer accuracy"})
	if plain.Kind != ExpandNone {
		t.Errorf("plain: got %s", plain.Kind)
	}
}

func TestExpandVariants_EnergyPools(t *testing.T) {
	eq := testLinac()

	tests := []struct {
		name string
		def  models.TestDefinition
		want []string
	}{
		{"photon", models.TestDefinition{ID: "DL8", Description: "Output constancy – photons"}, []string{"6MV", "10MV", "15MV"}},
		{"electron", models.TestDefinition{ID: "DL9", Description: "Output constancy – electrons"}, []string{"6MeV", "9MeV"}},
		{"fff", models.TestDefinition{ID: "DL10", Description: "Output constancy – FFF beams"}, []string{"6MV FFF"}},
		{"all", models.TestDefinition{ID: "ML13", Description: "Beam flatness constancy"}, []string{"6MV", "10MV", "15MV", "6MeV", "9MeV", "6MV FFF"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := Classify(eq.EquipmentType, tt.def)
			labels, err := ExpandVariants(eq, tt.def, class)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, labels); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpandVariants_NoEnergiesConfigured(t *testing.T) {
	eq := &models.Equipment{Name: "Bare", EquipmentType: models.TypeLinac}
	def := models.TestDefinition{ID: "ML13", Description: "Beam flatness constancy"}

	_, err := ExpandVariants(eq, def, Classify(eq.EquipmentType, def))
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("want ConfigurationError, got %v", err)
	}
	if confErr.TestID != "ML13" {
		t.Errorf("warning names test %q, want ML13", confErr.TestID)
	}
}

func TestExpandVariants_DetectorCount(t *testing.T) {
	eq := &models.Equipment{EquipmentType: models.TypeSPECT, DetectorHeads: 3}
	def := models.TestDefinition{ID: "NMD2", Description: "Flood uniformity"}

	labels, err := ExpandVariants(eq, def, Classify(eq.EquipmentType, def))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Detector 1", "Detector 2", "Detector 3"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	// Unset head count defaults to 2.
	eq.DetectorHeads = 0
	labels, _ = ExpandVariants(eq, def, Classify(eq.EquipmentType, def))
	if len(labels) != 2 {
		t.Errorf("default head count: got %d labels, want 2", len(labels))
	}
}

func TestExpandVariants_PositionCount(t *testing.T) {
	eq := &models.Equipment{EquipmentType: models.TypeBrachyHDR, SourcePositionChecks: 4}
	def := models.TestDefinition{ID: "HDR1", Description: "Source positional accuracy"}

	labels, err := ExpandVariants(eq, def, Classify(eq.EquipmentType, def))
	if err != nil {
		t.Fatal(err)
	}
	if len(labels) != 4 || labels[0] != "Position 1" || labels[3] != "Position 4" {
		t.Errorf("labels: got %v", labels)
	}
}

// Classification must stay disjoint per equipment type: no test may
// match more than one expansion rule on its own equipment.
func TestClassify_DisjointOnCatalogs(t *testing.T) {
	catalogs, err := models.LoadCatalogs("../../config/catalogs")
	if err != nil {
		t.Skipf("catalogs not available: %v", err)
	}

	for eqType, cat := range catalogs {
		for freq, tests := range cat.Frequencies {
			for _, def := range tests {
				matches := 0
				if c := Classify(eqType, def); c.Kind != ExpandNone {
					matches++
				}
				// Re-running on foreign gated types must never add a
				// second kind for the same catalog entry.
				for _, other := range []string{models.TypeSPECT, models.TypeBrachyHDR} {
					if other == eqType {
						continue
					}
					if c := Classify(other, def); c.Kind != ExpandNone {
						matches++
					}
				}
				if matches > 1 {
					t.Errorf("%s/%s test %s matches %d expansion rules", eqType, freq, def.ID, matches)
				}
			}
		}
	}
}
