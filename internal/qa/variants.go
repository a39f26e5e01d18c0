package qa

import (
	"fmt"
	"strings"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

// ExpansionKind tags how a test is expanded into variants. A test
// matches at most one kind; equipment-type gating is applied before any
// string matching so the kinds stay disjoint.
type ExpansionKind int

const (
	ExpandNone ExpansionKind = iota
	ExpandEnergy
	ExpandDetector
	ExpandPosition
)

func (k ExpansionKind) String() string {
	switch k {
	case ExpandEnergy:
		return "energy"
	case ExpandDetector:
		return "detector"
	case ExpandPosition:
		return "position"
	default:
		return "regular"
	}
}

// EnergyPool selects which configured energy list an energy-expanded
// test enumerates.
type EnergyPool int

const (
	PoolAll EnergyPool = iota
	PoolPhoton
	PoolElectron
	PoolFFF
)

// Classification is the result of classifying one test against one
// piece of equipment.
type Classification struct {
	Kind ExpansionKind
	// Pool is meaningful only when Kind is ExpandEnergy.
	Pool EnergyPool
}

// Energy-expanded linac test ids. The id match is authoritative; the
// description heuristics below are a fallback for catalog edits.
var energyTestPools = map[string]EnergyPool{
	"DL8":  PoolPhoton,
	"DL9":  PoolElectron,
	"DL10": PoolFFF,
	"ML13": PoolAll,
	"ML14": PoolAll,
	"ML15": PoolAll,
	"Q1":   PoolAll,
	"AL6":  PoolAll,
	"AL7":  PoolAll,
	"AL10": PoolAll,
	"AL11": PoolAll,
}

var energyDescriptionHints = []string{
	"output constancy",
	"flatness constancy",
	"symmetry constancy",
	"relative dosimetry",
	"depth dose",
	"trs-398",
	"output factor",
	"output vs gantry",
	"symmetry vs gantry",
}

// Detector-expanded gamma camera test ids by frequency family.
var detectorTestIDs = map[string]bool{
	"NMD1": true, // energy window / photopeak
	"NMD2": true, // flood uniformity
	"NMW1": true, // intrinsic uniformity
	"NMW2": true, // energy resolution
	"NMQ1": true, // center of rotation
	"NMQ2": true, // head tilt
	"NMA1": true, // sensitivity
	"NMA2": true, // spatial resolution and linearity
	"NMA3": true, // count rate / dead time
}

var detectorDescriptionHints = []string{
	"photopeak",
	"energy window",
	"flood",
	"intrinsic uniformity",
	"energy resolution",
	"center of rotation",
	"head tilt",
	"sensitivity",
	"spatial resolution",
	"linearity",
	"count rate",
	"dead time",
}

var positionDescriptionHints = []string{
	"source position",
	"positional accuracy",
	"dwell position",
}

// Classify decides whether a test is evaluated once or expanded into
// variants. The equipment type gate is a cheap reject checked before the
// id tables and description heuristics.
func Classify(equipmentType string, t models.TestDefinition) Classification {
	desc := strings.ToLower(t.Description)

	switch equipmentType {
	case models.TypeLinac, models.TypeCobalt60:
		if pool, ok := energyTestPools[t.ID]; ok {
			return Classification{Kind: ExpandEnergy, Pool: pool}
		}
		for _, hint := range energyDescriptionHints {
			if strings.Contains(desc, hint) {
				return Classification{Kind: ExpandEnergy, Pool: PoolAll}
			}
		}

	case models.TypeSPECT:
		if detectorTestIDs[t.ID] {
			return Classification{Kind: ExpandDetector}
		}
		for _, hint := range detectorDescriptionHints {
			if strings.Contains(desc, hint) {
				return Classification{Kind: ExpandDetector}
			}
		}

	case models.TypeBrachyHDR:
		for _, hint := range positionDescriptionHints {
			if strings.Contains(desc, hint) {
				return Classification{Kind: ExpandPosition}
			}
		}
	}

	return Classification{Kind: ExpandNone}
}

// ConfigurationError marks a test whose expansion found zero configured
// variants. It is an actionable warning for the operator, not a fatal
// condition for the rest of the form.
type ConfigurationError struct {
	TestID string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("test %s: %s", e.TestID, e.Reason)
}

// ExpandVariants enumerates the ordered variant labels for a classified
// test from the equipment configuration. Tests classified ExpandNone
// return no labels and no error.
func ExpandVariants(eq *models.Equipment, t models.TestDefinition, class Classification) ([]string, error) {
	switch class.Kind {
	case ExpandEnergy:
		var labels []string
		switch class.Pool {
		case PoolPhoton:
			labels = append(labels, eq.PhotonEnergies...)
		case PoolElectron:
			labels = append(labels, eq.ElectronEnergies...)
		case PoolFFF:
			labels = append(labels, eq.FFFEnergies...)
		default:
			labels = eq.AllEnergies()
			if len(labels) == 0 {
				// A unit with no energies at all is misconfigured; the
				// operator has to fix the unit, not skip the test.
				return nil, &ConfigurationError{TestID: t.ID, Reason: "no energies configured for this unit"}
			}
		}
		// A specific pool may legitimately be empty (e.g. an FFF-only
		// test on a unit without FFF beams): the test has no variants.
		return labels, nil

	case ExpandDetector:
		n := eq.HeadCount()
		labels := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			labels = append(labels, fmt.Sprintf("Detector %d", i))
		}
		return labels, nil

	case ExpandPosition:
		n := eq.PositionCount()
		labels := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			labels = append(labels, fmt.Sprintf("Position %d", i))
		}
		return labels, nil

	default:
		return nil, nil
	}
}
