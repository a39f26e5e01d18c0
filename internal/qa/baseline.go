package qa

import (
	"strconv"
	"strings"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

// Baseline field names shared across equipment types (generic fallback,
// in priority order).
var genericBaselineFields = []string{
	"reference_value",
	"reference_output",
	"expected_position",
	"set_time",
}

// baselineFieldTable maps (equipment type, test id) to the baseline
// fields that hold the reference value for that test, in priority order.
// Each equipment category names its reference fields differently, so
// this is an explicit table rather than an algorithm.
var baselineFieldTable = map[string]map[string][]string{
	models.TypeCTSimulator: {
		// Daily CT number / noise / uniformity checks.
		"DCS1": {"water_hu"},
		"DCS2": {"water_hu"},
		"DCS3": {"noise_std"},
		"DCS4": {"uniformity_tolerance"},
		// Biennial dosimetry.
		"CTB1": {"ctdi_vol_reference"},
		"CTB2": {"ctdi_vol_4dct_reference"},
	},
	models.TypeLinac: {
		"DL8":  {"reference_output"},
		"DL9":  {"reference_output"},
		"DL10": {"reference_output"},
		"ML13": {"reference_flatness"},
		"ML14": {"reference_symmetry"},
		"ML15": {"reference_dose_rate"},
		"AL6":  {"reference_dose_rate"},
		"AL7":  {"output_factor_10x10", "output_factors"},
		"AL8":  {"wedge_factors"},
		"AL9":  {"accessory_factors"},
		"AL10": {"gantry_output_reference"},
		"AL11": {"gantry_symmetry_reference"},
		"AL13": {"end_effect"},
	},
	models.TypeCobalt60: {
		"CO1": {"initial_activity"},
		"CO2": {"set_time"},
	},
	models.TypeGammaKnife: {
		"GK1": {"dose_rate"},
	},
}

// mlcSubstringFields maps test-id substrings to MLC baseline fields.
// MLC catalogs use descriptive ids rather than fixed codes.
var mlcSubstringFields = []struct {
	substr string
	field  string
}{
	{"TRANSMISSION", "leaf_transmission"},
	{"LEAKAGE", "interleaf_leakage"},
}

// ResolveBaseline maps a stored baseline field map to the numeric
// reference value a test should use. Equipment-type-specific mappings
// are tried first, then the generic fallback fields; a miss returns
// ok=false, meaning no baseline is available.
func ResolveBaseline(equipmentType, testID string, values map[string]any) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	if byTest, ok := baselineFieldTable[equipmentType]; ok {
		if fields, ok := byTest[testID]; ok {
			for _, field := range fields {
				if v, ok := numericField(values, field); ok {
					return v, true
				}
			}
		}
	}

	if equipmentType == models.TypeMLC {
		upper := strings.ToUpper(testID)
		for _, rule := range mlcSubstringFields {
			if strings.Contains(upper, rule.substr) {
				if v, ok := numericField(values, rule.field); ok {
					return v, true
				}
			}
		}
	}

	for _, field := range genericBaselineFields {
		if v, ok := numericField(values, field); ok {
			return v, true
		}
	}
	return 0, false
}

// numericField extracts a float from a loosely typed baseline map.
// JSON decoding yields float64; stored integers and numeric strings are
// tolerated, anything else is ignored.
func numericField(values map[string]any, field string) (float64, bool) {
	raw, ok := values[field]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NormalizeVariantLabel converts a human variant label into its baseline
// key form: spaces become underscores ("Detector 1" -> "Detector_1").
func NormalizeVariantLabel(label string) string {
	return strings.ReplaceAll(strings.TrimSpace(label), " ", "_")
}

// BaselineKey returns the baseline store key for a test, optionally
// scoped to a variant. The daily output family uses "OUTPUT_<energy>"
// keys shared across frequencies.
func BaselineKey(testID, variantLabel string) string {
	if variantLabel == "" {
		return testID
	}
	if isDailyOutputTest(testID) {
		return "OUTPUT_" + NormalizeVariantLabel(variantLabel)
	}
	return testID + "_" + NormalizeVariantLabel(variantLabel)
}

// VariantBaselineField names the preferred reference field for a
// variant of a given expansion kind: energy variants read
// reference_output, detector and position variants read reference_value.
func VariantBaselineField(kind ExpansionKind) string {
	if kind == ExpandEnergy {
		return "reference_output"
	}
	return "reference_value"
}

// ResolveVariantBaseline looks up the reference value for one variant of
// an expanded test from the full per-equipment baseline map. Only the
// daily output family is guaranteed to store under reference_output, so
// after the kind's preferred field the lookup walks the generic list.
func ResolveVariantBaseline(kind ExpansionKind, testID, variantLabel string, baselines map[string]map[string]any) (float64, bool) {
	values, ok := baselines[BaselineKey(testID, variantLabel)]
	if !ok {
		return 0, false
	}
	if v, ok := numericField(values, VariantBaselineField(kind)); ok {
		return v, true
	}
	for _, field := range genericBaselineFields {
		if v, ok := numericField(values, field); ok {
			return v, true
		}
	}
	return 0, false
}

// isDailyOutputTest reports membership in the daily output constancy
// family, whose baselines are keyed by energy rather than test id.
func isDailyOutputTest(testID string) bool {
	switch testID {
	case "DL8", "DL9", "DL10":
		return true
	}
	return false
}
