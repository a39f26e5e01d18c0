package qa

import (
	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

// MeasurementResult is the in-memory state of one test within a form
// session. It lives only for the session and is either discarded or
// turned into persisted QATestResult rows on submission.
type MeasurementResult struct {
	TestID      string   `json:"test_id"`
	Status      string   `json:"status"`
	Measurement *float64 `json:"measurement,omitempty"`
	Baseline    *float64 `json:"baseline,omitempty"`
	Deviation   *float64 `json:"deviation,omitempty"`
	Notes       string   `json:"notes"`
	// Overridden marks a manual status set by the operator, which always
	// wins over the computed variant aggregate.
	Overridden bool `json:"overridden,omitempty"`
}

// VariantResult is one independently evaluated sub-instance of an
// expanded test. Secondary holds the second reading of two-parameter
// tests (e.g. flatness and symmetry recorded together).
type VariantResult struct {
	TestID       string   `json:"test_id"`
	VariantLabel string   `json:"variant_label"`
	Status       string   `json:"status"`
	Measurement  *float64 `json:"measurement,omitempty"`
	Secondary    *float64 `json:"secondary,omitempty"`
	Baseline     *float64 `json:"baseline,omitempty"`
	Deviation    *float64 `json:"deviation,omitempty"`
	Notes        string   `json:"notes"`
}

// SubmissionEntry is one row of the assembled report payload handed to
// the report sink.
type SubmissionEntry struct {
	TestID      string   `json:"test_id"`
	Status      string   `json:"status"`
	Measurement *float64 `json:"measurement,omitempty"`
	Baseline    *float64 `json:"baseline,omitempty"`
	Deviation   *float64 `json:"deviation,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// Session holds the evaluation state of one QA form: the catalog tests
// for the selected equipment and frequency, one MeasurementResult per
// test, and per-variant results for expanded tests. All methods are
// synchronous in-memory computations; persistence happens elsewhere and
// its failure never invalidates a session.
type Session struct {
	Equipment *models.Equipment
	Frequency string
	Tests     []models.TestDefinition

	Results  map[string]*MeasurementResult
	Variants map[string][]*VariantResult

	// Baselines is the equipment's stored baseline map keyed by baseline
	// key, as returned by the baseline store.
	Baselines map[string]map[string]any

	// Warnings collects configuration gaps found during expansion, e.g.
	// an energy-expanded test on a unit with no configured energies.
	Warnings []string
}

// NewSession builds the evaluation state for one form: classifies every
// test, expands variants from the equipment configuration, and resolves
// baselines up front.
func NewSession(eq *models.Equipment, frequency string, tests []models.TestDefinition, baselines map[string]map[string]any) *Session {
	s := &Session{
		Equipment: eq,
		Frequency: frequency,
		Tests:     tests,
		Results:   make(map[string]*MeasurementResult, len(tests)),
		Variants:  make(map[string][]*VariantResult),
		Baselines: baselines,
	}

	for _, t := range tests {
		result := &MeasurementResult{TestID: t.ID}
		if v, ok := s.resolveTestBaseline(t.ID); ok {
			result.Baseline = &v
		}
		s.Results[t.ID] = result

		class := Classify(eq.EquipmentType, t)
		if class.Kind == ExpandNone {
			continue
		}
		labels, err := ExpandVariants(eq, t, class)
		if err != nil {
			s.Warnings = append(s.Warnings, err.Error())
			continue
		}
		variants := make([]*VariantResult, 0, len(labels))
		for _, label := range labels {
			vr := &VariantResult{TestID: t.ID, VariantLabel: label}
			if v, ok := ResolveVariantBaseline(class.Kind, t.ID, label, baselines); ok {
				vr.Baseline = &v
			}
			variants = append(variants, vr)
		}
		s.Variants[t.ID] = variants
	}
	return s
}

func (s *Session) resolveTestBaseline(testID string) (float64, bool) {
	values, ok := s.Baselines[testID]
	if !ok {
		return 0, false
	}
	return ResolveBaseline(s.Equipment.EquipmentType, testID, values)
}

// definition returns the catalog entry for a test id.
func (s *Session) definition(testID string) (models.TestDefinition, bool) {
	for _, t := range s.Tests {
		if t.ID == testID {
			return t, true
		}
	}
	return models.TestDefinition{}, false
}

// SetMeasurement records a measurement on an unexpanded test and
// re-evaluates it.
func (s *Session) SetMeasurement(testID string, measurement *float64) Verdict {
	def, ok := s.definition(testID)
	result := s.Results[testID]
	if !ok || result == nil {
		return Verdict{Status: StatusNone}
	}

	result.Measurement = measurement
	verdict := Evaluate(measurement, result.Baseline, def.Tolerance, def.ActionLevel)
	result.Status = verdict.Status
	result.Deviation = verdict.Deviation
	if verdict.Status == StatusFail && result.Notes == "" {
		result.Notes = verdict.Message
	}
	return verdict
}

// SetVariantMeasurement records a measurement on one variant of an
// expanded test, re-evaluates that variant, then recomputes the parent
// test's overall status.
func (s *Session) SetVariantMeasurement(testID, variantLabel string, measurement *float64) Verdict {
	def, ok := s.definition(testID)
	if !ok {
		return Verdict{Status: StatusNone}
	}

	var variant *VariantResult
	for _, vr := range s.Variants[testID] {
		if vr.VariantLabel == variantLabel {
			variant = vr
			break
		}
	}
	if variant == nil {
		return Verdict{Status: StatusNone}
	}

	variant.Measurement = measurement
	verdict := Evaluate(measurement, variant.Baseline, def.Tolerance, def.ActionLevel)
	variant.Status = verdict.Status
	variant.Deviation = verdict.Deviation
	if verdict.Status == StatusFail && variant.Notes == "" {
		variant.Notes = verdict.Message
	}

	s.recomputeParent(testID)
	return verdict
}

// SetVariantNA marks one variant not applicable and recomputes the
// parent.
func (s *Session) SetVariantNA(testID, variantLabel string) {
	for _, vr := range s.Variants[testID] {
		if vr.VariantLabel == variantLabel {
			vr.Status = StatusNA
			vr.Measurement = nil
			vr.Deviation = nil
			s.recomputeParent(testID)
			return
		}
	}
}

// OverrideStatus sets a manual status on the parent test. The override
// is preserved verbatim through later variant updates and submission.
func (s *Session) OverrideStatus(testID, status string) {
	if result := s.Results[testID]; result != nil {
		result.Status = status
		result.Overridden = true
	}
}

// recomputeParent folds the variant verdicts into the parent status
// unless a manual override is in place.
func (s *Session) recomputeParent(testID string) {
	result := s.Results[testID]
	if result == nil || result.Overridden {
		return
	}
	result.Status = AggregateStatus(s.Variants[testID])
}

// AggregateStatus rolls variant-level verdicts into one overall status:
// any measured fail fails the parent; the parent passes when every
// variant is resolved (pass or na) and at least one was measured;
// anything else leaves the parent unresolved. The same fold serves all
// three expansion kinds.
func AggregateStatus(variants []*VariantResult) string {
	anyMeasured := false
	allResolved := true
	for _, vr := range variants {
		if vr.Measurement != nil {
			anyMeasured = true
			if vr.Status == StatusFail {
				return StatusFail
			}
		}
		switch vr.Status {
		case StatusPass, StatusNA:
			// resolved
		default:
			allResolved = false
		}
	}
	if !anyMeasured || !allResolved {
		return StatusNone
	}
	return StatusPass
}

// BuildSubmission assembles the report payload: one entry per variant
// carrying its own evidence, plus one roll-up entry per test with the
// bare test id. Both are required downstream; audit trails need the
// per-variant rows.
func (s *Session) BuildSubmission() []SubmissionEntry {
	entries := make([]SubmissionEntry, 0, len(s.Tests))
	for _, t := range s.Tests {
		result := s.Results[t.ID]
		if result == nil {
			continue
		}
		for _, vr := range s.Variants[t.ID] {
			entries = append(entries, SubmissionEntry{
				TestID:      t.ID + "_" + NormalizeVariantLabel(vr.VariantLabel),
				Status:      vr.Status,
				Measurement: vr.Measurement,
				Baseline:    vr.Baseline,
				Deviation:   vr.Deviation,
				Notes:       vr.Notes,
			})
		}
		entries = append(entries, SubmissionEntry{
			TestID:      t.ID,
			Status:      result.Status,
			Measurement: result.Measurement,
			Baseline:    result.Baseline,
			Deviation:   result.Deviation,
			Notes:       result.Notes,
		})
	}
	return entries
}
