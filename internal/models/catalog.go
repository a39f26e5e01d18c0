package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TestDefinition is one prescribed QA test from a catalog. Catalogs are
// reference data shipped as YAML, never written by the application.
type TestDefinition struct {
	ID                  string `yaml:"id" json:"id"`
	Description         string `yaml:"description" json:"description"`
	Category            string `yaml:"category,omitempty" json:"category,omitempty"`
	Tolerance           string `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
	ActionLevel         string `yaml:"action_level,omitempty" json:"action_level,omitempty"`
	RequiresMeasurement bool   `yaml:"requires_measurement" json:"requires_measurement"`
	MeasurementUnit     string `yaml:"measurement_unit,omitempty" json:"measurement_unit,omitempty"`
	CalculatorType      string `yaml:"calculator_type,omitempty" json:"calculator_type,omitempty"`
}

// Catalog holds all test definitions for one equipment type, grouped by
// QA frequency (daily, monthly, quarterly, annual, biennial).
type Catalog struct {
	EquipmentType string                      `yaml:"equipment_type"`
	Frequencies   map[string][]TestDefinition `yaml:"frequencies"`
}

// CatalogSet maps equipment type to its catalog.
type CatalogSet map[string]*Catalog

// LoadCatalogs reads every *.yaml catalog in dir and indexes it by
// equipment type.
func LoadCatalogs(dir string) (CatalogSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	set := CatalogSet{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", entry.Name(), err)
		}
		var cat Catalog
		if err := yaml.Unmarshal(data, &cat); err != nil {
			return nil, fmt.Errorf("failed to unmarshal catalog %s: %w", entry.Name(), err)
		}
		if cat.EquipmentType == "" {
			return nil, fmt.Errorf("catalog %s is missing equipment_type", entry.Name())
		}
		set[cat.EquipmentType] = &cat
	}
	return set, nil
}

// Tests returns the test definitions for one equipment type and frequency,
// or nil if either is unknown.
func (s CatalogSet) Tests(equipmentType, frequency string) []TestDefinition {
	cat, ok := s[equipmentType]
	if !ok {
		return nil
	}
	return cat.Frequencies[frequency]
}

// Frequencies lists the QA frequencies defined for an equipment type.
func (s CatalogSet) FrequencyNames(equipmentType string) []string {
	cat, ok := s[equipmentType]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(cat.Frequencies))
	for name := range cat.Frequencies {
		names = append(names, name)
	}
	return names
}
