package models

import (
	"encoding/json"
	"time"
)

// Baseline is one stored reference record for a piece of equipment,
// keyed by a baseline key: the bare test id for ordinary tests,
// "<test_id>_<variant label>" for variant tests, or "OUTPUT_<energy>"
// for the daily output family. Values is a loosely typed field map
// whose meaningful keys depend on equipment type and test identity.
type Baseline struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	EquipmentID  uint      `gorm:"index:idx_baseline_key,unique;not null" json:"equipment_id"`
	Key          string    `gorm:"size:80;index:idx_baseline_key,unique;not null" json:"key"`
	Values       []byte    `gorm:"type:jsonb" json:"-"`
	SourceSerial string    `gorm:"size:50" json:"source_serial,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValueMap decodes the stored field map. An empty record decodes to an
// empty map rather than an error.
func (b *Baseline) ValueMap() (map[string]any, error) {
	if len(b.Values) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(b.Values, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// SetValueMap encodes and stores the field map.
func (b *Baseline) SetValueMap(m map[string]any) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	b.Values = data
	return nil
}
