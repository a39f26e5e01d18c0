package models

import "time"

// QAReport is one QA session header. Individual results hang off it.
type QAReport struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReportNumber string    `gorm:"size:36;uniqueIndex" json:"report_number"`
	Date         time.Time `gorm:"index;not null" json:"date"`
	Frequency    string    `gorm:"size:20;not null" json:"frequency"`
	EquipmentID  uint      `gorm:"index;not null" json:"equipment_id"`
	Equipment    Equipment `gorm:"foreignKey:EquipmentID" json:"-"`

	Performer string `gorm:"size:100;not null" json:"performer"`
	Witness   string `gorm:"size:100" json:"witness"`
	Comments  string `gorm:"type:text" json:"comments"`
	Signature string `gorm:"size:100" json:"signature"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy uint      `json:"created_by"`

	Tests []QATestResult `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"tests"`
}

// QATestResult is one persisted test entry within a report. Variant
// entries carry the variant-suffixed test id; the roll-up entry carries
// the bare id.
type QATestResult struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	ReportID uint `gorm:"index;not null" json:"-"`

	TestID      string   `gorm:"size:60;not null" json:"test_id"`
	Status      string   `gorm:"size:10" json:"status"`
	Measurement *float64 `json:"measurement,omitempty"`
	Baseline    *float64 `json:"baseline,omitempty"`
	Deviation   *float64 `json:"deviation,omitempty"`
	Notes       string   `gorm:"type:text" json:"notes"`
}

// PassCount counts tests marked pass.
func (r *QAReport) PassCount() int {
	n := 0
	for _, t := range r.Tests {
		if t.Status == "pass" {
			n++
		}
	}
	return n
}

// FailCount counts tests marked fail.
func (r *QAReport) FailCount() int {
	n := 0
	for _, t := range r.Tests {
		if t.Status == "fail" {
			n++
		}
	}
	return n
}

// OutputReading is one output constancy measurement kept for trending.
type OutputReading struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        time.Time `gorm:"index;not null" json:"date"`
	EquipmentID uint      `gorm:"index;not null" json:"equipment_id"`
	Equipment   Equipment `gorm:"foreignKey:EquipmentID" json:"-"`
	Energy      string    `gorm:"size:20;not null" json:"energy"`

	Reading   float64 `gorm:"not null" json:"reading"`
	Reference float64 `gorm:"not null" json:"reference"`
	// Deviation is stored as (reading - reference) / reference * 100.
	Deviation float64 `json:"deviation"`

	CreatedAt time.Time `json:"created_at"`
}
