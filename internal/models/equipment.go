package models

import (
	"time"

	"github.com/lib/pq"
)

// Equipment type identifiers. These key the test catalogs, the baseline
// field tables and the variant expansion gates.
const (
	TypeLinac       = "linac"
	TypeCTSimulator = "ct_simulator"
	TypeBrachyHDR   = "brachy_hdr"
	TypeCobalt60    = "cobalt60"
	TypeGammaKnife  = "gamma_knife"
	TypeMLC         = "mlc"
	TypeSPECT       = "spect"
)

// Equipment is a treatment or imaging machine under a QA program.
type Equipment struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"size:50;uniqueIndex;not null" json:"name"`
	EquipmentType string     `gorm:"size:30;index;not null" json:"equipment_type"`
	Manufacturer  string     `gorm:"size:50" json:"manufacturer"`
	Model         string     `gorm:"size:50" json:"model"`
	SerialNumber  string     `gorm:"size:50" json:"serial_number"`
	Location      string     `gorm:"size:100" json:"location"`
	InstallDate   *time.Time `json:"install_date,omitempty"`

	// Configured beam energies, e.g. ["6MV", "15MV"], ["6MeV", "9MeV"],
	// ["6MV FFF"]. Only meaningful for linacs.
	PhotonEnergies   pq.StringArray `gorm:"type:text[]" json:"photon_energies"`
	ElectronEnergies pq.StringArray `gorm:"type:text[]" json:"electron_energies"`
	FFFEnergies      pq.StringArray `gorm:"type:text[]" json:"fff_energies"`

	// Gamma camera head count and HDR source dwell positions to verify.
	DetectorHeads        int `gorm:"default:2" json:"detector_heads"`
	SourcePositionChecks int `gorm:"default:1" json:"source_position_checks"`

	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllEnergies returns every configured beam energy: photon, electron and FFF.
func (e *Equipment) AllEnergies() []string {
	out := make([]string, 0, len(e.PhotonEnergies)+len(e.ElectronEnergies)+len(e.FFFEnergies))
	out = append(out, e.PhotonEnergies...)
	out = append(out, e.ElectronEnergies...)
	out = append(out, e.FFFEnergies...)
	return out
}

// HeadCount returns the configured detector head count, defaulting to 2
// when the row predates the column.
func (e *Equipment) HeadCount() int {
	if e.DetectorHeads <= 0 {
		return 2
	}
	return e.DetectorHeads
}

// PositionCount returns the configured source position check count,
// defaulting to 1.
func (e *Equipment) PositionCount() int {
	if e.SourcePositionChecks <= 0 {
		return 1
	}
	return e.SourcePositionChecks
}
