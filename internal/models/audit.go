package models

import "time"

// AuditLog is the compliance trail. Every login, report save, unit edit
// and export lands here.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	Username  string    `gorm:"size:100" json:"username"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
}
