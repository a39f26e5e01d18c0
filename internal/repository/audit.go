package repository

import (
	"context"
	"time"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/database"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

// LogAudit appends one entry to the compliance trail. Audit writes are
// best-effort; callers log the error and move on.
func LogAudit(ctx context.Context, username, action, details, ipAddress string) error {
	entry := models.AuditLog{
		Timestamp: time.Now().UTC(),
		Username:  username,
		Action:    action,
		Details:   details,
		IPAddress: ipAddress,
	}
	return database.DB.WithContext(ctx).Create(&entry).Error
}

func ListAuditLog(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 200
	}
	var entries []models.AuditLog
	result := database.DB.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&entries)
	return entries, result.Error
}
