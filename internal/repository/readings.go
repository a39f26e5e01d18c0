package repository

import (
	"context"
	"time"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/database"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

func SaveOutputReading(ctx context.Context, reading *models.OutputReading) error {
	return database.DB.WithContext(ctx).Create(reading).Error
}

// GetOutputTrend returns the output deviation series for one unit and
// energy over the last `days` days, oldest first.
func GetOutputTrend(ctx context.Context, equipmentID uint, energy string, days int) ([]models.OutputReading, error) {
	since := time.Now().AddDate(0, 0, -days)
	var readings []models.OutputReading
	result := database.DB.WithContext(ctx).
		Where("equipment_id = ? AND energy = ? AND date >= ?", equipmentID, energy, since).
		Order("date").Find(&readings)
	return readings, result.Error
}
