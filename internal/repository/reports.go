package repository

import (
	"context"
	"time"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/database"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

// SaveReportTx persists a report header and all of its test entries in a
// single transaction, so a partial save can never appear in the audit
// trail.
func SaveReportTx(ctx context.Context, report *models.QAReport, tests []models.QATestResult) error {
	tx := database.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	if err := tx.Create(report).Error; err != nil {
		return err
	}
	for i := range tests {
		tests[i].ReportID = report.ID
	}
	if len(tests) > 0 {
		if err := tx.Create(&tests).Error; err != nil {
			return err
		}
	}
	return tx.Commit().Error
}

func GetReport(ctx context.Context, id uint) (*models.QAReport, error) {
	var report models.QAReport
	result := database.DB.WithContext(ctx).Preload("Tests").Preload("Equipment").First(&report, id)
	return &report, result.Error
}

// ReportFilter narrows the history listing.
type ReportFilter struct {
	Start       *time.Time
	End         *time.Time
	Frequency   string
	EquipmentID uint
}

func ListReports(ctx context.Context, filter ReportFilter) ([]models.QAReport, error) {
	q := database.DB.WithContext(ctx).Preload("Equipment").Preload("Tests").Order("date DESC")
	if filter.Start != nil {
		q = q.Where("date >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("date <= ?", *filter.End)
	}
	if filter.Frequency != "" && filter.Frequency != "all" {
		q = q.Where("frequency = ?", filter.Frequency)
	}
	if filter.EquipmentID != 0 {
		q = q.Where("equipment_id = ?", filter.EquipmentID)
	}
	var reports []models.QAReport
	result := q.Find(&reports)
	return reports, result.Error
}

// LastReportDate returns when a unit last had QA of the given frequency,
// or nil if it never did.
func LastReportDate(ctx context.Context, equipmentID uint, frequency string) (*time.Time, error) {
	var report models.QAReport
	result := database.DB.WithContext(ctx).
		Where("equipment_id = ? AND frequency = ?", equipmentID, frequency).
		Order("date DESC").First(&report)
	if result.Error != nil {
		return nil, result.Error
	}
	return &report.Date, nil
}
