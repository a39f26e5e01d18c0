package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/database"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

// GetBaselines loads the full baseline map for one piece of equipment,
// keyed by baseline key and decoded to the loose field maps the
// evaluation engine consumes.
func GetBaselines(ctx context.Context, equipmentID uint) (map[string]map[string]any, error) {
	var rows []models.Baseline
	if err := database.DB.WithContext(ctx).Where("equipment_id = ?", equipmentID).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]map[string]any, len(rows))
	for i := range rows {
		values, err := rows[i].ValueMap()
		if err != nil {
			// A corrupt row must not take the whole form down; it reads
			// as "no baseline available" for that key.
			continue
		}
		out[rows[i].Key] = values
	}
	return out, nil
}

// PutBaseline upserts one baseline record.
func PutBaseline(ctx context.Context, equipmentID uint, key string, values map[string]any, sourceSerial string) error {
	row := models.Baseline{
		EquipmentID:  equipmentID,
		Key:          key,
		SourceSerial: sourceSerial,
	}
	if err := row.SetValueMap(values); err != nil {
		return err
	}
	return database.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "equipment_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"values", "source_serial", "updated_at"}),
	}).Create(&row).Error
}
