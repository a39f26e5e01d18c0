package repository

import (
	"context"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/database"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

func GetEquipment(ctx context.Context, id uint) (*models.Equipment, error) {
	var eq models.Equipment
	result := database.DB.WithContext(ctx).First(&eq, id)
	return &eq, result.Error
}

func ListActiveEquipment(ctx context.Context) ([]models.Equipment, error) {
	var units []models.Equipment
	result := database.DB.WithContext(ctx).Where("active = ?", true).Order("name").Find(&units)
	return units, result.Error
}

func ListAllEquipment(ctx context.Context) ([]models.Equipment, error) {
	var units []models.Equipment
	result := database.DB.WithContext(ctx).Order("name").Find(&units)
	return units, result.Error
}

func SaveEquipment(ctx context.Context, eq *models.Equipment) error {
	return database.DB.WithContext(ctx).Save(eq).Error
}

// EnsureDefaultEquipment seeds two stock linacs when the table is empty,
// so a fresh install has something to run QA against.
func EnsureDefaultEquipment() error {
	var count int64
	if err := database.DB.Model(&models.Equipment{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []models.Equipment{
		{
			Name:             "Linac 1",
			EquipmentType:    models.TypeLinac,
			Manufacturer:     "Varian",
			Model:            "Clinac",
			PhotonEnergies:   []string{"6MV", "15MV"},
			ElectronEnergies: []string{"6MeV", "9MeV", "12MeV", "15MeV"},
			Active:           true,
		},
		{
			Name:             "TrueBeam",
			EquipmentType:    models.TypeLinac,
			Manufacturer:     "Varian",
			Model:            "TrueBeam",
			PhotonEnergies:   []string{"6MV", "10MV", "15MV"},
			ElectronEnergies: []string{"6MeV", "9MeV", "12MeV", "15MeV", "18MeV"},
			FFFEnergies:      []string{"6MV FFF", "10MV FFF"},
			Active:           true,
		},
	}
	return database.DB.Create(&defaults).Error
}
