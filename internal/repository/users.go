package repository

import (
	"context"
	"time"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/database"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

func CreateUser(username, email, password, fullName, role string) (*models.User, error) {
	user := &models.User{
		Username: username,
		Email:    email,
		FullName: fullName,
		Role:     role,
		Active:   true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	result := database.DB.Create(user)
	return user, result.Error
}

func GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, "username = ?", username)
	return &user, result.Error
}

func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, id)
	return &user, result.Error
}

func ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	result := database.DB.WithContext(ctx).Order("username").Find(&users)
	return users, result.Error
}

func UpdateUser(ctx context.Context, user *models.User) error {
	return database.DB.WithContext(ctx).Save(user).Error
}

func TouchLastLogin(ctx context.Context, userID uint) error {
	now := time.Now().UTC()
	return database.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("last_login", now).Error
}

// EnsureDefaultAdmin creates the bootstrap admin account when the users
// table is empty.
func EnsureDefaultAdmin() error {
	var count int64
	if err := database.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := CreateUser("admin", "admin@localhost", "admin", "Default Administrator", models.RoleAdmin)
	return err
}
