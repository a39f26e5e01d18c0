package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User roles.
const (
	RoleAdmin     = "admin"
	RolePhysicist = "physicist"
	RoleTherapist = "therapist"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:50;uniqueIndex;not null"`
	Email     string `gorm:"size:100;uniqueIndex"`
	Password  string `gorm:"size:255;not null"`
	FullName  string `gorm:"size:100"`
	Role      string `gorm:"size:20;default:physicist"`
	Active    bool   `gorm:"default:true"`
	CreatedAt time.Time
	LastLogin *time.Time
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
