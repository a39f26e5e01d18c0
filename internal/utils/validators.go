package utils

import (
	"strings"
	"unicode"
)

// IsValidEmail checks if the email string contains an "@" symbol.
func IsValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// IsComplexPassword checks if the password meets the complexity requirements.
func IsComplexPassword(password string) bool {
	var (
		hasMinLen  = len(password) >= 8
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasMinLen && hasUpper && hasLower && hasNumber && hasSpecial
}

// IsValidRole reports whether the role is one the application knows.
func IsValidRole(role string) bool {
	switch role {
	case "admin", "physicist", "therapist":
		return true
	}
	return false
}
