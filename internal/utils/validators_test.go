package utils

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"physicist@hospital.org", true},
		{"a@b.c", true},
		{"no-at-sign.org", false},
		{"no-dot@org", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsComplexPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"meets all requirements", "Quasar#42", true},
		{"too short", "Qr#4", false},
		{"no upper", "quasar#42", false},
		{"no lower", "QUASAR#42", false},
		{"no digit", "Quasar#ab", false},
		{"no special", "Quasar442", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsComplexPassword(tt.password); got != tt.want {
				t.Errorf("IsComplexPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{"admin", "physicist", "therapist"} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}
	if IsValidRole("superuser") {
		t.Error("IsValidRole(\"superuser\") = true, want false")
	}
}
