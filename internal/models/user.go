package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/notewise/notewise-be/internal/apperrors"
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// NormalizeEmail lowercases and trims an email the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks the registration fields before any persistence
// or hashing happens.
func ValidateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.Validation("please provide a name")
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

// ValidateEmail checks the email format.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(NormalizeEmail(email)) {
		return apperrors.Validation("please provide a valid email")
	}
	return nil
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return apperrors.Validation("password must be at least 6 characters")
	}
	return nil
}
