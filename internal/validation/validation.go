// Package validation checks request fields before they reach the service
// layer. Errors carry the offending field so handlers can report it.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"joyverse/internal/models"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
	codeRegex     = regexp.MustCompile(`^[0-9]{6}$`)
)

// ValidationError represents a validation error on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername checks a therapist or child username.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if len(username) < 3 {
		return ValidationError{Field: "username", Message: "username must be at least 3 characters"}
	}
	if len(username) > 32 {
		return ValidationError{Field: "username", Message: "username must be at most 32 characters"}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "username may only contain letters, digits, hyphens and underscores"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements.
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateTherapistCode checks the 6-digit code a child enters to attach
// to a therapist.
func ValidateTherapistCode(code string) error {
	if code == "" {
		return ValidationError{Field: "code", Message: "therapist code is required"}
	}
	if !codeRegex.MatchString(code) {
		return ValidationError{Field: "code", Message: "therapist code must be 6 digits"}
	}
	return nil
}

// ValidateGameMode checks a preferred-game value.
func ValidateGameMode(mode string) error {
	switch mode {
	case models.GameTyping, models.GamePuzzles, models.GameReading:
		return nil
	case "":
		return ValidationError{Field: "preferredGame", Message: "preferred game is required"}
	default:
		return ValidationError{Field: "preferredGame", Message: "unknown game mode"}
	}
}

// ValidateRequired checks that a free-text field is non-blank.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}
