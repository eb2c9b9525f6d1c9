// Package validation holds input format checks shared by signup, profile
// editing and the admin console.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)
	handleRegex   = regexp.MustCompile(`^[a-z0-9_]{3,24}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

var reservedHandles = map[string]struct{}{
	"admin":    {},
	"api":      {},
	"auth":     {},
	"me":       {},
	"metrics":  {},
	"posts":    {},
	"search":   {},
	"settings": {},
	"tags":     {},
	"upload":   {},
	"users":    {},
}

// ValidateUsername validates display-name format.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, numbers, dots, hyphens and underscores")
	}
	return nil
}

// ValidateHandle validates the public @handle format and reserved names.
func ValidateHandle(handle string) error {
	if !handleRegex.MatchString(handle) {
		return fmt.Errorf("handle must be 3-24 characters and contain only lowercase letters, numbers and underscores")
	}
	if _, exists := reservedHandles[handle]; exists {
		return fmt.Errorf("handle is reserved")
	}
	return nil
}

// ValidateEmail performs a light-weight email format check; deliverability is
// not our problem here.
func ValidateEmail(email string) error {
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return fmt.Errorf("password must be at most 72 characters")
	}
	return nil
}

// DefaultHandle derives a handle candidate from a username.
func DefaultHandle(username string) string {
	h := strings.ToLower(username)
	h = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r == '.' || r == '-':
			return '_'
		default:
			return -1
		}
	}, h)
	if len(h) > 24 {
		h = h[:24]
	}
	return h
}
