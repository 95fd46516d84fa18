package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const maxNameLength = 50

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Token     string    `json:"token"`
	PartnerID *string   `json:"partner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Paired reports whether the user has a partner
func (u *User) Paired() bool {
	return u.PartnerID != nil
}

// ValidateName checks a display name before registration
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrValidationFailed
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrValidationFailed
	}
	return nil
}
