package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

type User struct {
	ID                string
	Name              string
	Email             string
	EncryptedPassword string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RegisterCommand is the validated input of the register operation.
type RegisterCommand struct {
	Name     string
	Email    string
	Password string
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate trims the name and checks what the request validator cannot see:
// a name made of spaces and a password over the bcrypt byte limit.
func (c RegisterCommand) Validate() (RegisterCommand, error) {
	c.Name = strings.TrimSpace(c.Name)

	if c.Name == "" {
		return c, fmt.Errorf("%w: name is required", ErrValidation)
	}

	if len(c.Password) > MaxPasswordBytes {
		return c, fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, MaxPasswordBytes)
	}

	return c, nil
}
