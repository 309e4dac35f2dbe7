package util

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/core/domain"
)

// PasswordCost is lowered by tests to keep hashing fast.
var PasswordCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)

	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, domain.MaxPasswordBytes)
	}

	if err != nil {
		return "", err
	}

	return string(encrypted), nil
}

// ComparePassword reports whether password matches the stored hash.
func ComparePassword(password, encrypted string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encrypted), []byte(password))

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
