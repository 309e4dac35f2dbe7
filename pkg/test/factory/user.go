package factory

import (
	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plain-text password of every factory user.
const DefaultPassword = "12345678"

func NewUser[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	data := map[string]any{}

	for _, custom := range customData {
		for key, value := range custom {
			data[key] = value
		}
	}

	if _, exists := data["EncryptedPassword"]; !exists {
		encryptedPassword, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		data["EncryptedPassword"] = string(encryptedPassword)
	}

	return instance.Build(data)
}
