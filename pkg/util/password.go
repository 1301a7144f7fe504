package util

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashPassword hashes a plain text password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// EnsureHashed hashes password unless it already is a bcrypt hash, so imports can carry
// either form.
func EnsureHashed(password string) (string, error) {
	if IsHashed(password) {
		return password, nil
	}
	return HashPassword(password)
}

func IsHashed(password string) bool {
	_, err := bcrypt.Cost([]byte(password))
	return err == nil
}

// VerifyPassword checks if a plain text password matches a hashed password
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
