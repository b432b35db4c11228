package principals

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ErrInvalidCredentialInput marks a username or password rejected before any lookup
var ErrInvalidCredentialInput = errors.New("invalid credential input")

// ValidateCredentials performs the minimal checks applied before an account is created
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidCredentialInput)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidCredentialInput)
	}
	if len(password) > 72 {
		return fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidCredentialInput)
	}
	return nil
}
