package token

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Supported signing algorithm identifiers
const (
	AlgorithmHS256 = "HS256"
	AlgorithmHS384 = "HS384"
	AlgorithmHS512 = "HS512"
)

// NewSigner creates a signer for the configured algorithm identifier
func NewSigner(algorithm, secret string) (Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("empty signing secret")
	}
	method, err := hmacMethod(algorithm)
	if err != nil {
		return nil, err
	}
	return NewHMACSigner(secret, method), nil
}

// IsSupportedAlgorithm reports whether the algorithm identifier can be used by NewSigner
func IsSupportedAlgorithm(algorithm string) bool {
	_, err := hmacMethod(algorithm)
	return err == nil
}

func hmacMethod(algorithm string) (*jwt.SigningMethodHMAC, error) {
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case "", AlgorithmHS256:
		return jwt.SigningMethodHS256, nil
	case AlgorithmHS384:
		return jwt.SigningMethodHS384, nil
	case AlgorithmHS512:
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported signing algorithm: %s", algorithm)
	}
}
