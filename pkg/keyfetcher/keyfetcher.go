// Package keyfetcher loads the RSA keys used to validate caller tokens.
// Keys are provisioned out-of-band and supplied as base64-encoded PEM.
package keyfetcher

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

type PublicKeyFetcher interface {
	FetchPublicKey() (*rsa.PublicKey, error)
}

// From is a function that loads raw PEM key bytes.
type From func() ([]byte, error)

// FetchPublicKey parses the loaded bytes as a PEM-encoded RSA public key.
func (f From) FetchPublicKey() (*rsa.PublicKey, error) {
	keyBytes, err := f()
	if err != nil {
		return nil, err
	}

	return jwt.ParseRSAPublicKeyFromPEM(keyBytes)
}

// FromBase64Env returns a From that reads a base64-encoded PEM key from the
// named environment variable.
func FromBase64Env(key string) From {
	return func() ([]byte, error) {
		keyBase64 := os.Getenv(key)
		if keyBase64 == "" {
			return nil, fmt.Errorf("environment variable %s is not set", key)
		}

		return base64.StdEncoding.DecodeString(keyBase64)
	}
}

// FromBase64 returns a From that decodes an already-loaded base64 value,
// for configuration sources other than the process environment.
func FromBase64(value string) From {
	return func() ([]byte, error) {
		if value == "" {
			return nil, fmt.Errorf("key value is empty")
		}

		return base64.StdEncoding.DecodeString(value)
	}
}
