package keyfetcher

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publicKeyBase64(t *testing.T) string {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return base64.StdEncoding.EncodeToString(pemBytes)
}

func TestFromBase64Env(t *testing.T) {
	testCases := map[string]struct {
		setup         func(t *testing.T) string
		expectedError string
	}{
		"should fetch a valid public key from the environment": {
			setup: func(t *testing.T) string {
				t.Setenv("TEST_PUBLIC_KEY", publicKeyBase64(t))
				return "TEST_PUBLIC_KEY"
			},
		},
		"should fail when the environment variable is missing": {
			setup: func(_ *testing.T) string {
				return "TEST_MISSING_KEY"
			},
			expectedError: "is not set",
		},
		"should fail when the value is not valid base64": {
			setup: func(t *testing.T) string {
				t.Setenv("TEST_BAD_KEY", "not-base64!!")
				return "TEST_BAD_KEY"
			},
			expectedError: "illegal base64",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			envKey := tc.setup(t)
			key, err := FromBase64Env(envKey).FetchPublicKey()

			if tc.expectedError != "" {
				assert.ErrorContains(t, err, tc.expectedError)
				assert.Nil(t, key)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, key)
		})
	}
}

func TestFromBase64(t *testing.T) {
	t.Run("should fetch a valid public key from a config value", func(t *testing.T) {
		key, err := FromBase64(publicKeyBase64(t)).FetchPublicKey()
		assert.NoError(t, err)
		assert.NotNil(t, key)
	})

	t.Run("should fail on an empty value", func(t *testing.T) {
		key, err := FromBase64("").FetchPublicKey()
		assert.ErrorContains(t, err, "empty")
		assert.Nil(t, key)
	})

	t.Run("should fail when the decoded bytes are not a PEM key", func(t *testing.T) {
		key, err := FromBase64(base64.StdEncoding.EncodeToString([]byte("not a key"))).FetchPublicKey()
		assert.Error(t, err)
		assert.Nil(t, key)
	})
}
