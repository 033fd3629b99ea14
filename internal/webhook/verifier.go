// Package webhook authenticates inbound commerce-platform webhook deliveries
// using the shared-secret HMAC scheme the platform signs payloads with.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// SignatureHeader carries the base64 HMAC-SHA256 digest of the raw request
// body on platform webhook deliveries.
const SignatureHeader = "X-Shopify-Hmac-Sha256"

// Verifier validates webhook payload signatures against a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given shared secret. Surrounding
// whitespace in the secret is ignored.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(strings.TrimSpace(secret))}
}

// Verify reports whether claimedSignature is the base64 HMAC-SHA256 digest
// of rawBody under the configured secret. The digest must be computed over
// the exact bytes received on the wire; verification happens before any JSON
// decoding so that field order and whitespace differences cannot break it.
//
// Verify is a pure function of its inputs: it returns false for a missing
// secret, an empty or undecodable signature, or a digest mismatch, and never
// panics on malformed input.
func (v *Verifier) Verify(rawBody []byte, claimedSignature string) bool {
	if len(v.secret) == 0 {
		return false
	}

	signature := strings.TrimSpace(claimedSignature)
	if signature == "" {
		return false
	}

	claimed, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	_, _ = mac.Write(rawBody)

	return subtle.ConstantTimeCompare(claimed, mac.Sum(nil)) == 1
}
