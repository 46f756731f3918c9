package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var ErrSecretNotConfigured = errors.New("payment signature secret is not configured")

// SignatureVerifier validates gateway payment confirmations. The gateway
// signs the string "<orderID>|<paymentID>" with HMAC-SHA256 over the shared
// secret and sends the hex digest alongside the confirmation.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Verify recomputes the expected signature and compares in constant time.
// A mismatch returns (false, nil); only a missing secret is an error.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) (bool, error) {
	if len(v.secret) == 0 {
		return false, ErrSecretNotConfigured
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature)), nil
}

// Sign produces the signature the gateway would send for the given pair.
// Used by tests and local tooling; production signatures come from the
// gateway.
func (v *SignatureVerifier) Sign(orderID, paymentID string) (string, error) {
	if len(v.secret) == 0 {
		return "", ErrSecretNotConfigured
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil)), nil
}
