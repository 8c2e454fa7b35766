// Package signature computes and checks the HMAC-SHA256 signatures that bind a
// webhook token to the shared secret.
package signature

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
)

// ErrMissingSecret is returned by Sign when no secret is configured.
var ErrMissingSecret = errors.New("signature: secret is not configured")

// Sign returns the lowercase hex HMAC-SHA256 of payload keyed by secret.
func Sign(secret string, payload []byte) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether candidate is the signature of payload under secret.
// Any empty input yields false.
func Verify(secret string, payload []byte, candidate string) bool {
	if secret == "" || len(payload) == 0 || candidate == "" {
		return false
	}

	expected, err := Sign(secret, payload)
	if err != nil {
		return false
	}

	// ConstantTimeCompare returns 0 for unequal lengths without inspecting content.
	return subtle.ConstantTimeCompare([]byte(expected), []byte(candidate)) == 1
}

// Equal compares two credentials in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// CanonicalPayload serializes fields as a JSON object with sorted keys, no
// HTML escaping and no trailing newline.
func CanonicalPayload(fields map[string]string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		return nil
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// TokenPayload is the signed form of a webhook token: {"token":"<token>"}.
func TokenPayload(token string) []byte {
	return CanonicalPayload(map[string]string{"token": token})
}
