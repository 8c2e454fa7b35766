package webhooks

import (
	"encoding/json"

	"securehook/internal/engine/signature"
	"securehook/internal/pkg/errors"
	"securehook/internal/platform/config"
)

// PasswordVerifier checks a caller-supplied password.
type PasswordVerifier interface {
	Check(candidate string) bool
}

// Credentials are supplied by a caller asking for a token signature.
type Credentials struct {
	Password string
	Token    string
	// TokenMalformed is set when the token field held a non-string value.
	TokenMalformed bool
}

// Issuer hands out signatures for the configured webhook token to callers
// holding the password.
type Issuer struct {
	passwords PasswordVerifier
	token     string
	secret    string
}

func NewIssuer(secrets config.Secrets, passwords PasswordVerifier) *Issuer {
	return &Issuer{
		passwords: passwords,
		token:     secrets.WebhookToken,
		secret:    secrets.Secret,
	}
}

// Issue validates c and returns the signature of its token.
func (i *Issuer) Issue(c Credentials) (string, *errors.Rejection) {
	if c.Password == "" {
		return "", errors.Reject(errors.KindMissingCredential, errors.MsgMissingPassword)
	}
	if c.Token == "" {
		return "", errors.Reject(errors.KindMissingCredential, errors.MsgMissingToken)
	}
	if !i.passwords.Check(c.Password) {
		return "", errors.Reject(errors.KindUnauthorized, errors.MsgInvalidPassword)
	}
	if c.TokenMalformed || i.token == "" || !signature.Equal(c.Token, i.token) {
		return "", errors.Reject(errors.KindUnauthorized, errors.MsgInvalidToken)
	}

	sig, err := signature.Sign(i.secret, signature.TokenPayload(c.Token))
	if err != nil {
		return "", errors.Reject(errors.KindSecretUnavailable, errors.MsgSecretUnavailable)
	}
	return sig, nil
}

// TokenFromBody extracts the token field of a signing request body. A missing,
// falsy or unparseable token yields "". Other non-string values are returned
// as their raw JSON with malformed set.
func TokenFromBody(body []byte) (token string, malformed bool) {
	fields, ok := parseObject(body)
	if !ok {
		return "", false
	}

	raw := fields["token"]
	if !truthy(raw) {
		return "", false
	}

	if err := json.Unmarshal(raw, &token); err != nil {
		return string(raw), true
	}
	return token, false
}
