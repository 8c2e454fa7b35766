package auth

import (
	"golang.org/x/crypto/bcrypt"

	"securehook/internal/engine/signature"
	"securehook/internal/platform/config"
)

// PasswordChecker validates the signing endpoint password against either a
// plain configured value or a bcrypt hash.
type PasswordChecker struct {
	plain string
	hash  []byte
}

func NewPasswordChecker(secrets config.Secrets) *PasswordChecker {
	c := &PasswordChecker{plain: secrets.Password}
	if secrets.PasswordHash != "" {
		c.hash = []byte(secrets.PasswordHash)
	}
	return c
}

// Check reports whether candidate matches the configured password. With
// nothing configured every candidate is rejected.
func (c *PasswordChecker) Check(candidate string) bool {
	if candidate == "" {
		return false
	}
	if c.hash != nil {
		return bcrypt.CompareHashAndPassword(c.hash, []byte(candidate)) == nil
	}
	if c.plain == "" {
		return false
	}
	return signature.Equal(c.plain, candidate)
}

// HashPassword returns a bcrypt hash suitable for PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
