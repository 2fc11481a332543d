package auth

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/avolkovs/daykeeper/internal/common"
)

const minPasswordLen = 6

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail rejects addresses that cannot possibly receive mail.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return common.ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the signup password policy. The two failure modes
// are distinct so the client can tell them apart.
func ValidatePassword(password string) error {
	if password == "" {
		return common.ErrMissingPassword
	}
	if len(password) < minPasswordLen {
		return common.ErrWeakPassword
	}
	return nil
}

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword compares a candidate against the stored hash. A mismatch is
// always common.ErrInvalidCredential.
func CheckPassword(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return common.ErrInvalidCredential
	}
	return nil
}
