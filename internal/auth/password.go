package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/ecophos-dev/ecophos/internal/apperr"
	"github.com/ecophos-dev/ecophos/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword bcrypt-hashes plain. Passwords bcrypt cannot take are a bad
// request, not an internal failure.
func HashPassword(plain string, cost int) (models.Password, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return models.Password{}, apperr.BadRequest("Password must be at most 72 bytes")
	}
	if err != nil {
		return models.Password{}, err
	}

	return models.HashedPassword(string(digest)), nil
}

// CheckPassword verifies candidate against either storage form.
func CheckPassword(stored models.Password, candidate string) bool {
	if stored.IsZero() || candidate == "" {
		return false
	}

	switch stored.Kind {
	case models.PasswordHashed:
		return bcrypt.CompareHashAndPassword([]byte(stored.Value), []byte(candidate)) == nil
	case models.PasswordPlaintext:
		return subtle.ConstantTimeCompare([]byte(stored.Value), []byte(candidate)) == 1
	default:
		return false
	}
}
