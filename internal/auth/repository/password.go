package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// Hasher selects the algorithm used for new password hashes. Verification
// always detects the algorithm from the stored hash, so accounts created
// under either setting keep working after a switch.
type Hasher string

const (
	HasherBcrypt   Hasher = "bcrypt"
	HasherArgon2id Hasher = "argon2id"
)

// MaxPasswordLength is the longest password bcrypt accepts. It applies to
// every hasher so a later switch never strands an existing password.
const MaxPasswordLength = 72

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// HashPassword hashes a password with the selected algorithm
func (h Hasher) HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	switch h {
	case HasherArgon2id:
		return argon2id.CreateHash(password, argon2id.DefaultParams)
	case HasherBcrypt, "":
		bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return string(bytes), err
	default:
		return "", fmt.Errorf("unknown password hasher %q", string(h))
	}
}

// CheckPasswordHash compares a password with a bcrypt or argon2id hash
func CheckPasswordHash(password, hash string) bool {
	if strings.HasPrefix(hash, "$argon2id$") {
		match, err := argon2id.ComparePasswordAndHash(password, hash)
		return err == nil && match
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
