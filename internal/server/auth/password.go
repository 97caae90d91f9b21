// Package auth implements the credential hasher and the bearer token codec.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/getgranularity/backend/internal/common"
)

const (
	saltBytes    = 16
	pbkdf2Iters  = 10000
	pbkdf2KeyLen = 32
)

// CreateSalt produces a fresh random hex-encoded salt.
func CreateSalt() (string, error) {
	return common.MakeRandHexString(saltBytes)
}

// HashPassword derives a one-way digest of password and salt and returns it
// as "salt$hexdigest", so the salt travels with the digest for later
// verification.
func HashPassword(password, salt string) string {
	digest := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iters, pbkdf2KeyLen, sha256.New)
	return salt + "$" + hex.EncodeToString(digest)
}

// VerifyPassword re-derives the digest for the candidate password using the
// salt embedded in stored and compares the two in constant time.
func VerifyPassword(password, stored string) bool {
	salt, _, ok := strings.Cut(stored, "$")
	if !ok {
		return false
	}
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}
