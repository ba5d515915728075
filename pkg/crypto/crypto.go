package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a bcrypt hash of a random throwaway value. Verify paths that
// miss on email still compare against it so unknown-email and wrong-password
// failures take approximately the same time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword returns a bcrypt hash of the supplied password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares the hashed password with the plaintext candidate.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// BurnCompare runs a bcrypt comparison against a fixed hash and discards the
// result. Called on the unknown-email login path to keep its latency in line
// with a real password check.
func BurnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
