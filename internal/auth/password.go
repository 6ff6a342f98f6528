// Package auth implements the credential service: bcrypt password hashing
// and signed bearer-token issuance/verification. It never touches storage;
// callers pass plaintexts and digests explicitly.
package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the fixed work factor used at registration.
const DefaultBcryptCost = 10

// HashPassword derives a salted, one-way bcrypt digest from plain. A cost
// below bcrypt.MinCost falls back to DefaultBcryptCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plain matches the stored bcrypt digest.
// bcrypt's comparison is constant-time with respect to the digest.
func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
