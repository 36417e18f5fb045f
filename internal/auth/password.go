package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the platform has always used for
// stored credentials. Raising it invalidates nothing (old hashes embed
// their own cost) but new hashes get slower to verify.
const bcryptCost = 10

// HashPassword returns a salted bcrypt hash of the plaintext password.
// Two calls with the same input produce different encodings.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether plaintext matches the stored bcrypt
// hash. A malformed hash is treated as a mismatch, not an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
