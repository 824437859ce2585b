package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of the given password at the default
// cost.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword reports whether candidate matches the stored bcrypt hash.
// bcrypt's comparison is constant-time with respect to the candidate.
func CheckPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
