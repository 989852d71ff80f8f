package security

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes plain at the given bcrypt cost. Used offline to
// produce the STAFF_PASSWORD_HASH configuration value; the server itself
// only ever compares.
func HashPassword(plain string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// ComparePassword reports whether plain matches hash.
func ComparePassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
