package auth

import "golang.org/x/crypto/bcrypt"

// HashSecret produces a salted bcrypt hash of the provided secret (the parent
// password or a profile PIN). Raw secrets are never persisted.
func HashSecret(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifySecret reports whether the secret matches the stored hash. A malformed
// hash yields false rather than an error; the comparison goes through bcrypt
// and never touches the raw strings.
func VerifySecret(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
