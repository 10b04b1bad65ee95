package password

import "golang.org/x/crypto/bcrypt"

// Hash produces a salted bcrypt hash of the plaintext password.
// The salt is generated per call and embedded in the output, so hashing
// the same password twice yields different values.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext password matches the stored hash.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
