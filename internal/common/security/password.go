package security

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when a login targets an unknown email, so
// the unknown-email and wrong-password failures take the same code path.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches hash. A mismatch or a
// malformed hash both report false; no error escapes.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnPasswordCheck runs a bcrypt comparison against a throwaway hash and
// discards the result. Always returns false.
func BurnPasswordCheck(password string) bool {
	bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
	return false
}
