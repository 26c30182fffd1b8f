package hash

import "golang.org/x/crypto/bcrypt"

// PasswordHasher is the one-way hashing capability the auth and user services
// depend on. The stored hash is never reversed, only verified.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcrypt returns a bcrypt-backed PasswordHasher with the default cost.
func NewBcrypt() PasswordHasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *bcryptHasher) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
