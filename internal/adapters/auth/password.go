package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a PasswordHasher backed by bcrypt. bcrypt salts each
// hash itself, so no separate salt is stored. Out-of-range costs fall back to
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) domain.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *bcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
