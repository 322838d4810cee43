package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

type accessGuard struct {
	tokens domain.TokenVerifier
	users  domain.UserRepository
}

// NewAccessGuard returns the guard that every protected operation passes
// through: validate the token, resolve its user, then check the role.
func NewAccessGuard(tokens domain.TokenVerifier, users domain.UserRepository) domain.AccessGuard {
	return &accessGuard{tokens: tokens, users: users}
}

func (g *accessGuard) Authorize(ctx context.Context, token string, roles ...domain.Role) (*domain.Subject, error) {
	userID, err := g.validateToken(token)
	if err != nil {
		return nil, err
	}
	user, err := g.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := checkRole(user, roles); err != nil {
		return nil, err
	}
	return user.Subject(), nil
}

func (g *accessGuard) validateToken(token string) (string, error) {
	userID, err := g.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	return userID, nil
}

// resolveUser treats a token for a user that no longer exists as unauthenticated.
func (g *accessGuard) resolveUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("resolve subject: %w", err)
	}
	return user, nil
}

func checkRole(user *domain.User, roles []domain.Role) error {
	if len(roles) == 0 || slices.Contains(roles, user.Role) {
		return nil
	}
	return fmt.Errorf("%w: role %q not permitted", domain.ErrForbidden, user.Role)
}
