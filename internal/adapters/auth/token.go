package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type jwtIssuer struct {
	secret []byte
}

// NewJWTIssuer returns a TokenIssuer that signs JWTs with HS256 using the given secret.
func NewJWTIssuer(secret string) domain.TokenIssuer {
	return &jwtIssuer{secret: []byte(secret)}
}

func (i *jwtIssuer) Issue(userID, email string, role domain.Role, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
		Role:  role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

type jwtVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTVerifier returns a TokenVerifier for tokens issued by NewJWTIssuer with the same secret.
// Only HS256 is accepted and the exp claim is mandatory.
func NewJWTVerifier(secret string) domain.TokenVerifier {
	return &jwtVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (v *jwtVerifier) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", domain.ErrUnauthenticated
	}
	claims := &jwtClaims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("token expired: %w", domain.ErrUnauthenticated)
		}
		return "", fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject: %w", domain.ErrUnauthenticated)
	}
	return claims.Subject, nil
}
