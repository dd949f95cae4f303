// Package auth resolves the acting user from a request. Token validation
// is intentionally thin: the gateway's authorizer has already vetted the
// token in deployed environments, this layer extracts identity and groups.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "catalog-backend/pkg/errors"
)

// Claims are the token claims this backend cares about. Groups follow the
// Cognito convention of carrying role names.
type Claims struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Groups   []string `json:"cognito:groups"`
	jwt.RegisteredClaims
}

// Config configures token validation.
type Config struct {
	SecretKey string
	Issuer    string
}

// Validator parses and validates bearer tokens.
type Validator struct {
	secret []byte
	issuer string
}

// NewValidator creates a token validator.
func NewValidator(cfg Config) (*Validator, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("auth: secret key is required")
	}
	return &Validator{secret: []byte(cfg.SecretKey), issuer: cfg.Issuer}, nil
}

// Parse validates a token string and returns its claims.
func (v *Validator) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewUnauthorizedError("token has expired")
		}
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}
	if !token.Valid {
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}
	return claims, nil
}

// Generator issues tokens for local development and tests.
type Generator struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// NewGenerator creates a token generator.
func NewGenerator(cfg Config, expiry time.Duration) *Generator {
	return &Generator{secret: []byte(cfg.SecretKey), issuer: cfg.Issuer, expiry: expiry}
}

// Generate issues a signed token for a user with the given groups.
func (g *Generator) Generate(username, email string, groups []string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Email:    email,
		Groups:   groups,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}
