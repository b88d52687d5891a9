package auth

import (
	"fmt"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "meeting-lab"

// CustomClaims defines the structure of the data stored inside the JWT.
type CustomClaims struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
	Guest bool   `json:"guest"`
	jwt.RegisteredClaims
}

func (c CustomClaims) Identity() domain.Identity {
	return domain.Identity{Login: c.Login, Name: c.Name, Admin: c.Admin, Guest: c.Guest}
}

// TokenManager signs and verifies session tokens with an HMAC key loaded from the environment.
type TokenManager struct {
	key      []byte
	duration time.Duration
}

func NewTokenManager(secret string, duration time.Duration) (*TokenManager, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("%w: jwt secret must be at least 16 bytes", errors.ErrValidation)
	}
	return &TokenManager{key: []byte(secret), duration: duration}, nil
}

// Generate creates a signed HS256 token for identity.
func (m *TokenManager) Generate(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		Login: identity.Login,
		Name:  identity.Name,
		Admin: identity.Admin,
		Guest: identity.Guest,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Login,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

// Validate parses the token, checks its signature, expiry and issuer.
func (m *TokenManager) Validate(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrUnauthorized, err)
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid && claims.Login != "" {
		return claims, nil
	}
	return nil, fmt.Errorf("%w: %w", errors.ErrUnauthorized, jwt.ErrSignatureInvalid)
}
