package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/pkg/config"
)

var cfg *config.JWTConfig

// TokenKind separates access tokens from refresh tokens so one can
// never be presented in place of the other
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	UserID uint           `json:"user_id"`
	Email  string         `json:"email"`
	Role   model.UserRole `json:"role"`
	Kind   TokenKind      `json:"kind"`
	jwt.RegisteredClaims
}

// Initialize stores the JWT configuration for the package-level helpers
func Initialize(c *config.JWTConfig) {
	cfg = c
}

// GenerateAccessToken creates a short-lived token carrying identity claims
func GenerateAccessToken(user *model.User) (string, error) {
	if cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}
	return generate(user, KindAccess, time.Duration(cfg.AccessExpiryHours)*time.Hour)
}

// GenerateRefreshToken creates a longer-lived token used only to mint
// new access tokens
func GenerateRefreshToken(user *model.User) (string, error) {
	if cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}
	return generate(user, KindRefresh, time.Duration(cfg.RefreshExpiryHours)*time.Hour)
}

func generate(user *model.User, kind TokenKind, ttl time.Duration) (string, error) {
	claims := UserClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.Email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningKey))
}

// ValidateToken validates and parses a token of either kind
func ValidateToken(tokenString string) (*UserClaims, error) {
	if cfg == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.SigningKey), nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ExpiresIn reports how long until the claims expire. Used to size the
// logout blacklist TTL.
func (c *UserClaims) ExpiresIn() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}
