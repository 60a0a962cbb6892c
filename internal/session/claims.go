package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"storefront/internal/model"
)

// Claims is the payload the commerce API signs into its tokens.
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ParseClaims decodes a token without verifying its signature. The signing
// key belongs to the API; the client only needs the user id for
// user-scoped endpoints.
func ParseClaims(token string) (*Claims, error) {
	var c Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}
	if c.UserID == "" {
		return nil, fmt.Errorf("decoding token: no user id claim")
	}
	return &c, nil
}

// User returns the claims as a partial user profile.
func (c *Claims) User() *model.User {
	return &model.User{ID: c.UserID, Name: c.Name, Role: c.Role}
}

// Expired reports whether the token's exp claim is before now. Tokens
// without exp never expire. Expiry is informational; the API enforces it.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Time)
}
