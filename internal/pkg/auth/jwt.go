package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// Claims is what the client reads out of a backend-issued token. The
// signature belongs to the backend and is never checked here.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// InspectToken decodes the claims of tokenString without verifying it
func InspectToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return claims, nil
}

// CheckExpiry returns ErrExpiredToken when the token's exp claim is at or
// before now. Tokens without exp are left for the backend to judge, as are
// tokens that do not decode.
func CheckExpiry(tokenString string, now time.Time) error {
	claims, err := InspectToken(tokenString)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return err
		}
		return nil
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return ErrExpiredToken
	}
	return nil
}
