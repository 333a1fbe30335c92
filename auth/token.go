package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// AuthenticatedRole is the role claim the backend puts on signed-in users' tokens.
const AuthenticatedRole = "authenticated"

var ErrSecretNotConfigured = errors.New("JWT secret not configured")

// TokenClaims is the subset of access token claims the storefront reads.
type TokenClaims struct {
	UserID string
	Email  string
	Role   string
}

// TokenVerifier checks access tokens issued by the managed backend's auth server.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier returns nil for an empty secret; a nil verifier accepts tokens
// without checking them locally.
func NewTokenVerifier(secret string) *TokenVerifier {
	if secret == "" {
		return nil
	}
	return &TokenVerifier{secret: []byte(secret)}
}

// Enabled reports whether tokens are checked locally.
func (v *TokenVerifier) Enabled() bool { return v != nil && len(v.secret) > 0 }

// ParseAndValidateToken verifies the HMAC signature and expiry and returns the claims.
func (v *TokenVerifier) ParseAndValidateToken(tokenStr string) (*TokenClaims, error) {
	if !v.Enabled() {
		return nil, ErrSecretNotConfigured
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	role, _ := claims["role"].(string)
	if role != AuthenticatedRole {
		return nil, fmt.Errorf("invalid token role")
	}
	email, _ := claims["email"].(string)
	return &TokenClaims{UserID: sub, Email: email, Role: role}, nil
}
