package security

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// The browser cookie carries a signed token holding only the session ID.
// The session itself lives server-side; deleting it there kills the cookie
// even before the token expires.

func NewTokenAuth(secret []byte) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", secret, nil)
}

// TokenIssuer mints session tokens bound to a signing key and lifetime.
type TokenIssuer struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
}

func NewTokenIssuer(auth *jwtauth.JWTAuth, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{auth: auth, ttl: ttl}
}

func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

func (i *TokenIssuer) Issue(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(i.ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	_, tokenString, err := i.auth.Encode(claims)
	return tokenString, err
}

// SessionIDFromClaims extracts the session ID claim from a verified token.
func SessionIDFromClaims(claims map[string]interface{}) (string, error) {
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errors.New("sid claim is missing or not a string")
	}
	return sid, nil
}

// SessionIDFromContext reads the session ID from a request context that
// already passed through jwtauth.Verify.
func SessionIDFromContext(ctx context.Context) (string, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", errors.New("no session token in context")
	}
	return SessionIDFromClaims(claims)
}
