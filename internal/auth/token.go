package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Denial messages for bearer tokens
const (
	MsgTokenMissing = "token required"
	MsgTokenExpired = "token expired"
	MsgTokenInvalid = "invalid token"
)

// TokenAuthorizer admits requests carrying an HS256 token signed with the shared secret.
type TokenAuthorizer struct {
	secret []byte
}

// NewTokenAuthorizer creates a token authorizer for the given secret.
func NewTokenAuthorizer(secret string) *TokenAuthorizer {
	return &TokenAuthorizer{secret: []byte(secret)}
}

// Issue signs a token for subject valid for ttl.
func (a *TokenAuthorizer) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Authorize implements Authorizer.
func (a *TokenAuthorizer) Authorize(r *http.Request, provider string) Decision {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return Deny(MsgTokenMissing)
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Deny(MsgTokenExpired)
		}
		return Deny(MsgTokenInvalid)
	}
	if !token.Valid {
		return Deny(MsgTokenInvalid)
	}

	return Decision{}
}
