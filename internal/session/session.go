// Package session models the caller's credentials as an explicitly passed
// value instead of ambient cookie state.
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials yields the bearer token for the current consumer.
type Credentials interface {
	// Token returns the bearer token and whether one is available.
	Token(ctx context.Context) (string, bool)
}

// Static is a fixed credential. The zero value has no token.
type Static string

// Token implements Credentials.
func (s Static) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

// Anonymous has no credential.
var Anonymous Credentials = Static("")

// Usable reports whether token can be attached to a request at now. Opaque
// tokens are accepted as-is; JWTs are rejected once their exp claim passed.
// Signatures are not checked here, the remote API owns that.
func Usable(token string, now time.Time) bool {
	if token == "" {
		return false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return now.Before(claims.ExpiresAt.Time)
}

// Resolve returns the usable token from creds, if any.
func Resolve(ctx context.Context, creds Credentials, now time.Time) (string, bool) {
	if creds == nil {
		return "", false
	}
	token, ok := creds.Token(ctx)
	if !ok || !Usable(token, now) {
		return "", false
	}
	return token, true
}
