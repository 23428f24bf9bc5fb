package leadconsole

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionInfo is an advisory view of the stored token for display purposes
// (header, profile dropdown). The claims are decoded without verification:
// the backend alone decides whether the token is still good, via 401.
type SessionInfo struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

var errNotJWT = errors.New("token is not a decodable JWT")

// inspectToken decodes raw as an unverified JWT. Opaque tokens return
// errNotJWT; callers treat that as "present but not introspectable".
func inspectToken(raw string) (*SessionInfo, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, errNotJWT
	}

	info := &SessionInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
