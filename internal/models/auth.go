package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the identity provider's access token payload. The
// user id travels in the standard subject claim.
type JWTClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token.
func (c *JWTClaims) UserID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}

// Principal is the authenticated caller resolved for a request.
type Principal struct {
	UserID string
	Token  string
	Claims *JWTClaims
}
