package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audiences for the two cookie sessions. A member cookie must never unlock
// the admin surface and vice versa, so each verifier pins one of these.
const (
	AudienceAdmin  = "admin"
	AudienceMember = "member"
)

// DefaultSessionTTL is the fixed lifetime of an admin or member session.
// Sessions are not refreshed; the user signs in again once it lapses.
const DefaultSessionTTL = 24 * time.Hour

// Claims are the session claims carried inside the signed cookie.
type Claims struct {
	jwt.RegisteredClaims

	// Permission scopes, e.g. "admin" or "member".
	Scopes []string `json:"scopes,omitempty"`

	// Authentication Methods Reference ["pwd","otp"]
	AMR []string `json:"amr,omitempty"`

	// Username for admins, email for members.
	Username string `json:"username,omitempty"`

	// Name is the display name shown in the UI.
	Name string `json:"name,omitempty"`
}

// NewSessionClaims builds minimally-correct claims. IssuedAt doubles as the
// login time.
func NewSessionClaims(
	subject, username, name string,
	scopes, amr []string,
	ttl time.Duration,
	issuer, audience string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Scopes:   scopes,
		AMR:      amr,
		Username: username,
		Name:     name,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasScope reports whether the claims grant scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// HasMethod reports whether the session was authenticated with method,
// e.g. "otp" once an admin has passed the second factor.
func (c *Claims) HasMethod(method string) bool {
	return slices.Contains(c.AMR, method)
}

// Check applies the session rules: a subject and expiry must be present,
// the issuer must match when one is configured, the audience must include
// audience and now must fall inside [nbf, exp].
func (c *Claims) Check(issuer, audience string, now time.Time) error {
	if c.Subject == "" || c.ExpiresAt == nil {
		return ErrMalformed
	}
	if issuer != "" && c.Issuer != issuer {
		return ErrIssuer
	}
	if !slices.Contains(c.Audience, audience) {
		return ErrAudience
	}
	if now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
