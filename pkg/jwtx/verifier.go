package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a session token and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// SessionVerifier checks EdDSA session tokens for one cookie audience.
// Time claims are checked here rather than by the jwt parser so that
// expiry maps onto ErrExpired and tests can move the clock.
type SessionVerifier struct {
	keys     *KeySet
	issuer   string
	audience string
	parser   *jwt.Parser

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewSessionVerifier returns a verifier that accepts tokens signed by any
// key in keys, issued by issuer, for audience.
func NewSessionVerifier(keys *KeySet, issuer, audience string) *SessionVerifier {
	return &SessionVerifier{
		keys:     keys,
		issuer:   issuer,
		audience: audience,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

func (v *SessionVerifier) key(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, ErrMalformed
	}
	pub, err := v.keys.Get(kid)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
	}
	edPub, ok := pub.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("jwtx: kid %q is not an Ed25519 key", kid)
	}
	return edPub, nil
}

func (v *SessionVerifier) Verify(tokenStr string) (Claims, error) {
	var claims Claims
	token, err := v.parser.ParseWithClaims(tokenStr, &claims, v.key)
	switch {
	case errors.Is(err, ErrUnknownKID), errors.Is(err, ErrMalformed):
		return Claims{}, err
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	case err != nil:
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	case !token.Valid:
		return Claims{}, ErrMalformed
	}

	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	if err := claims.Check(v.issuer, v.audience, now().UTC()); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
