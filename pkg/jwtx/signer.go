package jwtx

import (
	"crypto"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints session cookies.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	Public() crypto.PublicKey
	Validate() error
}

// EdDSASigner signs with an Ed25519 key. Sessions only ever use EdDSA.
type EdDSASigner struct {
	kid string
	key ed25519.PrivateKey
}

// NewSignerEdDSA reads a PKCS8 "PRIVATE KEY" PEM block.
func NewSignerEdDSA(kid string, pemKey []byte) (*EdDSASigner, error) {
	key, err := ParseEd25519PrivateKey(pemKey)
	if err != nil {
		return nil, err
	}
	return &EdDSASigner{kid: kid, key: key}, nil
}

// ParseEd25519PrivateKey decodes the PEM written by
// cryptox.GenerateEd25519Key.
func ParseEd25519PrivateKey(pemKey []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(pemKey)
	switch {
	case block == nil:
		return nil, errors.New("jwtx: session key is not PEM")
	case block.Type != "PRIVATE KEY":
		return nil, fmt.Errorf("jwtx: session key is %q, want PKCS8 PRIVATE KEY", block.Type)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse session key: %w", err)
	}
	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("jwtx: session key is %T, want Ed25519", parsed)
	}
	return key, nil
}

func (s *EdDSASigner) Alg() string { return jwt.SigningMethodEdDSA.Alg() }
func (s *EdDSASigner) KID() string { return s.kid }

func (s *EdDSASigner) Public() crypto.PublicKey {
	return s.key.Public()
}

func (s *EdDSASigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// Validate signs and verifies a sample message so a truncated key fails at startup
// rather than on the first login.
func (s *EdDSASigner) Validate() error {
	if len(s.key) != ed25519.PrivateKeySize {
		return fmt.Errorf("jwtx: session key is %d bytes, want %d", len(s.key), ed25519.PrivateKeySize)
	}
	msg := []byte("clubhouse:" + s.kid)
	pub, ok := s.key.Public().(ed25519.PublicKey)
	if !ok || !ed25519.Verify(pub, msg, ed25519.Sign(s.key, msg)) {
		return errors.New("jwtx: session key does not verify its own signature")
	}
	return nil
}
