package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
)

// MinPasswordLength is the shortest password accepted on activation or admin
// bootstrap.
const MinPasswordLength = 8

var (
	ErrPasswordMismatch = errors.New("password does not match")
	ErrPasswordTooWeak  = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrMalformedHash    = errors.New("cryptox: malformed argon2id hash")
)

// phc is a decoded "$argon2id$v=19$m=..,t=..,p=..$salt$hash" string.
type phc struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func (p phc) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.memory, p.iterations, p.parallelism,
		base64.RawStdEncoding.EncodeToString(p.salt),
		base64.RawStdEncoding.EncodeToString(p.hash),
	)
}

func parsePHC(encoded string) (phc, error) {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", salt, hash]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return phc{}, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return phc{}, fmt.Errorf("%w: unsupported version %q", ErrMalformedHash, parts[2])
	}

	var p phc
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return phc{}, fmt.Errorf("%w: parameters: %w", ErrMalformedHash, err)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return phc{}, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}
	if p.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.hash) == 0 {
		return phc{}, fmt.Errorf("%w: hash", ErrMalformedHash)
	}
	return p, nil
}

func derive(password string, p phc) []byte {
	return argon2.IDKey(
		[]byte(password+GetPepper()),
		p.salt,
		p.iterations,
		p.memory,
		p.parallelism,
		uint32(len(p.hash)), // #nosec G115 -- hash length is tiny
	)
}

// HashPassword returns a PHC-format Argon2id hash with a fresh salt.
func HashPassword(password string) (string, error) {
	p := phc{
		memory:      memory,
		iterations:  iterations,
		parallelism: parallelism,
		salt:        make([]byte, saltLength),
		hash:        make([]byte, keyLength),
	}
	if _, err := rand.Read(p.salt); err != nil {
		return "", err
	}
	p.hash = derive(password, p)
	return p.String(), nil
}

// VerifyPassword checks password against a hash from HashPassword. The
// parameters stored in the hash are used, so older hashes keep verifying
// after the defaults change.
func VerifyPassword(password, encodedHash string) error {
	p, err := parsePHC(encodedHash)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(derive(password, phc{
		memory:      p.memory,
		iterations:  p.iterations,
		parallelism: p.parallelism,
		salt:        p.salt,
		hash:        make([]byte, len(p.hash)),
	}), p.hash) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// BurnPasswordCheck spends the same work as a real VerifyPassword. Login
// paths call it when the account does not exist so response time does not
// reveal which emails or usernames are registered.
func BurnPasswordCheck(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = HashPassword("not a real password")
	})
	if dummyHash != "" {
		_ = VerifyPassword(password, dummyHash)
	}
}

// CheckPasswordStrength rejects passwords that are too short or only whitespace.
func CheckPasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength || strings.TrimSpace(password) == "" {
		return ErrPasswordTooWeak
	}
	return nil
}
