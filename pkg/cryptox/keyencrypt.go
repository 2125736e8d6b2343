package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrSealedKey = errors.New("cryptox: sealed key is corrupt or the master key is wrong")

// LoadMasterKey reads key material from path and derives the 32-byte AES-256
// key used to seal the session signing key at rest.
func LoadMasterKey(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("cryptox: read master key: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("cryptox: master key file %s is empty", path)
	}
	sum := sha256.Sum256(data)
	return sum[:], nil
}

func newGCM(master []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(master)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// SealKey encrypts a PEM-encoded private key with AES-256-GCM.
// Output: [12-byte nonce][ciphertext][16-byte tag].
func SealKey(master, pemData []byte) ([]byte, error) {
	gcm, err := newGCM(master)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptox: generate nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, pemData, nil), nil
}

// OpenKey reverses SealKey.
func OpenKey(master, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(master)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(sealed) < nonceSize+gcm.Overhead() {
		return nil, ErrSealedKey
	}
	plaintext, err := gcm.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return nil, ErrSealedKey
	}
	return plaintext, nil
}
