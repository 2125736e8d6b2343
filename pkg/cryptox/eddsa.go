package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// GenerateEd25519Key generates a new Ed25519 private key.
// Returns the private key in PEM format (PKCS8).
func GenerateEd25519Key() ([]byte, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate Ed25519 key: %w", err)
	}

	privateKeyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: privateKeyBytes,
	}), nil
}

// LoadOrGenerateEd25519Key returns the PEM encoded session signing key stored
// at path. When the file is missing a new key is generated and persisted so
// sessions survive restarts. The bool reports whether a key was generated.
// A non-nil master key means the file is sealed with SealKey.
func LoadOrGenerateEd25519Key(path string, master []byte) ([]byte, bool, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	if err == nil {
		if master == nil {
			return data, false, nil
		}
		pemBytes, err := OpenKey(master, data)
		if err != nil {
			return nil, false, err
		}
		return pemBytes, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("cryptox: read session key: %w", err)
	}

	pemBytes, err := GenerateEd25519Key()
	if err != nil {
		return nil, false, err
	}

	onDisk := pemBytes
	if master != nil {
		if onDisk, err = SealKey(master, pemBytes); err != nil {
			return nil, false, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, false, fmt.Errorf("cryptox: create key dir: %w", err)
	}
	if err := os.WriteFile(path, onDisk, 0600); err != nil {
		return nil, false, fmt.Errorf("cryptox: write session key: %w", err)
	}
	return pemBytes, true, nil
}
