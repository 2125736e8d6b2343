package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

var (
	pepperMu   sync.Mutex
	pepper     string
	pepperFile = "pepper"
)

// SetPepperPath points the password hasher at the pepper file. It must be
// called before the first hash; a missing file is created on first use.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
}

// LoadPepper eagerly loads (or creates) the pepper so a bad path fails at
// startup instead of on the first login.
func LoadPepper() error {
	_, err := getPepper()
	return err
}

// GetPepper returns the pepper, panicking if it cannot be loaded. App startup
// calls LoadPepper first so this never panics in a running server.
func GetPepper() string {
	p, err := getPepper()
	if err != nil {
		panic(fmt.Sprintf("cryptox: pepper unavailable: %v", err))
	}
	return p
}

func getPepper() (string, error) {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if pepper != "" {
		return pepper, nil
	}

	p, err := loadOrGenerateSecret(pepperFile, keyLength)
	if err != nil {
		return "", err
	}
	pepper = p
	return pepper, nil
}

// loadOrGenerateSecret reads a base64url secret from file, writing a fresh
// random one with 0600 permissions if the file does not exist yet.
func loadOrGenerateSecret(file string, size int) (string, error) {
	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return "", err
	}

	data, err := os.ReadFile(file)
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	secret := base64.RawURLEncoding.EncodeToString(buf)

	if err := os.WriteFile(file, []byte(secret), 0600); err != nil {
		return "", err
	}
	return secret, nil
}
