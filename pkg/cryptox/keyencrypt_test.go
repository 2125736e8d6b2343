package cryptox_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
)

func writeMasterKey(t *testing.T, material string) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "master.key")
	require.NoError(t, os.WriteFile(path, []byte(material), 0o600))
	key, err := cryptox.LoadMasterKey(path)
	require.NoError(t, err)
	require.Len(t, key, 32)
	return key
}

func TestSealOpenKey(t *testing.T) {
	master := writeMasterKey(t, "test-master-key-for-encryption-12345")
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	sealed, err := cryptox.SealKey(master, pemKey)
	require.NoError(t, err)
	require.False(t, bytes.Contains(sealed, []byte("PRIVATE KEY")))

	opened, err := cryptox.OpenKey(master, sealed)
	require.NoError(t, err)
	require.Equal(t, pemKey, opened)

	// Same plaintext, fresh nonce
	again, err := cryptox.SealKey(master, pemKey)
	require.NoError(t, err)
	require.NotEqual(t, sealed, again)
}

func TestOpenKeyRejectsWrongMaster(t *testing.T) {
	master := writeMasterKey(t, "right")
	other := writeMasterKey(t, "wrong")

	sealed, err := cryptox.SealKey(master, []byte("secret"))
	require.NoError(t, err)

	_, err = cryptox.OpenKey(other, sealed)
	require.ErrorIs(t, err, cryptox.ErrSealedKey)

	_, err = cryptox.OpenKey(master, sealed[:5])
	require.ErrorIs(t, err, cryptox.ErrSealedKey)
}

func TestLoadMasterKeyEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := cryptox.LoadMasterKey(path)
	require.Error(t, err)
}

func TestLoadOrGenerateSealedKey(t *testing.T) {
	master := writeMasterKey(t, "sealed-session-key")
	path := filepath.Join(t.TempDir(), "session.key")

	first, generated, err := cryptox.LoadOrGenerateEd25519Key(path, master)
	require.NoError(t, err)
	require.True(t, generated)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEqual(t, first, onDisk)

	second, generated, err := cryptox.LoadOrGenerateEd25519Key(path, master)
	require.NoError(t, err)
	require.False(t, generated)
	require.Equal(t, first, second)
}
