package cryptox

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name string
		size int
		len  int
	}{
		{"128-bit token", TokenSize128, 22},
		{"256-bit token", TokenSize256, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.Len(t, token, tt.len)

			token2, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, token, token2, "tokens should be unique")
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	fp1a := FingerprintToken("test-token-1")
	fp1b := FingerprintToken("test-token-1")
	fp2 := FingerprintToken("test-token-2")

	require.Equal(t, fp1a, fp1b, "fingerprint should be deterministic")
	require.NotEqual(t, fp1a, fp2)
	require.Len(t, fp1a, 43, "SHA-256 base64url should be 43 chars")
}

func TestGenerateNumericCode(t *testing.T) {
	sixDigits := regexp.MustCompile(`^[0-9]{6}$`)

	seen := make(map[string]struct{})
	for range 200 {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		require.Regexp(t, sixDigits, code)
		seen[code] = struct{}{}
	}

	// 200 draws out of a million should essentially never collapse.
	require.Greater(t, len(seen), 190)

	_, err := GenerateNumericCode(0)
	require.Error(t, err)
}

func TestEqualConstantTime(t *testing.T) {
	require.True(t, EqualConstantTime("123456", "123456"))
	require.False(t, EqualConstantTime("123456", "123457"))
	require.False(t, EqualConstantTime("123456", "1234567"))
	require.False(t, EqualConstantTime("", "x"))
	require.True(t, EqualConstantTime("", ""))
}
