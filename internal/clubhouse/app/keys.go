package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
)

// SessionKeys holds the signing key and one verifier per cookie audience.
type SessionKeys struct {
	Signer jwtx.Signer
	KeySet *jwtx.KeySet
	Admin  jwtx.Verifier
	Member jwtx.Verifier
}

// InitSessionKeys loads the Ed25519 session key from disk, generating it on
// first start. Sessions survive restarts as long as the file does. With
// MasterKeyFile set the key file is sealed with AES-256-GCM.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*SessionKeys, error) {
	var master []byte
	if cfg.MasterKeyFile != "" {
		key, err := cryptox.LoadMasterKey(cfg.MasterKeyFile)
		if err != nil {
			return nil, err
		}
		master = key
		logger.Info("session key sealed at rest", "master_key_file", cfg.MasterKeyFile)
	}

	pemKey, generated, err := cryptox.LoadOrGenerateEd25519Key(cfg.SigningKeyFile, master)
	if err != nil {
		return nil, fmt.Errorf("failed to load session key: %w", err)
	}

	kid := cryptox.FingerprintToken(string(pemKey))[:16]
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session key: %w", err)
	}
	if err := signer.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session key: %w", err)
	}

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	if generated {
		logger.Warn("generated new session signing key, existing sessions are invalid",
			"path", cfg.SigningKeyFile,
			"kid", kid,
		)
	} else {
		logger.Info("session signing key loaded", "path", cfg.SigningKeyFile, "kid", kid)
	}

	return &SessionKeys{
		Signer: signer,
		KeySet: keys,
		Admin:  jwtx.NewSessionVerifier(keys, cfg.Issuer, jwtx.AudienceAdmin),
		Member: jwtx.NewSessionVerifier(keys, cfg.Issuer, jwtx.AudienceMember),
	}, nil
}
