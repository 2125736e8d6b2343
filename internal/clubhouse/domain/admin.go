package domain

import "time"

type Admin struct {
	ID           string
	Username     string
	PasswordHash string     // argon2 encoded
	MFASecret    *string    // TOTP secret (nullable, base32 encoded)
	MFAEnabledAt *time.Time // nil until the secret has been verified once
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a Admin) MFAEnabled() bool { return a.MFAEnabledAt != nil }
