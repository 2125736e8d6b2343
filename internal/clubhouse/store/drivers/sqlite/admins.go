package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
)

type adminsRepo struct {
	db dbtx
}

const adminColumns = `id, username, password_hash, mfa_secret, mfa_enabled_at, created_at, updated_at`

func scanAdmin(row rowScanner) (domain.Admin, error) {
	var (
		a            domain.Admin
		mfaSecret    sql.NullString
		mfaEnabledAt sql.NullInt64
		createdAt    int64
		updatedAt    int64
	)
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &mfaSecret, &mfaEnabledAt, &createdAt, &updatedAt); err != nil {
		return domain.Admin{}, err
	}
	a.MFASecret = mapNullStringPtr(mfaSecret)
	a.MFAEnabledAt = fromNullMillis(mfaEnabledAt)
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (id, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.PasswordHash, toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *adminsRepo) GetAdminByID(ctx context.Context, id string) (domain.Admin, error) {
	a, err := scanAdmin(r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = ?`, id))
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	return a, nil
}

func (r *adminsRepo) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	a, err := scanAdmin(r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = ?`, username))
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	return a, nil
}

func (r *adminsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func (r *adminsRepo) UpdateMFASecret(ctx context.Context, id, secret string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admins SET mfa_secret = ?, mfa_enabled_at = NULL, updated_at = ? WHERE id = ?`,
		secret, toMillis(time.Now()), id,
	)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *adminsRepo) EnableMFA(ctx context.Context, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admins SET mfa_enabled_at = ?, updated_at = ?
		WHERE id = ? AND mfa_secret IS NOT NULL`,
		toMillis(now), toMillis(now), id,
	)
	return expectOne(res, err, store.ErrConflict)
}
