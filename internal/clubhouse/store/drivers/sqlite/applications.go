package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
)

type applicationsRepo struct {
	db dbtx
}

const applicationColumns = `
	id, token_hash, status, verification_code, expires_at,
	applicant_name, applicant_email, sponsor_email, sponsor_member_id,
	street_address, city, state, zip, professional_qualification,
	interest, contribution, employer, linkedin,
	approved_at, rejected_at, activation_token_hash, activated_at,
	created_at, updated_at`

func scanApplication(row rowScanner) (domain.Application, error) {
	var (
		a                   domain.Application
		status              string
		expiresAt           int64
		approvedAt          sql.NullInt64
		rejectedAt          sql.NullInt64
		activationTokenHash sql.NullString
		activatedAt         sql.NullInt64
		createdAt           int64
		updatedAt           int64
	)
	err := row.Scan(
		&a.ID, &a.TokenHash, &status, &a.VerificationCode, &expiresAt,
		&a.ApplicantName, &a.ApplicantEmail, &a.SponsorEmail, &a.SponsorMemberID,
		&a.Profile.StreetAddress, &a.Profile.City, &a.Profile.State, &a.Profile.Zip,
		&a.Profile.ProfessionalQualification, &a.Profile.Interest, &a.Profile.Contribution,
		&a.Profile.Employer, &a.Profile.LinkedIn,
		&approvedAt, &rejectedAt, &activationTokenHash, &activatedAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Application{}, err
	}

	a.Status = domain.ApplicationStatus(status)
	a.ExpiresAt = fromMillis(expiresAt)
	a.ApprovedAt = fromNullMillis(approvedAt)
	a.RejectedAt = fromNullMillis(rejectedAt)
	a.ActivationTokenHash = mapNullString(activationTokenHash)
	a.ActivatedAt = fromNullMillis(activatedAt)
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}

func (r *applicationsRepo) CreateApplication(ctx context.Context, a domain.Application) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, token_hash, status, verification_code, expires_at,
			applicant_name, applicant_email, sponsor_email, sponsor_member_id,
			street_address, city, state, zip, professional_qualification,
			interest, contribution, employer, linkedin,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.TokenHash, string(a.Status), a.VerificationCode, toMillis(a.ExpiresAt),
		a.ApplicantName, a.ApplicantEmail, a.SponsorEmail, a.SponsorMemberID,
		a.Profile.StreetAddress, a.Profile.City, a.Profile.State, a.Profile.Zip,
		a.Profile.ProfessionalQualification, a.Profile.Interest, a.Profile.Contribution,
		a.Profile.Employer, a.Profile.LinkedIn,
		toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *applicationsRepo) getOne(ctx context.Context, where string, arg any) (domain.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE `+where, arg)
	a, err := scanApplication(row)
	if err != nil {
		return domain.Application{}, mapNotFound(err)
	}
	return a, nil
}

func (r *applicationsRepo) GetApplicationByID(ctx context.Context, id string) (domain.Application, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *applicationsRepo) GetApplicationByTokenHash(ctx context.Context, hash string) (domain.Application, error) {
	return r.getOne(ctx, `token_hash = ?`, hash)
}

func (r *applicationsRepo) GetApplicationByActivationHash(ctx context.Context, hash string) (domain.Application, error) {
	return r.getOne(ctx, `activation_token_hash = ?`, hash)
}

func (r *applicationsRepo) ListApplications(
	ctx context.Context,
	status domain.ApplicationStatus,
	limit, offset int,
) ([]domain.Application, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		string(status), string(status), limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *applicationsRepo) ExpireApplication(ctx context.Context, id string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE applications SET status = 'EXPIRED', updated_at = ?
		WHERE id = ? AND status = 'PENDING' AND expires_at < ?`,
		toMillis(now), id, toMillis(now),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *applicationsRepo) ExpireStaleApplications(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE applications SET status = 'EXPIRED', updated_at = ?
		WHERE status = 'PENDING' AND expires_at < ?`,
		toMillis(now), toMillis(now),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *applicationsRepo) ExpireStalePair(ctx context.Context, applicantEmail, sponsorEmail string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE applications SET status = 'EXPIRED', updated_at = ?
		WHERE applicant_email = ? AND sponsor_email = ?
		  AND status = 'PENDING' AND expires_at < ?`,
		toMillis(now), applicantEmail, sponsorEmail, toMillis(now),
	)
	return err
}

func (r *applicationsRepo) ApproveApplication(ctx context.Context, id, activationTokenHash string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE applications
		SET status = 'APPROVED', approved_at = ?, activation_token_hash = ?, updated_at = ?
		WHERE id = ? AND status = 'PENDING' AND expires_at >= ?`,
		toMillis(now), mapStringNull(activationTokenHash), toMillis(now), id, toMillis(now),
	)
	return expectOne(res, err, store.ErrConflict)
}

func (r *applicationsRepo) RejectApplication(ctx context.Context, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE applications
		SET status = 'REJECTED', rejected_at = ?, updated_at = ?
		WHERE id = ? AND status = 'PENDING' AND expires_at >= ?`,
		toMillis(now), toMillis(now), id, toMillis(now),
	)
	return expectOne(res, err, store.ErrConflict)
}

func (r *applicationsRepo) MarkActivated(ctx context.Context, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE applications SET activated_at = ?, updated_at = ?
		WHERE id = ? AND status = 'APPROVED' AND activated_at IS NULL`,
		toMillis(now), toMillis(now), id,
	)
	return expectOne(res, err, store.ErrConflict)
}

func (r *applicationsRepo) DeleteApplicationsForEmail(ctx context.Context, email string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM applications WHERE applicant_email = ? OR sponsor_email = ?`,
		email, email,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
