package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
)

type mentorshipsRepo struct {
	db dbtx
}

const mentorshipColumns = `
	id, mentor_id, mentee_id, requested_by, status, message, contact_shared, created_at, updated_at`

func scanMentorship(row rowScanner) (domain.MentorshipRequest, error) {
	var (
		m         domain.MentorshipRequest
		status    string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(
		&m.ID, &m.MentorID, &m.MenteeID, &m.RequestedBy, &status,
		&m.Message, &m.ContactShared, &createdAt, &updatedAt,
	); err != nil {
		return domain.MentorshipRequest{}, err
	}
	m.Status = domain.MentorshipStatus(status)
	m.CreatedAt = fromMillis(createdAt)
	m.UpdatedAt = fromMillis(updatedAt)
	return m, nil
}

func (r *mentorshipsRepo) CreateMentorshipRequest(ctx context.Context, m domain.MentorshipRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mentorship_requests (
			id, mentor_id, mentee_id, requested_by, status, message, contact_shared, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.MentorID, m.MenteeID, m.RequestedBy, string(m.Status),
		m.Message, m.ContactShared, toMillis(m.CreatedAt), toMillis(m.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *mentorshipsRepo) GetMentorshipRequest(ctx context.Context, id string) (domain.MentorshipRequest, error) {
	m, err := scanMentorship(r.db.QueryRowContext(ctx,
		`SELECT `+mentorshipColumns+` FROM mentorship_requests WHERE id = ?`, id))
	if err != nil {
		return domain.MentorshipRequest{}, mapNotFound(err)
	}
	return m, nil
}

func (r *mentorshipsRepo) ListMentorshipRequestsFor(ctx context.Context, memberID string) ([]domain.MentorshipRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+mentorshipColumns+` FROM mentorship_requests
		WHERE mentor_id = ? OR mentee_id = ?
		ORDER BY created_at DESC, id DESC`,
		memberID, memberID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MentorshipRequest
	for rows.Next() {
		m, err := scanMentorship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *mentorshipsRepo) UpdateMentorshipStatus(
	ctx context.Context,
	id string,
	to domain.MentorshipStatus,
	contactShared bool,
	now time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE mentorship_requests SET status = ?, contact_shared = ?, updated_at = ?
		WHERE id = ? AND status = 'PENDING'`,
		string(to), contactShared, toMillis(now), id,
	)
	return expectOne(res, err, store.ErrConflict)
}
