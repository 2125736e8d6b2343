package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
)

type membersRepo struct {
	db dbtx
}

const memberColumns = `
	id, email, user_id, name, active,
	approvals_in_window, last_approval_at, window_started_at,
	street_address, city, state, zip, professional_qualification,
	interest, contribution, employer, linkedin,
	available_as_mentor, mentor_profile, seeking_mentor, mentee_profile,
	password_hash, created_at, updated_at`

func scanMember(row rowScanner) (domain.Member, error) {
	var (
		m               domain.Member
		userID          sql.NullString
		lastApprovalAt  sql.NullInt64
		windowStartedAt sql.NullInt64
		createdAt       int64
		updatedAt       int64
	)
	err := row.Scan(
		&m.ID, &m.Email, &userID, &m.Name, &m.Active,
		&m.ApprovalsInWindow, &lastApprovalAt, &windowStartedAt,
		&m.Profile.StreetAddress, &m.Profile.City, &m.Profile.State, &m.Profile.Zip,
		&m.Profile.ProfessionalQualification, &m.Profile.Interest, &m.Profile.Contribution,
		&m.Profile.Employer, &m.Profile.LinkedIn,
		&m.AvailableAsMentor, &m.MentorProfile, &m.SeekingMentor, &m.MenteeProfile,
		&m.PasswordHash, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Member{}, err
	}

	m.UserID = mapNullString(userID)
	m.LastApprovalAt = fromNullMillis(lastApprovalAt)
	m.WindowStartedAt = fromNullMillis(windowStartedAt)
	m.CreatedAt = fromMillis(createdAt)
	m.UpdatedAt = fromMillis(updatedAt)
	return m, nil
}

func scanMembers(rows *sql.Rows) ([]domain.Member, error) {
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpsertMember keeps one row per email. On conflict only name, active and
// updated_at change so profile fields from earlier approvals survive.
func (r *membersRepo) UpsertMember(ctx context.Context, m domain.Member) (domain.Member, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO members (
			id, email, name, active,
			street_address, city, state, zip, professional_qualification,
			interest, contribution, employer, linkedin,
			available_as_mentor, mentor_profile, seeking_mentor, mentee_profile,
			created_at, updated_at
		) VALUES (?, ?, ?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			name = excluded.name,
			active = 1,
			updated_at = excluded.updated_at
		RETURNING `+memberColumns,
		m.ID, m.Email, m.Name,
		m.Profile.StreetAddress, m.Profile.City, m.Profile.State, m.Profile.Zip,
		m.Profile.ProfessionalQualification, m.Profile.Interest, m.Profile.Contribution,
		m.Profile.Employer, m.Profile.LinkedIn,
		m.AvailableAsMentor, m.MentorProfile, m.SeekingMentor, m.MenteeProfile,
		toMillis(m.CreatedAt), toMillis(m.UpdatedAt),
	)
	out, err := scanMember(row)
	if err != nil {
		return domain.Member{}, mapConstraint(err)
	}
	return out, nil
}

func (r *membersRepo) GetMemberByID(ctx context.Context, id string) (domain.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id))
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membersRepo) GetMemberByEmail(ctx context.Context, email string) (domain.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE email = ?`, email))
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membersRepo) ListMembers(ctx context.Context, f domain.MemberFilter) ([]domain.Member, error) {
	var (
		where []string
		args  []any
	)
	if f.ActiveOnly {
		where = append(where, `active = 1`)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, `(lower(name) LIKE ? ESCAPE '\' OR lower(email) LIKE ? ESCAPE '\' OR lower(employer) LIKE ? ESCAPE '\')`)
		p := likePattern(q)
		args = append(args, p, p, p)
	}

	query := `SELECT ` + memberColumns + ` FROM members`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY name COLLATE NOCASE, id LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanMembers(rows)
}

func (r *membersRepo) ListMentors(ctx context.Context, limit, offset int) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE active = 1 AND available_as_mentor = 1
		ORDER BY name COLLATE NOCASE, id
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return scanMembers(rows)
}

func (r *membersRepo) UpdateMember(ctx context.Context, id string, p domain.MemberPatch, now time.Time) error {
	sets := []string{`updated_at = ?`}
	args := []any{toMillis(now)}

	set := func(col string, v any) {
		sets = append(sets, col+` = ?`)
		args = append(args, v)
	}
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Active != nil {
		set("active", *p.Active)
	}
	if p.Profile != nil {
		set("street_address", p.Profile.StreetAddress)
		set("city", p.Profile.City)
		set("state", p.Profile.State)
		set("zip", p.Profile.Zip)
		set("professional_qualification", p.Profile.ProfessionalQualification)
		set("interest", p.Profile.Interest)
		set("contribution", p.Profile.Contribution)
		set("employer", p.Profile.Employer)
		set("linkedin", p.Profile.LinkedIn)
	}
	if p.AvailableAsMentor != nil {
		set("available_as_mentor", *p.AvailableAsMentor)
	}
	if p.MentorProfile != nil {
		set("mentor_profile", *p.MentorProfile)
	}
	if p.SeekingMentor != nil {
		set("seeking_mentor", *p.SeekingMentor)
	}
	if p.MenteeProfile != nil {
		set("mentee_profile", *p.MenteeProfile)
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx, `UPDATE members SET `+strings.Join(sets, `, `)+` WHERE id = ?`, args...)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *membersRepo) SetPassword(ctx context.Context, id, userID, passwordHash string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE members SET password_hash = ?, user_id = COALESCE(user_id, ?), updated_at = ?
		WHERE id = ?`,
		passwordHash, userID, toMillis(now), id,
	)
	return expectOne(res, mapConstraint(err), store.ErrNotFound)
}

func (r *membersRepo) RecordApproval(
	ctx context.Context,
	id string,
	approvalsInWindow int,
	windowStartedAt, now time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE members
		SET approvals_in_window = ?, window_started_at = ?, last_approval_at = ?, updated_at = ?
		WHERE id = ?`,
		approvalsInWindow, toMillis(windowStartedAt), toMillis(now), toMillis(now), id,
	)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *membersRepo) DeleteMember(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	return expectOne(res, err, store.ErrNotFound)
}
