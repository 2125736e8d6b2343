package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
)

type sponsorsRepo struct {
	db dbtx
}

const sponsorSelect = `
	SELECT s.id, s.name, s.website, s.description, s.logo_url, s.spotlight,
	       (SELECT COUNT(*) FROM sponsor_hearts h WHERE h.sponsor_id = s.id),
	       s.created_at, s.updated_at
	FROM sponsors s`

func scanSponsor(row rowScanner) (domain.Sponsor, error) {
	var (
		s         domain.Sponsor
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Website, &s.Description, &s.LogoURL, &s.Spotlight, &s.Hearts, &createdAt, &updatedAt); err != nil {
		return domain.Sponsor{}, err
	}
	s.CreatedAt = fromMillis(createdAt)
	s.UpdatedAt = fromMillis(updatedAt)
	return s, nil
}

func (r *sponsorsRepo) CreateSponsor(ctx context.Context, s domain.Sponsor) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sponsors (id, name, website, description, logo_url, spotlight, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Website, s.Description, s.LogoURL, s.Spotlight,
		toMillis(s.CreatedAt), toMillis(s.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *sponsorsRepo) GetSponsor(ctx context.Context, id string) (domain.Sponsor, error) {
	s, err := scanSponsor(r.db.QueryRowContext(ctx, sponsorSelect+` WHERE s.id = ?`, id))
	if err != nil {
		return domain.Sponsor{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sponsorsRepo) ListSponsors(ctx context.Context) ([]domain.Sponsor, error) {
	rows, err := r.db.QueryContext(ctx, sponsorSelect+`
		ORDER BY s.spotlight DESC, s.name COLLATE NOCASE, s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Sponsor
	for rows.Next() {
		s, err := scanSponsor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sponsorsRepo) UpdateSponsor(ctx context.Context, s domain.Sponsor) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sponsors SET name = ?, website = ?, description = ?, spotlight = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.Website, s.Description, s.Spotlight, toMillis(s.UpdatedAt), s.ID,
	)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *sponsorsRepo) SetSponsorLogo(ctx context.Context, id, logoURL string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sponsors SET logo_url = ?, updated_at = ? WHERE id = ?`,
		logoURL, toMillis(now), id,
	)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *sponsorsRepo) DeleteSponsor(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sponsors WHERE id = ?`, id)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *sponsorsRepo) AddHeart(ctx context.Context, h domain.SponsorHeart) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sponsor_hearts (sponsor_id, member_id, created_at) VALUES (?, ?, ?)`,
		h.SponsorID, h.MemberID, toMillis(h.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *sponsorsRepo) RemoveHeart(ctx context.Context, sponsorID, memberID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM sponsor_hearts WHERE sponsor_id = ? AND member_id = ?`,
		sponsorID, memberID,
	)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *sponsorsRepo) HeartedBy(ctx context.Context, memberID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sponsor_id FROM sponsor_hearts WHERE member_id = ? ORDER BY created_at`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
