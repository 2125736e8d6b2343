package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
)

type forumRepo struct {
	db dbtx
}

const postSelect = `
	SELECT p.id, p.author_id, m.name, p.title, p.body, p.comment_count, p.created_at, p.updated_at
	FROM posts p JOIN members m ON m.id = p.author_id`

func scanPost(row rowScanner) (domain.Post, error) {
	var (
		p         domain.Post
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Body, &p.CommentCount, &createdAt, &updatedAt); err != nil {
		return domain.Post{}, err
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

const commentSelect = `
	SELECT c.id, c.post_id, c.parent_id, c.author_id, m.name, c.body, c.depth, c.created_at
	FROM comments c JOIN members m ON m.id = c.author_id`

func scanComment(row rowScanner) (domain.Comment, error) {
	var (
		c         domain.Comment
		parentID  sql.NullString
		createdAt int64
	)
	if err := row.Scan(&c.ID, &c.PostID, &parentID, &c.AuthorID, &c.AuthorName, &c.Body, &c.Depth, &createdAt); err != nil {
		return domain.Comment{}, err
	}
	c.ParentID = mapNullString(parentID)
	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}

func (r *forumRepo) CreatePost(ctx context.Context, p domain.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, title, body, comment_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)`,
		p.ID, p.AuthorID, p.Title, p.Body, toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *forumRepo) GetPost(ctx context.Context, id string) (domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}

func (r *forumRepo) ListPosts(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, postSelect+`
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *forumRepo) DeletePost(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *forumRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, parent_id, author_id, body, depth, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.PostID, mapStringNull(c.ParentID), c.AuthorID, c.Body, c.Depth, toMillis(c.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *forumRepo) GetComment(ctx context.Context, id string) (domain.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id))
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return c, nil
}

func (r *forumRepo) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, commentSelect+`
		WHERE c.post_id = ?
		ORDER BY c.created_at, c.id`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *forumRepo) DeleteComment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *forumRepo) IncrementCommentCount(ctx context.Context, postID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts SET comment_count = comment_count + 1 WHERE id = ?`, postID)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *forumRepo) RecomputeCommentCount(ctx context.Context, postID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts SET comment_count = (SELECT COUNT(*) FROM comments WHERE post_id = posts.id)
		WHERE id = ?`, postID)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *forumRepo) RecomputeAllCommentCounts(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE posts SET comment_count = (SELECT COUNT(*) FROM comments WHERE post_id = posts.id)
		WHERE comment_count <> (SELECT COUNT(*) FROM comments WHERE post_id = posts.id)`)
	return err
}
