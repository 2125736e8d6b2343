package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentTooDeep  = errors.New("comment nesting too deep")
)

type PostInput struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required,max=20000"`
}

type CommentInput struct {
	Body     string `json:"body" validate:"required,max=5000"`
	ParentID string `json:"parentId"`
}

// Thread is a post with its comments in the order they were written.
type Thread struct {
	Post     domain.Post
	Comments []domain.Comment
}

type ForumService struct {
	Store store.Store
	Now   Clock
}

func (s *ForumService) ListPosts(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	limit, offset = page(limit, offset)
	return s.Store.Forum().ListPosts(ctx, limit, offset)
}

func (s *ForumService) GetThread(ctx context.Context, postID string) (Thread, error) {
	post, err := s.Store.Forum().GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Thread{}, ErrPostNotFound
		}
		return Thread{}, err
	}
	comments, err := s.Store.Forum().ListComments(ctx, postID)
	if err != nil {
		return Thread{}, err
	}
	return Thread{Post: post, Comments: comments}, nil
}

func (s *ForumService) CreatePost(ctx context.Context, authorID string, in PostInput) (domain.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	if err := validateStruct(in); err != nil {
		return domain.Post{}, err
	}

	now := s.Now.now()
	p := domain.Post{
		ID:        idx.NewAt(now).String(),
		AuthorID:  authorID,
		Title:     in.Title,
		Body:      in.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Forum().CreatePost(ctx, p); err != nil {
		slogx.FromContext(ctx).Error("failed to create post", slog.Any("error", err))
		return domain.Post{}, err
	}
	slogx.FromContext(ctx).Info("post created", slog.String("post_id", p.ID))
	return s.Store.Forum().GetPost(ctx, p.ID)
}

// DeletePost removes a post and its comments. Only the author or an admin
// may do so.
func (s *ForumService) DeletePost(ctx context.Context, callerID string, isAdmin bool, postID string) error {
	post, err := s.Store.Forum().GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if !isAdmin && post.AuthorID != callerID {
		return ErrForbidden
	}
	if err := s.Store.Forum().DeletePost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	slogx.FromContext(ctx).Info("post deleted",
		slog.String("post_id", postID),
		slog.Bool("by_admin", isAdmin),
	)
	return nil
}

// AddComment inserts a comment or reply and bumps the post's counter in the
// same transaction.
func (s *ForumService) AddComment(ctx context.Context, authorID, postID string, in CommentInput) (domain.Comment, error) {
	in.Body = strings.TrimSpace(in.Body)
	if err := validateStruct(in); err != nil {
		return domain.Comment{}, err
	}

	now := s.Now.now()
	c := domain.Comment{
		ID:        idx.NewAt(now).String(),
		PostID:    postID,
		ParentID:  strings.TrimSpace(in.ParentID),
		AuthorID:  authorID,
		Body:      in.Body,
		CreatedAt: now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Forum().GetPost(ctx, postID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if c.ParentID != "" {
			parent, err := tx.Forum().GetComment(ctx, c.ParentID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrCommentNotFound
				}
				return err
			}
			if parent.PostID != postID {
				return ErrCommentNotFound
			}
			c.Depth = parent.Depth + 1
			if c.Depth > domain.MaxCommentDepth {
				return ErrCommentTooDeep
			}
		}

		if err := tx.Forum().CreateComment(ctx, c); err != nil {
			return err
		}
		return tx.Forum().IncrementCommentCount(ctx, postID)
	})
	if err != nil {
		if !errors.Is(err, ErrPostNotFound) && !errors.Is(err, ErrCommentNotFound) && !errors.Is(err, ErrCommentTooDeep) {
			slogx.FromContext(ctx).Error("failed to add comment",
				slog.String("post_id", postID),
				slog.Any("error", err),
			)
		}
		return domain.Comment{}, err
	}
	return s.Store.Forum().GetComment(ctx, c.ID)
}

// DeleteComment removes a comment and its replies, then recounts the post.
// Only the author may delete.
func (s *ForumService) DeleteComment(ctx context.Context, callerID, commentID string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Forum().GetComment(ctx, commentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		if c.AuthorID != callerID {
			return ErrForbidden
		}
		if err := tx.Forum().DeleteComment(ctx, c.ID); err != nil {
			return err
		}
		return tx.Forum().RecomputeCommentCount(ctx, c.PostID)
	})
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("comment deleted", slog.String("comment_id", commentID))
	return nil
}
