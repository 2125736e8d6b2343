package domain

import "time"

// MaxCommentDepth bounds reply nesting; top level comments are depth 0.
const MaxCommentDepth = 10

type Post struct {
	ID           string
	AuthorID     string
	AuthorName   string
	Title        string
	Body         string
	CommentCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Comment struct {
	ID         string
	PostID     string
	ParentID   string // empty for top level
	AuthorID   string
	AuthorName string
	Body       string
	Depth      int
	CreatedAt  time.Time
}
