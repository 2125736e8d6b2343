package http

import (
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

type ForumHandler struct {
	ForumService *service.ForumService
}

// HandleList handles GET /v1/forum/posts
//
//	@Summary	List forum posts
//	@Tags		Forum
//	@Produce	json
//	@Security	MemberSession
//	@Param		limit	query		int	false	"Page size (max 200)"
//	@Param		offset	query		int	false	"Offset"
//	@Success	200		{object}	clubsdk.PostListResponse
//	@Failure	401		{object}	clubsdk.ErrorResponse
//	@Router		/v1/forum/posts [get].
func (h *ForumHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.ForumService.ListPosts(r.Context(),
		httpx.QueryInt(r, "limit", defaultPageSize, maxPageSize),
		httpx.QueryInt(r, "offset", 0, 0),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.PostListResponse{Success: true, Posts: toPosts(posts)})
}

// HandleCreate handles POST /v1/forum/posts
//
//	@Summary	Create a forum post
//	@Tags		Forum
//	@Accept		json
//	@Produce	json
//	@Security	MemberSession
//	@Param		request	body		clubsdk.PostRequest	true	"Post"
//	@Success	201		{object}	clubsdk.PostResponse
//	@Failure	400		{object}	clubsdk.ErrorResponse	"validation failed"
//	@Failure	401		{object}	clubsdk.ErrorResponse
//	@Router		/v1/forum/posts [post].
func (h *ForumHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.PostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	subject, _ := httpx.SubjectFromContext(r.Context())
	post, err := h.ForumService.CreatePost(r.Context(), subject, service.PostInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, clubsdk.PostResponse{Success: true, Post: toPost(post)})
}

// HandleThread handles GET /v1/forum/posts/{id}
//
//	@Summary		A post with its comments
//	@Description	Comments are a flat list; parentId and depth rebuild the tree.
//	@Tags			Forum
//	@Produce		json
//	@Security		MemberSession
//	@Param			id	path		string	true	"Post ID (ULID)"
//	@Success		200	{object}	clubsdk.ThreadResponse
//	@Failure		404	{object}	clubsdk.ErrorResponse
//	@Router			/v1/forum/posts/{id} [get].
func (h *ForumHandler) HandleThread(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrPostNotFound)
	if !ok {
		return
	}

	thread, err := h.ForumService.GetThread(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	comments := make([]clubsdk.Comment, len(thread.Comments))
	for i, c := range thread.Comments {
		comments[i] = toComment(c)
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.ThreadResponse{
		Success:  true,
		Post:     toPost(thread.Post),
		Comments: comments,
	})
}

// HandleComment handles POST /v1/forum/posts/{id}/comments
//
//	@Summary	Comment on a post
//	@Tags		Forum
//	@Accept		json
//	@Produce	json
//	@Security	MemberSession
//	@Param		id		path		string					true	"Post ID (ULID)"
//	@Param		request	body		clubsdk.CommentRequest	true	"Comment, optionally replying to parentId"
//	@Success	201		{object}	clubsdk.CommentResponse
//	@Failure	400		{object}	clubsdk.ErrorResponse	"validation failed or nested too deeply"
//	@Failure	404		{object}	clubsdk.ErrorResponse	"post or parent not found"
//	@Router		/v1/forum/posts/{id}/comments [post].
func (h *ForumHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrPostNotFound)
	if !ok {
		return
	}

	var req clubsdk.CommentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	subject, _ := httpx.SubjectFromContext(r.Context())
	c, err := h.ForumService.AddComment(r.Context(), subject, id, service.CommentInput{
		Body:     req.Body,
		ParentID: req.ParentID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, clubsdk.CommentResponse{Success: true, Comment: toComment(c)})
}

// HandleDeleteComment handles DELETE /v1/forum/comments/{id}
//
//	@Summary		Delete own comment
//	@Description	Replies beneath it are removed too.
//	@Tags			Forum
//	@Produce		json
//	@Security		MemberSession
//	@Param			id	path		string	true	"Comment ID (ULID)"
//	@Success		200	{object}	clubsdk.SuccessResponse
//	@Failure		403	{object}	clubsdk.ErrorResponse	"not the author"
//	@Failure		404	{object}	clubsdk.ErrorResponse
//	@Router			/v1/forum/comments/{id} [delete].
func (h *ForumHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrCommentNotFound)
	if !ok {
		return
	}

	subject, _ := httpx.SubjectFromContext(r.Context())
	if err := h.ForumService.DeleteComment(r.Context(), subject, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SuccessResponse{Success: true, Message: "Comment deleted"})
}

// HandleDeletePost handles DELETE /v1/forum/posts/{id}
//
//	@Summary		Delete a post
//	@Description	Allowed for the author with a member session, or any admin.
//	@Tags			Forum
//	@Produce		json
//	@Security		MemberSession
//	@Security		AdminSession
//	@Param			id	path		string	true	"Post ID (ULID)"
//	@Success		200	{object}	clubsdk.SuccessResponse
//	@Failure		403	{object}	clubsdk.ErrorResponse	"not the author"
//	@Failure		404	{object}	clubsdk.ErrorResponse
//	@Router			/v1/forum/posts/{id} [delete].
func (h *ForumHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrPostNotFound)
	if !ok {
		return
	}

	claims, _ := httpx.ClaimsFromContext(r.Context())
	isAdmin := claims.HasScope(service.ScopeAdmin)

	if err := h.ForumService.DeletePost(r.Context(), claims.Subject, isAdmin, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SuccessResponse{Success: true, Message: "Post deleted"})
}
