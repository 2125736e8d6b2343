package clubsdk

import (
	"context"
	"net/http"
	"strconv"
)

func (c *Client) AdminLogin(ctx context.Context, req AdminLoginRequest) (SessionResponse, error) {
	var out SessionResponse
	err := c.call(ctx, http.MethodPost, "/v1/admin/login", req, &out, http.StatusOK, nil)
	return out, err
}

func (c *Client) MemberLogin(ctx context.Context, email, password string) (SessionResponse, error) {
	var out SessionResponse
	err := c.call(ctx, http.MethodPost, "/v1/members/login",
		MemberLoginRequest{Email: email, Password: password}, &out, http.StatusOK, nil)
	return out, err
}

func (c *Client) Me(ctx context.Context) (Member, error) {
	var out MemberResponse
	err := c.call(ctx, http.MethodGet, "/v1/members/me", nil, &out, http.StatusOK, nil)
	return out.Member, err
}

func (c *Client) UpdateMe(ctx context.Context, req MemberUpdateRequest) (Member, error) {
	var out MemberResponse
	err := c.call(ctx, http.MethodPatch, "/v1/members/me", req, &out, http.StatusOK, nil)
	return out.Member, err
}

func (c *Client) AdminListMembers(ctx context.Context) ([]Member, error) {
	var out MemberListResponse
	err := c.call(ctx, http.MethodGet, "/v1/admin/members", nil, &out, http.StatusOK, nil)
	return out.Members, err
}

func (c *Client) AdminDeleteMember(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/v1/admin/members/"+id, nil, nil, http.StatusOK, nil)
}

func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var out PostListResponse
	err := c.call(ctx, http.MethodGet, "/v1/forum/posts", nil, &out, http.StatusOK, nil)
	return out.Posts, err
}

func (c *Client) CreatePost(ctx context.Context, req PostRequest) (Post, error) {
	var out PostResponse
	err := c.call(ctx, http.MethodPost, "/v1/forum/posts", req, &out, http.StatusCreated, nil)
	return out.Post, err
}

// MobileMembers lists the directory with the mobile API key.
func (c *Client) MobileMembers(ctx context.Context, limit int) ([]MemberCard, error) {
	var out DirectoryResponse
	err := c.call(ctx, http.MethodGet, "/v1/mobile/members?limit="+strconv.Itoa(limit), nil, &out, http.StatusOK,
		map[string]string{"Authorization": "Bearer " + c.MobileKey})
	return out.Members, err
}
