package clubsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) SubmitApplication(ctx context.Context, req ApplicationRequest) (ApplicationCreatedResponse, error) {
	var out ApplicationCreatedResponse
	err := c.call(ctx, http.MethodPost, "/v1/applications", req, &out, http.StatusCreated, nil)
	return out, err
}

// GetApplication returns the public view. An expired application is an
// *APIError with status 410.
func (c *Client) GetApplication(ctx context.Context, token string) (ApplicationResponse, error) {
	var out ApplicationResponse
	err := c.call(ctx, http.MethodGet, "/v1/applications/"+url.PathEscape(token), nil, &out, http.StatusOK, nil)
	return out, err
}

func (c *Client) ApproveApplication(ctx context.Context, token, code string) (ApprovalResponse, error) {
	var out ApprovalResponse
	err := c.call(ctx, http.MethodPost, "/v1/applications/"+url.PathEscape(token)+"/approve",
		VerificationRequest{Code: code}, &out, http.StatusOK, nil)
	return out, err
}

func (c *Client) RejectApplication(ctx context.Context, token, code string) (ApplicationResponse, error) {
	var out ApplicationResponse
	err := c.call(ctx, http.MethodPost, "/v1/applications/"+url.PathEscape(token)+"/reject",
		VerificationRequest{Code: code}, &out, http.StatusOK, nil)
	return out, err
}

// Activate sets the first password and signs the member in on this Client.
func (c *Client) Activate(ctx context.Context, token, password string) (SessionResponse, error) {
	var out SessionResponse
	err := c.call(ctx, http.MethodPost, "/v1/activate/"+url.PathEscape(token),
		PasswordRequest{Password: password}, &out, http.StatusOK, nil)
	return out, err
}
