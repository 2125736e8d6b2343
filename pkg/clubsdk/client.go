package clubsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Client talks to the clubhouse API. It keeps session cookies in a jar, so
// one Client is one browser: sign in once and later calls carry the cookie.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// MobileKey is sent as a bearer token to the /v1/mobile endpoints.
	MobileKey string
}

// NewClient returns a Client with its own cookie jar. Redirects are not
// followed so callers can observe 303 responses.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	body any,
	headers map[string]string,
) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// call sends a request and decodes the response into target when the
// status matches expectedStatus.
func (c *Client) call(
	ctx context.Context,
	method, path string,
	body, target any,
	expectedStatus int,
	headers map[string]string,
) error {
	resp, err := c.do(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expectedStatus)
}

func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.call(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK, nil)
	return out, err
}

func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.call(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK, nil)
	return out, err
}

// Bootstrap creates the first admin and the root member.
func (c *Client) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (BootstrapResponse, error) {
	var out BootstrapResponse
	err := c.call(ctx, http.MethodPost, "/v1/bootstrap", req, &out, http.StatusCreated,
		map[string]string{"X-Bootstrap-Token": token})
	return out, err
}
