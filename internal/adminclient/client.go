// Package adminclient is a typed HTTP client for the admin user API.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"contact_backend/internal/feature/users/transport/http/dto"
	"contact_backend/internal/shared/ratelimiter"
)

// APIError is returned for any non-200 response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("admin api: status %d: %s", e.Status, e.Message)
}

// Client calls /api/users on a running server.
type Client struct {
	baseURL string
	http    *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimiter paces every request through rl.
func WithRateLimiter(rl ratelimiter.RateLimiterInterface) Option {
	return func(c *Client) {
		c.limiter = rl
	}
}

// New creates a Client for baseURL such as "http://127.0.0.1:5000".
func New(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches users. Empty sort or order leaves the server default in place.
func (c *Client) List(ctx context.Context, sort, order string) (*dto.UserListRes, error) {
	q := url.Values{}
	if sort != "" {
		q.Set("sort", sort)
	}
	if order != "" {
		q.Set("order", order)
	}
	path := "/api/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out dto.UserListRes
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Add creates a user.
func (c *Client) Add(ctx context.Context, name, email string) (*dto.ResultRes, error) {
	return c.result(ctx, http.MethodPost, "/api/users/add", dto.UserReq{Name: name, Email: email})
}

// Update overwrites name and email of user id.
func (c *Client) Update(ctx context.Context, id uint, name, email string) (*dto.ResultRes, error) {
	return c.result(ctx, http.MethodPut, "/api/users/"+strconv.FormatUint(uint64(id), 10), dto.UserReq{Name: name, Email: email})
}

// Delete removes user id.
func (c *Client) Delete(ctx context.Context, id uint) (*dto.ResultRes, error) {
	return c.result(ctx, http.MethodDelete, "/api/users/"+strconv.FormatUint(uint64(id), 10), nil)
}

// BulkDelete removes every listed user.
func (c *Client) BulkDelete(ctx context.Context, ids []uint) (*dto.ResultRes, error) {
	return c.result(ctx, http.MethodPost, "/api/users/bulk-delete", dto.BulkDeleteReq{IDs: ids})
}

// Export downloads the CSV export as raw bytes.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/users/export", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) result(ctx context.Context, method, path string, in any) (*dto.ResultRes, error) {
	var out dto.ResultRes
	if err := c.doJSON(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return apiError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// apiError prefers the JSON message of a failed admin call and falls back to the raw body.
func apiError(status int, body []byte) error {
	var res dto.ResultRes
	if err := json.Unmarshal(body, &res); err == nil && res.Message != "" {
		return &APIError{Status: status, Message: res.Message}
	}
	return &APIError{Status: status, Message: strings.TrimSpace(string(body))}
}
