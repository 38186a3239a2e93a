// Package twitch is a small Helix client covering the endpoints the channel
// panel needs: users, channel information, and the game directory.
package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public Helix root.
const DefaultBaseURL = "https://api.twitch.tv/helix"

// Client issues authenticated Helix requests.
type Client struct {
	HTTPClient *http.Client
	Auth       *Authenticator
	BaseURL    string
}

// NewClient builds a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(httpClient *http.Client, auth *Authenticator, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{HTTPClient: httpClient, Auth: auth, BaseURL: baseURL}
}

// APIError is a non-success Helix response.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s request failed: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s request failed: status %d: %s", e.Endpoint, e.Status, e.Message)
}

// DecodeError is a Helix response body that could not be parsed.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type helixError struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// do sends one request. A 401 with an app token drops the cached token and
// retries once.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, payload any, out any) error {
	if c.Auth == nil {
		return fmt.Errorf("twitch authenticator is required")
	}

	var data []byte
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("marshal %s request: %w", endpoint, err)
		}
	}

	status, body, err := c.send(ctx, method, endpoint, query, data)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized && !c.Auth.HasUserToken() {
		c.Auth.Invalidate()
		if status, body, err = c.send(ctx, method, endpoint, query, data); err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		apiErr := &APIError{Endpoint: endpoint, Status: status}
		var he helixError
		if json.Unmarshal(body, &he) == nil {
			apiErr.Message = he.Message
		}
		return apiErr
	}

	if out == nil || status == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, query url.Values, data []byte) (int, []byte, error) {
	target := c.BaseURL + "/" + endpoint
	if enc := query.Encode(); enc != "" {
		target += "?" + enc
	}

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create %s request: %w", endpoint, err)
	}
	if err := c.Auth.Apply(ctx, req); err != nil {
		return 0, nil, err
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("execute %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	return resp.StatusCode, raw, nil
}

// IsNotFound reports whether err is a Helix 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
