package twitch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// User represents a Twitch user record returned by the Helix users endpoint.
type User struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	BroadcasterType string `json:"broadcaster_type"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
	CreatedAt       string `json:"created_at"`
}

type usersResponse struct {
	Data []User `json:"data"`
}

// GetUsers fetches user records by ID and/or login. With neither, Helix
// returns the owner of the user access token.
func (c *Client) GetUsers(ctx context.Context, ids []string, logins []string) ([]User, error) {
	idParams := dedupeParams(ids)
	loginParams := dedupeParams(logins)
	if len(idParams) > 100 || len(loginParams) > 100 {
		return nil, fmt.Errorf("too many ids/logins: max 100 each")
	}

	q := url.Values{}
	for _, id := range idParams {
		q.Add("id", id)
	}
	for _, login := range loginParams {
		q.Add("login", login)
	}

	var body usersResponse
	if err := c.do(ctx, http.MethodGet, "users", q, nil, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// CurrentUser returns the user that owns the configured access token.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	if c.Auth == nil || !c.Auth.HasUserToken() {
		return User{}, fmt.Errorf("resolving the current user requires a user access token")
	}
	users, err := c.GetUsers(ctx, nil, nil)
	if err != nil {
		return User{}, err
	}
	if len(users) == 0 {
		return User{}, fmt.Errorf("users response was empty")
	}
	return users[0], nil
}

// UserByLogin resolves a single login.
func (c *Client) UserByLogin(ctx context.Context, login string) (User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" {
		return User{}, fmt.Errorf("login is required")
	}
	users, err := c.GetUsers(ctx, nil, []string{login})
	if err != nil {
		return User{}, err
	}
	if len(users) == 0 {
		return User{}, fmt.Errorf("twitch user %q not found", login)
	}
	return users[0], nil
}

func dedupeParams(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
