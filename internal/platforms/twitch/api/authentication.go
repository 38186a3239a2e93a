package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTokenURL = "https://id.twitch.tv/oauth2/token"

// Authenticator supplies the bearer token for Helix requests. A configured
// user access token is used as-is (channel edits require one); otherwise an
// app access token is obtained with the client-credentials grant and cached.
type Authenticator struct {
	client       *http.Client
	clientID     string
	clientSecret string
	userToken    string
	tokenURL     string
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// NewAuthenticator builds an Authenticator. userToken may be empty.
func NewAuthenticator(client *http.Client, clientID, clientSecret, userToken string) *Authenticator {
	if client == nil {
		client = &http.Client{}
	}
	return &Authenticator{
		client:       client,
		clientID:     strings.TrimSpace(clientID),
		clientSecret: strings.TrimSpace(clientSecret),
		userToken:    strings.TrimPrefix(strings.TrimSpace(userToken), "oauth:"),
		tokenURL:     defaultTokenURL,
		now:          time.Now,
	}
}

// WithTokenURL points the client-credentials grant at another endpoint.
func (a *Authenticator) WithTokenURL(tokenURL string) *Authenticator {
	if tokenURL = strings.TrimSpace(tokenURL); tokenURL != "" {
		a.tokenURL = tokenURL
	}
	return a
}

// HasUserToken reports whether requests act on behalf of a user.
func (a *Authenticator) HasUserToken() bool {
	return a.userToken != ""
}

// Token returns the user token, a cached app token, or a freshly requested app token.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	if a.clientID == "" {
		return "", fmt.Errorf("missing Twitch client id: set twitch.client_id or TWITCH_CLIENT_ID")
	}
	if a.userToken != "" {
		return a.userToken, nil
	}
	if a.clientSecret == "" {
		return "", fmt.Errorf("missing Twitch credentials: set an access token or TWITCH_CLIENT_SECRET")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Reuse cached token if still valid (with small buffer).
	if a.accessToken != "" && a.now().Add(30*time.Second).Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	token, expiry, err := a.requestAccessToken(ctx)
	if err != nil {
		return "", err
	}
	a.accessToken = token
	a.tokenExpiry = expiry
	return token, nil
}

// Invalidate drops a cached app token so the next request fetches a new one.
func (a *Authenticator) Invalidate() {
	a.mu.Lock()
	a.accessToken = ""
	a.tokenExpiry = time.Time{}
	a.mu.Unlock()
}

// Apply adds Client-Id and Authorization headers to an HTTP request, fetching a token if needed.
func (a *Authenticator) Apply(ctx context.Context, req *http.Request) error {
	token, err := a.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Client-Id", a.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return nil
}

func (a *Authenticator) requestAccessToken(ctx context.Context) (string, time.Time, error) {
	form := url.Values{}
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("token request failed: status %d", resp.StatusCode)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", time.Time{}, fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("token response missing access_token")
	}

	expiry := a.now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return tokenResp.AccessToken, expiry, nil
}
