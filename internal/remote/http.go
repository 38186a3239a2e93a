package remote

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
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxResponseBytes = 4 * 1024 * 1024
	maxMessageRunes  = 200
)

// HTTPCaller sends requests to a gateway that exposes every integration under
// {BaseURL}/{integration}/{path}. GET payloads travel as query parameters, PUT
// payloads as a JSON object.
type HTTPCaller struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewHTTPCaller builds a gateway caller for baseURL.
func NewHTTPCaller(baseURL, token string, client *http.Client) *HTTPCaller {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPCaller{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:      strings.TrimSpace(token),
		HTTPClient: client,
	}
}

// Call implements Caller.
func (c *HTTPCaller) Call(ctx context.Context, req Request) (json.RawMessage, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, &TransportError{Kind: KindRoute, Request: req.String(), Message: "build request", Err: err}
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Kind: KindNetwork, Request: req.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Kind: KindNetwork, Request: req.String(), Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Kind:    KindStatus,
			Request: req.String(),
			Status:  resp.StatusCode,
			Message: errorMessage(resp.Header.Get("Content-Type"), body),
		}
	}

	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, &TransportError{
			Kind:    KindDecode,
			Request: req.String(),
			Status:  resp.StatusCode,
			Message: "response is not valid JSON",
		}
	}
	return json.RawMessage(body), nil
}

func (c *HTTPCaller) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	if c.BaseURL == "" {
		return nil, errors.New("gateway base URL is required")
	}
	integration := strings.Trim(req.Integration, "/ ")
	if integration == "" {
		return nil, errors.New("integration is required")
	}

	endpoint := c.BaseURL + "/" + url.PathEscape(integration) + "/" + strings.TrimLeft(req.Path, "/")

	var body io.Reader
	switch req.Method {
	case MethodGet:
		if len(req.Payload) > 0 {
			q := url.Values{}
			for k, v := range req.Payload {
				q.Set(k, v)
			}
			endpoint += "?" + q.Encode()
		}
	case MethodPut:
		data, err := json.Marshal(req.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	default:
		return nil, fmt.Errorf("unsupported method %q", req.Method)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if id := RequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}
	return httpReq, nil
}

// errorMessage pulls a human readable reason out of an error response. JSON
// bodies use their "message" or "error" field; HTML error pages (proxies,
// gateways) use the page title or first heading.
func errorMessage(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if strings.Contains(contentType, "html") || bytes.HasPrefix(trimmed, []byte("<")) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
		if err == nil {
			if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
				return title
			}
			if heading := strings.TrimSpace(doc.Find("h1").First().Text()); heading != "" {
				return heading
			}
		}
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &payload); err == nil {
		switch {
		case payload.Message != "" && payload.Error != "":
			return payload.Error + ": " + payload.Message
		case payload.Message != "":
			return payload.Message
		case payload.Error != "":
			return payload.Error
		}
	}

	return truncateRunes(string(trimmed), maxMessageRunes)
}

// truncateRunes shortens s to at most n runes, marking the cut with "...".
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
