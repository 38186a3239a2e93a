package twitch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ChannelInformation is a row of the Helix channels endpoint.
type ChannelInformation struct {
	BroadcasterID       string   `json:"broadcaster_id"`
	BroadcasterLogin    string   `json:"broadcaster_login"`
	BroadcasterName     string   `json:"broadcaster_name"`
	BroadcasterLanguage string   `json:"broadcaster_language"`
	GameID              string   `json:"game_id"`
	GameName            string   `json:"game_name"`
	Title               string   `json:"title"`
	Delay               int      `json:"delay"`
	Tags                []string `json:"tags"`
}

type channelsResponse struct {
	Data []ChannelInformation `json:"data"`
}

// ModifyChannelRequest carries the fields to change. Nil fields are left alone;
// an empty GameID clears the category.
type ModifyChannelRequest struct {
	Title  *string `json:"title,omitempty"`
	GameID *string `json:"game_id,omitempty"`
}

// GetChannel fetches channel information for one broadcaster.
func (c *Client) GetChannel(ctx context.Context, broadcasterID string) (ChannelInformation, error) {
	broadcasterID = strings.TrimSpace(broadcasterID)
	if broadcasterID == "" {
		return ChannelInformation{}, fmt.Errorf("broadcaster_id is required")
	}

	q := url.Values{}
	q.Set("broadcaster_id", broadcasterID)

	var body channelsResponse
	if err := c.do(ctx, http.MethodGet, "channels", q, nil, &body); err != nil {
		return ChannelInformation{}, err
	}
	if len(body.Data) == 0 {
		return ChannelInformation{}, &APIError{Endpoint: "channels", Status: http.StatusNotFound, Message: "channel not found"}
	}
	return body.Data[0], nil
}

// ModifyChannel updates a broadcaster's channel. Helix answers 204 with no body.
func (c *Client) ModifyChannel(ctx context.Context, broadcasterID string, change ModifyChannelRequest) error {
	broadcasterID = strings.TrimSpace(broadcasterID)
	if broadcasterID == "" {
		return fmt.Errorf("broadcaster_id is required")
	}
	if change.Title != nil && strings.TrimSpace(*change.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}

	q := url.Values{}
	q.Set("broadcaster_id", broadcasterID)
	return c.do(ctx, http.MethodPatch, "channels", q, change, nil)
}
