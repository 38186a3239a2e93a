package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Its-donkey/channel-panel/internal/catalog"
	twitch "github.com/Its-donkey/channel-panel/internal/platforms/twitch/api"
	"github.com/Its-donkey/channel-panel/internal/remote"
)

func TestHintFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"page limit", fmt.Errorf("load catalog: %w", catalog.ErrPageLimit), "panel.max_pages"},
		{"item limit", fmt.Errorf("load catalog: %w", catalog.ErrItemLimit), "panel.max_items"},
		{"unauthorized", &remote.TransportError{Kind: remote.KindStatus, Status: 401}, "channel:manage:broadcast"},
		{"forbidden", &remote.TransportError{Kind: remote.KindStatus, Status: 403}, "panel.identity"},
		{"not found", &remote.TransportError{Kind: remote.KindStatus, Status: 404}, "panel.login"},
		{"helix status", fmt.Errorf("resolve broadcaster: %w", &twitch.APIError{Endpoint: "users", Status: 401}), "access token"},
		{"network", &remote.TransportError{Kind: remote.KindNetwork, Err: errors.New("dial tcp: refused")}, "gateway_url"},
		{"route", &remote.TransportError{Kind: remote.KindRoute}, "integration.name"},
		{"decode", &remote.TransportError{Kind: remote.KindDecode}, "JSON"},
		{"credentials", errors.New("missing Twitch client id: set twitch.client_id or TWITCH_CLIENT_ID"), "TWITCH_CLIENT_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, hintFor(tt.err), tt.want)
		})
	}
}

func TestPrettyErrorWithoutHint(t *testing.T) {
	assert.Equal(t, "Error: boom", prettyError(errors.New("boom")))
}
