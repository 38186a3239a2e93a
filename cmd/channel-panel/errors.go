package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Its-donkey/channel-panel/internal/catalog"
	twitch "github.com/Its-donkey/channel-panel/internal/platforms/twitch/api"
	"github.com/Its-donkey/channel-panel/internal/remote"
)

// prettyError appends an operator hint to the errors we know how to explain.
func prettyError(err error) string {
	msg := "Error: " + err.Error()
	if hint := hintFor(err); hint != "" {
		msg += "\n  hint: " + hint
	}
	return msg
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, catalog.ErrPageLimit):
		return "the category directory did not end within panel.max_pages pages; raise it or set it to 0"
	case errors.Is(err, catalog.ErrItemLimit):
		return "the category directory is larger than panel.max_items; raise it or set it to 0"
	}

	status := remote.StatusOf(err)
	var apiErr *twitch.APIError
	if status == 0 && errors.As(err, &apiErr) {
		status = apiErr.Status
	}
	switch status {
	case http.StatusUnauthorized:
		return "the access token was rejected; check twitch.access_token (it needs the channel:manage:broadcast scope) or integration.gateway_token"
	case http.StatusForbidden:
		return "the token is not allowed to edit this channel; panel.identity must match the token's owner"
	case http.StatusNotFound:
		return "the channel was not found; check panel.identity or panel.login"
	}

	switch remote.KindOf(err) {
	case remote.KindNetwork:
		return "the platform could not be reached; check integration.gateway_url and integration.timeout_seconds"
	case remote.KindRoute:
		return "no integration is configured under that name; check integration.name"
	case remote.KindDecode:
		return "the server answered with something that is not the expected JSON"
	}

	if strings.Contains(err.Error(), "TWITCH_CLIENT_SECRET") || strings.Contains(err.Error(), "client id") {
		return "set twitch.client_id and twitch.client_secret, or TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET"
	}
	return ""
}
