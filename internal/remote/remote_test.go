package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Its-donkey/channel-panel/logging"
)

func TestIntegrationsRoutesByName(t *testing.T) {
	var seen Request
	registry := Integrations{
		"twitch": CallerFunc(func(ctx context.Context, req Request) (json.RawMessage, error) {
			seen = req
			return json.RawMessage(`{"title":"t","category":"c"}`), nil
		}),
	}

	got, err := Do[ChannelResource](context.Background(), registry, Request{
		Integration: " twitch ", Method: MethodGet, Path: PathChannel,
	})
	require.NoError(t, err)
	assert.Equal(t, ChannelResource{Title: "t", Category: "c"}, got)
	assert.Equal(t, PathChannel, seen.Path)

	_, err = registry.Call(context.Background(), Request{Integration: "youtube", Method: MethodGet, Path: PathChannel})
	assert.Equal(t, KindRoute, KindOf(err))
}

func TestDoWrapsDecodeFailures(t *testing.T) {
	caller := CallerFunc(func(ctx context.Context, req Request) (json.RawMessage, error) {
		return json.RawMessage(`["not","an","object"]`), nil
	})

	_, err := Do[ChannelResource](context.Background(), caller, Request{Integration: "twitch", Method: MethodGet, Path: PathChannel})
	require.Error(t, err)
	assert.Equal(t, KindDecode, KindOf(err))
	assert.Contains(t, err.Error(), "GET twitch/channel")
}

func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&TransportError{Kind: KindNetwork, Request: "GET twitch/channel", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "GET twitch/channel: network: connection refused", err.Error())
	assert.Equal(t, 0, StatusOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestLoggedStampsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("panel", logging.DEBUG, &buf)

	var forwarded string
	caller := Logged(CallerFunc(func(ctx context.Context, req Request) (json.RawMessage, error) {
		forwarded = RequestID(ctx)
		if req.Method == MethodPut {
			return nil, &TransportError{Kind: KindStatus, Request: req.String(), Status: 500}
		}
		return json.RawMessage(`{}`), nil
	}), logger)

	_, err := caller.Call(context.Background(), Request{Integration: "twitch", Method: MethodGet, Path: PathChannel})
	require.NoError(t, err)
	assert.NotEmpty(t, forwarded)

	_, err = caller.Call(WithRequestID(context.Background(), "fixed"), Request{Integration: "twitch", Method: MethodPut, Path: ChannelPath("1")})
	require.Error(t, err)
	assert.Equal(t, "fixed", forwarded)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var failure logging.Entry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failure))
	assert.Equal(t, "ERROR", failure.Level)
	assert.Equal(t, "fixed", failure.RequestID)
	assert.Equal(t, "status", failure.Fields["kind"])
	assert.EqualValues(t, 500, failure.Fields["status"])
}
