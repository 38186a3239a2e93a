package stub_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Its-donkey/channel-panel/internal/panel"
	"github.com/Its-donkey/channel-panel/internal/panel/headless"
	"github.com/Its-donkey/channel-panel/internal/remote"
	"github.com/Its-donkey/channel-panel/internal/stub"
	"github.com/Its-donkey/channel-panel/logging"
)

func startGateway(t *testing.T, token string) (*stub.Store, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := stub.NewStore(stub.Options{
		Identity:    "44322889",
		Title:       "Morning coffee",
		Category:    "Just Chatting",
		CatalogSize: 250,
		PageSize:    100,
	})
	srv := httptest.NewServer(stub.NewRouter(store, stub.RouterOptions{Token: token}))
	t.Cleanup(srv.Close)
	return store, srv
}

func TestPanelAgainstGateway(t *testing.T) {
	store, srv := startGateway(t, "s3cret")

	var logs bytes.Buffer
	logger := logging.New("panel", logging.DEBUG, &logs)
	caller := remote.Logged(remote.NewHTTPCaller(srv.URL, "s3cret", srv.Client()), logger)

	host := headless.New()
	p, err := panel.New(host, panel.Env{
		Caller:   caller,
		Identity: panel.StaticIdentity("44322889"),
		Notifier: host,
		Logger:   logger,
	}, panel.Options{})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.Mounted(ctx))

	options := host.Selector.Options()
	require.Len(t, options, 250)
	assert.Equal(t, "Just Chatting", options[0].Value)
	assert.Equal(t, "https://static-cdn.jtvnw.net/ttv-boxart/509658-30x40.jpg", options[0].Thumbnail)
	assert.Equal(t, "Morning coffee", host.Title.Value())
	assert.Equal(t, "Just Chatting", host.Selector.Value())
	assert.False(t, host.AnyDisabled())

	require.True(t, host.Title.Type("  Speedrun night  "))
	require.True(t, host.Selector.Choose("Category 042"))
	require.NoError(t, host.Button.Click(ctx))

	assert.Equal(t, "Speedrun night", host.Title.Value(), "form shows the trimmed title the gateway stored")
	assert.Equal(t, "Category 042", host.Selector.Value())
	assert.Equal(t, remote.ChannelResource{Title: "Speedrun night", Category: "Category 042"}, store.Channel())
	assert.Equal(t, []string{panel.SavedMessage}, host.Notifications())
	assert.Contains(t, logs.String(), "server adjusted saved values")
}

func TestPanelSurfacesGatewayRejection(t *testing.T) {
	store, srv := startGateway(t, "")

	host := headless.New()
	p, err := panel.New(host, panel.Env{
		Caller:   remote.NewHTTPCaller(srv.URL, "", srv.Client()),
		Identity: panel.StaticIdentity("44322889"),
		Notifier: host,
	}, panel.Options{})
	require.NoError(t, err)
	require.NoError(t, p.Mounted(context.Background()))

	host.Selector.Choose("Not a category")
	err = host.Form.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, remote.StatusOf(err))
	assert.Contains(t, err.Error(), `unknown category "Not a category"`)
	assert.Empty(t, host.Notifications())
	assert.False(t, host.AnyDisabled())
	assert.Zero(t, store.Writes())
}

func TestPanelRejectsWrongGatewayToken(t *testing.T) {
	_, srv := startGateway(t, "s3cret")

	host := headless.New()
	p, err := panel.New(host, panel.Env{
		Caller:   remote.NewHTTPCaller(srv.URL, "wrong", srv.Client()),
		Identity: panel.StaticIdentity("44322889"),
	}, panel.Options{})
	require.NoError(t, err)

	err = p.Mounted(context.Background())
	assert.Equal(t, http.StatusUnauthorized, remote.StatusOf(err))
	assert.Empty(t, host.Selector.Options())
	assert.False(t, p.Busy())
}
