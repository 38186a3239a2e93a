package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/Its-donkey/channel-panel/internal/remote"
	"github.com/Its-donkey/channel-panel/logging"
)

// Integration answers the panel's generic resources from Helix:
//
//	GET channel          channel of the configured broadcaster
//	PUT channel/{id}     modify title and category, then read back
//	GET catalog/top      one page of the top games directory
type Integration struct {
	client *Client
	login  string
	logger *logging.Logger

	mu      sync.Mutex
	owner   string
	gameIDs map[string]string
}

// NewIntegration wraps client. login selects the broadcaster; when empty the
// owner of the user access token is used.
func NewIntegration(client *Client, login string, logger *logging.Logger) *Integration {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Integration{
		client:  client,
		login:   strings.TrimSpace(login),
		logger:  logger,
		gameIDs: make(map[string]string),
	}
}

// Owner resolves and caches the broadcaster id.
func (i *Integration) Owner(ctx context.Context) (string, error) {
	i.mu.Lock()
	owner := i.owner
	i.mu.Unlock()
	if owner != "" {
		return owner, nil
	}

	var (
		user User
		err  error
	)
	if i.login != "" {
		user, err = i.client.UserByLogin(ctx, i.login)
	} else {
		user, err = i.client.CurrentUser(ctx)
	}
	if err != nil {
		return "", err
	}

	i.mu.Lock()
	i.owner = user.ID
	i.mu.Unlock()
	i.logger.Info("twitch", "resolved broadcaster", map[string]any{
		"broadcaster_id": user.ID,
		"login":          user.Login,
	})
	return user.ID, nil
}

// Call implements remote.Caller.
func (i *Integration) Call(ctx context.Context, req remote.Request) (json.RawMessage, error) {
	var (
		out any
		err error
	)
	switch {
	case req.Method == remote.MethodGet && req.Path == remote.PathChannel:
		out, err = i.getChannel(ctx)
	case req.Method == remote.MethodPut && strings.HasPrefix(req.Path, remote.PathChannel+"/"):
		out, err = i.putChannel(ctx, strings.TrimPrefix(req.Path, remote.PathChannel+"/"), req.Payload)
	case req.Method == remote.MethodGet && req.Path == remote.PathCatalogTop:
		out, err = i.topCatalog(ctx, req.Payload)
	default:
		return nil, &remote.TransportError{
			Kind:    remote.KindRoute,
			Request: req.String(),
			Message: "unsupported twitch resource",
		}
	}
	if err != nil {
		return nil, transportError(req, err)
	}

	body, err := json.Marshal(out)
	if err != nil {
		return nil, &remote.TransportError{Kind: remote.KindDecode, Request: req.String(), Message: "encode response", Err: err}
	}
	return body, nil
}

func (i *Integration) getChannel(ctx context.Context) (remote.ChannelResource, error) {
	owner, err := i.Owner(ctx)
	if err != nil {
		return remote.ChannelResource{}, err
	}
	return i.readChannel(ctx, owner)
}

func (i *Integration) readChannel(ctx context.Context, broadcasterID string) (remote.ChannelResource, error) {
	info, err := i.client.GetChannel(ctx, broadcasterID)
	if err != nil {
		return remote.ChannelResource{}, err
	}
	i.remember(Game{ID: info.GameID, Name: info.GameName})
	return remote.ChannelResource{Title: info.Title, Category: info.GameName}, nil
}

func (i *Integration) putChannel(ctx context.Context, broadcasterID string, payload map[string]string) (remote.ChannelResource, error) {
	broadcasterID = strings.TrimSpace(broadcasterID)
	if broadcasterID == "" {
		return remote.ChannelResource{}, &APIError{Endpoint: "channels", Status: http.StatusBadRequest, Message: "missing broadcaster id"}
	}

	var change ModifyChannelRequest
	if title, ok := payload["title"]; ok {
		change.Title = &title
	}
	if category, ok := payload["category"]; ok {
		gameID, err := i.gameID(ctx, category)
		if err != nil {
			return remote.ChannelResource{}, err
		}
		change.GameID = &gameID
	}

	if err := i.client.ModifyChannel(ctx, broadcasterID, change); err != nil {
		return remote.ChannelResource{}, err
	}
	return i.readChannel(ctx, broadcasterID)
}

func (i *Integration) topCatalog(ctx context.Context, payload map[string]string) (remote.CatalogPage, error) {
	first, _ := strconv.Atoi(payload["first"])
	page, err := i.client.TopGames(ctx, payload["after"], first)
	if err != nil {
		return remote.CatalogPage{}, err
	}

	out := remote.CatalogPage{
		Items:      make([]remote.CatalogEntry, 0, len(page.Data)),
		NextCursor: page.Cursor(),
	}
	for _, game := range page.Data {
		i.remember(game)
		out.Items = append(out.Items, remote.CatalogEntry{Name: game.Name, ImageURLTemplate: game.BoxArtURL})
	}
	return out, nil
}

// gameID maps a category name to its Helix id. An empty name clears the category.
func (i *Integration) gameID(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}

	i.mu.Lock()
	id, ok := i.gameIDs[name]
	i.mu.Unlock()
	if ok {
		return id, nil
	}

	games, err := i.client.GetGamesByName(ctx, []string{name})
	if err != nil {
		return "", err
	}
	for _, game := range games {
		i.remember(game)
		if strings.EqualFold(game.Name, name) {
			return game.ID, nil
		}
	}
	return "", &APIError{Endpoint: "games", Status: http.StatusUnprocessableEntity, Message: "unknown category " + strconv.Quote(name)}
}

func (i *Integration) remember(game Game) {
	if game.ID == "" || game.Name == "" {
		return
	}
	i.mu.Lock()
	i.gameIDs[game.Name] = game.ID
	i.mu.Unlock()
}

func transportError(req remote.Request, err error) error {
	var (
		apiErr    *APIError
		decodeErr *DecodeError
	)
	switch {
	case errors.As(err, &apiErr):
		return &remote.TransportError{Kind: remote.KindStatus, Request: req.String(), Status: apiErr.Status, Message: apiErr.Message, Err: err}
	case errors.As(err, &decodeErr):
		return &remote.TransportError{Kind: remote.KindDecode, Request: req.String(), Err: err}
	default:
		return &remote.TransportError{Kind: remote.KindNetwork, Request: req.String(), Err: err}
	}
}
