package panel

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Its-donkey/channel-panel/internal/catalog"
	"github.com/Its-donkey/channel-panel/internal/remote"
	"github.com/Its-donkey/channel-panel/logging"
)

const (
	DefaultIntegration     = "twitch"
	DefaultThumbnailWidth  = 30
	DefaultThumbnailHeight = 40
)

// Env bundles the collaborators the panel reaches outside itself.
type Env struct {
	Caller   remote.Caller
	Identity IdentityProvider
	Notifier Notifier
	Logger   *logging.Logger
}

// Options tunes a Panel. Zero values fall back to the package defaults.
type Options struct {
	Integration     string
	ThumbnailWidth  int
	ThumbnailHeight int
	Catalog         catalog.Options
}

// Panel wires host controls to the catalog aggregator and the form.
type Panel struct {
	env     Env
	opts    Options
	catalog *catalog.Aggregator

	title    TextField
	category Selector
	submit   Button
	form     *Form

	mu    sync.RWMutex
	items []catalog.Item
}

// New asks host for the panel's controls and wires their events.
func New(host Host, env Env, opts Options) (*Panel, error) {
	if host == nil {
		return nil, errors.New("panel: host is required")
	}
	if env.Caller == nil {
		return nil, errors.New("panel: caller is required")
	}
	if env.Identity == nil {
		return nil, errors.New("panel: identity provider is required")
	}
	if env.Notifier == nil {
		env.Notifier = NotifierFunc(func(string) {})
	}
	if env.Logger == nil {
		env.Logger = logging.Discard()
	}
	if strings.TrimSpace(opts.Integration) == "" {
		opts.Integration = DefaultIntegration
	}
	if opts.ThumbnailWidth <= 0 {
		opts.ThumbnailWidth = DefaultThumbnailWidth
	}
	if opts.ThumbnailHeight <= 0 {
		opts.ThumbnailHeight = DefaultThumbnailHeight
	}
	opts.Catalog.Integration = opts.Integration

	p := &Panel{
		env:      env,
		opts:     opts,
		catalog:  catalog.NewAggregator(env.Caller, opts.Catalog, env.Logger),
		title:    host.CreateTextField("Title"),
		category: host.CreateSelector("Game"),
		submit:   host.CreateButton("Save Changes"),
	}
	p.form = &Form{
		title:       p.title,
		category:    p.category,
		submit:      p.submit,
		caller:      env.Caller,
		integration: opts.Integration,
		identity:    env.Identity,
		notifier:    env.Notifier,
		logger:      env.Logger,
	}

	host.CreateForm().OnSubmit(p.Save)
	p.submit.OnClick(p.Save)
	return p, nil
}

// Mounted loads the catalog into the selector and then the channel into the
// inputs. The form stays Busy for the whole sequence.
func (p *Panel) Mounted(ctx context.Context) error {
	return p.form.guarded("mount", func() error {
		items, err := p.catalog.FetchAll(ctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		p.mu.Lock()
		p.items = items
		p.mu.Unlock()
		p.category.SetOptions(p.options(items))

		if err := p.form.load(ctx); err != nil {
			return err
		}
		p.env.Logger.Info("panel", "mounted", map[string]any{
			"identity":   p.env.Identity.Identity(),
			"categories": len(items),
		})
		return nil
	})
}

// Save is the submit transition, shared by the form and the button.
func (p *Panel) Save(ctx context.Context) error {
	return p.form.Save(ctx)
}

// Refresh reloads the channel from the remote.
func (p *Panel) Refresh(ctx context.Context) error {
	return p.form.Refresh(ctx)
}

// State returns the channel as currently shown.
func (p *Panel) State() ChannelState {
	return p.form.Snapshot()
}

// Busy reports whether a request is in flight.
func (p *Panel) Busy() bool {
	return p.form.State() == Busy
}

// Catalog returns the categories loaded by the last successful mount.
func (p *Panel) Catalog() []catalog.Item {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]catalog.Item(nil), p.items...)
}

func (p *Panel) options(items []catalog.Item) []Option {
	options := make([]Option, 0, len(items))
	for _, item := range items {
		options = append(options, Option{
			Value:     item.Name,
			Label:     item.Name,
			Thumbnail: ThumbnailURL(item.ImageURLTemplate, p.opts.ThumbnailWidth, p.opts.ThumbnailHeight),
		})
	}
	return options
}

// ThumbnailURL fills the {width} and {height} tokens of an image template.
func ThumbnailURL(template string, width, height int) string {
	return strings.NewReplacer(
		"{width}", strconv.Itoa(width),
		"{height}", strconv.Itoa(height),
	).Replace(template)
}
