package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/channel-panel/internal/catalog"
	"github.com/Its-donkey/channel-panel/internal/config"
	"github.com/Its-donkey/channel-panel/internal/panel"
	twitch "github.com/Its-donkey/channel-panel/internal/platforms/twitch/api"
	"github.com/Its-donkey/channel-panel/internal/remote"
	"github.com/Its-donkey/channel-panel/internal/ui/tui"
	"github.com/Its-donkey/channel-panel/logging"
)

// app carries what every subcommand shares once setup has run.
type app struct {
	configPath string
	logLevel   string

	cfg     config.Config
	logger  *logging.Logger
	closers []io.Closer
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	fw, err := logging.NewFileWriter(cfg.Log.Dir, cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxFiles)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, fw)
	a.cfg = cfg
	a.logger = logging.New("channel-panel", level, fw)
	a.logger.Debug("cli", "config loaded", map[string]any{
		"command":     cmd.CommandPath(),
		"file":        cfg.File,
		"integration": cfg.Integration.Name,
		"mode":        cfg.Integration.Mode,
	})
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

// transport builds the caller for the configured integration. In helix mode
// the Twitch integration is returned as well so the identity can be resolved.
func (a *app) transport() (remote.Caller, *twitch.Integration, error) {
	httpClient := &http.Client{Timeout: a.cfg.Timeout()}
	name := a.cfg.Integration.Name

	var (
		caller remote.Caller
		integ  *twitch.Integration
	)
	switch a.cfg.Integration.Mode {
	case config.ModeGateway:
		caller = remote.NewHTTPCaller(a.cfg.Integration.GatewayURL, a.cfg.Integration.GatewayToken, httpClient)
	case config.ModeHelix:
		if name != panel.DefaultIntegration {
			return nil, nil, fmt.Errorf("helix mode only serves the %q integration, not %q", panel.DefaultIntegration, name)
		}
		tw := a.cfg.Twitch
		auth := twitch.NewAuthenticator(httpClient, tw.ClientID, tw.ClientSecret, tw.AccessToken).WithTokenURL(tw.TokenURL)
		integ = twitch.NewIntegration(twitch.NewClient(httpClient, auth, tw.HelixURL), a.cfg.Panel.Login, a.logger)
		caller = integ
	default:
		return nil, nil, fmt.Errorf("unknown integration mode %q", a.cfg.Integration.Mode)
	}

	registry := remote.Integrations{name: caller}
	return remote.Logged(registry, a.logger), integ, nil
}

// identity returns the configured identity or, in helix mode, the broadcaster
// id behind panel.login or the access token.
func (a *app) identity(ctx context.Context, integ *twitch.Integration) (panel.IdentityProvider, error) {
	if id := a.cfg.Panel.Identity; id != "" {
		return panel.StaticIdentity(id), nil
	}
	if integ == nil {
		return nil, errors.New("panel.identity is required in gateway mode")
	}
	id, err := integ.Owner(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve broadcaster: %w", err)
	}
	return panel.StaticIdentity(id), nil
}

func (a *app) panelOptions() panel.Options {
	return panel.Options{
		Integration:     a.cfg.Integration.Name,
		ThumbnailWidth:  a.cfg.Panel.ThumbnailWidth,
		ThumbnailHeight: a.cfg.Panel.ThumbnailHeight,
		Catalog: catalog.Options{
			Integration: a.cfg.Integration.Name,
			PageSize:    a.cfg.Panel.PageSize,
			MaxPages:    a.cfg.Panel.MaxPages,
			MaxItems:    a.cfg.Panel.MaxItems,
		},
	}
}

// newPanel wires a panel onto host.
func (a *app) newPanel(ctx context.Context, host panel.Host, notifier panel.Notifier) (*panel.Panel, error) {
	caller, integ, err := a.transport()
	if err != nil {
		return nil, err
	}
	identity, err := a.identity(ctx, integ)
	if err != nil {
		return nil, err
	}
	return panel.New(host, panel.Env{
		Caller:   caller,
		Identity: identity,
		Notifier: notifier,
		Logger:   a.logger,
	}, a.panelOptions())
}

func (a *app) runPanel(ctx context.Context) error {
	host := tui.NewHost()
	p, err := a.newPanel(ctx, host, host)
	if err != nil {
		return err
	}
	return tui.Run(ctx, host, p)
}
