// Command helix-stub serves an in-memory channel and game catalog over the
// gateway protocol channel-panel speaks in gateway mode.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Its-donkey/channel-panel/internal/config"
	"github.com/Its-donkey/channel-panel/internal/stub"
	"github.com/Its-donkey/channel-panel/logging"
)

type options struct {
	configPath string
	addr       string
	token      string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "helix-stub",
		Short: "Serve a fake channel and game catalog for channel-panel",
		Long: `helix-stub - local stand-in for the platform gateway

Serves GET /{integration}/channel, PUT /{integration}/channel/{identity} and
GET /{integration}/catalog/top from memory. Point channel-panel at it with:

  CHANNEL_PANEL_INTEGRATION_MODE=gateway
  CHANNEL_PANEL_INTEGRATION_GATEWAY_URL=http://127.0.0.1:8787

Settings come from the stub section of the channel-panel config file.
`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (defaults to stub.addr)")
	cmd.Flags().StringVar(&opts.token, "token", "", "require this bearer token")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests at debug level")
	return cmd
}

func run(ctx context.Context, opts options, logOut io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	addr := cfg.Stub.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if opts.verbose {
		level = logging.DEBUG
	}
	logger := logging.New("helix-stub", level, logOut)

	gin.SetMode(gin.ReleaseMode)
	store := stub.NewStore(stub.Options{
		Identity:    cfg.Panel.Identity,
		Title:       cfg.Stub.Title,
		Category:    cfg.Stub.Category,
		CatalogSize: cfg.Stub.CatalogSize,
		PageSize:    cfg.Stub.PageSize,
	})
	router := stub.NewRouter(store, stub.RouterOptions{
		Integrations: []string{cfg.Integration.Name},
		Token:        opts.token,
		Delay:        cfg.Stub.Delay(),
		Logger:       logger,
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return stub.Serve(ctx, ln, router, logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
