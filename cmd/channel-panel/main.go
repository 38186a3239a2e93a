// Command channel-panel edits the live channel's title and game from the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// BuildTag is set during build
	BuildTag = "dev"
	// BuildDate is set during build
	BuildDate = "unknown"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "channel-panel",
		Short: "Edit your live channel's title and game",
		Long: `channel-panel - edit the live broadcast's title and game

Without a subcommand an interactive panel opens: the title field, the game
picker filled from the platform's category directory, and a save button.

Environment Variables:
  CHANNEL_PANEL_CONFIG     Path to the JSON config file
  CHANNEL_PANEL_<SECTION>_<KEY>  Override any config key, e.g. CHANNEL_PANEL_PANEL_LOGIN
  TWITCH_CLIENT_ID         Helix client id when the config leaves it empty
  TWITCH_CLIENT_SECRET     Helix client secret when the config leaves it empty
  TWITCH_ACCESS_TOKEN      User access token with channel:manage:broadcast
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPanel(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		newCatalogCmd(a),
		newShowCmd(a),
		newSetCmd(a),
		newLogsCmd(a),
		newVersionCmd(),
	)
	return root
}

// execute runs the CLI with args and releases everything setup opened.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		// If a second signal arrives, force exit immediately.
		<-sigCh
		log.Println("second interrupt received, forcing shutdown")
		os.Exit(1)
	}()

	err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	signal.Stop(sigCh)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, prettyError(err))
		os.Exit(1)
	}
}
