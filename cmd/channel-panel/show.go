package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/channel-panel/internal/panel/headless"
)

type channelView struct {
	Title    string `json:"title" yaml:"title"`
	Category string `json:"category" yaml:"category"`
}

func newShowCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the channel's current title and game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			host := headless.New()
			p, err := a.newPanel(ctx, host, host)
			if err != nil {
				return err
			}
			if err := p.Refresh(ctx); err != nil {
				return err
			}
			state := p.State()
			return printChannel(cmd, output, channelView{Title: state.Title, Category: state.Category})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, yaml or json")
	return cmd
}

func printChannel(cmd *cobra.Command, output string, view channelView) error {
	return writeOutput(cmd.OutOrStdout(), output, view, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "Title:\t%s\n", view.Title)
		fmt.Fprintf(w, "Game:\t%s\n", view.Category)
	})
}
