package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/channel-panel/internal/panel"
	"github.com/Its-donkey/channel-panel/internal/panel/headless"
	"github.com/Its-donkey/channel-panel/internal/ui/tui"
)

const maxSuggestions = 3

func newSetCmd(a *app) *cobra.Command {
	var (
		title    string
		category string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the channel's title and/or game",
		Example: `  channel-panel set --title "Any% attempts"
  channel-panel set --category "Just Chatting"
  channel-panel set --category ""     # clear the game`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			titleSet := cmd.Flags().Changed("title")
			categorySet := cmd.Flags().Changed("category")
			if !titleSet && !categorySet {
				return errors.New("nothing to update: pass --title and/or --category")
			}

			ctx := cmd.Context()
			host := headless.New()
			p, err := a.newPanel(ctx, host, host)
			if err != nil {
				return err
			}
			// The catalog is only needed to validate a category.
			if categorySet && category != "" {
				err = p.Mounted(ctx)
			} else {
				err = p.Refresh(ctx)
			}
			if err != nil {
				return err
			}

			if titleSet {
				host.Title.Type(title)
			}
			if categorySet {
				value, err := matchCategory(category, host.Selector.Options())
				if err != nil {
					return err
				}
				host.Selector.Choose(value)
			}
			if err := host.Form.Submit(ctx); err != nil {
				return err
			}

			for _, msg := range host.Notifications() {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
			state := p.State()
			return printChannel(cmd, output, channelView{Title: state.Title, Category: state.Category})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new stream title")
	cmd.Flags().StringVar(&category, "category", "", "new game; an empty value clears it")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, yaml or json")
	return cmd
}

// matchCategory resolves name against the catalog ignoring case. The empty
// name clears the category and needs no match.
func matchCategory(name string, options []panel.Option) (string, error) {
	if name == "" {
		return "", nil
	}
	for _, opt := range options {
		if strings.EqualFold(opt.Value, name) {
			return opt.Value, nil
		}
	}

	targets := make([]string, len(options))
	for i, opt := range options {
		targets[i] = opt.Label
	}
	ranks := tui.RankCategories(name, targets)
	if len(ranks) == 0 {
		return "", fmt.Errorf("unknown category %q", name)
	}
	if len(ranks) > maxSuggestions {
		ranks = ranks[:maxSuggestions]
	}
	suggestions := make([]string, len(ranks))
	for i, r := range ranks {
		suggestions[i] = fmt.Sprintf("%q", options[r.Index].Value)
	}
	return "", fmt.Errorf("unknown category %q (did you mean %s?)", name, strings.Join(suggestions, ", "))
}
