package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Its-donkey/channel-panel/internal/catalog"
	"github.com/Its-donkey/channel-panel/internal/panel"
)

type catalogRow struct {
	Name      string `json:"name" yaml:"name"`
	Thumbnail string `json:"thumbnail" yaml:"thumbnail"`
}

func newCatalogCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List every category the platform offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, _, err := a.transport()
			if err != nil {
				return err
			}
			opts := a.panelOptions()
			items, err := catalog.NewAggregator(caller, opts.Catalog, a.logger).FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([]catalogRow, 0, len(items))
			for _, item := range items {
				rows = append(rows, catalogRow{
					Name:      item.Name,
					Thumbnail: panel.ThumbnailURL(item.ImageURLTemplate, a.cfg.Panel.ThumbnailWidth, a.cfg.Panel.ThumbnailHeight),
				})
			}
			return writeOutput(cmd.OutOrStdout(), output, rows, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "NAME\tTHUMBNAIL")
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\n", r.Name, r.Thumbnail)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, yaml or json")
	return cmd
}

// writeOutput renders v as json or yaml, or hands a tabwriter to table.
func writeOutput(out io.Writer, format string, v any, table func(w *tabwriter.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		table(w)
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table, yaml or json)", format)
	}
}
