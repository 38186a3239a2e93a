package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/channel-panel/logging"
)

func newLogsCmd(a *app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the most recent log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := logging.ReadRecent(a.cfg.Log.LogPath(), n)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				line := fmt.Sprintf("%s %-5s %s/%s: %s",
					e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Level, e.Component, e.Category, e.Message)
				if e.Error != "" {
					line += " error=" + e.Error
				}
				if len(e.Fields) > 0 {
					line += " " + formatFields(e.Fields)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 50, "number of entries to show (0 for all)")
	return cmd
}

func formatFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return strings.Join(parts, " ")
}
