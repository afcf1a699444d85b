package cli

import (
	"fmt"
	"io"

	"github.com/mmcdole/docsift/internal/domain"
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show library statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}
			if err := a.wire(); err != nil {
				return err
			}
			defer a.close()

			if !a.stats.Refresh(cmd.Context()) {
				return fmt.Errorf("could not fetch library stats from %s", a.cfg.Server.URL)
			}

			stats := a.state.Snapshot().Stats
			if format != formatTable {
				return writeStructured(cmd.OutOrStdout(), format, toLibraryView(stats))
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func printStats(w io.Writer, stats domain.LibraryStats) {
	fmt.Fprintf(w, "Passages:   %d\n", stats.PassageCount())
	fmt.Fprintf(w, "Documents:  %d\n", stats.DocumentCount())
	if stats.Message != "" {
		fmt.Fprintf(w, "\n%s\n", stats.Message)
	}

	files := stats.SortedFiles()
	if len(files) == 0 {
		return
	}

	nameWidth := 0
	for _, f := range files {
		nameWidth = max(nameWidth, len(f.Name))
	}
	fmt.Fprintln(w)
	for _, f := range files {
		fmt.Fprintf(w, "  %-*s  %4d passages  %3d pages\n", nameWidth, f.Name, f.Info.Chunks, len(f.Info.Pages))
	}
}
