package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/service"
	"github.com/mmcdole/docsift/internal/tui/components"
	"github.com/spf13/cobra"
)

const passageWrapWidth = 76

func newSearchCmd(a *app) *cobra.Command {
	var (
		fileFilter string
		output     string
		topK       int
	)

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search the library",
		Long: `Search the indexed documents and print the best matching passages in
relevance order.

Examples:
  docsift search "gradient descent"
  docsift search attention heads --file transformers.pdf -o json
  docsift search "loss functions" -k 10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}
			if err := a.wire(); err != nil {
				return err
			}
			defer a.close()

			if topK < 1 {
				return fmt.Errorf("--top-k must be at least 1, got %d", topK)
			}

			query := strings.Join(args, " ")
			opts := []service.SearchOption{service.WithTopK(topK)}
			if fileFilter != "" {
				opts = append(opts, service.WithFileFilter(fileFilter))
			}

			applied, err := a.search.Submit(cmd.Context(), query, opts...)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if !applied {
				return errors.New("query is empty")
			}

			results := a.state.Snapshot().Results
			if format != formatTable {
				return writeStructured(cmd.OutOrStdout(), format, toPassageViews(results))
			}
			printResults(cmd.OutOrStdout(), query, results)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fileFilter, "file", "f", "", "only search within this document")
	cmd.Flags().IntVarP(&topK, "top-k", "k", domain.SearchTopK, "number of passages to return")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func printResults(w io.Writer, query string, results domain.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching passages found. Try a different query.")
		return
	}

	fmt.Fprintf(w, "Found %d passages for: %s\n\n", len(results), query)
	for i, p := range results {
		fmt.Fprintf(w, "%d. %s  (page %d, %s)\n", i+1, p.Metadata.DisplayFileName(), p.Metadata.Page, p.ScorePercent())
		for _, line := range strings.Split(components.WordWrap(p.Metadata.Text, passageWrapWidth), "\n") {
			fmt.Fprintf(w, "   %s\n", line)
		}
		fmt.Fprintln(w)
	}
}
