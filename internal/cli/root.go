// Package cli implements the docsift command line. Without a subcommand it
// starts the terminal UI.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   "docsift",
		Short: "Semantic search across your documents",
		Long: `docsift is a terminal client for a semantic document-search server.
Upload PDFs, ask questions in plain language and read the best matching
passages with their source file and page.

Example usage:
  docsift                                  # Start the terminal UI
  docsift search "how does backprop work"  # Search from the shell
  docsift ingest ~/papers/*.pdf            # Upload documents`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: a.runTUI,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.config/docsift/config.yaml)")
	root.PersistentFlags().StringVar(&a.serverURL, "server", "", "indexing server URL (overrides config)")
	root.PersistentFlags().StringVar(&a.watchDir, "watch", "", "upload documents that appear in this directory")

	root.AddCommand(
		newSearchCmd(a),
		newInfoCmd(a),
		newIngestCmd(a),
		newResetCmd(a),
		newHealthCmd(a),
		newWatchCmd(a),
		newVersionCmd(a),
	)
	return root
}
