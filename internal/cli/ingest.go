package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/mmcdole/docsift/internal/service"
	"github.com/spf13/cobra"
)

func newIngestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest PATH...",
		Short: "Upload documents to the library",
		Long: `Upload documents in a single batch. Arguments may be files, directories
or glob patterns; quote patterns so the shell does not expand them.

Examples:
  docsift ingest paper.pdf notes.pdf
  docsift ingest ~/papers
  docsift ingest 'reading/**/*.pdf'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.wire(); err != nil {
				return err
			}
			defer a.close()

			var outcome service.UploadOutcome
			err := spin(cmd.ErrOrStderr(), "Processing Library...", func() error {
				var err error
				if allPathsExist(args) {
					outcome, err = a.ingest.Drop(cmd.Context(), args)
				} else {
					outcome, err = a.ingest.Select(cmd.Context(), args)
				}
				return err
			})

			a.drainNotices(cmd.OutOrStdout())
			a.logger.Info("ingest finished", "outcome", outcome.String())

			switch {
			case err != nil:
				return fmt.Errorf("ingest failed: %w", err)
			case outcome == service.OutcomeSkipped:
				return errors.New("no supported files to upload")
			}
			return nil
		},
	}
}

func allPathsExist(paths []string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}
