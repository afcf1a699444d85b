package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [DIR]",
		Short: "Upload documents as they appear in a directory",
		Long: `Watch a directory and upload supported files that are created or copied
into it, batching files that arrive together. Runs until interrupted.
DIR defaults to ingest.watch_dir from the config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.Ingest.WatchDir = args[0]
			}
			if a.cfg.Ingest.WatchDir == "" {
				return errors.New("no directory given and ingest.watch_dir is not set")
			}
			if err := a.wire(); err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			changed := make(chan struct{}, 1)
			unsubscribe := a.state.Subscribe(func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
			defer unsubscribe()

			dir, err := a.startInbox(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Watching %s for new documents (Ctrl+C to stop)\n", dir)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-changed:
					a.drainNotices(out)
				}
			}
		},
	}
}
