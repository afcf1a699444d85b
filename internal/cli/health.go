package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the indexing server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.wire(); err != nil {
				return err
			}
			defer a.close()

			health, err := a.health.Check(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s is offline: %w", a.cfg.Server.URL, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Server:  %s\n", a.cfg.Server.URL)
			fmt.Fprintf(out, "Status:  %s\n", health.Status)
			fmt.Fprintf(out, "Engine:  %s\n", engineState(health.EngineInitialized))
			if !health.OK() {
				return fmt.Errorf("server reported status %q", health.Status)
			}
			return nil
		},
	}
}

func engineState(initialized bool) string {
	if initialized {
		return "initialized"
	}
	return "not initialized"
}
