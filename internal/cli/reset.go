package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResetCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every indexed document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !isTerminal() {
				return errors.New("refusing to reset without --yes when stdin is not a terminal")
			}
			if err := a.wire(); err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			token := a.reset.RequestReset()

			if !yes {
				fmt.Fprint(out, "Are you sure? This will delete all indexed data. [y/N]: ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if reply := strings.ToLower(strings.TrimSpace(answer)); reply != "y" && reply != "yes" {
					a.reset.CancelReset(token)
					fmt.Fprintln(out, "Reset cancelled")
					return nil
				}
			}

			_, err := a.reset.ConfirmReset(cmd.Context(), token)
			a.drainNotices(out)
			if err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
