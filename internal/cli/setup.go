package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/docsift/internal/adapter"
	"github.com/mmcdole/docsift/internal/adapter/gateway"
	"github.com/mmcdole/docsift/internal/domain"
	"github.com/spf13/cobra"
)

const setupProbeTimeout = 15 * time.Second

// runSetup asks for the server URL on first run and saves it once the
// server answers
func (a *app) runSetup(cmd *cobra.Command) error {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Welcome to docsift!")
	fmt.Fprintln(out)

	for {
		fmt.Fprintf(out, "Indexing server URL [%s]: ", adapter.DefaultServerURL)
		input, err := in.ReadString('\n')
		if err != nil && input == "" {
			return fmt.Errorf("failed to read input: %w", err)
		}

		serverURL := strings.TrimRight(strings.TrimSpace(input), "/")
		if serverURL == "" {
			serverURL = adapter.DefaultServerURL
		}

		var health domain.Health
		err = spin(cmd.ErrOrStderr(), "Connecting to "+serverURL+"...", func() error {
			ctx, cancel := context.WithTimeout(cmd.Context(), setupProbeTimeout)
			defer cancel()

			var err error
			health, err = gateway.NewClient(serverURL, setupProbeTimeout, a.logger).Health(ctx)
			return err
		})
		if err != nil {
			fmt.Fprintf(out, "\n✗ Could not reach %s: %v\n", serverURL, err)
			fmt.Fprintln(out, "Please check the URL and try again.")
			fmt.Fprintln(out)
			continue
		}

		if health.OK() {
			fmt.Fprintln(out, "✓ Connected")
		} else {
			fmt.Fprintf(out, "! Server answered with status %q\n", health.Status)
		}

		// Flag overrides are not persisted
		saved := *a.cfg
		if a.watchDir != "" {
			saved.Ingest.WatchDir = ""
		}
		saved.Server.URL = serverURL
		if err := adapter.SaveConfig(&saved); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		a.cfg.Server.URL = serverURL
		a.logger.Info("saved first-run configuration", "server", serverURL)

		fmt.Fprintln(out, "✓ Configuration saved!")
		fmt.Fprintln(out)
		return nil
	}
}
