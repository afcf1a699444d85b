package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/docsift/internal/adapter"
	"github.com/mmcdole/docsift/internal/tui"
	"github.com/mmcdole/docsift/internal/tui/styles"
	"github.com/mmcdole/docsift/internal/watch"
	"github.com/spf13/cobra"
)

// runTUI starts the terminal UI, running first-time setup when no config
// file exists yet
func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	if !a.cfg.IsConfigured() && a.serverURL == "" && isTerminal() {
		if err := a.runSetup(cmd); err != nil {
			return err
		}
	}

	if err := a.wire(); err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	watchDir, err := a.startInbox(ctx)
	if err != nil {
		return err
	}

	if !styles.UseTheme(a.cfg.UI.Theme) {
		a.logger.Warn("unknown theme, using default", "theme", a.cfg.UI.Theme)
	}

	model := tui.NewModel(a.state, tui.Services{
		Search:  a.search,
		Ingest:  a.ingest,
		Stats:   a.stats,
		Reset:   a.reset,
		Health:  a.health,
		Notices: a.notices,
		History: a.history,
	}, tui.Options{
		ServerURL:     a.cfg.Server.URL,
		Timeout:       a.cfg.Server.Timeout,
		UploadTimeout: a.cfg.Server.Timeout,
		WatchDir:      watchDir,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	a.logger.Info("starting TUI", "version", a.version, "server", a.cfg.Server.URL)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}

// startInbox watches the configured inbox directory, if any, until ctx ends.
// It returns the expanded directory.
func (a *app) startInbox(ctx context.Context) (string, error) {
	if a.cfg.Ingest.WatchDir == "" {
		return "", nil
	}
	dir, err := adapter.ExpandHome(a.cfg.Ingest.WatchDir)
	if err != nil {
		return "", err
	}

	inbox := watch.NewInbox(dir, a.cfg.Ingest.Extensions, a.cfg.Ingest.Debounce, a.ingest, a.logger)
	if err := inbox.Watch(ctx); err != nil {
		return "", fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return inbox.Dir(), nil
}
