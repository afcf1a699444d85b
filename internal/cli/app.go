package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mmcdole/docsift/internal/adapter"
	"github.com/mmcdole/docsift/internal/adapter/gateway"
	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/service"
	"github.com/mmcdole/docsift/internal/state"
	"github.com/mmcdole/docsift/internal/store"
)

// app carries the global flags and the dependencies shared by commands.
// Dependencies are built on first use so version and setup never touch
// the network or the history database.
type app struct {
	version string

	cfgFile   string
	serverURL string
	watchDir  string

	cfg     *adapter.Config
	logger  *slog.Logger
	logFile io.Closer

	state   *state.Store
	history *store.HistoryStore
	search  *service.SearchService
	ingest  *service.IngestService
	stats   *service.StatsService
	reset   *service.ResetService
	health  *service.HealthService
	notices *service.NoticeService
}

// load reads configuration, applies flag overrides and sets up logging
func (a *app) load() error {
	cfg, err := adapter.LoadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.serverURL != "" {
		cfg.Server.URL = strings.TrimRight(strings.TrimSpace(a.serverURL), "/")
	}
	if a.watchDir != "" {
		cfg.Ingest.WatchDir = a.watchDir
	}
	a.cfg = cfg

	logger, logFile, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	a.logFile = logFile
	slog.SetDefault(logger)
	a.logger = logger
	return nil
}

// wire builds the gateway, the state store and the controllers
func (a *app) wire() error {
	if a.state != nil {
		return nil
	}

	historyDir, err := adapter.ExpandHome(a.cfg.History.Dir)
	if err != nil {
		return err
	}
	history, err := store.NewHistoryStore(historyDir, a.cfg.Server.URL, a.cfg.History.MaxEntries)
	if err != nil {
		// Another instance may hold the database lock
		a.logger.Warn("query history unavailable, keeping it in memory", "error", err)
		history, _ = store.NewHistoryStore("", "", a.cfg.History.MaxEntries)
	}

	st, w := state.New()
	client := gateway.NewClient(a.cfg.Server.URL, a.cfg.Server.Timeout, a.logger)

	a.state = st
	a.history = history
	a.stats = service.NewStatsService(client, w, a.logger)
	a.search = service.NewSearchService(client, w, history, a.logger)
	a.ingest = service.NewIngestService(client, w, a.stats, a.cfg.Ingest.Extensions, a.logger)
	a.reset = service.NewResetService(client, w, a.stats, a.logger)
	a.health = service.NewHealthService(client, w, a.logger)
	a.notices = service.NewNoticeService(w)
	return nil
}

func (a *app) close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Warn("failed to close history", "error", err)
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// drainNotices prints and acknowledges every queued notice
func (a *app) drainNotices(w io.Writer) {
	for {
		n, ok := a.state.Snapshot().PendingNotice()
		if !ok {
			return
		}
		fmt.Fprintln(w, formatNotice(n))
		a.notices.Dismiss()
	}
}

func formatNotice(n domain.Notice) string {
	switch n.Kind {
	case domain.NoticeSuccess:
		return "✓ " + n.Text
	case domain.NoticeError:
		return "✗ " + n.Text
	default:
		return n.Text
	}
}
