package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/state"
)

// followUpTimeout bounds the stats fetch that follows a mutation
const followUpTimeout = 15 * time.Second

// StatsService keeps the library statistics in sync with the server.
// Stats are decorative: failures are logged and the last value stays.
type StatsService struct {
	gateway domain.Gateway
	state   *state.Writer
	logger  *slog.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(gateway domain.Gateway, w *state.Writer, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{gateway: gateway, state: w, logger: logger}
}

// Refresh fetches the current stats and replaces the stored value.
// Returns false if the fetch failed.
func (s *StatsService) Refresh(ctx context.Context) bool {
	stats, err := s.gateway.Stats(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch stats", "error", err)
		return false
	}

	s.state.SetStats(stats)
	s.logger.Debug("stats refreshed", "passages", stats.PassageCount(), "documents", stats.DocumentCount())
	return true
}

// RefreshAfter refreshes stats following a mutation. The fetch runs on a
// context detached from ctx, so an operation that used up its deadline
// still gets exactly one refresh.
func (s *StatsService) RefreshAfter(ctx context.Context) bool {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), followUpTimeout)
	defer cancel()
	return s.Refresh(rctx)
}
