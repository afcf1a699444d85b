package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/state"
)

// ResetToken identifies one pending reset confirmation
type ResetToken string

// ResetService guards the destructive library reset behind a two-phase
// request/confirm exchange.
type ResetService struct {
	gateway domain.Gateway
	state   *state.Writer
	stats   *StatsService
	logger  *slog.Logger

	mu      sync.Mutex
	pending ResetToken
}

// NewResetService creates a new reset service
func NewResetService(gateway domain.Gateway, w *state.Writer, stats *StatsService, logger *slog.Logger) *ResetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResetService{gateway: gateway, state: w, stats: stats, logger: logger}
}

// RequestReset issues a confirmation token. It has no network effect and
// replaces any token still pending.
func (s *ResetService) RequestReset() ResetToken {
	token := ResetToken(uuid.NewString())

	s.mu.Lock()
	s.pending = token
	s.mu.Unlock()

	s.logger.Debug("reset requested", "token", token)
	return token
}

// Pending reports whether a reset is awaiting confirmation
func (s *ResetService) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != ""
}

// CancelReset discards the pending token. Unknown tokens are ignored.
func (s *ResetService) CancelReset(token ResetToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == token {
		s.pending = ""
		s.logger.Debug("reset cancelled")
	}
}

// ConfirmReset performs the reset for a pending token. Whatever the server
// answers, stats are refreshed and the search view is cleared afterwards.
func (s *ResetService) ConfirmReset(ctx context.Context, token ResetToken) (domain.ResetResult, error) {
	if !s.consume(token) {
		return domain.ResetResult{}, domain.ErrInvalidToken
	}

	s.logger.Info("resetting library")
	result, err := s.gateway.Reset(ctx)

	if s.stats != nil {
		s.stats.RefreshAfter(ctx)
	}
	s.state.ClearSearch()

	switch {
	case err != nil:
		s.logger.Error("reset failed", "error", err)
		s.state.PushNotice(domain.Notice{
			Kind:     domain.NoticeError,
			Text:     "Reset Error: " + err.Error(),
			Blocking: true,
		})
		return result, err
	case !result.OK():
		s.logger.Warn("server reported reset failure", "status", result.Status, "message", result.Message)
		s.state.PushNotice(domain.Notice{
			Kind:     domain.NoticeError,
			Text:     "Reset Error: " + result.Message,
			Blocking: true,
		})
		return result, domain.ErrProcessingFailed
	}

	s.logger.Info("library reset", "message", result.Message)
	s.state.PushNotice(domain.Notice{Kind: domain.NoticeSuccess, Text: "Library cleared"})
	return result, nil
}

func (s *ResetService) consume(token ResetToken) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || s.pending != token {
		return false
	}
	s.pending = ""
	return true
}
