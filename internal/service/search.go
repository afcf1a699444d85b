package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/state"
)

// searchFailedNotice is shown when the latest search fails
const searchFailedNotice = "Search failed: could not reach the indexing server"

// HistoryRecorder stores submitted query strings
type HistoryRecorder interface {
	Add(query string) error
}

// SearchOption adjusts a search request
type SearchOption func(*domain.SearchRequest)

// WithFileFilter restricts matches to a single file
func WithFileFilter(fileName string) SearchOption {
	return func(r *domain.SearchRequest) {
		r.FileFilter = fileName
	}
}

// WithTopK sets how many passages to request. Non-positive values keep
// the default.
func WithTopK(n int) SearchOption {
	return func(r *domain.SearchRequest) {
		if n > 0 {
			r.TopK = n
		}
	}
}

// SearchService owns the query text and the search-result lifecycle.
// The latest issued search wins: a new Submit cancels the one in flight,
// and any response that is not the latest is dropped.
type SearchService struct {
	gateway domain.Gateway
	state   *state.Writer
	history HistoryRecorder
	logger  *slog.Logger

	mu       sync.Mutex
	inflight uint64
	cancel   context.CancelFunc
}

// NewSearchService creates a new search service. history may be nil.
func NewSearchService(gateway domain.Gateway, w *state.Writer, history HistoryRecorder, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		gateway: gateway,
		state:   w,
		history: history,
		logger:  logger,
	}
}

// Submit issues a search for text. Blank text is a no-op. It returns true
// if this search's response was applied to the store; false with a nil
// error means it was superseded by a later search.
func (s *SearchService) Submit(ctx context.Context, text string, opts ...SearchOption) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	// Sequence assignment and cancellation of the previous search happen
	// together so a slower Submit can never cancel a newer one.
	s.mu.Lock()
	q := s.state.BeginSearch(text)
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.inflight = q.Seq
	s.cancel = cancel
	s.mu.Unlock()

	defer s.release(q.Seq, cancel)

	s.recordHistory(text)

	req := domain.SearchRequest{Query: text, TopK: domain.SearchTopK}
	for _, opt := range opts {
		opt(&req)
	}

	s.logger.Debug("searching", "query", text, "seq", q.Seq)

	results, err := s.gateway.Search(ctx, req)
	if err != nil {
		notice := searchFailedNotice
		if errors.Is(err, context.Canceled) {
			notice = ""
		}
		if !s.state.FailSearch(q.Seq, notice) {
			s.logger.Debug("discarding superseded search error", "seq", q.Seq, "error", err)
			return false, nil
		}
		s.logger.Warn("search failed", "query", text, "error", err)
		return false, err
	}

	if !s.state.CompleteSearch(q.Seq, results) {
		s.logger.Debug("discarding stale search response", "seq", q.Seq)
		return false, nil
	}

	s.logger.Debug("search complete", "query", text, "results", len(results))
	return true, nil
}

// release cancels the search context and forgets it if still current
func (s *SearchService) release(seq uint64, cancel context.CancelFunc) {
	cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == seq {
		s.cancel = nil
		s.inflight = 0
	}
}

func (s *SearchService) recordHistory(text string) {
	if s.history == nil {
		return
	}
	if err := s.history.Add(strings.TrimSpace(text)); err != nil {
		s.logger.Warn("failed to record query history", "error", err)
	}
}
