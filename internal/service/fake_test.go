package service

import (
	"context"
	"sync"

	"github.com/mmcdole/docsift/internal/domain"
)

// fakeGateway is an in-memory domain.Gateway that counts calls.
// Unset hooks return zero values.
type fakeGateway struct {
	mu sync.Mutex

	searchFn func(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error)
	statsFn  func(ctx context.Context) (domain.LibraryStats, error)
	uploadFn func(ctx context.Context, batch domain.UploadBatch) (domain.UploadResult, error)
	resetFn  func(ctx context.Context) (domain.ResetResult, error)
	healthFn func(ctx context.Context) (domain.Health, error)

	searches []domain.SearchRequest
	uploads  []domain.UploadBatch
	stats    int
	resets   int
	health   int
}

func (f *fakeGateway) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error) {
	f.mu.Lock()
	f.searches = append(f.searches, req)
	fn := f.searchFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, req)
}

func (f *fakeGateway) Stats(ctx context.Context) (domain.LibraryStats, error) {
	f.mu.Lock()
	f.stats++
	fn := f.statsFn
	f.mu.Unlock()
	if fn == nil {
		return domain.LibraryStats{}, nil
	}
	return fn(ctx)
}

func (f *fakeGateway) Upload(ctx context.Context, batch domain.UploadBatch) (domain.UploadResult, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, batch)
	fn := f.uploadFn
	f.mu.Unlock()
	if fn == nil {
		return domain.UploadResult{Status: domain.StatusSuccess}, nil
	}
	return fn(ctx, batch)
}

func (f *fakeGateway) Reset(ctx context.Context) (domain.ResetResult, error) {
	f.mu.Lock()
	f.resets++
	fn := f.resetFn
	f.mu.Unlock()
	if fn == nil {
		return domain.ResetResult{Status: domain.StatusSuccess}, nil
	}
	return fn(ctx)
}

func (f *fakeGateway) Health(ctx context.Context) (domain.Health, error) {
	f.mu.Lock()
	f.health++
	fn := f.healthFn
	f.mu.Unlock()
	if fn == nil {
		return domain.Health{Status: "ok", EngineInitialized: true}, nil
	}
	return fn(ctx)
}

func (f *fakeGateway) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func (f *fakeGateway) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func (f *fakeGateway) statsCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

func (f *fakeGateway) resetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resets
}

var _ domain.Gateway = (*fakeGateway)(nil)

type fakeHistory struct {
	mu      sync.Mutex
	queries []string
}

func (h *fakeHistory) Add(query string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queries = append(h.queries, query)
	return nil
}
