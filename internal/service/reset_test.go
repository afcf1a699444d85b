package service

import (
	"context"
	"testing"
	"time"

	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resetFixture struct {
	gw     *fakeGateway
	store  *state.Store
	search *SearchService
	reset  *ResetService
}

func newResetFixture() resetFixture {
	gw := &fakeGateway{}
	gw.searchFn = func(context.Context, domain.SearchRequest) (domain.SearchResult, error) {
		return domain.SearchResult{{ID: "p1"}}, nil
	}
	store, w := state.New()
	stats := NewStatsService(gw, w, nil)
	return resetFixture{
		gw:     gw,
		store:  store,
		search: NewSearchService(gw, w, nil, nil),
		reset:  NewResetService(gw, w, stats, nil),
	}
}

func TestResetConfirmed(t *testing.T) {
	f := newResetFixture()
	_, err := f.search.Submit(context.Background(), "transformers")
	require.NoError(t, err)
	require.Equal(t, state.ViewResults, f.store.Snapshot().View())

	token := f.reset.RequestReset()
	assert.True(t, f.reset.Pending())
	assert.Equal(t, 0, f.gw.resetCount())

	_, err = f.reset.ConfirmReset(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, 1, f.gw.resetCount())
	assert.Equal(t, 1, f.gw.statsCount())
	snap := f.store.Snapshot()
	assert.Empty(t, snap.Query.Text)
	assert.Empty(t, snap.Results)
	assert.Equal(t, state.ViewPristine, snap.View())
	assert.False(t, f.reset.Pending())
}

func TestResetDeclined(t *testing.T) {
	f := newResetFixture()
	_, err := f.search.Submit(context.Background(), "transformers")
	require.NoError(t, err)
	before := f.store.Snapshot()

	token := f.reset.RequestReset()
	f.reset.CancelReset(token)

	assert.Equal(t, 0, f.gw.resetCount())
	assert.Equal(t, 0, f.gw.statsCount())
	assert.Equal(t, before, f.store.Snapshot())

	_, err = f.reset.ConfirmReset(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.Equal(t, 0, f.gw.resetCount())
}

func TestResetTokenSuperseded(t *testing.T) {
	f := newResetFixture()

	first := f.reset.RequestReset()
	second := f.reset.RequestReset()
	assert.NotEqual(t, first, second)

	_, err := f.reset.ConfirmReset(context.Background(), first)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = f.reset.ConfirmReset(context.Background(), second)
	require.NoError(t, err)

	// Tokens are single use
	_, err = f.reset.ConfirmReset(context.Background(), second)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.Equal(t, 1, f.gw.resetCount())
}

func TestResetFailureStillClears(t *testing.T) {
	f := newResetFixture()
	f.gw.resetFn = func(context.Context) (domain.ResetResult, error) {
		return domain.ResetResult{}, domain.ErrServerOffline
	}
	_, err := f.search.Submit(context.Background(), "transformers")
	require.NoError(t, err)

	_, err = f.reset.ConfirmReset(context.Background(), f.reset.RequestReset())
	assert.ErrorIs(t, err, domain.ErrServerOffline)

	assert.Equal(t, 1, f.gw.statsCount())
	snap := f.store.Snapshot()
	assert.Equal(t, state.ViewPristine, snap.View())
	notice, ok := snap.PendingNotice()
	require.True(t, ok)
	assert.True(t, notice.Blocking)
	assert.Equal(t, domain.NoticeError, notice.Kind)
}

func TestResetReportedFailure(t *testing.T) {
	f := newResetFixture()
	f.gw.resetFn = func(context.Context) (domain.ResetResult, error) {
		return domain.ResetResult{Status: "error", Message: "locked"}, nil
	}

	_, err := f.reset.ConfirmReset(context.Background(), f.reset.RequestReset())
	assert.ErrorIs(t, err, domain.ErrProcessingFailed)
	assert.Equal(t, 1, f.gw.statsCount())

	notice, ok := f.store.Snapshot().PendingNotice()
	require.True(t, ok)
	assert.Equal(t, "Reset Error: locked", notice.Text)
}

func TestResetDeadlineStillRefreshesStats(t *testing.T) {
	f := newResetFixture()
	f.gw.resetFn = func(ctx context.Context) (domain.ResetResult, error) {
		<-ctx.Done()
		return domain.ResetResult{}, ctx.Err()
	}
	f.gw.statsFn = func(ctx context.Context) (domain.LibraryStats, error) {
		if err := ctx.Err(); err != nil {
			return domain.LibraryStats{}, err
		}
		return domain.LibraryStats{TotalChunks: 3}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.reset.ConfirmReset(ctx, f.reset.RequestReset())
	require.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, 1, f.gw.statsCount())
	snap := f.store.Snapshot()
	assert.True(t, snap.StatsLoaded)
	assert.Equal(t, 3, snap.Stats.TotalChunks)
}
