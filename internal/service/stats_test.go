package service

import (
	"context"
	"testing"

	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRefresh(t *testing.T) {
	gw := &fakeGateway{}
	gw.statsFn = func(context.Context) (domain.LibraryStats, error) {
		return domain.LibraryStats{
			TotalChunks: 12,
			Files:       map[string]domain.FileInfo{"a.pdf": {Chunks: 12, Pages: []int{1, 2}}},
		}, nil
	}
	store, w := state.New()
	svc := NewStatsService(gw, w, nil)

	require.True(t, svc.Refresh(context.Background()))
	snap := store.Snapshot()
	assert.True(t, snap.StatsLoaded)
	assert.Equal(t, 12, snap.Stats.PassageCount())
	assert.Equal(t, 1, snap.Stats.DocumentCount())
}

func TestStatsFailureKeepsPrior(t *testing.T) {
	gw := &fakeGateway{}
	gw.statsFn = func(context.Context) (domain.LibraryStats, error) {
		return domain.LibraryStats{TotalChunks: 7}, nil
	}
	store, w := state.New()
	svc := NewStatsService(gw, w, nil)
	require.True(t, svc.Refresh(context.Background()))

	gw.statsFn = func(context.Context) (domain.LibraryStats, error) {
		return domain.LibraryStats{}, domain.ErrServerOffline
	}
	assert.False(t, svc.Refresh(context.Background()))
	assert.Equal(t, 7, store.Snapshot().Stats.TotalChunks)
	assert.Equal(t, 2, gw.statsCount())
}

func TestHealthCheck(t *testing.T) {
	gw := &fakeGateway{}
	store, w := state.New()
	svc := NewHealthService(gw, w, nil)

	h, err := svc.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, h.OK())
	snap := store.Snapshot()
	assert.True(t, snap.HealthChecked)
	assert.True(t, snap.Online)

	gw.healthFn = func(context.Context) (domain.Health, error) {
		return domain.Health{}, domain.ErrServerOffline
	}
	_, err = svc.Check(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
	assert.False(t, store.Snapshot().Online)
}

func TestNoticeDismiss(t *testing.T) {
	store, w := state.New()
	w.PushNotice(domain.Notice{Text: "first", Blocking: true})
	w.PushNotice(domain.Notice{Text: "second"})

	svc := NewNoticeService(w)
	svc.Dismiss()

	notice, ok := store.Snapshot().PendingNotice()
	require.True(t, ok)
	assert.Equal(t, "second", notice.Text)
}
