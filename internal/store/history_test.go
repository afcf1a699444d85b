package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryMemoryOnly(t *testing.T) {
	h, err := NewHistoryStore("", "", 0)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Add("neural networks"))
	require.NoError(t, h.Add("  "))
	require.NoError(t, h.Add("attention"))

	assert.Equal(t, []string{"attention", "neural networks"}, h.Recent(0))
	assert.Equal(t, []string{"attention"}, h.Recent(1))
}

func TestHistoryDeduplicates(t *testing.T) {
	h, err := NewHistoryStore(t.TempDir(), "http://localhost:8000", 10)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Add("a"))
	require.NoError(t, h.Add("b"))
	require.NoError(t, h.Add("a"))

	assert.Equal(t, []string{"a", "b"}, h.Recent(0))
	assert.Equal(t, 2, h.Len())
}

func TestHistoryCapped(t *testing.T) {
	h, err := NewHistoryStore(t.TempDir(), "", 3)
	require.NoError(t, err)
	defer h.Close()

	for _, q := range []string{"one", "two", "three", "four", "five"} {
		require.NoError(t, h.Add(q))
	}
	assert.Equal(t, []string{"five", "four", "three"}, h.Recent(0))
}

func TestHistoryPersists(t *testing.T) {
	dir := t.TempDir()
	server := "http://localhost:8000/"

	h, err := NewHistoryStore(dir, server, 3)
	require.NoError(t, err)
	for _, q := range []string{"one", "two", "one", "three", "four"} {
		require.NoError(t, h.Add(q))
	}
	require.NoError(t, h.Close())

	reopened, err := NewHistoryStore(dir, "HTTP://LOCALHOST:8000", 3)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, []string{"four", "three", "one"}, reopened.Recent(0))

	// Keys survive reopen, so further adds still dedupe and trim on disk
	require.NoError(t, reopened.Add("three"))
	require.NoError(t, reopened.Add("five"))
	assert.Equal(t, []string{"five", "three", "four"}, reopened.Recent(0))
}

func TestHistorySeparatedByServer(t *testing.T) {
	dir := t.TempDir()

	a, err := NewHistoryStore(dir, "http://a:8000", 0)
	require.NoError(t, err)
	require.NoError(t, a.Add("from a"))
	require.NoError(t, a.Close())

	b, err := NewHistoryStore(dir, "http://b:8000", 0)
	require.NoError(t, err)
	defer b.Close()
	assert.Zero(t, b.Len())
}

func TestHistoryClear(t *testing.T) {
	h, err := NewHistoryStore(t.TempDir(), "", 0)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Add("q"))
	require.NoError(t, h.Clear())
	assert.Zero(t, h.Len())

	require.NoError(t, h.Add("after"))
	assert.Equal(t, []string{"after"}, h.Recent(0))
}
