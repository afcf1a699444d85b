package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mmcdole/docsift/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// fakeServer mimics the indexing server's HTTP API
type fakeServer struct {
	*httptest.Server
	searches   atomic.Int32
	uploads    atomic.Int32
	resets     atomic.Int32
	lastSearch atomic.Value // map[string]any
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/info", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"total_chunks": 42,
			"files": map[string]any{
				"ml-notes.pdf":  map[string]any{"chunks": 30, "pages": []int{1, 2, 3}},
				"attention.pdf": map[string]any{"chunks": 12, "pages": []int{1}},
			},
		})
	})
	mux.HandleFunc("POST /api/search", func(w http.ResponseWriter, r *http.Request) {
		fs.searches.Add(1)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		fs.lastSearch.Store(body)
		writeJSON(w, []map[string]any{{
			"id":    "p1",
			"score": 0.873,
			"metadata": map[string]any{
				"file_name": "ml-notes.pdf",
				"page":      3,
				"text":      "Neural networks learn layered representations of their input.",
			},
		}})
	})
	mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		fs.uploads.Add(1)
		writeJSON(w, map[string]any{"status": "success", "total_chunks": 7})
	})
	mux.HandleFunc("POST /api/reset", func(w http.ResponseWriter, r *http.Request) {
		fs.resets.Add(1)
		writeJSON(w, map[string]any{"status": "success", "message": "Index cleared"})
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "ok", "engine_initialized": true})
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// isolate gives each test its own HOME and viper state
func isolate(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())
}

func setTerminal(t *testing.T, interactive bool) {
	t.Helper()
	prev := isTerminal
	isTerminal = func() bool { return interactive }
	t.Cleanup(func() { isTerminal = prev })
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	isolate(t)

	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "docsift test\n", out)
}

func TestSearchTable(t *testing.T) {
	srv := newFakeServer(t)

	out, err := run(t, "", "--server", srv.URL, "search", "neural", "networks")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 passages for: neural networks")
	assert.Contains(t, out, "1. ml-notes.pdf  (page 3, 87.3%)")
	assert.Contains(t, out, "Neural networks learn")

	body := srv.lastSearch.Load().(map[string]any)
	assert.Equal(t, "neural networks", body["query"])
	assert.EqualValues(t, 5, body["top_k"])
	assert.NotContains(t, body, "file_filter")
}

func TestSearchFileFilter(t *testing.T) {
	srv := newFakeServer(t)

	_, err := run(t, "", "--server", srv.URL, "search", "attention", "--file", "attention.pdf")
	require.NoError(t, err)

	body := srv.lastSearch.Load().(map[string]any)
	assert.Equal(t, "attention.pdf", body["file_filter"])
}

func TestSearchTopK(t *testing.T) {
	srv := newFakeServer(t)

	_, err := run(t, "", "--server", srv.URL, "search", "attention", "--top-k", "10")
	require.NoError(t, err)
	body := srv.lastSearch.Load().(map[string]any)
	assert.EqualValues(t, 10, body["top_k"])

	_, err = run(t, "", "--server", srv.URL, "search", "attention", "-k", "0")
	assert.ErrorContains(t, err, "--top-k must be at least 1")
}

func TestSearchJSON(t *testing.T) {
	srv := newFakeServer(t)

	out, err := run(t, "", "--server", srv.URL, "search", "neural", "-o", "json")
	require.NoError(t, err)

	var got []passageView
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, passageView{
		File:  "ml-notes.pdf",
		Page:  3,
		Score: 0.873,
		Text:  "Neural networks learn layered representations of their input.",
	}, got[0])
}

func TestSearchYAML(t *testing.T) {
	srv := newFakeServer(t)

	out, err := run(t, "", "--server", srv.URL, "search", "neural", "-o", "yaml")
	require.NoError(t, err)

	var got []passageView
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "ml-notes.pdf", got[0].File)
}

func TestSearchUnknownFormat(t *testing.T) {
	srv := newFakeServer(t)

	_, err := run(t, "", "--server", srv.URL, "search", "neural", "-o", "xml")
	require.Error(t, err)
	assert.Equal(t, int32(0), srv.searches.Load())
}

func TestSearchBlankQuery(t *testing.T) {
	srv := newFakeServer(t)

	_, err := run(t, "", "--server", srv.URL, "search", "   ")
	require.Error(t, err)
	assert.Equal(t, int32(0), srv.searches.Load())
}

func TestInfo(t *testing.T) {
	srv := newFakeServer(t)

	out, err := run(t, "", "--server", srv.URL, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Passages:   42")
	assert.Contains(t, out, "Documents:  2")
	assert.Less(t, strings.Index(out, "attention.pdf"), strings.Index(out, "ml-notes.pdf"))
}

func TestInfoJSON(t *testing.T) {
	srv := newFakeServer(t)

	out, err := run(t, "", "--server", srv.URL, "info", "-o", "json")
	require.NoError(t, err)

	var got libraryView
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 42, got.Passages)
	assert.Equal(t, 2, got.Documents)
	require.Len(t, got.Files, 2)
	assert.Equal(t, fileView{Name: "ml-notes.pdf", Chunks: 30, Pages: []int{1, 2, 3}}, got.Files[1])
}

func TestInfoOffline(t *testing.T) {
	_, err := run(t, "", "--server", "http://127.0.0.1:1", "info")
	require.Error(t, err)
}

func TestIngest(t *testing.T) {
	srv := newFakeServer(t)
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}

	out, err := run(t, "", "--server", srv.URL, "ingest",
		filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.pdf"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.uploads.Load(), "one request for the whole batch")
	assert.Contains(t, out, "✓ Successfully ingested 2 documents!")
}

func TestIngestGlob(t *testing.T) {
	srv := newFakeServer(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "c.pdf"), []byte("%PDF-1.4"), 0o644))

	out, err := run(t, "", "--server", srv.URL, "ingest", filepath.Join(dir, "**", "*.pdf"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.uploads.Load())
	assert.Contains(t, out, "Successfully ingested 1 documents!")
}

func TestIngestUnsupportedOnly(t *testing.T) {
	srv := newFakeServer(t)
	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain"), 0o644))

	out, err := run(t, "", "--server", srv.URL, "ingest", txt)
	require.Error(t, err)
	assert.Equal(t, int32(0), srv.uploads.Load())
	assert.Contains(t, out, "Skipped 1 unsupported file(s): notes.txt")
}

func TestResetWithYes(t *testing.T) {
	srv := newFakeServer(t)
	setTerminal(t, false)

	out, err := run(t, "", "--server", srv.URL, "reset", "--yes")
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.resets.Load())
	assert.Contains(t, out, "✓ Library cleared")
}

func TestResetRefusesWithoutTerminal(t *testing.T) {
	srv := newFakeServer(t)
	setTerminal(t, false)

	_, err := run(t, "y\n", "--server", srv.URL, "reset")
	require.Error(t, err)
	assert.Equal(t, int32(0), srv.resets.Load())
}

func TestResetPrompt(t *testing.T) {
	srv := newFakeServer(t)
	setTerminal(t, true)

	out, err := run(t, "n\n", "--server", srv.URL, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset cancelled")
	assert.Equal(t, int32(0), srv.resets.Load())

	_, err = run(t, "y\n", "--server", srv.URL, "reset")
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.resets.Load())
}

func TestHealth(t *testing.T) {
	srv := newFakeServer(t)

	out, err := run(t, "", "--server", srv.URL, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "Status:  ok")
	assert.Contains(t, out, "Engine:  initialized")
}

func TestFormatNotice(t *testing.T) {
	assert.Equal(t, "✗ Reset Error: boom", formatNotice(domain.Notice{Kind: domain.NoticeError, Text: "Reset Error: boom"}))
	assert.Equal(t, "✓ Done", formatNotice(domain.Notice{Kind: domain.NoticeSuccess, Text: "Done"}))
	assert.Equal(t, "plain", formatNotice(domain.Notice{Kind: domain.NoticeInfo, Text: "plain"}))
}
