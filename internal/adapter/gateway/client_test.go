package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/docsift/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second, nil)
}

func memFile(name, content string) domain.FileHandle {
	return domain.FileFromReader(name, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	})
}

func TestStats(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/info", r.URL.Path)
		w.Write([]byte(`{
			"total_chunks": 17,
			"files": {
				"a.pdf": {"chunks": 10, "pages": [1, 2, 3]},
				"b.pdf": {"chunks": 7, "pages": [1]},
				"odd.pdf": "not an object"
			}
		}`))
	})

	stats, err := client.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 17, stats.PassageCount())
	assert.Equal(t, 3, stats.DocumentCount())
	assert.Equal(t, domain.FileInfo{Chunks: 10, Pages: []int{1, 2, 3}}, stats.Files["a.pdf"])
	assert.Equal(t, domain.FileInfo{}, stats.Files["odd.pdf"])
}

func TestStats_EmptyIndexMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_chunks": 0, "files": {}, "message": "No index found"}`))
	})

	stats, err := client.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.DocumentCount())
	assert.Equal(t, "No index found", stats.Message)
}

func TestSearch_SendsQueryAndKeepsOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			return
		}
		assert.Equal(t, "neural networks", body["query"])
		assert.Equal(t, float64(5), body["top_k"])
		_, hasFilter := body["file_filter"]
		assert.False(t, hasFilter, "file_filter must be omitted when unset")

		w.Write([]byte(`[
			{"id": "c1", "score": 0.91, "metadata": {"file_name": "nn.pdf", "page": 4, "text": "layers"}},
			{"id": 7, "score": 0.42, "metadata": {"file_name": "ml.pdf", "text": "no page"}},
			{"id": "c3", "score": 0.10, "metadata": {"file_name": "x.pdf", "page": "2", "text": "str page"}}
		]`))
	})

	result, err := client.Search(context.Background(), domain.SearchRequest{Query: "neural networks", TopK: 5})
	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.Equal(t, "c1", result[0].ID)
	assert.Equal(t, 4, result[0].Metadata.Page)
	assert.Equal(t, "7", result[1].ID)
	assert.Equal(t, 1, result[1].Metadata.Page, "missing page defaults to 1")
	assert.Equal(t, 2, result[2].Metadata.Page)
	assert.Greater(t, result[0].Score, result[1].Score)
}

func TestSearch_FileFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body searchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nn.pdf", body.FileFilter)
		w.Write([]byte(`[]`))
	})

	result, err := client.Search(context.Background(), domain.SearchRequest{Query: "q", TopK: 5, FileFilter: "nn.pdf"})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSearch_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "collection missing"}`))
	})

	_, err := client.Search(context.Background(), domain.SearchRequest{Query: "q", TopK: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrServerError))

	var serr *domain.ServerError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
	assert.Equal(t, "collection missing", serr.Detail)
}

func TestSearch_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	})

	_, err := client.Search(context.Background(), domain.SearchRequest{Query: "q", TopK: 5})
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
}

func TestOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second, nil)
	_, err := client.Stats(context.Background())
	assert.True(t, errors.Is(err, domain.ErrServerOffline))
}

func TestCancelledContext(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, domain.SearchRequest{Query: "q", TopK: 5})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, domain.ErrServerOffline))
}

func TestUpload_OneRequestWithAllFiles(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		files := r.MultipartForm.File["files"]
		if !assert.Len(t, files, 2) {
			return
		}
		assert.Equal(t, "a.pdf", files[0].Filename)
		assert.Equal(t, "b.pdf", files[1].Filename)

		f, err := files[1].Open()
		if !assert.NoError(t, err) {
			return
		}
		data, _ := io.ReadAll(f)
		f.Close()
		assert.Equal(t, "bee", string(data))

		w.Write([]byte(`{"status": "success", "message": "Uploaded and indexed 2 files", "total_chunks": 12}`))
	})

	batch, _ := domain.NewUploadBatch([]domain.FileHandle{memFile("a.pdf", "ay"), memFile("b.pdf", "bee")}, nil)
	result, err := client.Upload(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, result.OK())
	assert.Equal(t, 12, result.TotalChunks)
}

func TestUpload_ReportedFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{"status": "error", "message": "Processing failed: a.pdf: bad pdf"}`))
	})

	batch, _ := domain.NewUploadBatch([]domain.FileHandle{memFile("a.pdf", "x")}, nil)
	result, err := client.Upload(context.Background(), batch)
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Equal(t, "Processing failed: a.pdf: bad pdf", result.Message)
}

func TestUpload_EmptyBatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Upload(context.Background(), domain.UploadBatch{})
	assert.True(t, errors.Is(err, domain.ErrEmptyBatch))
}

func TestUpload_OpenFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{"status": "success"}`))
	})

	broken := domain.FileFromReader("gone.pdf", func() (io.ReadCloser, error) {
		return nil, errors.New("permission denied")
	})
	batch, _ := domain.NewUploadBatch([]domain.FileHandle{broken}, nil)

	_, err := client.Upload(context.Background(), batch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.pdf")
}

func TestReset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reset", r.URL.Path)
		w.Write([]byte(`{"status": "success", "message": "Index reset"}`))
	})

	result, err := client.Reset(context.Background())
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, "Index reset", result.Message)
}

func TestReset_EmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	result, err := client.Reset(context.Background())
	require.NoError(t, err)
	assert.True(t, result.OK())
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		w.Write([]byte(`{"status": "ok", "engine_initialized": true}`))
	})

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, health.OK())
	assert.True(t, health.EngineInitialized)
}
