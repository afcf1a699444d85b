package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/docsift/internal/domain"
)

const (
	defaultTimeout = 2 * time.Minute
	userAgent      = "docsift/1.0"
	uploadField    = "files"
)

// API paths
const (
	pathInfo   = "/api/info"
	pathSearch = "/api/search"
	pathUpload = "/api/upload"
	pathReset  = "/api/reset"
	pathHealth = "/api/health"
)

// Client implements domain.Gateway over the indexing server's HTTP/JSON API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new gateway client. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the server location the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request and returns the response body.
// Transport failures map to domain.ErrServerOffline, non-2xx statuses
// to *domain.ServerError. Context cancellation is returned as is.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("gateway request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Error("gateway request failed", "method", method, "url", reqURL, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrMalformedResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("gateway request error", "status", resp.StatusCode, "body", string(data))
		return nil, &domain.ServerError{
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(data),
		}
	}

	return data, nil
}

// parseDetail extracts a human readable message from an error body
func parseDetail(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil && len(resp.Detail) > 0 {
		var s string
		if err := json.Unmarshal(resp.Detail, &s); err == nil {
			return s
		}
		return string(resp.Detail)
	}
	return strings.TrimSpace(string(body))
}

// decode unmarshals a response body, mapping failures to ErrMalformedResponse
func (c *Client) decode(body []byte, dest interface{}) error {
	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

// Stats returns aggregate library statistics
func (c *Client) Stats(ctx context.Context) (domain.LibraryStats, error) {
	body, err := c.doRequest(ctx, http.MethodGet, pathInfo, nil, "")
	if err != nil {
		return domain.LibraryStats{}, err
	}

	var resp infoResponse
	if err := c.decode(body, &resp); err != nil {
		return domain.LibraryStats{}, err
	}

	return mapStats(resp), nil
}

// Search returns passages for a query in backend order
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error) {
	payload, err := json.Marshal(searchRequest{
		Query:      req.Query,
		TopK:       req.TopK,
		FileFilter: req.FileFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, pathSearch, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}

	var hits []searchHit
	if err := c.decode(body, &hits); err != nil {
		return nil, err
	}

	return mapHits(hits), nil
}

// Upload streams every file in the batch as one multipart request
func (c *Client) Upload(ctx context.Context, batch domain.UploadBatch) (domain.UploadResult, error) {
	if batch.IsEmpty() {
		return domain.UploadResult{}, domain.ErrEmptyBatch
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	writeErr := make(chan error, 1)

	go func() {
		err := writeParts(mw, batch)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
		writeErr <- err
	}()

	c.logger.Info("uploading batch", "files", batch.Len())

	body, err := c.doRequest(ctx, http.MethodPost, pathUpload, pr, mw.FormDataContentType())
	// Unblock the writer if the request ended before consuming the body
	pr.CloseWithError(io.ErrClosedPipe)
	if werr := <-writeErr; werr != nil && !errors.Is(werr, io.ErrClosedPipe) {
		return domain.UploadResult{}, fmt.Errorf("failed to prepare upload: %w", werr)
	}
	if err != nil {
		return domain.UploadResult{}, err
	}

	var resp statusResponse
	if err := c.decode(body, &resp); err != nil {
		return domain.UploadResult{}, err
	}

	return domain.UploadResult{
		Status:      resp.Status,
		Message:     resp.Message,
		TotalChunks: resp.TotalChunks,
	}, nil
}

// writeParts copies each file into its own part under the shared field name
func writeParts(mw *multipart.Writer, batch domain.UploadBatch) error {
	for _, f := range batch.Files() {
		part, err := mw.CreateFormFile(uploadField, f.Name)
		if err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		_, err = io.Copy(part, rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", f.Name, err)
		}
	}
	return nil
}

// Reset deletes the remote index. Only the status code is authoritative;
// the body is decoded when present.
func (c *Client) Reset(ctx context.Context) (domain.ResetResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, pathReset, nil, "")
	if err != nil {
		return domain.ResetResult{}, err
	}

	var resp statusResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			c.logger.Debug("ignoring unparseable reset body", "error", err)
		}
	}

	return domain.ResetResult{Status: resp.Status, Message: resp.Message}, nil
}

// Health reports whether the server is reachable and its engine is up
func (c *Client) Health(ctx context.Context) (domain.Health, error) {
	body, err := c.doRequest(ctx, http.MethodGet, pathHealth, nil, "")
	if err != nil {
		return domain.Health{}, err
	}

	var resp healthResponse
	if err := c.decode(body, &resp); err != nil {
		return domain.Health{}, err
	}

	return domain.Health{Status: resp.Status, EngineInitialized: resp.EngineInitialized}, nil
}

// Ensure Client implements domain.Gateway
var _ domain.Gateway = (*Client)(nil)
