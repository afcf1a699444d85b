package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/state"
)

// UploadOutcome describes how an Enqueue call ended
type UploadOutcome int

const (
	// OutcomeSkipped means the batch was empty and nothing was sent
	OutcomeSkipped UploadOutcome = iota
	// OutcomeIngested means the server accepted the batch
	OutcomeIngested
	// OutcomeRejected means the server received the batch but reported a failure
	OutcomeRejected
	// OutcomeFailed means the request never completed
	OutcomeFailed
)

func (o UploadOutcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeIngested:
		return "ingested"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const networkErrorNotice = "Network Error: Could not connect to the indexing server."

// IngestService runs the upload pipeline. Every input modality (drop,
// selection dialog, watched inbox, CLI) ends in Enqueue, which allows one
// upload at a time.
type IngestService struct {
	gateway    domain.Gateway
	state      *state.Writer
	stats      *StatsService
	extensions []string
	logger     *slog.Logger
}

// NewIngestService creates a new ingest service. An empty extensions list
// falls back to domain.DefaultExtensions.
func NewIngestService(gateway domain.Gateway, w *state.Writer, stats *StatsService, extensions []string, logger *slog.Logger) *IngestService {
	if logger == nil {
		logger = slog.Default()
	}
	if len(extensions) == 0 {
		extensions = domain.DefaultExtensions
	}
	return &IngestService{
		gateway:    gateway,
		state:      w,
		stats:      stats,
		extensions: extensions,
		logger:     logger,
	}
}

// Busy reports whether an upload is running
func (s *IngestService) Busy() bool {
	return s.state.IsUploading()
}

// Extensions returns the accepted file extensions
func (s *IngestService) Extensions() []string {
	return append([]string(nil), s.extensions...)
}

// DragEnter highlights the drop target
func (s *IngestService) DragEnter() {
	s.state.SetDropHighlight(true)
}

// DragOver keeps the drop target highlighted
func (s *IngestService) DragOver() {
	s.state.SetDropHighlight(true)
}

// DragLeave removes the drop target highlight
func (s *IngestService) DragLeave() {
	s.state.SetDropHighlight(false)
}

// Drop ingests dropped paths. Directories contribute the files beneath them.
func (s *IngestService) Drop(ctx context.Context, paths []string) (UploadOutcome, error) {
	s.state.SetDropHighlight(false)
	if s.Busy() {
		return OutcomeSkipped, domain.ErrUploadInFlight
	}

	batch := s.BuildBatch(expandPaths(paths, s.logger))
	return s.Enqueue(ctx, batch)
}

// Select ingests the files matched by glob patterns from the selection
// dialog. Patterns use doublestar syntax, so "docs/**/*.pdf" recurses.
func (s *IngestService) Select(ctx context.Context, patterns []string) (UploadOutcome, error) {
	if s.Busy() {
		return OutcomeSkipped, domain.ErrUploadInFlight
	}

	var paths []string
	for _, pattern := range patterns {
		matches, err := ExpandPattern(pattern)
		if err != nil {
			s.logger.Warn("invalid file pattern", "pattern", pattern, "error", err)
			s.state.PushNotice(domain.Notice{
				Kind: domain.NoticeError,
				Text: fmt.Sprintf("Invalid pattern %q", pattern),
			})
			continue
		}
		paths = append(paths, matches...)
	}

	if len(paths) == 0 {
		s.state.PushNotice(domain.Notice{Kind: domain.NoticeInfo, Text: "No files matched the selection"})
		return OutcomeSkipped, nil
	}

	return s.Enqueue(ctx, s.BuildBatch(expandPaths(paths, s.logger)))
}

// Preview counts the supported files patterns would select without
// uploading anything. The first invalid pattern is returned as an error.
func (s *IngestService) Preview(patterns []string) (int, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := ExpandPattern(pattern)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}

	n := 0
	for _, p := range expandPaths(paths, s.logger) {
		if domain.HasAllowedExt(p, s.extensions) {
			n++
		}
	}
	return n, nil
}

// BuildBatch validates paths into a batch. Rejected files are reported
// with a non-blocking notice.
func (s *IngestService) BuildBatch(paths []string) domain.UploadBatch {
	files := make([]domain.FileHandle, 0, len(paths))
	for _, p := range paths {
		files = append(files, domain.FileFromPath(p))
	}

	batch, rejected := domain.NewUploadBatch(files, s.extensions)
	if len(rejected) > 0 {
		names := make([]string, len(rejected))
		for i, r := range rejected {
			names[i] = r.Name
		}
		s.logger.Info("skipping unsupported files", "files", names)
		s.state.PushNotice(domain.Notice{
			Kind: domain.NoticeInfo,
			Text: fmt.Sprintf("Skipped %d unsupported file(s): %s", len(rejected), strings.Join(names, ", ")),
		})
	}
	return batch
}

// Enqueue uploads batch as a single request. An empty batch is a no-op.
// Returns domain.ErrUploadInFlight if another upload is running.
func (s *IngestService) Enqueue(ctx context.Context, batch domain.UploadBatch) (UploadOutcome, error) {
	if batch.IsEmpty() {
		return OutcomeSkipped, nil
	}

	if !s.state.TryBeginUpload() {
		return OutcomeSkipped, domain.ErrUploadInFlight
	}
	defer s.state.EndUpload()

	s.logger.Info("uploading batch", "files", batch.Names())

	result, err := s.gateway.Upload(ctx, batch)
	if err != nil {
		return s.uploadFailed(err)
	}

	if !result.OK() {
		detail := result.Message
		if detail == "" {
			detail = result.Status
		}
		s.logger.Warn("server rejected upload", "status", result.Status, "message", result.Message)
		s.state.PushNotice(domain.Notice{
			Kind:     domain.NoticeError,
			Text:     "Processing Error: " + detail,
			Blocking: true,
		})
		return OutcomeRejected, fmt.Errorf("%w: %s", domain.ErrProcessingFailed, detail)
	}

	s.logger.Info("upload complete", "files", batch.Len(), "total_chunks", result.TotalChunks)
	if s.stats != nil {
		s.stats.RefreshAfter(ctx)
	}
	s.state.PushNotice(domain.Notice{
		Kind:     domain.NoticeSuccess,
		Text:     fmt.Sprintf("Successfully ingested %d documents!", batch.Len()),
		Blocking: true,
	})
	return OutcomeIngested, nil
}

func (s *IngestService) uploadFailed(err error) (UploadOutcome, error) {
	var serverErr *domain.ServerError
	switch {
	case errors.As(err, &serverErr):
		detail := serverErr.Detail
		if detail == "" {
			detail = fmt.Sprintf("status %d", serverErr.StatusCode)
		}
		s.logger.Warn("server rejected upload", "status_code", serverErr.StatusCode, "detail", serverErr.Detail)
		s.state.PushNotice(domain.Notice{
			Kind:     domain.NoticeError,
			Text:     "Processing Error: " + detail,
			Blocking: true,
		})
		return OutcomeRejected, err

	case errors.Is(err, domain.ErrServerOffline),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		s.logger.Error("upload failed", "error", err)
		s.state.PushNotice(domain.Notice{
			Kind:     domain.NoticeError,
			Text:     networkErrorNotice,
			Blocking: true,
		})
		return OutcomeFailed, err

	default:
		s.logger.Error("upload failed", "error", err)
		s.state.PushNotice(domain.Notice{
			Kind:     domain.NoticeError,
			Text:     "Upload Error: " + err.Error(),
			Blocking: true,
		})
		return OutcomeFailed, err
	}
}

// ExpandPattern resolves a selection pattern to file paths. A leading "~"
// expands to the home directory; a plain path is returned as-is if it exists.
func ExpandPattern(pattern string) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, nil
	}
	if strings.HasPrefix(pattern, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			pattern = filepath.Join(home, strings.TrimPrefix(pattern, "~"))
		}
	}
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
}

// expandPaths replaces directories with the regular files beneath them
func expandPaths(paths []string, logger *slog.Logger) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}
		// Glob inside the directory so its own name is never read as a pattern
		matches, err := doublestar.Glob(os.DirFS(p), "**/*", doublestar.WithFilesOnly())
		if err != nil {
			logger.Warn("failed to walk directory", "path", p, "error", err)
			continue
		}
		for _, m := range matches {
			out = append(out, filepath.Join(p, filepath.FromSlash(m)))
		}
	}
	return out
}
