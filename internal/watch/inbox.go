// Package watch turns a directory into an upload inbox: files that land
// in it are collected into batches and handed to the ingest pipeline.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/service"
)

// DefaultDebounce is the quiet period before collected files are sent
const DefaultDebounce = 2 * time.Second

// Sink receives collected batches
type Sink interface {
	Drop(ctx context.Context, paths []string) (service.UploadOutcome, error)
	Busy() bool
}

// Inbox watches a directory and forwards new files to a Sink. Files that
// arrive while an upload is running stay queued until it finishes.
type Inbox struct {
	dir        string
	extensions []string
	debounce   time.Duration
	sink       Sink
	logger     *slog.Logger
}

// NewInbox creates an inbox for dir
func NewInbox(dir string, extensions []string, debounce time.Duration, sink Sink, logger *slog.Logger) *Inbox {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Inbox{
		dir:        dir,
		extensions: extensions,
		debounce:   debounce,
		sink:       sink,
		logger:     logger,
	}
}

// Dir returns the watched directory
func (in *Inbox) Dir() string {
	return in.dir
}

// Watch starts watching in the background until ctx is cancelled
func (in *Inbox) Watch(ctx context.Context) error {
	info, err := os.Stat(in.dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch directory: %s is not a directory", in.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(in.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", in.dir, err)
	}

	in.logger.Info("watching inbox", "dir", in.dir)
	go in.loop(ctx, watcher)
	return nil
}

func (in *Inbox) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(in.debounce)
	timer.Stop()
	defer timer.Stop()

	flushing := false
	done := make(chan []string, 1)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				if !in.accept(event.Name) {
					continue
				}
				pending[event.Name] = struct{}{}
				timer.Reset(in.debounce)
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			in.logger.Warn("inbox watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			if flushing || in.sink.Busy() {
				timer.Reset(in.debounce)
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			flushing = true
			go func() {
				done <- in.flush(ctx, paths)
			}()

		case requeue := <-done:
			flushing = false
			for _, p := range requeue {
				pending[p] = struct{}{}
			}
			if len(pending) > 0 {
				timer.Reset(in.debounce)
			}
		}
	}
}

// flush hands paths to the sink and returns those that must be retried
func (in *Inbox) flush(ctx context.Context, paths []string) []string {
	in.logger.Info("inbox batch ready", "files", len(paths))
	outcome, err := in.sink.Drop(ctx, paths)
	switch {
	case errors.Is(err, domain.ErrUploadInFlight):
		return paths
	case err != nil:
		in.logger.Warn("inbox upload failed", "outcome", outcome.String(), "error", err)
	default:
		in.logger.Debug("inbox upload finished", "outcome", outcome.String())
	}
	return nil
}

// accept reports whether path is a regular file of an accepted type
func (in *Inbox) accept(path string) bool {
	if !domain.HasAllowedExt(path, in.extensions) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
