package state

import (
	"github.com/mmcdole/docsift/internal/domain"
)

// Writer mutates a Store. Each slice of the state has one owning
// controller; notices are an append-only queue shared by all of them.
type Writer struct {
	s *Store
}

// === Query slice (QueryService, ResetService) ===

// BeginSearch records a newly issued query and marks the search as loading.
// The returned query carries the sequence number that CompleteSearch and
// FailSearch must present.
func (w *Writer) BeginSearch(text string) domain.SearchQuery {
	var q domain.SearchQuery
	w.s.update(func(d *Snapshot) bool {
		w.s.seq++
		q = domain.SearchQuery{Text: text, Seq: w.s.seq}
		d.Query = q
		d.Loading = true
		d.SearchNotice = ""
		return true
	})
	return q
}

// CompleteSearch replaces the results wholesale if seq is the latest
// issued search. Returns false when the response is stale.
func (w *Writer) CompleteSearch(seq uint64, results domain.SearchResult) bool {
	return w.s.update(func(d *Snapshot) bool {
		if seq != w.s.seq {
			return false
		}
		d.Results = append(domain.SearchResult(nil), results...)
		d.Loading = false
		return true
	})
}

// FailSearch ends the latest search without touching prior results.
// Returns false when seq is stale.
func (w *Writer) FailSearch(seq uint64, notice string) bool {
	return w.s.update(func(d *Snapshot) bool {
		if seq != w.s.seq {
			return false
		}
		d.Loading = false
		d.SearchNotice = notice
		return true
	})
}

// ClearSearch empties query and results and supersedes any search in
// flight, so a late response cannot repopulate the cleared view.
func (w *Writer) ClearSearch() {
	w.s.update(func(d *Snapshot) bool {
		w.s.seq++
		d.Query = domain.SearchQuery{}
		d.Results = nil
		d.Loading = false
		d.SearchNotice = ""
		return true
	})
}

// LatestSeq returns the last issued search sequence number
func (w *Writer) LatestSeq() uint64 {
	w.s.mu.RLock()
	defer w.s.mu.RUnlock()
	return w.s.seq
}

// === Ingest slice (IngestService) ===

// TryBeginUpload sets Uploading if no upload is running.
// Returns false if one already is.
func (w *Writer) TryBeginUpload() bool {
	return w.s.update(func(d *Snapshot) bool {
		if d.Uploading {
			return false
		}
		d.Uploading = true
		return true
	})
}

// EndUpload clears Uploading
func (w *Writer) EndUpload() {
	w.s.update(func(d *Snapshot) bool {
		if !d.Uploading {
			return false
		}
		d.Uploading = false
		return true
	})
}

// IsUploading reports whether an upload is running
func (w *Writer) IsUploading() bool {
	w.s.mu.RLock()
	defer w.s.mu.RUnlock()
	return w.s.data.Uploading
}

// SetDropHighlight sets the drop target's highlighted flag
func (w *Writer) SetDropHighlight(on bool) {
	w.s.update(func(d *Snapshot) bool {
		if d.DropHighlighted == on {
			return false
		}
		d.DropHighlighted = on
		return true
	})
}

// === Stats slice (StatsService) ===

// SetStats replaces the library stats wholesale
func (w *Writer) SetStats(stats domain.LibraryStats) {
	w.s.update(func(d *Snapshot) bool {
		files := make(map[string]domain.FileInfo, len(stats.Files))
		for k, v := range stats.Files {
			files[k] = v
		}
		stats.Files = files
		d.Stats = stats
		d.StatsLoaded = true
		return true
	})
}

// SetHealth records the outcome of a health probe
func (w *Writer) SetHealth(h domain.Health, online bool) {
	w.s.update(func(d *Snapshot) bool {
		d.Health = h
		d.HealthChecked = true
		d.Online = online
		return true
	})
}

// === Notices (shared queue) ===

// PushNotice queues a user-visible message
func (w *Writer) PushNotice(n domain.Notice) {
	w.s.update(func(d *Snapshot) bool {
		d.Notices = append(d.Notices, n)
		return true
	})
}

// DismissNotice drops the oldest queued notice. This is the one mutation
// the presentation layer may request, as the user's acknowledgment.
func (w *Writer) DismissNotice() {
	w.s.update(func(d *Snapshot) bool {
		if len(d.Notices) == 0 {
			return false
		}
		d.Notices = append([]domain.Notice(nil), d.Notices[1:]...)
		return true
	})
}
