package domain

import (
	"fmt"
	"sort"
)

// SearchTopK is the number of passages requested per search
const SearchTopK = 5

// SearchQuery is the query text plus the sequence number assigned when issued
type SearchQuery struct {
	Text string
	Seq  uint64
}

// IsEmpty returns true if no query has been typed
func (q SearchQuery) IsEmpty() bool {
	return q.Text == ""
}

// PassageMetadata describes where a passage comes from
type PassageMetadata struct {
	FileName string // Originating document
	Page     int    // 1-based page number
	Text     string // Matched excerpt
}

// DisplayFileName returns the file name or a placeholder
func (m PassageMetadata) DisplayFileName() string {
	if m.FileName == "" {
		return "Document"
	}
	return m.FileName
}

// Passage is one match within a search result
type Passage struct {
	ID       string // Unique within one result set only
	Score    float64
	Metadata PassageMetadata
}

// ScorePercent returns the relevance as a percentage string, e.g. "87.3%"
func (p Passage) ScorePercent() string {
	return fmt.Sprintf("%.1f%%", p.Score*100)
}

// SearchResult is an ordered list of passages, relevance-descending as
// returned by the backend. It is never re-sorted client side.
type SearchResult []Passage

// FileInfo is the per-file metadata reported by the stats endpoint
type FileInfo struct {
	Chunks int
	Pages  []int
}

// FileEntry pairs a file name with its metadata
type FileEntry struct {
	Name string
	Info FileInfo
}

// LibraryStats is the aggregate view of the remote index
type LibraryStats struct {
	TotalChunks int
	Files       map[string]FileInfo
	Message     string // Optional server note, e.g. "No index found"
}

// PassageCount returns the total number of indexed passages
func (s LibraryStats) PassageCount() int {
	if s.TotalChunks < 0 {
		return 0
	}
	return s.TotalChunks
}

// DocumentCount returns the number of distinct indexed files
func (s LibraryStats) DocumentCount() int {
	return len(s.Files)
}

// SortedFiles returns the files ordered by name
func (s LibraryStats) SortedFiles() []FileEntry {
	entries := make([]FileEntry, 0, len(s.Files))
	for name, info := range s.Files {
		entries = append(entries, FileEntry{Name: name, Info: info})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// UploadResult is the server's answer to an upload
type UploadResult struct {
	Status      string
	Message     string
	TotalChunks int
}

// OK returns true if the server reported success
func (r UploadResult) OK() bool {
	return r.Status == StatusSuccess
}

// ResetResult is the server's answer to a reset
type ResetResult struct {
	Status  string
	Message string
}

// OK returns true unless the server explicitly reported a failure.
// An empty body counts as success.
func (r ResetResult) OK() bool {
	return r.Status == "" || r.Status == StatusSuccess
}

// Health is the server's liveness report
type Health struct {
	Status            string
	EngineInitialized bool
}

// OK returns true if the server reports itself healthy
func (h Health) OK() bool {
	return h.Status == "ok"
}

// StatusSuccess is the status value the backend uses for success
const StatusSuccess = "success"
