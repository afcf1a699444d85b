package domain

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the file types the indexing server ingests
var DefaultExtensions = []string{".pdf"}

// FileHandle is a file chosen by the user, opened lazily at upload time
type FileHandle struct {
	Name string // Base name sent to the server
	Path string // Local path, empty for in-memory handles
	open func() (io.ReadCloser, error)
}

// FileFromPath returns a handle for a file on disk
func FileFromPath(path string) FileHandle {
	return FileHandle{
		Name: filepath.Base(path),
		Path: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FileFromReader returns a handle whose content comes from open
func FileFromReader(name string, open func() (io.ReadCloser, error)) FileHandle {
	return FileHandle{Name: name, open: open}
}

// Open returns the file content
func (f FileHandle) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %s: no content", f.Name)
	}
	return f.open()
}

// Rejection records a file that was not admitted into a batch
type Rejection struct {
	Name string
	Err  error
}

// UploadBatch is the ordered set of files picked in one user action.
// The zero value is an empty batch.
type UploadBatch struct {
	files []FileHandle
}

// NewUploadBatch validates files by extension and returns the admitted
// batch along with the files that were turned away. Both the drop target
// and the selection dialog build batches here so they validate alike.
func NewUploadBatch(files []FileHandle, allowed []string) (UploadBatch, []Rejection) {
	if len(allowed) == 0 {
		allowed = DefaultExtensions
	}

	var batch UploadBatch
	var rejected []Rejection
	for _, f := range files {
		if !HasAllowedExt(f.Name, allowed) {
			rejected = append(rejected, Rejection{
				Name: f.Name,
				Err:  fmt.Errorf("%w: %s", ErrUnsupportedFile, f.Name),
			})
			continue
		}
		batch.files = append(batch.files, f)
	}
	return batch, rejected
}

// HasAllowedExt reports whether name ends in one of the allowed
// extensions, ignoring case. A missing leading dot is tolerated.
func HasAllowedExt(name string, allowed []string) bool {
	if len(allowed) == 0 {
		allowed = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if !strings.HasPrefix(a, ".") {
			a = "." + a
		}
		if ext == a {
			return true
		}
	}
	return false
}

// Files returns a copy of the batch contents
func (b UploadBatch) Files() []FileHandle {
	out := make([]FileHandle, len(b.files))
	copy(out, b.files)
	return out
}

// Len returns the number of files
func (b UploadBatch) Len() int { return len(b.files) }

// IsEmpty returns true if the batch has no files
func (b UploadBatch) IsEmpty() bool { return len(b.files) == 0 }

// Names returns the file names in order
func (b UploadBatch) Names() []string {
	names := make([]string, len(b.files))
	for i, f := range b.files {
		names[i] = f.Name
	}
	return names
}
