package domain

import "context"

// SearchRequest is the body of a search call
type SearchRequest struct {
	Query      string
	TopK       int
	FileFilter string // Optional; restricts matches to one file
}

// Gateway is the client's view of the remote indexing service.
// Implementations translate transport and server failures into the
// sentinel errors in errors.go.
type Gateway interface {
	// Stats returns aggregate library statistics
	Stats(ctx context.Context) (LibraryStats, error)

	// Search returns passages matching the request, in backend order
	Search(ctx context.Context, req SearchRequest) (SearchResult, error)

	// Upload sends every file in the batch as one multipart request
	Upload(ctx context.Context, batch UploadBatch) (UploadResult, error)

	// Reset deletes the whole index
	Reset(ctx context.Context) (ResetResult, error)

	// Health reports whether the server is up
	Health(ctx context.Context) (Health, error)
}
