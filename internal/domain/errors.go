package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the indexing server is unreachable
	ErrServerOffline = errors.New("indexing server is unreachable")

	// ErrServerError indicates the server answered with a non-success status code
	ErrServerError = errors.New("indexing server returned an error")

	// ErrMalformedResponse indicates the server response could not be decoded
	ErrMalformedResponse = errors.New("malformed server response")

	// ErrEmptyBatch indicates an upload batch contains no files
	ErrEmptyBatch = errors.New("upload batch is empty")

	// ErrUnsupportedFile indicates a file was rejected by extension
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrProcessingFailed indicates the server answered but reported a failed operation
	ErrProcessingFailed = errors.New("server reported a failure")

	// ErrUploadInFlight indicates an upload is already running
	ErrUploadInFlight = errors.New("an upload is already in progress")

	// ErrInvalidToken indicates a reset confirmation token is unknown or already used
	ErrInvalidToken = errors.New("reset confirmation token is not pending")
)

// ServerError carries the status code and detail of a failed server response.
// It matches ErrServerError with errors.Is.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server error %d", e.StatusCode)
}

// Is reports whether target is ErrServerError
func (e *ServerError) Is(target error) bool {
	return target == ErrServerError
}
