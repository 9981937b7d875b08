package download

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingLength means the server did not report a usable
	// Content-Length. Transfers of unknown length are not supported.
	ErrMissingLength = errors.New("server didn't provide Content-Length header")

	// ErrValidationFailed means the finished temp file's size on disk
	// doesn't match the size the server reported.
	ErrValidationFailed = errors.New("downloaded file failed size validation")

	// ErrInvalidInput means the URL or destination can't be used.
	ErrInvalidInput = errors.New("invalid download input")
)

// ChunkError reports a chunk that exhausted its retry budget.
type ChunkError struct {
	ID    int
	Start int64
	End   int64
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d (bytes %d-%d) failed after %d attempts: %v", e.ID, e.Start, e.End, maxChunkRetries, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
