package v7yolo

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyDataset is returned when there are no records or no labels to build a label map from.
var ErrEmptyDataset = errors.New("empty dataset: no annotated files or no labels")

// ParseError reports a malformed or incomplete input document.
type ParseError struct {
	Path string // The offending input file.
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer interface.
func (e *ParseError) Cause() error { return e.Err }

// NetworkError reports a failed image fetch.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to fetch %q: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer interface.
func (e *NetworkError) Cause() error { return e.Err }

// FilesystemError reports a failed file or directory operation.
type FilesystemError struct {
	Op   string // E.g. "create", "copy", "mkdir".
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("cannot %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer interface.
func (e *FilesystemError) Cause() error { return e.Err }

// fsError wraps err as a *FilesystemError, or returns nil if err is nil.
func fsError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &FilesystemError{Op: op, Path: path, Err: err}
}
