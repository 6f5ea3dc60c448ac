package sandbox

import (
	"errors"
	"fmt"
	"strings"

	"github.com/docker/go-units"
)

var (
	// ErrAccessDenied matches every *AccessDeniedError.
	ErrAccessDenied = errors.New("access denied")
	// ErrFileTooLarge matches every *FileTooLargeError.
	ErrFileTooLarge = errors.New("file too large")
)

// AccessDeniedError reports a path that resolves outside every allowed root.
// Path is the caller's cleaned input, never the symlink-resolved form.
type AccessDeniedError struct {
	Path  string
	Roots []string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: path %q is outside of allowed directories: [%s]", e.Path, strings.Join(e.Roots, ", "))
}

func (e *AccessDeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}

// FileTooLargeError reports an input file above the size ceiling.
type FileTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file size exceeds limit: %q is %d bytes (%s), limit is %s", e.Path, e.Size, units.BytesSize(float64(e.Size)), units.BytesSize(float64(e.Limit)))
}

func (e *FileTooLargeError) Is(target error) bool {
	return target == ErrFileTooLarge
}
