// Package safeio is the file-system capability used by the reconciliation
// engine. Every operation reports failure through a returned error; callers
// distinguish a missing file with IsNotExist.
package safeio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultFileMode applies to files that did not exist before a write.
	DefaultFileMode os.FileMode = 0o644
	// DefaultDirMode applies to directories created by MkdirAll.
	DefaultDirMode os.FileMode = 0o755
)

// FS reads and writes project files. Paths are slash-separated and relative
// to the project root.
type FS interface {
	ReadFile(path string) (string, error)
	WriteFile(path, content string) error
	MkdirAll(path string) error
	Chmod(path string, mode os.FileMode) error
}

// PathError records a failed file-system operation.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// NotFound reports whether the underlying cause is a missing file.
func (e *PathError) NotFound() bool { return errors.Is(e.Err, fs.ErrNotExist) }

// Kind classifies the error for the result document.
func (e *PathError) Kind() string {
	if e.NotFound() {
		return "not_found"
	}
	return "io_error"
}

// Detail is attached to the error entry in the result document.
func (e *PathError) Detail() any {
	return map[string]string{"op": e.Op, "path": e.Path}
}

// IsNotExist reports whether err means the file does not exist.
func IsNotExist(err error) bool {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.NotFound()
	}
	return errors.Is(err, fs.ErrNotExist)
}

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PathError
	if errors.As(err, &pe) && pe.Op == op {
		return err
	}
	return &PathError{Op: op, Path: path, Err: err}
}

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	if strings.Contains(c, "..") {
		return "", errors.New("path traversal detected")
	}
	return filepath.ToSlash(c), nil
}

// CleanProjectPath is CleanUserPath restricted to non-empty paths relative to
// the project root.
func CleanProjectPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.New("empty path")
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return "", errors.New("absolute path not allowed")
	}
	c, err := CleanUserPath(p)
	if err != nil {
		return "", err
	}
	if c == "." {
		return "", errors.New("path resolves to project root")
	}
	return c, nil
}

// WriteFilePreservePerms writes data to path preserving existing file mode when possible.
// When the file does not exist, it uses a sane default of 0644.
func WriteFilePreservePerms(path string, data []byte) error {
	mode := DefaultFileMode
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = DefaultFileMode
		}
	}
	return os.WriteFile(path, data, mode)
}
