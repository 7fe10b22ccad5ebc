package safeio

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Billy adapts a go-billy filesystem to FS. Billy filesystems make no
// goroutine-safety promise, so every call is serialized.
type Billy struct {
	mu sync.Mutex
	fs billy.Filesystem
}

// NewBilly wraps fs. Pass memfs.New() for an in-memory project tree.
func NewBilly(fs billy.Filesystem) *Billy {
	return &Billy{fs: fs}
}

// Filesystem exposes the wrapped filesystem for inspection.
func (b *Billy) Filesystem() billy.Filesystem { return b.fs }

func (b *Billy) ReadFile(p string) (string, error) {
	clean, err := CleanProjectPath(p)
	if err != nil {
		return "", &PathError{Op: "read", Path: p, Err: err}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := b.fs.Open(clean)
	if err != nil {
		return "", wrap("read", p, err)
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", wrap("read", p, err)
	}
	return string(data), nil
}

func (b *Billy) WriteFile(p, content string) error {
	clean, err := CleanProjectPath(p)
	if err != nil {
		return &PathError{Op: "write", Path: p, Err: err}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	mode := DefaultFileMode
	if st, err := b.fs.Stat(clean); err == nil && st.Mode()&0o777 != 0 {
		mode = st.Mode() & 0o777
	}
	return wrap("write", p, util.WriteFile(b.fs, clean, []byte(content), mode))
}

func (b *Billy) MkdirAll(p string) error {
	clean, err := CleanProjectPath(p)
	if err != nil {
		return &PathError{Op: "mkdir", Path: p, Err: err}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return wrap("mkdir", p, b.fs.MkdirAll(clean, DefaultDirMode))
}

func (b *Billy) Chmod(p string, mode os.FileMode) error {
	clean, err := CleanProjectPath(p)
	if err != nil {
		return &PathError{Op: "chmod", Path: p, Err: err}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.fs.(billy.Change)
	if !ok {
		return &PathError{Op: "chmod", Path: p, Err: errors.ErrUnsupported}
	}
	return wrap("chmod", p, ch.Chmod(clean, mode))
}
