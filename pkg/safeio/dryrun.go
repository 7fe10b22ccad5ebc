package safeio

import (
	"os"
	"sort"
	"sync"

	"github.com/go-git/go-billy/v5/memfs"
)

// DryRun reads through to a base FS and captures every mutation in memory,
// so a full reconciliation can run without touching the project tree.
type DryRun struct {
	base    FS
	overlay *Billy

	mu      sync.Mutex
	modes   map[string]os.FileMode
	written map[string]bool
}

// NewDryRun layers an in-memory overlay on top of base.
func NewDryRun(base FS) *DryRun {
	return &DryRun{
		base:    base,
		overlay: NewBilly(memfs.New()),
		modes:   make(map[string]os.FileMode),
		written: make(map[string]bool),
	}
}

func (d *DryRun) ReadFile(p string) (string, error) {
	if content, err := d.overlay.ReadFile(p); err == nil {
		return content, nil
	}
	return d.base.ReadFile(p)
}

func (d *DryRun) WriteFile(p, content string) error {
	if err := d.overlay.WriteFile(p, content); err != nil {
		return err
	}
	clean, _ := CleanProjectPath(p)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.written[clean] = true
	return nil
}

func (d *DryRun) MkdirAll(p string) error {
	return d.overlay.MkdirAll(p)
}

// Chmod records the requested mode against a file previously written to the
// overlay.
func (d *DryRun) Chmod(p string, mode os.FileMode) error {
	clean, err := CleanProjectPath(p)
	if err != nil {
		return &PathError{Op: "chmod", Path: p, Err: err}
	}
	if _, err := d.ReadFile(clean); err != nil {
		return wrap("chmod", p, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modes[clean] = mode
	return nil
}

// Mode returns the mode recorded by Chmod.
func (d *DryRun) Mode(p string) (os.FileMode, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.modes[p]
	return m, ok
}

// Pending returns the content the dry run would have written, keyed by path.
func (d *DryRun) Pending(paths ...string) map[string]string {
	out := make(map[string]string)
	for _, p := range paths {
		if content, err := d.overlay.ReadFile(p); err == nil {
			out[p] = content
		}
	}
	return out
}

// PendingPaths lists which of the given paths received a write, sorted. With
// no arguments it lists every written path.
func (d *DryRun) PendingPaths(paths ...string) []string {
	if len(paths) == 0 {
		d.mu.Lock()
		for p := range d.written {
			paths = append(paths, p)
		}
		d.mu.Unlock()
	}
	pending := d.Pending(paths...)
	out := make([]string, 0, len(pending))
	for p := range pending {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
