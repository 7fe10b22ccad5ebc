package safeio

import (
	"os"
	"path/filepath"
)

// OS is the production FS rooted at a project directory.
type OS struct {
	root string
}

// NewOS returns an FS whose relative paths resolve under root.
func NewOS(root string) *OS {
	return &OS{root: root}
}

// Root returns the project directory.
func (o *OS) Root() string { return o.root }

func (o *OS) resolve(op, p string) (string, error) {
	clean, err := CleanProjectPath(p)
	if err != nil {
		return "", &PathError{Op: op, Path: p, Err: err}
	}
	return filepath.Join(o.root, filepath.FromSlash(clean)), nil
}

func (o *OS) ReadFile(p string) (string, error) {
	full, err := o.resolve("read", p)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full) // #nosec G304 -- contained by resolve
	if err != nil {
		return "", wrap("read", p, err)
	}
	return string(data), nil
}

func (o *OS) WriteFile(p, content string) error {
	full, err := o.resolve("write", p)
	if err != nil {
		return err
	}
	return wrap("write", p, WriteFilePreservePerms(full, []byte(content)))
}

func (o *OS) MkdirAll(p string) error {
	full, err := o.resolve("mkdir", p)
	if err != nil {
		return err
	}
	return wrap("mkdir", p, os.MkdirAll(full, DefaultDirMode))
}

func (o *OS) Chmod(p string, mode os.FileMode) error {
	full, err := o.resolve("chmod", p)
	if err != nil {
		return err
	}
	return wrap("chmod", p, os.Chmod(full, mode))
}
