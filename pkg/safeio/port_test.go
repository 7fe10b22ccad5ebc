package safeio

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOS_RoundTrip(t *testing.T) {
	root := t.TempDir()
	port := NewOS(root)

	_, err := port.ReadFile(".nazna/.gitconfig")
	require.Error(t, err)
	assert.True(t, IsNotExist(err))

	require.NoError(t, port.MkdirAll(".nazna/gitHooks"))
	require.NoError(t, port.WriteFile(".nazna/gitHooks/pre-push", "#!/usr/bin/env sh\n"))
	require.NoError(t, port.Chmod(".nazna/gitHooks/pre-push", 0o755))

	content, err := port.ReadFile(".nazna/gitHooks/pre-push")
	require.NoError(t, err)
	assert.Equal(t, "#!/usr/bin/env sh\n", content)

	st, err := os.Stat(filepath.Join(root, ".nazna", "gitHooks", "pre-push"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), st.Mode().Perm())
}

func TestOS_RejectsTraversal(t *testing.T) {
	port := NewOS(t.TempDir())

	err := port.WriteFile("../escape.txt", "nope")
	require.Error(t, err)

	var pe *PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "write", pe.Op)
	assert.False(t, IsNotExist(err))
}

func TestOS_WriteIntoMissingDirectoryFails(t *testing.T) {
	port := NewOS(t.TempDir())

	err := port.WriteFile("missing/dir/file.txt", "x")
	require.Error(t, err)

	var pe *PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "write", pe.Op)
	assert.Equal(t, "missing/dir/file.txt", pe.Path)
}

func TestBilly_MemoryRoundTrip(t *testing.T) {
	port := NewBilly(memfs.New())

	_, err := port.ReadFile("package.json")
	assert.True(t, IsNotExist(err))

	require.NoError(t, port.MkdirAll(".github/workflows"))
	require.NoError(t, port.WriteFile(".github/workflows/release.yaml", "name: release\n"))

	content, err := port.ReadFile(".github/workflows/release.yaml")
	require.NoError(t, err)
	assert.Equal(t, "name: release\n", content)
}

func TestBilly_ConcurrentWrites(t *testing.T) {
	port := NewBilly(memfs.New())
	paths := []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"}

	var wg sync.WaitGroup
	for _, p := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, port.WriteFile(p, p))
		}()
	}
	wg.Wait()

	for _, p := range paths {
		content, err := port.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, p, content)
	}
}

func TestDryRun_LeavesBaseUntouched(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("build/\n"), 0o644))

	dry := NewDryRun(NewOS(root))

	content, err := dry.ReadFile(".gitignore")
	require.NoError(t, err)
	assert.Equal(t, "build/\n", content)

	require.NoError(t, dry.WriteFile(".gitignore", "build/\ndist\n"))
	require.NoError(t, dry.MkdirAll("dist"))
	require.NoError(t, dry.WriteFile("dist/cli.js", "#!/usr/bin/env node\n"))
	require.NoError(t, dry.Chmod("dist/cli.js", 0o755))

	// Reads observe the overlay
	content, err = dry.ReadFile(".gitignore")
	require.NoError(t, err)
	assert.Equal(t, "build/\ndist\n", content)

	mode, ok := dry.Mode("dist/cli.js")
	assert.True(t, ok)
	assert.Equal(t, os.FileMode(0o755), mode)

	// Disk does not
	onDisk, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "build/\n", string(onDisk))
	_, err = os.Stat(filepath.Join(root, "dist"))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, []string{".gitignore", "dist/cli.js"}, dry.PendingPaths("dist/cli.js", ".gitignore", "package.json"))
	assert.Equal(t, []string{".gitignore", "dist/cli.js"}, dry.PendingPaths())
}

func TestDryRun_ChmodMissingFile(t *testing.T) {
	dry := NewDryRun(NewOS(t.TempDir()))
	err := dry.Chmod("nowhere.sh", 0o755)
	require.Error(t, err)
	assert.True(t, IsNotExist(err))
}
