package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/nazna/pkg/exitcode"
)

// execRoot runs a fresh command tree and returns stdout, stderr and the exit code.
func execRoot(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	root := newRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := execute(root, args)
	return stdout.String(), stderr.String(), code
}

func projectWithRemote(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"https://github.com/acme/widget.git"}})
	require.NoError(t, err)
	return dir
}

func decodeResults(t *testing.T, out string) map[string]map[string]any {
	t.Helper()
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	return doc
}

func TestFix_EndToEnd(t *testing.T) {
	dir := projectWithRemote(t)

	out, stderr, code := execRoot(t, "--dir", dir, "fix")
	require.Equal(t, exitcode.Success, code, "stdout: %s\nstderr: %s", out, stderr)

	doc := decodeResults(t, out)
	assert.Contains(t, doc, "fix:package.json")

	manifest, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"repository": "https://github.com/acme/widget.git"`)

	info, err := os.Stat(filepath.Join(dir, ".nazna", "gitHooks", "pre-push"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	// Second run is a fixed point
	out, _, code = execRoot(t, "--dir", dir, "fix")
	require.Equal(t, exitcode.Success, code)
	ok := decodeResults(t, out)["fix:package.json"]["ok"].(map[string]any)
	assert.Equal(t, "unchanged", ok["action"])
}

func TestFix_DryRunWritesNothing(t *testing.T) {
	dir := projectWithRemote(t)

	out, _, code := execRoot(t, "--dir", dir, "--dry-run", "fix")
	require.Equal(t, exitcode.Success, code, out)
	assert.NotEmpty(t, decodeResults(t, out))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, ".git", e.Name(), "dry run wrote %s", e.Name())
	}
}

func TestUnknownCommand(t *testing.T) {
	for _, args := range [][]string{
		{"deploy"},
		{"build", "docs"},
		{"fix", "extra"},
		{"completion"},
		{"help", "bogus"},
		{"version", "extra"},
	} {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			full := append([]string{"--dir", t.TempDir()}, args...)
			out, _, code := execRoot(t, full...)
			assert.Equal(t, exitcode.JobsFailed, code)

			doc := decodeResults(t, out)
			require.Contains(t, doc, "error:command")
			assert.Contains(t, out, "command not found: `"+strings.Join(args, " ")+"`")
		})
	}
}

func TestUnknownFlagIsUnknownCommand(t *testing.T) {
	for _, args := range [][]string{{"--bogus"}, {"fix", "--bogus"}, {"build", "cli", "--dry-run=maybe"}} {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			dir := t.TempDir()
			full := append([]string{"--dir", dir}, args...)
			out, _, code := execRoot(t, full...)
			assert.Equal(t, exitcode.JobsFailed, code)
			assert.NotContains(t, out, "Usage:")

			doc := decodeResults(t, out)
			require.Contains(t, doc, "error:command")
			assert.Contains(t, out, "command not found: `"+strings.Join(full, " ")+"`")

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "an unknown command writes nothing")
		})
	}
}

func TestHelpForKnownCommand(t *testing.T) {
	out, _, code := execRoot(t, "help", "fix")
	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "Fix brings the project's configuration")
}

func TestBuildCLI(t *testing.T) {
	dir := t.TempDir()
	out, _, code := execRoot(t, "--dir", dir, "build", "cli")
	require.Equal(t, exitcode.Success, code, out)

	info, err := os.Stat(filepath.Join(dir, "dist", "cli.js"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestConfigErrorExitCode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".nazna.yaml"), []byte("package_manager: bun\n"), 0o644))

	out, stderr, code := execRoot(t, "--dir", dir, "fix")
	assert.Equal(t, exitcode.ConfigError, code)
	assert.Empty(t, out, "no results document without a configuration")
	assert.Contains(t, stderr, "invalid configuration")
}

func TestMissingProjectDir(t *testing.T) {
	_, _, code := execRoot(t, "--dir", filepath.Join(t.TempDir(), "missing"), "fix")
	assert.Equal(t, exitcode.UsageError, code)
}

func TestVersion(t *testing.T) {
	out, _, code := execRoot(t, "version", "--extended")
	require.Equal(t, exitcode.Success, code)
	assert.True(t, strings.HasPrefix(out, "nazna "))
	assert.Contains(t, out, "Go version:")
}

func TestHelpListsGroups(t *testing.T) {
	out, _, code := execRoot(t, "--help")
	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "Project Commands:")
	assert.Contains(t, out, "Support Commands:")
	for _, name := range []string{"fix", "init", "build", "version"} {
		assert.Contains(t, out, "  "+name)
	}
}

func TestInitializeLogger(t *testing.T) {
	cmd := &cobra.Command{}
	addGlobalFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Set("log-level", "invalid"))
	require.NoError(t, cmd.Flags().Set("json", "true"))

	// Should fall back to warn without panicking
	initializeLogger(cmd)
}
