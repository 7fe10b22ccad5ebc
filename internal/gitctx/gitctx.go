package gitctx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	git "github.com/go-git/go-git/v5"

	"github.com/fulmenhq/nazna/internal/runner"
	"github.com/fulmenhq/nazna/pkg/logger"
)

// DefaultRemote is the remote queried when none is configured.
const DefaultRemote = "origin"

// ErrNoRemoteURL reports a remote that exists but has no URL configured.
var ErrNoRemoteURL = errors.New("remote has no URL")

// Resolver looks up the URL of a git remote for the repository containing Dir.
type Resolver struct {
	Dir    string
	Remote string
	Runner runner.Runner
}

// RemoteURL returns the fetch URL of the configured remote. It prefers go-git
// and falls back to `git remote get-url` when the repository cannot be read
// in-process (worktrees, includeIf configs and similar).
func (r *Resolver) RemoteURL(ctx context.Context) (string, error) {
	name := r.Remote
	if name == "" {
		name = DefaultRemote
	}

	url, err := remoteURLGoGit(r.Dir, name)
	if err == nil {
		return url, nil
	}
	logger.Debug("go-git remote lookup failed, falling back to git CLI", logger.String("remote", name), logger.Err(err))

	if r.Runner == nil {
		return "", err
	}
	res, cliErr := r.Runner.Run(ctx, r.Dir, "git", "remote", "get-url", name)
	if cliErr != nil {
		return "", cliErr
	}
	line, _, _ := strings.Cut(res.Stdout, "\n")
	if line = strings.TrimSpace(line); line == "" {
		return "", fmt.Errorf("remote %s: %w", name, ErrNoRemoteURL)
	}
	return line, nil
}

func remoteURLGoGit(dir, name string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", err
	}
	remote, err := repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return "", fmt.Errorf("remote %s: %w", name, ErrNoRemoteURL)
	}
	return urls[0], nil
}
