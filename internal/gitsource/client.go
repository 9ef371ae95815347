// Package gitsource fetches a remote Markdown tree to build from. Checkouts
// are cached per repository so repeated builds only reclone when asked.
package gitsource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// TokenEnv is the environment variable carrying an optional access token for
// private repositories.
const TokenEnv = "SITEGEN_GIT_TOKEN"

// Client manages cached checkouts under a cache directory.
type Client struct {
	cacheDir string
}

// NewClient creates a client caching checkouts under cacheDir.
func NewClient(cacheDir string) *Client { return &Client{cacheDir: cacheDir} }

// DefaultCacheDir returns the per-user checkout cache location.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "sitegen", "repos")
	}
	return filepath.Join(os.TempDir(), "sitegen-repos")
}

// Fetch ensures a checkout of the repository exists and returns its path.
// With update true an existing checkout is pulled instead of recloned.
func (c *Client) Fetch(ctx context.Context, url, branch string, update bool) (string, error) {
	path := filepath.Join(c.cacheDir, checkoutName(url))

	if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		if update {
			return path, c.pull(ctx, path, branch)
		}
		// Cached checkout without --update: reclone for a clean tree.
	}
	return path, c.clone(ctx, path, url, branch)
}

func (c *Client) clone(ctx context.Context, path, url, branch string) error {
	slog.Debug("Cloning source repository", logfields.URL(url), slog.String("branch", branch), logfields.Path(path))
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove existing checkout: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	repo, err := git.PlainCloneContext(ctx, path, false, cloneOptions(url, branch))
	if err != nil {
		return fmt.Errorf("clone %s: %w", url, err)
	}
	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Source repository cloned", logfields.URL(url), slog.String("commit", ref.Hash().String()[:8]))
	}
	return nil
}

func (c *Client) pull(ctx context.Context, path, branch string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open checkout: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	if err := wt.PullContext(ctx, pullOptions(branch)); err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("pull checkout: %w", err)
	}
	slog.Info("Source repository updated", logfields.Path(path))
	return nil
}

// cloneOptions assembles shallow single-branch clone options. Auth stays
// unset without a token: a typed-nil *BasicAuth in the AuthMethod field makes
// non-http transports reject the options instead of using their default auth.
func cloneOptions(url, branch string) *git.CloneOptions {
	opts := &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
	}
	if auth := tokenAuth(); auth != nil {
		opts.Auth = auth
	}
	if branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
	}
	return opts
}

// pullOptions assembles pull options; same auth rule as cloneOptions.
func pullOptions(branch string) *git.PullOptions {
	opts := &git.PullOptions{
		SingleBranch: true,
	}
	if auth := tokenAuth(); auth != nil {
		opts.Auth = auth
	}
	if branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
	}
	return opts
}

// tokenAuth builds basic auth from SITEGEN_GIT_TOKEN when present. The
// username is arbitrary for token auth on the common forges.
func tokenAuth() *http.BasicAuth {
	token := os.Getenv(TokenEnv)
	if token == "" {
		return nil
	}
	return &http.BasicAuth{Username: "sitegen", Password: token}
}

// checkoutName derives a stable directory name from a repository URL:
// a readable slug plus a short hash to disambiguate forks.
func checkoutName(url string) string {
	sum := sha256.Sum256([]byte(url))

	name := strings.TrimSuffix(url, ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "repo"
	}
	return name + "-" + hex.EncodeToString(sum[:4])
}
