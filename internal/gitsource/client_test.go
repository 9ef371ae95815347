package gitsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutName(t *testing.T) {
	a := checkoutName("https://example.com/team/docs.git")
	b := checkoutName("https://example.com/other/docs.git")

	assert.Contains(t, a, "docs-")
	assert.Contains(t, b, "docs-")
	// Same basename, different repos: names must not collide.
	assert.NotEqual(t, a, b)
	// Stable across calls.
	assert.Equal(t, a, checkoutName("https://example.com/team/docs.git"))
}

func TestTokenAuth(t *testing.T) {
	t.Setenv(TokenEnv, "")
	assert.Nil(t, tokenAuth())

	t.Setenv(TokenEnv, "secret")
	auth := tokenAuth()
	require.NotNil(t, auth)
	assert.Equal(t, "secret", auth.Password)
}

// Without a token the AuthMethod interface field must stay nil, not hold a
// typed-nil *BasicAuth: non-http transports (ssh) reject a non-nil auth of
// the wrong type before dialing, breaking tokenless clones of ssh URLs.
func TestOptionsLeaveAuthUnsetWithoutToken(t *testing.T) {
	t.Setenv(TokenEnv, "")

	co := cloneOptions("git@example.com:org/repo.git", "main")
	// Interface comparison on purpose: reflection-based nil checks also
	// accept a typed nil, which is exactly the broken case.
	assert.True(t, co.Auth == nil, "clone auth must be the untyped nil interface")
	assert.Equal(t, "refs/heads/main", string(co.ReferenceName))

	po := pullOptions("")
	assert.True(t, po.Auth == nil, "pull auth must be the untyped nil interface")

	t.Setenv(TokenEnv, "secret")
	assert.NotNil(t, cloneOptions("https://example.com/r.git", "").Auth)
	assert.NotNil(t, pullOptions("main").Auth)
}

// seedRepo creates a local git repository with one committed Markdown file,
// usable as a file:// clone source.
func seedRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Seed\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("add readme", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestFetchClonesLocalRepo(t *testing.T) {
	src := seedRepo(t)
	client := NewClient(t.TempDir())

	path, err := client.Fetch(context.Background(), src, "", false)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(path, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Seed\n", string(data))
}

func TestFetchUpdateReusesCheckout(t *testing.T) {
	src := seedRepo(t)
	client := NewClient(t.TempDir())

	path, err := client.Fetch(context.Background(), src, "", false)
	require.NoError(t, err)

	marker := filepath.Join(path, ".marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))

	// --update pulls in place; the checkout directory survives.
	again, err := client.Fetch(context.Background(), src, "", true)
	require.NoError(t, err)
	assert.Equal(t, path, again)
	_, err = os.Stat(marker)
	assert.NoError(t, err)
}
