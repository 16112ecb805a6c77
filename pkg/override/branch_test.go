package override

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentBranch(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("feature"))
	require.NoError(t, repo.Storer.SetReference(ref))

	sub := filepath.Join(dir, "example-configs")
	require.NoError(t, os.MkdirAll(sub, 0755))

	branch, err := CurrentBranch(sub)
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)
}

func TestCurrentBranch_Detached(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	ref := plumbing.NewHashReference(plumbing.HEAD, plumbing.NewHash("0123456789abcdef0123456789abcdef01234567"))
	require.NoError(t, repo.Storer.SetReference(ref))

	branch, err := CurrentBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "HEAD", branch)
}

func TestCurrentBranch_NotARepository(t *testing.T) {
	_, err := CurrentBranch(t.TempDir())
	assert.Error(t, err)
}
