package override

import (
	"path/filepath"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CurrentBranch returns the short name of the branch checked out in the
// repository containing dir, or "HEAD" when the head is detached. Unborn
// branches are reported by name.
func CurrentBranch(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", dir)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrNotFound, "no git repository at or above %s", abs)
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNotFound, "cannot read HEAD")
	}
	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}
	return plumbing.HEAD.String(), nil
}
