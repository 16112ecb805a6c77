package override

import (
	"os"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/types"
)

// LinkOptions controls what an existing target may be replaced by a link
type LinkOptions struct {
	ReplaceFile bool
	ReplaceLink bool
}

// IsLinkable reports whether target can be made a link to source:
//   - source missing: false
//   - target missing or a dangling link: true
//   - source and target are the same file: false
//   - target is a regular file and ReplaceFile is unset: false
//   - target is a link and ReplaceLink is set: true
func IsLinkable(fs types.FS, source, target string, opts LinkOptions) bool {
	if source == "" {
		return false
	}
	sourceInfo, err := fs.Stat(source)
	if err != nil {
		return false
	}

	targetInfo, err := fs.Stat(target)
	if err != nil {
		return true
	}

	isLink := false
	if info, err := fs.Lstat(target); err == nil {
		isLink = info.Mode()&os.ModeSymlink != 0
	}

	if os.SameFile(sourceInfo, targetInfo) {
		return false
	}
	if isLink {
		if dest, err := fs.Readlink(target); err == nil && dest == source {
			return false
		}
	}

	if !opts.ReplaceFile && !isLink {
		return false
	}
	return opts.ReplaceLink && isLink
}

// Link replaces target with a symbolic link to source. Any failure names
// both paths.
func Link(fs types.FS, source, target string, opts LinkOptions) error {
	if !IsLinkable(fs, source, target, opts) {
		return errors.Newf(errors.ErrSymlinkCreate, "error linking %s to %s: unable to link target file to source", target, source).
			WithDetail("source", source).
			WithDetail("target", target)
	}

	if _, err := fs.Lstat(target); err == nil {
		if err := fs.Remove(target); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "error linking %s to %s", target, source).
				WithDetail("source", source).
				WithDetail("target", target)
		}
	}
	if err := fs.Symlink(source, target); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "error linking %s to %s", target, source).
			WithDetail("source", source).
			WithDetail("target", target)
	}
	return nil
}
