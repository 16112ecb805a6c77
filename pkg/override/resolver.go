package override

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/buildsetup/pkg/logging"
	"github.com/arthur-debert/buildsetup/pkg/paths"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/rs/zerolog"
)

// Resolver selects and activates override files for one builder directory
type Resolver struct {
	fs       types.FS
	paths    *paths.Paths
	prompter types.Prompter
	logger   zerolog.Logger
}

// NewResolver creates a Resolver
func NewResolver(fs types.FS, p *paths.Paths, prompter types.Prompter) *Resolver {
	return &Resolver{fs: fs, paths: p, prompter: prompter, logger: logging.GetLogger("override")}
}

// Candidates returns the override paths for release and branch, most
// specific first. Tiers needing an empty value are left out.
func (r *Resolver) Candidates(release, branch string) []string {
	dir := r.paths.ConfigurationsDir()
	name := r.paths.Layout().OverrideConf

	var out []string
	if release != "" && branch != "" {
		out = append(out, filepath.Join(dir, fmt.Sprintf("r%s-%s-%s", release, branch, name)))
	}
	if branch != "" {
		out = append(out, filepath.Join(dir, fmt.Sprintf("%s-%s", branch, name)))
	}
	return append(out, filepath.Join(dir, name))
}

// Select returns the first existing candidate
func (r *Resolver) Select(release, branch string) (string, bool) {
	for _, candidate := range r.Candidates(release, branch) {
		if _, err := r.fs.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// Offerable reports whether activation may be offered: the generic
// override path is absent or is not a regular file.
func (r *Resolver) Offerable() bool {
	target := r.paths.OverridePath()
	info, err := r.fs.Lstat(target)
	if err != nil {
		return true
	}
	return info.Mode()&os.ModeSymlink != 0 || !info.Mode().IsRegular()
}

// Activate offers the most specific override for release and branch and
// links it on confirmation. It reports whether a link was created; callers
// must reload their configuration when it was.
func (r *Resolver) Activate(release, branch string) (bool, error) {
	if !r.Offerable() {
		r.logger.Debug().Str("path", r.paths.OverridePath()).Msg("Keeping existing override file")
		return false, nil
	}

	source, ok := r.Select(release, branch)
	if !ok {
		return false, nil
	}
	target := r.paths.OverridePath()
	opts := LinkOptions{ReplaceLink: true}
	if !IsLinkable(r.fs, source, target, opts) {
		return false, nil
	}

	confirmed, err := r.prompter.YesNo(types.YesNoRequest{
		Title: "Use Branch Specific Override Configuration File?",
		Text: fmt.Sprintf("A branch specific configuration file was found in your personal directory:\n%s.\n\n"+
			"Would you like to use and override the other provided repos?", source),
		Default: true,
	})
	if err != nil {
		return false, err
	}
	if !confirmed {
		return false, nil
	}

	if err := Link(r.fs, source, target, opts); err != nil {
		return false, err
	}
	r.logger.Info().Str("source", source).Str("target", target).Msg("Override activated")
	return true, nil
}
