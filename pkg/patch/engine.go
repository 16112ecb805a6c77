package patch

import (
	"os"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/logging"
	"github.com/arthur-debert/buildsetup/pkg/types"
)

// DefaultBackupExtension is appended to the target path for the backup copy
const DefaultBackupExtension = ".bak"

// Engine collects rules for one target file and applies them
type Engine struct {
	fs        types.FS
	target    string
	backupExt string
	rules     []Rule
}

// NewEngine creates an engine for target
func NewEngine(fs types.FS, target string) *Engine {
	return &Engine{fs: fs, target: target, backupExt: DefaultBackupExtension}
}

// WithBackupExtension changes the backup suffix
func (e *Engine) WithBackupExtension(ext string) *Engine {
	if ext != "" {
		e.backupExt = ext
	}
	return e
}

// Target returns the file being patched
func (e *Engine) Target() string { return e.target }

// BackupPath returns the backup location
func (e *Engine) BackupPath() string { return e.target + e.backupExt }

// Rules returns the registered rules in order
func (e *Engine) Rules() []Rule { return append([]Rule(nil), e.rules...) }

// Add registers pre-built rules
func (e *Engine) Add(rules ...Rule) *Engine {
	e.rules = append(e.rules, rules...)
	return e
}

// Substitute registers a substitution rule
func (e *Engine) Substitute(pattern, replacement string) error {
	rule, err := NewSubstitute(pattern, replacement)
	if err != nil {
		return err
	}
	e.rules = append(e.rules, rule)
	return nil
}

// Region registers a region rule
func (e *Engine) Region(anchor, terminator, payload string) error {
	rule, err := NewRegion(anchor, terminator, payload)
	if err != nil {
		return err
	}
	e.rules = append(e.rules, rule)
	return nil
}

// Apply writes the backup, then rewrites the target in place. The backup
// is left behind on success; RestoreBackup uses it as the rollback point.
func (e *Engine) Apply() (Stats, error) {
	logger := logging.GetLogger("patch")
	done := logging.LogOperationStart(logger, "apply")
	defer done()

	info, err := e.fs.Stat(e.target)
	if err != nil {
		return Stats{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", e.target).
			WithDetail("path", e.target)
	}
	original, err := e.fs.ReadFile(e.target)
	if err != nil {
		return Stats{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", e.target).
			WithDetail("path", e.target)
	}

	if err := e.fs.WriteFile(e.BackupPath(), original, info.Mode().Perm()); err != nil {
		return Stats{}, errors.Wrapf(err, errors.ErrFileWrite, "cannot write backup %s", e.BackupPath()).
			WithDetail("path", e.BackupPath())
	}

	rewritten, stats, err := Rewrite(string(original), e.rules)
	if err != nil {
		return stats, errors.Wrapf(err, errors.ErrPatchUnterminated, "cannot patch %s", e.target).
			WithDetail("path", e.target)
	}

	if err := e.fs.WriteFile(e.target, []byte(rewritten), info.Mode().Perm()); err != nil {
		return stats, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", e.target).
			WithDetail("path", e.target)
	}

	logger.Info().
		Str("target", e.target).
		Int("rules", len(e.rules)).
		Int("substitutions", stats.Substitutions).
		Int("regions", stats.Regions).
		Int("suppressed", stats.Suppressed).
		Msg("Target patched")
	return stats, nil
}

// RestoreBackup moves target+ext back over target when the backup exists.
// It reports whether a backup was restored.
func RestoreBackup(fs types.FS, target, ext string) (bool, error) {
	if ext == "" {
		ext = DefaultBackupExtension
	}
	backup := target + ext
	if _, err := fs.Stat(backup); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", backup)
	}
	if err := fs.Rename(backup, target); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "cannot restore %s from %s", target, backup)
	}
	logger := logging.GetLogger("patch")
	logger.Warn().Str("target", target).Msg("Restored configuration from backup")
	return true, nil
}
