// Package keys makes sure the third-party signing keys a build depends on
// are present in the builder keyring, fingerprint-verified and trusted.
package keys

import (
	"context"
	"fmt"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/logging"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/rs/zerolog"
)

// UltimateTrust is the owner-trust level assigned to fetched keys
const UltimateTrust = 6

// Options configures a Verifier
type Options struct {
	Tool     types.KeyTool
	Prompter types.Prompter
	FS       types.FS

	// GnupgHome is created with mode 0700 when missing
	GnupgHome string

	KeyServer string

	// DevelopersKeys is the maintainer bundle imported after every pass
	DevelopersKeys string
}

// Verifier runs key verification passes
type Verifier struct {
	opts   Options
	logger zerolog.Logger
}

// NewVerifier creates a Verifier
func NewVerifier(opts Options) *Verifier {
	return &Verifier{opts: opts, logger: logging.GetLogger("keys")}
}

// VerifyAll makes sure every key is present and verified, then imports the
// maintainer bundle. Missing keys, or all keys when force is set, are
// fetched after confirmation. message explains why a key is needed.
func (v *Verifier) VerifyAll(ctx context.Context, keys []types.KeyRecord, message string, force bool) error {
	if err := v.ensureHome(); err != nil {
		return err
	}
	for _, key := range keys {
		if err := v.verifyKey(ctx, key, message, force); err != nil {
			return err
		}
	}
	return v.ImportDevelopersKeys(ctx)
}

// ImportDevelopersKeys imports the maintainer bundle
func (v *Verifier) ImportDevelopersKeys(ctx context.Context) error {
	if err := v.opts.Tool.ImportFile(ctx, v.opts.DevelopersKeys); err != nil {
		return errors.Wrapf(err, errors.ErrKeyImport,
			"unable to import developer keys %s, please install them manually", v.opts.DevelopersKeys).
			WithDetail("path", v.opts.DevelopersKeys)
	}
	v.logger.Debug().Str("path", v.opts.DevelopersKeys).Msg("Developer keys imported")
	return nil
}

func (v *Verifier) ensureHome() error {
	if v.opts.GnupgHome == "" {
		return nil
	}
	if _, err := v.opts.FS.Stat(v.opts.GnupgHome); err == nil {
		return nil
	}
	if err := v.opts.FS.MkdirAll(v.opts.GnupgHome, 0700); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create keyring %s", v.opts.GnupgHome).
			WithDetail("path", v.opts.GnupgHome)
	}
	return nil
}

func (v *Verifier) verifyKey(ctx context.Context, key types.KeyRecord, message string, force bool) error {
	logger := v.logger.With().Str("key", key.ID).Logger()

	if force || !v.opts.Tool.IsPresent(ctx, key.Key) {
		if err := v.fetch(ctx, key, message, force); err != nil {
			return err
		}
	}

	lines, err := v.opts.Tool.Fingerprints(ctx, key.Key)
	if err == nil {
		for _, line := range lines {
			if line == key.Verify {
				logger.Debug().Msg("Fingerprint verified")
				return nil
			}
		}
	}

	logger.Error().Str("expected", key.Verify).Strs("found", lines).Msg("Fingerprint mismatch")
	return errors.Newf(errors.ErrKeyVerify, "%s fingerprint failed: wrong fingerprint, expected %s", key.Owner, key.Verify).
		WithDetail("key", key.Key).
		WithDetail("expected", key.Verify)
}

func (v *Verifier) fetch(ctx context.Context, key types.KeyRecord, message string, force bool) error {
	var text string
	switch {
	case message != "":
		text = fmt.Sprintf("Owner: %s\n\n%s\n\nSelect \"Yes\" to add or \"No\" to exit", key.Owner, message)
	case force:
		text = fmt.Sprintf("Owner: %s forced get.\n\nSelect \"Yes\" to re-add or \"No\" to exit", key.Owner)
	default:
		text = fmt.Sprintf("Owner: %s key does not exist.\n\nSelect \"Yes\" to add or \"No\" to exit", key.Owner)
	}

	confirmed, err := v.opts.Prompter.YesNo(types.YesNoRequest{
		Title: "Add Key " + key.ID,
		Text:  text,
	})
	if err != nil {
		return err
	}
	if !confirmed {
		return errors.New(errors.ErrUserAbort, "exiting setup since keys can not be installed").
			WithDetail("key", key.ID)
	}

	if err := v.opts.Tool.ImportFromServer(ctx, key.Key, v.opts.KeyServer); err != nil {
		return errors.Wrapf(err, errors.ErrKeyImport, "cannot fetch key %s from %s", key.Key, v.opts.KeyServer).
			WithDetail("key", key.Key)
	}
	if err := v.opts.Tool.SetOwnerTrust(ctx, key.Key, UltimateTrust); err != nil {
		return errors.Wrapf(err, errors.ErrKeyImport, "cannot trust key %s", key.Key).
			WithDetail("key", key.Key)
	}
	v.logger.Info().Str("key", key.Key).Str("server", v.opts.KeyServer).Msg("Key imported")
	return nil
}
