package errors_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unknown variable",
			err:  errors.Newf(errors.ErrConfigKey, "unknown configuration variable %q", "releese"),
			want: `[CONFIG_KEY] unknown configuration variable "releese"`,
		},
		{
			name: "wrong fingerprint",
			err:  errors.Newf(errors.ErrKeyVerify, "%s fingerprint failed", "Vanir"),
			want: "[KEY_VERIFY] Vanir fingerprint failed",
		},
		{
			name: "unreadable data file",
			err:  errors.Wrapf(fs.ErrPermission, errors.ErrConfigLoad, "cannot read %s", ".setup.data"),
			want: "[CONFIG_LOAD] cannot read .setup.data: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap_NilStaysNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrFileWrite, "cannot write builder.conf"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrConfigLoad, "cannot read %s", "override.data"))
}

// An unterminated region surfaces from the rewrite, then gets the target
// attached by the engine.
func TestPatchChain(t *testing.T) {
	rewrite := errors.Newf(errors.ErrPatchUnterminated, "region never terminated: %s", "[=setup dists start=]").
		WithDetail("anchors", []string{"[=setup dists start=]"})
	apply := errors.Wrapf(rewrite, errors.ErrPatchUnterminated, "cannot patch %s", "builder.conf").
		WithDetail("path", "builder.conf")

	assert.True(t, errors.IsErrorCode(apply, errors.ErrPatchUnterminated))
	assert.Equal(t, errors.ErrPatchUnterminated, errors.GetErrorCode(apply))
	assert.Equal(t, "builder.conf", errors.GetErrorDetails(apply)["path"])
	assert.False(t, errors.IsAbort(apply))

	var inner *errors.SetupError
	require.True(t, stderrors.As(stderrors.Unwrap(apply), &inner))
	assert.Equal(t, []string{"[=setup dists start=]"}, inner.Details["anchors"])
}

// The store wraps I/O failures of its layers, and callers still reach the
// underlying cause.
func TestConfigLoadChain(t *testing.T) {
	err := errors.Wrapf(fs.ErrNotExist, errors.ErrConfigLoad, "cannot read template %s", "templates.conf").
		WithDetail("path", "templates.conf")
	wrapped := fmt.Errorf("loading configuration: %w", err)

	assert.True(t, stderrors.Is(wrapped, fs.ErrNotExist))
	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrConfigLoad))
	assert.True(t, stderrors.Is(wrapped, errors.New(errors.ErrConfigLoad, "")))
	assert.False(t, stderrors.Is(wrapped, errors.New(errors.ErrConfigKey, "")))
}

func TestKeyVerifyDetails(t *testing.T) {
	err := errors.Newf(errors.ErrKeyVerify, "%s fingerprint failed", "Upstream").
		WithDetail("key", "ABCDEF0123456789").
		WithDetail("expected", "fpr:::::::::ABCDEF0123456789:")

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "ABCDEF0123456789", details["key"])
	assert.Equal(t, "fpr:::::::::ABCDEF0123456789:", details["expected"])
	assert.Nil(t, errors.GetErrorDetails(fs.ErrClosed))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(fs.ErrClosed))
}

func TestWithDetail_OnLiteral(t *testing.T) {
	err := (&errors.SetupError{Code: errors.ErrUserAbort, Message: "cancelled"}).WithDetail("dialog", "Release")
	assert.Equal(t, "Release", err.Details["dialog"])
}

func TestIsAbort(t *testing.T) {
	dialog := errors.New(errors.ErrUserAbort, "cancelled").WithDetail("dialog", "Builder Plugins Selection")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "dialog cancelled", err: dialog, want: true},
		{name: "declined key import", err: errors.New(errors.ErrUserAbort, "exiting setup since keys can not be installed"), want: true},
		{name: "context cancelled", err: errors.Wrap(context.Canceled, errors.ErrUserAbort, "wizard cancelled"), want: true},
		{name: "abort under a tool error", err: errors.Wrap(dialog, errors.ErrToolExec, "get-sources failed"), want: true},
		{name: "abort behind fmt wrapping", err: fmt.Errorf("step release: %w", dialog), want: true},
		{name: "fingerprint mismatch", err: errors.New(errors.ErrKeyVerify, "wrong fingerprint"), want: false},
		{name: "plain error", err: context.DeadlineExceeded, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.IsAbort(tt.err))
		})
	}
}
