package keys

import (
	"context"
	"testing"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/testutil"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var signingKey = types.KeyRecord{
	ID:     "vanir-signing",
	Key:    "0x1234567890ABCDEF",
	Owner:  "Vanir",
	Verify: "fpr:::::::::1234567890ABCDEF:",
}

const (
	home   = "/builder/keyrings/git"
	bundle = "/builder/vanir-developers-keys.asc"
)

func newVerifier(tool *testutil.MockKeyTool, prompter *testutil.MockPrompter) (*Verifier, types.FS) {
	fs := testutil.NewTestFS()
	return NewVerifier(Options{
		Tool:           tool,
		Prompter:       prompter,
		FS:             fs,
		GnupgHome:      home,
		KeyServer:      "pgp.mit.edu",
		DevelopersKeys: bundle,
	}), fs
}

func TestVerifyAll_PresentKey(t *testing.T) {
	tool := &testutil.MockKeyTool{}
	prompter := &testutil.MockPrompter{}
	tool.On("IsPresent", mock.Anything, signingKey.Key).Return(true)
	tool.On("Fingerprints", mock.Anything, signingKey.Key).
		Return([]string{"fpr:::::::::FFFF:", signingKey.Verify}, nil)
	tool.On("ImportFile", mock.Anything, bundle).Return(nil)

	v, fs := newVerifier(tool, prompter)
	require.NoError(t, v.VerifyAll(context.Background(), []types.KeyRecord{signingKey}, "", false))

	info, err := fs.Stat(home)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	tool.AssertExpectations(t)
	prompter.AssertNotCalled(t, "YesNo", mock.Anything)
}

func TestVerifyAll_MissingKeyIsFetched(t *testing.T) {
	tool := &testutil.MockKeyTool{}
	prompter := &testutil.MockPrompter{}
	tool.On("IsPresent", mock.Anything, signingKey.Key).Return(false)
	tool.On("ImportFromServer", mock.Anything, signingKey.Key, "pgp.mit.edu").Return(nil)
	tool.On("SetOwnerTrust", mock.Anything, signingKey.Key, UltimateTrust).Return(nil)
	tool.On("Fingerprints", mock.Anything, signingKey.Key).Return([]string{signingKey.Verify}, nil)
	tool.On("ImportFile", mock.Anything, bundle).Return(nil)
	prompter.On("YesNo", mock.MatchedBy(func(req types.YesNoRequest) bool {
		return req.Title == "Add Key vanir-signing" && !req.Default
	})).Return(true, nil)

	v, _ := newVerifier(tool, prompter)
	require.NoError(t, v.VerifyAll(context.Background(), []types.KeyRecord{signingKey}, "", false))
	tool.AssertExpectations(t)
	prompter.AssertExpectations(t)
}

func TestVerifyAll_ForceRefetches(t *testing.T) {
	tool := &testutil.MockKeyTool{}
	prompter := &testutil.MockPrompter{}
	tool.On("IsPresent", mock.Anything, mock.Anything).Return(true).Maybe()
	tool.On("ImportFromServer", mock.Anything, signingKey.Key, "pgp.mit.edu").Return(nil).Once()
	tool.On("SetOwnerTrust", mock.Anything, signingKey.Key, UltimateTrust).Return(nil).Once()
	tool.On("Fingerprints", mock.Anything, signingKey.Key).Return([]string{signingKey.Verify}, nil)
	tool.On("ImportFile", mock.Anything, bundle).Return(nil)
	prompter.On("YesNo", mock.MatchedBy(func(req types.YesNoRequest) bool {
		return assert.ObjectsAreEqual("Owner: Vanir forced get.\n\nSelect \"Yes\" to re-add or \"No\" to exit", req.Text)
	})).Return(true, nil)

	v, _ := newVerifier(tool, prompter)
	require.NoError(t, v.VerifyAll(context.Background(), []types.KeyRecord{signingKey}, "", true))
	tool.AssertExpectations(t)
}

func TestVerifyAll_DeclinedFetchAborts(t *testing.T) {
	tool := &testutil.MockKeyTool{}
	prompter := &testutil.MockPrompter{}
	tool.On("IsPresent", mock.Anything, signingKey.Key).Return(false)
	prompter.On("YesNo", mock.Anything).Return(false, nil)

	v, _ := newVerifier(tool, prompter)
	err := v.VerifyAll(context.Background(), []types.KeyRecord{signingKey}, "needed by builder-x", false)
	require.Error(t, err)
	assert.True(t, errors.IsAbort(err))
	tool.AssertNotCalled(t, "ImportFromServer", mock.Anything, mock.Anything, mock.Anything)
	tool.AssertNotCalled(t, "ImportFile", mock.Anything, mock.Anything)
}

func TestVerifyAll_FetchFailureIsFatal(t *testing.T) {
	tool := &testutil.MockKeyTool{}
	prompter := &testutil.MockPrompter{}
	tool.On("IsPresent", mock.Anything, signingKey.Key).Return(false)
	tool.On("ImportFromServer", mock.Anything, signingKey.Key, "pgp.mit.edu").
		Return(errors.New(errors.ErrToolExec, "keyserver receive failed"))
	prompter.On("YesNo", mock.Anything).Return(true, nil)

	v, _ := newVerifier(tool, prompter)
	err := v.VerifyAll(context.Background(), []types.KeyRecord{signingKey}, "", false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrKeyImport))
}

func TestVerifyAll_FingerprintMismatch(t *testing.T) {
	tool := &testutil.MockKeyTool{}
	tool.On("IsPresent", mock.Anything, signingKey.Key).Return(true)
	tool.On("Fingerprints", mock.Anything, signingKey.Key).Return([]string{"fpr:::::::::BAD:"}, nil)

	v, _ := newVerifier(tool, &testutil.MockPrompter{})
	err := v.VerifyAll(context.Background(), []types.KeyRecord{signingKey}, "", false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrKeyVerify))
	assert.Contains(t, err.Error(), signingKey.Verify)
	tool.AssertNotCalled(t, "ImportFile", mock.Anything, mock.Anything)
}

func TestVerifyAll_FingerprintToolFailure(t *testing.T) {
	tool := &testutil.MockKeyTool{}
	tool.On("IsPresent", mock.Anything, signingKey.Key).Return(true)
	tool.On("Fingerprints", mock.Anything, signingKey.Key).Return(nil, errors.New(errors.ErrToolExec, "boom"))

	v, _ := newVerifier(tool, &testutil.MockPrompter{})
	err := v.VerifyAll(context.Background(), []types.KeyRecord{signingKey}, "", false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrKeyVerify))
}

func TestVerifyAll_DevelopersBundleFailure(t *testing.T) {
	tool := &testutil.MockKeyTool{}
	tool.On("ImportFile", mock.Anything, bundle).Return(errors.New(errors.ErrToolExec, "no such file"))

	v, _ := newVerifier(tool, &testutil.MockPrompter{})
	err := v.VerifyAll(context.Background(), nil, "", false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrKeyImport))
	assert.Equal(t, bundle, errors.GetErrorDetails(err)["path"])
}
