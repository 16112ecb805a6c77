package deps

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/arthur-debert/buildsetup/pkg/buildtool"
	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/testutil"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// hostPackages is a PackageQuery answering from a set
type hostPackages map[string]bool

func (h hostPackages) Provides(_ context.Context, capability string) bool { return h[capability] }

func newInstaller(t *testing.T, host hostPackages, prompter types.Prompter) (*Installer, *testutil.TestEnvironment) {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.Tool.Vars[VarDependencies] = "git rpm-build createrepo"
	return NewInstaller(Options{
		Tool:     env.Tool,
		Packages: host,
		Prompter: prompter,
		FS:       env.FS,
		Paths:    env.Paths,
	}), env
}

func TestDependencies_UsesTemplateWithoutBuilderConf(t *testing.T) {
	inst, env := newInstaller(t, nil, nil)

	deps, err := inst.Dependencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "rpm-build", "createrepo"}, deps)
	assert.Equal(t, []buildtool.Query{{Var: VarDependencies, ConfFile: env.Paths.TemplatePath()}}, env.Tool.Queries())
}

func TestDependencies_UsesBuilderConf(t *testing.T) {
	inst, env := newInstaller(t, nil, nil)
	env.WriteFile(env.Paths.BuilderConfPath(), testutil.SampleTemplate)

	_, err := inst.Dependencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []buildtool.Query{{Var: VarDependencies}}, env.Tool.Queries())
}

func TestDependencies_ToolFailure(t *testing.T) {
	inst, env := newInstaller(t, nil, nil)
	env.Tool.GetVarFunc = func(context.Context, buildtool.Query) (string, error) {
		return "", errors.New(errors.ErrToolExec, "make failed")
	}

	_, err := inst.Dependencies(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolExec))
}

func TestMissing(t *testing.T) {
	inst, _ := newInstaller(t, hostPackages{"git": true}, nil)

	missing, err := inst.Missing(context.Background(), []string{"python3", "createrepo", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"createrepo", "python3", "rpm-build"}, missing)
}

func TestInstall_NothingMissing(t *testing.T) {
	prompter := &testutil.MockPrompter{}
	inst, env := newInstaller(t, hostPackages{"git": true, "rpm-build": true, "createrepo": true}, prompter)

	installed, err := inst.Install(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, installed)
	prompter.AssertNotCalled(t, "YesNo", mock.Anything)
	assert.Empty(t, env.Tool.Runs())
}

func TestInstall_Confirmed(t *testing.T) {
	prompter := &testutil.MockPrompter{}
	prompter.On("YesNo", mock.MatchedBy(func(req types.YesNoRequest) bool {
		return req.Title == "Install Dependencies" && !req.Default
	})).Return(true, nil)

	inst, env := newInstaller(t, hostPackages{"git": true}, prompter)
	var streamedEnv map[string]string
	env.Tool.StreamFunc = func(_ context.Context, target string, e map[string]string, w io.Writer) error {
		streamedEnv = e
		_, err := fmt.Fprintln(w, "Installed:", e[VarDependencies])
		return err
	}
	var spun string
	inst.opts.Spin = func(text string, fn func() error) error {
		spun = text
		return fn()
	}

	installed, err := inst.Install(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"createrepo", "rpm-build"}, installed)
	assert.Equal(t, []string{InstallTarget}, env.Tool.Runs())
	assert.Equal(t, "createrepo rpm-build", streamedEnv[VarDependencies])
	assert.Equal(t, "Waiting for createrepo rpm-build to install", spun)
	prompter.AssertExpectations(t)
}

func TestInstall_Declined(t *testing.T) {
	prompter := &testutil.MockPrompter{}
	prompter.On("YesNo", mock.Anything).Return(false, nil)

	inst, env := newInstaller(t, hostPackages{}, prompter)
	_, err := inst.Install(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsAbort(err))
	assert.Empty(t, env.Tool.Runs())
}

func TestInstall_Failure(t *testing.T) {
	prompter := &testutil.MockPrompter{}
	prompter.On("YesNo", mock.Anything).Return(true, nil)

	inst, env := newInstaller(t, hostPackages{}, prompter)
	env.Tool.StreamFunc = func(context.Context, string, map[string]string, io.Writer) error {
		return errors.New(errors.ErrToolExec, "dnf failed")
	}

	_, err := inst.Install(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolExec))
	assert.False(t, errors.IsAbort(err))
}

func TestRPM_MissingBinary(t *testing.T) {
	r := NewRPM("/nonexistent/rpm")
	assert.False(t, r.Provides(context.Background(), "git"))
}
