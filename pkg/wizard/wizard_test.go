package wizard

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/arthur-debert/buildsetup/pkg/buildtool"
	"github.com/arthur-debert/buildsetup/pkg/config"
	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/testutil"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const dataFile = ".setup.data"

// fakeKeys records every verification request
type fakeKeys struct {
	calls    [][]types.KeyRecord
	messages []string
	err      error
}

func (f *fakeKeys) VerifyAll(_ context.Context, keys []types.KeyRecord, message string, _ bool) error {
	f.calls = append(f.calls, keys)
	f.messages = append(f.messages, message)
	return f.err
}

// fakeOverrides runs onActivate and reports whether it linked a file
type fakeOverrides struct {
	activated  bool
	onActivate func()
	release    string
}

func (f *fakeOverrides) Activate(release, _ string) (bool, error) {
	f.release = release
	if f.onActivate != nil {
		f.onActivate()
	}
	return f.activated, nil
}

// fakeDisplay records what was displayed
type fakeDisplay struct {
	path         string
	templateOnly bool
	shown        int
}

func (f *fakeDisplay) Configuration(_ types.FS, path string) error {
	f.path = path
	f.shown++
	return nil
}

func (f *fakeDisplay) Summary(_ string, templateOnly bool) error {
	f.templateOnly = templateOnly
	return nil
}

type harness struct {
	env       *testutil.TestEnvironment
	store     *config.Store
	prompter  *testutil.MockPrompter
	keys      *fakeKeys
	overrides *fakeOverrides
	display   *fakeDisplay
	wizard    *Wizard
}

func newHarness(t *testing.T, development bool) *harness {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile(env.Path(dataFile), testutil.SampleData)

	h := &harness{
		env:       env,
		prompter:  &testutil.MockPrompter{},
		keys:      &fakeKeys{},
		overrides: &fakeOverrides{},
		display:   &fakeDisplay{},
	}

	// the build tool reads the plugin selection back from builder.conf
	env.Tool.GetVarFunc = func(_ context.Context, q buildtool.Query) (string, error) {
		if q.Var == "BUILDER_PLUGINS_ALL" && h.store != nil {
			return strings.Join(h.store.BuildersSelected(), " "), nil
		}
		if v, ok := env.Tool.AllValues[q.Var]; ok && q.AllValues {
			return v, nil
		}
		return env.Tool.Vars[q.Var], nil
	}

	store, err := config.Load(context.Background(), config.Options{
		FS: env.FS, Paths: env.Paths, Tool: env.Tool, DataFile: dataFile,
	})
	require.NoError(t, err)
	h.store = store

	h.wizard, err = New(Options{
		Store:       store,
		FS:          env.FS,
		Tool:        env.Tool,
		Prompter:    h.prompter,
		Keys:        h.keys,
		Overrides:   h.overrides,
		Display:     h.display,
		Branch:      "master",
		Development: development,
	})
	require.NoError(t, err)
	return h
}

func list(title string) interface{} {
	return mock.MatchedBy(func(req types.ListRequest) bool { return req.Title == title })
}

func yesno(title string) interface{} {
	return mock.MatchedBy(func(req types.YesNoRequest) bool { return req.Title == title })
}

func choice(choices []types.Choice, tag string) (types.Choice, bool) {
	for _, c := range choices {
		if c.Tag == tag {
			return c, true
		}
	}
	return types.Choice{}, false
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRun_CompleteFlow(t *testing.T) {
	h := newHarness(t, false)
	p := h.prompter

	p.On("Radiolist", mock.MatchedBy(func(req types.ListRequest) bool {
		c, ok := choice(req.Choices, "3")
		return req.Title == "Choose Which vanir Release To Use To Build Packages" && ok && c.Selected
	})).Return("4", nil).Once()
	p.On("Radiolist", list("Choose Source Repos To Use To Build Packages")).Return("vanir/vanir-", nil).Once()
	p.On("Checklist", list("Choose Pre-Built Packages Repositories")).Return([]string{RepoStable}, nil).Once()
	p.On("YesNo", yesno("Build Template Only?")).Return(false, nil).Once()
	p.On("Checklist", list("Template Distribution Selection")).Return([]string{"fc30", "stretch"}, nil).Once()
	p.On("Checklist", list("Builder Plugins Selection")).Return([]string{"builder-rpm"}, nil).Once()

	require.NoError(t, h.wizard.Run(context.Background()))
	p.AssertExpectations(t)

	// ssh access is only offered with an active override
	p.AssertNotCalled(t, "YesNo", yesno("Enable SSH Access"))
	// unchanged plugin selection needs no sources
	p.AssertNotCalled(t, "YesNo", yesno("Get sources"))

	assert.Equal(t, "3", h.overrides.release)
	require.Len(t, h.keys.calls, 1)
	assert.Equal(t, h.store.Keys(), h.keys.calls[0])

	conf := h.env.ReadFile(h.env.Paths.BuilderConfPath())
	assert.Contains(t, conf, "RELEASE := 4\n")
	assert.Contains(t, conf, "  DISTS_VM += fc30\n  DISTS_VM += stretch\n")
	assert.Contains(t, conf, "  BUILDER_PLUGINS += builder-rpm\n")

	assert.Equal(t, 1, h.display.shown)
	assert.Equal(t, h.env.Paths.BuilderConfPath(), h.display.path)
	assert.False(t, h.display.templateOnly)

	assert.Equal(t, testutil.SampleData, h.env.ReadFile(h.env.Path(dataFile)))
	state := h.env.ReadFile(h.env.Paths.OverrideDataPath())
	assert.Contains(t, state, "release = '4'\n")
	assert.Contains(t, state, "builders_selected = ['builder-rpm']\n")
}

func TestRun_OverrideActivationReloads(t *testing.T) {
	h := newHarness(t, false)
	h.overrides.activated = true
	h.overrides.onActivate = func() {
		h.env.WriteFile(h.env.Paths.OverrideDataPath(), "[makefile]\nrelease = \"4\"\n")
	}

	abort := errors.New(errors.ErrUserAbort, "cancelled")
	h.prompter.On("Radiolist", mock.MatchedBy(func(req types.ListRequest) bool {
		c, ok := choice(req.Choices, "4")
		return ok && c.Selected
	})).Return("", abort).Once()

	err := h.wizard.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAbort(err))
	assert.Equal(t, "4", h.store.Release())
	h.prompter.AssertExpectations(t)
	assert.Zero(t, h.display.shown)
}

func TestRun_KeyFailureStops(t *testing.T) {
	h := newHarness(t, false)
	h.keys.err = errors.New(errors.ErrKeyVerify, "wrong fingerprint")

	err := h.wizard.Run(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrKeyVerify))
	h.prompter.AssertNotCalled(t, "Radiolist", mock.Anything)
}

func TestRun_CancelledContext(t *testing.T) {
	h := newHarness(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.wizard.Run(ctx)
	assert.True(t, errors.IsAbort(err))
}

func TestSetBuilders_HardConflictReprompts(t *testing.T) {
	h := newHarness(t, false)
	p := h.prompter
	p.On("Checklist", list("Builder Plugins Selection")).Return([]string{"builder-debian"}, nil).Once()
	p.On("Checklist", list("Builder Plugins Selection")).Return([]string{"builder-rpm", "builder-debian"}, nil).Once()
	p.On("YesNo", yesno("Get sources")).Return(false, nil).Twice()
	p.On("MsgBox", "Builder Plugin Conflict",
		"builder-debian is selected to be installed but\n"+
			"builder-rpm is not enabled! Either enable builder-rpm or disable builder-debian.\n\n",
	).Return(nil).Once()

	require.NoError(t, h.wizard.setBuilders(context.Background()))
	p.AssertExpectations(t)
	assert.Equal(t, []string{"builder-rpm", "builder-debian"}, h.store.BuildersSelected())

	conf := h.env.ReadFile(h.env.Paths.BuilderConfPath())
	assert.Contains(t, conf, "  BUILDER_PLUGINS += builder-rpm\n  BUILDER_PLUGINS += builder-debian\n")
}

func TestSetBuilders_SoftConflictAccepted(t *testing.T) {
	h := newHarness(t, false)
	p := h.prompter
	p.On("Checklist", list("Builder Plugins Selection")).Return([]string{}, nil).Once()
	p.On("YesNo", yesno("Get sources")).Return(false, nil).Once()
	p.On("YesNo", mock.MatchedBy(func(req types.YesNoRequest) bool {
		return req.Title == "Builder Plugin Warning" && !req.Default &&
			strings.HasPrefix(req.Text, "fc30 are selected to be installed but\nbuilder-rpm is not enabled!")
	})).Return(true, nil).Once()

	require.NoError(t, h.wizard.setBuilders(context.Background()))
	p.AssertExpectations(t)
	assert.Empty(t, h.store.BuildersSelected())
}

func TestSetBuilders_SoftConflictDeclined(t *testing.T) {
	h := newHarness(t, false)
	p := h.prompter
	p.On("Checklist", list("Builder Plugins Selection")).Return([]string{}, nil).Once()
	p.On("Checklist", list("Builder Plugins Selection")).Return([]string{"builder-rpm"}, nil).Once()
	p.On("YesNo", yesno("Get sources")).Return(false, nil).Twice()
	p.On("YesNo", yesno("Builder Plugin Warning")).Return(false, nil).Once()

	require.NoError(t, h.wizard.setBuilders(context.Background()))
	p.AssertExpectations(t)
	assert.Equal(t, []string{"builder-rpm"}, h.store.BuildersSelected())
}

func TestSetBuilders_KeyRequirementAndSources(t *testing.T) {
	h := newHarness(t, true)
	var streamed []string
	h.env.Tool.StreamFunc = func(_ context.Context, target string, env map[string]string, _ io.Writer) error {
		streamed = append(streamed, target)
		assert.Equal(t, "", env["red"])
		return nil
	}

	p := h.prompter
	p.On("Checklist", mock.MatchedBy(func(req types.ListRequest) bool {
		_, ok := choice(req.Choices, "builder-dev")
		return req.Title == "Builder Plugins Selection" && ok
	})).Return([]string{"builder-rpm", "builder-dev"}, nil).Once()
	p.On("YesNo", yesno("Get sources")).Return(true, nil).Once()

	require.NoError(t, h.wizard.setBuilders(context.Background()))
	p.AssertExpectations(t)

	require.Len(t, h.keys.calls, 1)
	require.Len(t, h.keys.calls[0], 1)
	assert.Equal(t, "0x23456789", h.keys.calls[0][0].ID)
	assert.Equal(t, "fpr:::::::::ABCDEF0123456789:", h.keys.calls[0][0].Verify)
	assert.Equal(t, "The BUILDER_PLUGIN builder-dev requires a third party key.", h.keys.messages[0])
	assert.Equal(t, []string{GetSourcesTarget}, streamed)
}

func TestSetBuilders_KeyDeclinedAborts(t *testing.T) {
	h := newHarness(t, true)
	h.keys.err = errors.New(errors.ErrUserAbort, "exiting setup since keys can not be installed")
	h.prompter.On("Checklist", list("Builder Plugins Selection")).Return([]string{"builder-rpm", "builder-dev"}, nil).Once()

	err := h.wizard.setBuilders(context.Background())
	assert.True(t, errors.IsAbort(err))
	// nothing was written for the rejected selection
	assert.NotContains(t, h.env.ReadFile(h.env.Paths.BuilderConfPath()), "builder-dev")
}

func TestBuilderChoices(t *testing.T) {
	h := newHarness(t, false)

	choices := h.wizard.builderChoices()
	require.Len(t, choices, 2)

	rpm, _ := choice(choices, "builder-rpm")
	assert.True(t, rpm.Selected)
	assert.Equal(t, "For: fc30", rpm.Item)
	assert.Equal(t, "RPM builder", rpm.Help)

	debian, _ := choice(choices, "builder-debian")
	assert.False(t, debian.Selected)
	assert.Equal(t, "Requires: builder-rpm", debian.Item)

	_, dev := choice(choices, "builder-dev")
	assert.False(t, dev)

	h.wizard.opts.Development = true
	_, dev = choice(h.wizard.builderChoices(), "builder-dev")
	assert.True(t, dev)
}

func TestAnnotation(t *testing.T) {
	b := func(reqs ...string) types.BuilderPlugin { return types.BuilderPlugin{ID: "x", Require: reqs} }

	assert.Equal(t, "Requires: a! b", annotation(b("a", "b"), []string{"b"}, nil, nil, nil))
	assert.Equal(t, "For: fc30! dom0", annotation(b(), nil, []string{"fc30", "dom0"}, []string{"fc30"}, nil))
	assert.Equal(t, "Optional for: whonix", annotation(b(), nil, nil, nil, []string{"whonix"}))
	assert.Equal(t, "", annotation(b(), nil, nil, nil, nil))
}

func TestConflictTexts(t *testing.T) {
	requires := RequiresText(map[string][]string{"b": {"x", "y"}, "a": {"z"}})
	assert.True(t, strings.HasPrefix(requires, "a is selected"))
	assert.Contains(t, requires, "x y is not enabled! Either enable x y or disable b.")

	missing := MissingText(map[string][]string{"builder-rpm": {"fc30", "dom0"}})
	assert.Equal(t, "fc30 dom0 are selected to be installed but\n"+
		"builder-rpm is not enabled! Either enable builder-rpm or exit to re-pick VMs.\n\n", missing)
}

func TestSameSet(t *testing.T) {
	assert.True(t, sameSet([]string{"a", "b"}, []string{"b", "a"}))
	assert.True(t, sameSet(nil, []string{}))
	assert.False(t, sameSet([]string{"a"}, []string{"a", "b"}))
	assert.False(t, sameSet([]string{"a", "c"}, []string{"a", "b"}))
}
