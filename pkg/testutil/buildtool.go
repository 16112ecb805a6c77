package testutil

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/arthur-debert/buildsetup/pkg/buildtool"
	"github.com/arthur-debert/buildsetup/pkg/errors"
)

// FakeBuildTool answers build-tool queries from maps. Unknown variables
// return "". Override any behaviour through the Func fields.
type FakeBuildTool struct {
	Vars      map[string]string
	AllValues map[string]string
	Targets   map[string]string

	GetVarFunc func(ctx context.Context, q buildtool.Query) (string, error)
	StreamFunc func(ctx context.Context, target string, env map[string]string, w io.Writer) error

	mu      sync.Mutex
	queries []buildtool.Query
	runs    []string
}

// NewFakeBuildTool returns a fake loaded with DefaultBuildVars
func NewFakeBuildTool() *FakeBuildTool {
	f := &FakeBuildTool{
		Vars:      map[string]string{},
		AllValues: map[string]string{},
		Targets:   map[string]string{"about": "templates.conf\n"},
	}
	for k, v := range DefaultBuildVars {
		f.Vars[k] = v
	}
	for k, v := range DefaultAllValues {
		f.AllValues[k] = v
	}
	return f
}

// GetVar implements buildtool.Querier
func (f *FakeBuildTool) GetVar(ctx context.Context, q buildtool.Query) (string, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if f.GetVarFunc != nil {
		return f.GetVarFunc(ctx, q)
	}
	if q.AllValues {
		if v, ok := f.AllValues[q.Var]; ok {
			return v, nil
		}
	}
	return strings.TrimSpace(f.Vars[q.Var]), nil
}

// Output implements buildtool.Querier
func (f *FakeBuildTool) Output(ctx context.Context, target string, env map[string]string) (string, error) {
	f.record(target)
	out, ok := f.Targets[target]
	if !ok {
		return "", errors.Newf(errors.ErrToolExec, "no rule to make target %q", target)
	}
	return out, nil
}

// Stream implements buildtool.Querier
func (f *FakeBuildTool) Stream(ctx context.Context, target string, env map[string]string, w io.Writer) error {
	f.record(target)
	if f.StreamFunc != nil {
		return f.StreamFunc(ctx, target, env, w)
	}
	_, err := io.WriteString(w, f.Targets[target])
	return err
}

func (f *FakeBuildTool) record(target string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, target)
}

// Queries returns every variable query received so far
func (f *FakeBuildTool) Queries() []buildtool.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]buildtool.Query(nil), f.queries...)
}

// Runs returns every target run so far
func (f *FakeBuildTool) Runs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.runs...)
}
