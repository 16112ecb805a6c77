// Package buildtool talks to the external build tool. Variables are read
// through the "get-var" target: the GET_VAR environment variable names the
// variable and the tool prints its value. Setting SETUP_MODE=1 for a single
// query makes the tool enumerate every possible value instead of the
// currently selected ones.
package buildtool

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/logging"
)

// Environment variables understood by the build tool
const (
	EnvGetVar      = "GET_VAR"
	EnvSetupMode   = "SETUP_MODE"
	EnvBuilderConf = "BUILDERCONF"
)

// GetVarTarget is the build-tool target printing one variable
const GetVarTarget = "get-var"

// Query describes one variable lookup
type Query struct {
	// Var is the build-tool variable to fetch
	Var string

	// AllValues switches the tool into enumerate-all mode for this query
	AllValues bool

	// ConfFile overrides the configuration file the tool reads
	ConfFile string
}

// Querier is the build-tool collaborator
type Querier interface {
	// GetVar returns the trimmed value of a build-tool variable
	GetVar(ctx context.Context, q Query) (string, error)

	// Output runs a target quietly and returns its standard output
	Output(ctx context.Context, target string, env map[string]string) (string, error)

	// Stream runs a target and copies its standard output to w
	Stream(ctx context.Context, target string, env map[string]string, w io.Writer) error
}

// Make runs the build tool as a subprocess in the builder directory
type Make struct {
	bin string
	dir string
}

// NewMake creates a Make querier. bin defaults to "make".
func NewMake(bin, dir string) *Make {
	if bin == "" {
		bin = "make"
	}
	return &Make{bin: bin, dir: dir}
}

// GetVar implements Querier
func (m *Make) GetVar(ctx context.Context, q Query) (string, error) {
	env := map[string]string{EnvGetVar: q.Var}
	if q.AllValues {
		env[EnvSetupMode] = "1"
	}
	if q.ConfFile != "" {
		env[EnvBuilderConf] = q.ConfFile
	}

	out, err := m.Output(ctx, GetVarTarget, env)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrToolExec, "failed to query build variable %s", q.Var).
			WithDetail("var", q.Var)
	}
	return strings.TrimSpace(out), nil
}

// Output implements Querier
func (m *Make) Output(ctx context.Context, target string, env map[string]string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := m.command(ctx, target, env)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, errors.ErrToolExec, "%s %s failed", m.bin, target).
			WithDetail("stderr", strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Stream implements Querier
func (m *Make) Stream(ctx context.Context, target string, env map[string]string, w io.Writer) error {
	cmd := m.command(ctx, target, env)
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrToolExec, "%s %s failed", m.bin, target)
	}
	return nil
}

func (m *Make) command(ctx context.Context, target string, env map[string]string) *exec.Cmd {
	args := []string{"--always-make", "--quiet", target}
	logging.LogCommand(m.bin, args)

	cmd := exec.CommandContext(ctx, m.bin, args...)
	cmd.Dir = m.dir
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	return cmd
}

// Pairs parses "a:b c:d" into a map and its reverse
func Pairs(value string) (forward, reverse map[string]string) {
	forward = make(map[string]string)
	reverse = make(map[string]string)
	for _, item := range strings.Fields(value) {
		key, val, ok := strings.Cut(item, ":")
		if !ok {
			continue
		}
		forward[key] = val
		reverse[val] = key
	}
	return forward, reverse
}
