package keys

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/logging"
)

// EnvGnupgHome selects the keyring gpg works on
const EnvGnupgHome = "GNUPGHOME"

// GPG runs gpg against a private keyring
type GPG struct {
	bin  string
	home string
}

// NewGPG creates a GPG key tool. bin defaults to "gpg".
func NewGPG(bin, home string) *GPG {
	if bin == "" {
		bin = "gpg"
	}
	return &GPG{bin: bin, home: home}
}

// IsPresent implements types.KeyTool
func (g *GPG) IsPresent(ctx context.Context, key string) bool {
	_, err := g.run(ctx, nil, "--list-key", key)
	return err == nil
}

// Fingerprints implements types.KeyTool
func (g *GPG) Fingerprints(ctx context.Context, key string) ([]string, error) {
	out, err := g.run(ctx, nil, "--with-colons", "--fingerprint", key)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "fpr:") {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// ImportFromServer implements types.KeyTool
func (g *GPG) ImportFromServer(ctx context.Context, key, server string) error {
	_, err := g.run(ctx, nil, "--keyserver", server, "--recv-keys", key)
	return err
}

// SetOwnerTrust implements types.KeyTool
func (g *GPG) SetOwnerTrust(ctx context.Context, key string, level int) error {
	stdin := strings.NewReader(fmt.Sprintf("%s:%d:\n", key, level))
	_, err := g.run(ctx, stdin, "--import-ownertrust")
	return err
}

// ImportFile implements types.KeyTool
func (g *GPG) ImportFile(ctx context.Context, path string) error {
	_, err := g.run(ctx, nil, "--import", path)
	return err
}

func (g *GPG) run(ctx context.Context, stdin *strings.Reader, args ...string) (string, error) {
	logging.LogCommand(g.bin, args)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.bin, args...)
	cmd.Env = append(os.Environ(), EnvGnupgHome+"="+g.home)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = stdin
	}

	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, errors.ErrToolExec, "%s %s failed", g.bin, strings.Join(args, " ")).
			WithDetail("stderr", strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
