package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Minimum supported git version for the CLI runner. Keep this aligned with the
// format atoms and flags used across the project ("%(worktreepath)" in branch
// listings, "--end-of-options" before revisions and patterns).
var minGitVersion = semver.MustParse("2.24.0")

func MinGitVersion() string {
	return minGitVersion.String()
}

func parseGitVersionOutput(out string) (*semver.Version, bool) {
	s := strings.TrimSpace(out)
	if s == "" {
		return nil, false
	}
	// Common formats:
	// - "git version 2.44.0"
	// - "git version 2.39.3 (Apple Git-146)"
	// - "git version 2.39.3.windows.1"
	if idx := strings.Index(s, "git version"); idx >= 0 {
		s = strings.TrimSpace(s[idx+len("git version"):])
	}
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return nil, false
	}
	s = s[start:]
	// Keep only the leading numeric/dot portion (e.g. "2.39.3" from "2.39.3.windows.1").
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	parts := strings.Split(strings.Trim(s[:end], "."), ".")
	if len(parts) < 2 {
		return nil, false
	}
	if len(parts) > 3 {
		parts = parts[:3]
	}
	v, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil, false
	}
	return v, true
}

func validateGitVersionOutput(out string) error {
	got, ok := parseGitVersionOutput(out)
	if !ok {
		return fmt.Errorf("unable to parse git version output: %q", strings.TrimSpace(out))
	}
	c, err := semver.NewConstraint(">= " + minGitVersion.String())
	if err != nil {
		return err
	}
	if !c.Check(got) {
		return fmt.Errorf("git %s is too old; gitcmd requires git >= %s", got, minGitVersion)
	}
	return nil
}

type versionInfo struct {
	out string
	err error
}

// Version returns the raw `git --version` output. The result is computed once
// per runner.
func (c *CLI) Version(ctx context.Context) (string, error) {
	c.versionOnce.Do(func() {
		res, err := c.Command(ctx, []string{"--version"}, ExecOptions{RaiseOnFailure: true})
		if err != nil {
			c.version.err = fmt.Errorf("git --version: %w", err)
			return
		}
		c.version.out = strings.TrimSpace(res.Stdout)
	})
	return c.version.out, c.version.err
}

// EnsureMinVersion fails when the git executable is older than MinGitVersion.
func (c *CLI) EnsureMinVersion(ctx context.Context) error {
	out, err := c.Version(ctx)
	if err != nil {
		return err
	}
	return validateGitVersionOutput(out)
}
