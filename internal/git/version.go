package git

import (
	"context"
	"fmt"

	"github.com/thiagokokada/gitcmd/internal/git/backend"
)

func MinGitVersion() string {
	return backend.MinGitVersion()
}

type versioner interface {
	Version(ctx context.Context) (string, error)
}

// GitVersion returns the `git --version` output of the underlying runner.
func (s *Service) GitVersion(ctx context.Context) (string, error) {
	v, ok := s.runner.(versioner)
	if !ok {
		return "", fmt.Errorf("runner %T does not report a git version", s.runner)
	}
	return v.Version(ctx)
}
