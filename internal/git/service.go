// Package git exposes repository operations built from frozen argument schemas
// and executed through a backend.Runner.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/thiagokokada/gitcmd/internal/git/args"
	"github.com/thiagokokada/gitcmd/internal/git/backend"
	"github.com/thiagokokada/gitcmd/internal/git/command"
)

type Service struct {
	runner backend.Runner
	path   string
	gitDir string
}

type openConfig struct {
	cliOpts          []backend.CLIOption
	skipVersionCheck bool
}

type OpenOption func(*openConfig)

// WithCLIOptions configures the git executable runner created by Open.
func WithCLIOptions(opts ...backend.CLIOption) OpenOption {
	return func(c *openConfig) { c.cliOpts = append(c.cliOpts, opts...) }
}

// WithoutVersionCheck skips the minimum git version gate.
func WithoutVersionCheck() OpenOption {
	return func(c *openConfig) { c.skipVersionCheck = true }
}

// Open finds the repository containing repoPath and runs git at its worktree
// root.
func Open(ctx context.Context, repoPath string, opts ...OpenOption) (*Service, error) {
	var cfg openConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	root := abs
	wt, err := repo.Worktree()
	switch {
	case err == nil:
		root = wt.Filesystem.Root()
	case errors.Is(err, gitlib.ErrIsBareRepository):
	default:
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	gitDir := root
	if st, ok := repo.Storer.(*filesystem.Storage); ok {
		gitDir = st.Filesystem().Root()
	}

	cli, err := backend.NewCLI(root, cfg.cliOpts...)
	if err != nil {
		return nil, err
	}
	if !cfg.skipVersionCheck {
		if err := cli.EnsureMinVersion(ctx); err != nil {
			return nil, err
		}
	}
	slog.Debug("repository opened", slog.String("root", root), slog.String("git_dir", gitDir))
	return &Service{runner: cli, path: root, gitDir: gitDir}, nil
}

// NewWithRunner builds a Service around an existing runner.
func NewWithRunner(runner backend.Runner, repoPath string) *Service {
	return &Service{runner: runner, path: repoPath, gitDir: filepath.Join(repoPath, ".git")}
}

func (s *Service) RepoPath() string {
	return s.path
}

// GitDir is the repository's git directory, e.g. <root>/.git.
func (s *Service) GitDir() string {
	return s.gitDir
}

// Raw runs def with the service's runner and returns the unprocessed result.
func (s *Service) Raw(ctx context.Context, def *command.Definition, positional []string, opts args.Options) (*backend.Result, error) {
	return s.call(ctx, def, positional, opts)
}

func (s *Service) call(ctx context.Context, def *command.Definition, positional []string, opts args.Options) (*backend.Result, error) {
	if s == nil || s.runner == nil {
		return nil, fmt.Errorf("repository not initialized")
	}
	return command.New(s.runner, def).Call(ctx, positional, opts)
}

// options collects the non-empty option values of one call.
type options args.Options

func newOptions(timeout time.Duration) options {
	o := options{}
	if timeout > 0 {
		o["timeout"] = timeout
	}
	return o
}

func (o options) str(key, v string) options {
	if v != "" {
		o[key] = v
	}
	return o
}

func (o options) list(key string, v []string) options {
	if len(v) > 0 {
		o[key] = v
	}
	return o
}

func (o options) flag(key string, v bool) options {
	if v {
		o[key] = true
	}
	return o
}

func (o options) set(key string, v any) options {
	o[key] = v
	return o
}
