package git

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/thiagokokada/gitcmd/internal/git/args"
	"github.com/thiagokokada/gitcmd/internal/git/backend"
	"github.com/thiagokokada/gitcmd/internal/git/batch"
	"github.com/thiagokokada/gitcmd/internal/git/parse"
)

type BranchListOptions struct {
	All      bool
	Remotes  bool
	Contains string
	Merged   string
	NoMerged string
	Sort     []string
	Patterns []string
	Timeout  time.Duration
}

func (s *Service) ListBranches(ctx context.Context, opts BranchListOptions) ([]parse.BranchInfo, error) {
	o := newOptions(opts.Timeout).
		str("format", parse.BranchFormat.Template()).
		flag("all", opts.All).
		flag("remotes", opts.Remotes).
		str("contains", opts.Contains).
		str("merged", opts.Merged).
		str("no_merged", opts.NoMerged).
		list("sort", opts.Sort)
	res, err := s.call(ctx, BranchListCmd, opts.Patterns, args.Options(o))
	if err != nil {
		return nil, err
	}
	branches, err := parse.ParseBranches(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

type BranchDeleteOptions struct {
	Force bool
	// Remotes deletes remote-tracking branches such as origin/topic.
	Remotes bool
	Timeout time.Duration
}

// DeleteBranches deletes every named branch it can. Missing, unmerged or
// checked out branches end up in the failed bucket with git's message.
func (s *Service) DeleteBranches(ctx context.Context, opts BranchDeleteOptions, names ...string) (batch.Result[parse.BranchInfo], error) {
	op := batch.Op[parse.BranchInfo]{
		Name: "delete branches",
		Snapshot: func(ctx context.Context, names []string) (map[string]parse.BranchInfo, error) {
			if len(names) == 0 {
				return nil, nil
			}
			branches, err := s.ListBranches(ctx, BranchListOptions{
				Remotes:  opts.Remotes,
				Patterns: names,
				Timeout:  opts.Timeout,
			})
			if err != nil {
				return nil, err
			}
			byName := make(map[string]parse.BranchInfo, len(branches))
			for _, b := range branches {
				byName[deleteKey(b)] = b
			}
			return byName, nil
		},
		Execute: func(ctx context.Context, names []string) (*backend.Result, error) {
			o := newOptions(opts.Timeout).
				flag("force", opts.Force).
				flag("remotes", opts.Remotes)
			return s.call(ctx, BranchDeleteCmd, names, args.Options(o))
		},
		PartialFailureExit: 1,
		ParseSucceeded: func(stdout string) []string {
			return parse.ParseDeleted(parse.DeletedBranchPattern, stdout)
		},
		ParseFailed: parse.ParseErrorLines,
		Options: batch.Options[parse.BranchInfo]{
			Placeholder: func(name string) parse.BranchInfo {
				return parse.BranchInfo{Name: name, Remote: opts.Remotes}
			},
			DefaultMessage: func(name string) string {
				return fmt.Sprintf("branch '%s' was not deleted", name)
			},
		},
	}
	return op.Run(ctx, names)
}

// deleteKey is the name `git branch --delete` uses for a branch: origin/topic
// rather than remotes/origin/topic.
func deleteKey(b parse.BranchInfo) string {
	if b.Remote {
		return plumbing.ReferenceName(b.Ref).Short()
	}
	return b.Name
}
