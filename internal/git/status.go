package git

import (
	"context"
	"fmt"
	"time"

	"github.com/thiagokokada/gitcmd/internal/git/args"
	"github.com/thiagokokada/gitcmd/internal/git/parse"
)

type StatusOptions struct {
	// UntrackedFiles is passed to --untracked-files (no, normal, all).
	UntrackedFiles string
	Pathspecs      []string
	Timeout        time.Duration
}

func (s *Service) LocalChanges(ctx context.Context, opts StatusOptions) (parse.LocalChanges, error) {
	o := newOptions(opts.Timeout).
		str("untracked_files", opts.UntrackedFiles).
		set("config", map[string]string{"core.quotePath": "false"})
	res, err := s.call(ctx, StatusCmd, opts.Pathspecs, args.Options(o))
	if err != nil {
		return parse.LocalChanges{}, err
	}
	changes, err := parse.ParseStatusPorcelainV2(res.Stdout)
	if err != nil {
		return changes, fmt.Errorf("parse git status: %w", err)
	}
	return changes, nil
}
