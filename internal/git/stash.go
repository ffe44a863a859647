package git

import (
	"context"
	"fmt"
	"time"

	"github.com/thiagokokada/gitcmd/internal/git/args"
	"github.com/thiagokokada/gitcmd/internal/git/parse"
)

type StashListOptions struct {
	Timeout time.Duration
}

func (s *Service) ListStashes(ctx context.Context, opts StashListOptions) ([]parse.StashInfo, error) {
	o := newOptions(opts.Timeout).str("format", parse.StashFormat.Template())
	res, err := s.call(ctx, StashListCmd, nil, args.Options(o))
	if err != nil {
		return nil, err
	}
	stashes, err := parse.ParseStashes(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("list stashes: %w", err)
	}
	return stashes, nil
}
