package git

import (
	"context"
	"fmt"
	"time"

	"github.com/thiagokokada/gitcmd/internal/git/args"
	"github.com/thiagokokada/gitcmd/internal/git/parse"
)

type LogOptions struct {
	// Revisions default to HEAD.
	Revisions []string
	MaxCount  int
	DateOrder bool
	Timeout   time.Duration
}

func (s *Service) Log(ctx context.Context, opts LogOptions) ([]parse.Commit, error) {
	revs := opts.Revisions
	if len(revs) == 0 {
		revs = []string{"HEAD"}
	}
	o := newOptions(opts.Timeout).
		str("pretty", "tformat:"+parse.LogFormat.Template()).
		flag("date_order", opts.DateOrder).
		set("config", map[string]string{"log.showSignature": "false"})
	if opts.MaxCount > 0 {
		o.set("max_count", opts.MaxCount)
	}
	res, err := s.call(ctx, LogCmd, revs, args.Options(o))
	if err != nil {
		return nil, err
	}
	commits, err := parse.ParseLog(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	return commits, nil
}
