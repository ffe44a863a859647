package git

import (
	"context"
	"fmt"
	"time"

	"github.com/thiagokokada/gitcmd/internal/git/args"
	"github.com/thiagokokada/gitcmd/internal/git/backend"
	"github.com/thiagokokada/gitcmd/internal/git/batch"
	"github.com/thiagokokada/gitcmd/internal/git/parse"
)

type TagListOptions struct {
	// Patterns are matched against tag names; empty lists every tag.
	Patterns []string
	Sort     []string
	Contains string
	PointsAt string
	Merged   string
	NoMerged string
	Timeout  time.Duration
}

func (s *Service) ListTags(ctx context.Context, opts TagListOptions) ([]parse.TagInfo, error) {
	patterns := []string{"refs/tags"}
	if len(opts.Patterns) > 0 {
		patterns = patterns[:0]
		for _, p := range opts.Patterns {
			patterns = append(patterns, "refs/tags/"+p)
		}
	}
	o := newOptions(opts.Timeout).
		str("format", parse.TagFormat.Template()).
		list("sort", opts.Sort).
		str("contains", opts.Contains).
		str("points_at", opts.PointsAt).
		str("merged", opts.Merged).
		str("no_merged", opts.NoMerged)
	res, err := s.call(ctx, TagListCmd, patterns, args.Options(o))
	if err != nil {
		return nil, err
	}
	tags, err := parse.ParseTags(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

type TagDeleteOptions struct {
	Timeout time.Duration
}

// DeleteTags deletes every named tag it can. Tags that do not exist end up in
// the failed bucket; only unrelated git failures are returned as errors.
func (s *Service) DeleteTags(ctx context.Context, opts TagDeleteOptions, names ...string) (batch.Result[parse.TagInfo], error) {
	op := batch.Op[parse.TagInfo]{
		Name: "delete tags",
		Snapshot: func(ctx context.Context, names []string) (map[string]parse.TagInfo, error) {
			if len(names) == 0 {
				return nil, nil
			}
			tags, err := s.ListTags(ctx, TagListOptions{Patterns: names, Timeout: opts.Timeout})
			if err != nil {
				return nil, err
			}
			byName := make(map[string]parse.TagInfo, len(tags))
			for _, t := range tags {
				byName[t.Name] = t
			}
			return byName, nil
		},
		Execute: func(ctx context.Context, names []string) (*backend.Result, error) {
			return s.call(ctx, TagDeleteCmd, names, args.Options(newOptions(opts.Timeout)))
		},
		PartialFailureExit: 1,
		ParseSucceeded: func(stdout string) []string {
			return parse.ParseDeleted(parse.DeletedTagPattern, stdout)
		},
		ParseFailed: parse.ParseErrorLines,
		Options: batch.Options[parse.TagInfo]{
			Placeholder: func(name string) parse.TagInfo { return parse.TagInfo{Name: name} },
			DefaultMessage: func(name string) string {
				return fmt.Sprintf("tag '%s' was not deleted", name)
			},
		},
	}
	return op.Run(ctx, names)
}
