package git

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thiagokokada/gitcmd/internal/git/args"
	"github.com/thiagokokada/gitcmd/internal/git/parse"
)

type RefOptions struct {
	Timeout time.Duration
}

// ListRefs returns branches, remote branches and tags. Annotated tags carry
// the hash of the commit they point at.
func (s *Service) ListRefs(ctx context.Context, opts RefOptions) ([]parse.Ref, error) {
	res, err := s.call(ctx, ShowRefCmd, nil, args.Options(newOptions(opts.Timeout)))
	if err != nil {
		return nil, err
	}
	refs, err := parse.ParseShowRef(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("show-ref: %w", err)
	}
	return refs, nil
}

// Head describes what HEAD resolves to. Name is "HEAD" when detached.
type Head struct {
	Hash string
	Name string
}

func (h Head) Detached() bool {
	return h.Name == "HEAD"
}

// HeadState resolves HEAD. ok is false in a repository without commits.
func (s *Service) HeadState(ctx context.Context, opts RefOptions) (head Head, ok bool, err error) {
	o := args.Options(newOptions(opts.Timeout).flag("quiet", true))
	res, err := s.call(ctx, RevParseVerifyCmd, []string{"HEAD"}, o)
	if err != nil {
		return Head{}, false, err
	}
	hash := strings.TrimSpace(res.Stdout)
	if res.ExitStatus != 0 || hash == "" {
		return Head{}, false, nil
	}

	o = args.Options(newOptions(opts.Timeout).flag("quiet", true).flag("short", true))
	res, err = s.call(ctx, SymbolicRefCmd, []string{"HEAD"}, o)
	if err != nil {
		return Head{}, false, err
	}
	name := strings.TrimSpace(res.Stdout)
	if res.ExitStatus != 0 || name == "" {
		name = "HEAD"
	}
	return Head{Hash: hash, Name: name}, true, nil
}

// RefLabels maps commit hashes to decoration labels such as "HEAD -> main",
// "origin/main" or "tag: v1".
func (s *Service) RefLabels(ctx context.Context, opts RefOptions) (map[string][]string, error) {
	labels := map[string][]string{}
	refs, err := s.ListRefs(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		if ref.Hash == "" || ref.Name == "" {
			continue
		}
		if ref.Kind == parse.RefKindRemoteBranch && strings.HasSuffix(ref.Name, "/HEAD") {
			continue
		}
		label := ref.Name
		if ref.Kind == parse.RefKindTag {
			label = fmt.Sprintf("tag: %s", ref.Name)
		}
		labels[ref.Hash] = append(labels[ref.Hash], label)
	}

	head, ok, err := s.HeadState(ctx, opts)
	if err != nil {
		return nil, err
	}
	if ok {
		label := "HEAD"
		if !head.Detached() {
			label = fmt.Sprintf("HEAD -> %s", head.Name)
		}
		labels[head.Hash] = append([]string{label}, labels[head.Hash]...)
	}
	return labels, nil
}
