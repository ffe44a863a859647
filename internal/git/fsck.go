package git

import (
	"context"
	"time"

	"github.com/thiagokokada/gitcmd/internal/git/args"
	"github.com/thiagokokada/gitcmd/internal/git/parse"
)

type FsckOptions struct {
	Unreachable bool
	Strict      bool
	Root        bool
	Tags        bool
	Full        bool
	// Dangling toggles --dangling/--no-dangling; nil keeps git's default.
	Dangling    *bool
	LostFound   bool
	NameObjects bool
	Objects     []string
	Timeout     time.Duration
}

type FsckResult struct {
	Objects []parse.FsckObject
	// ExitStatus is git's bitmask of error classes; 0 means no errors.
	ExitStatus int
}

func (r FsckResult) OfKind(kind parse.FsckKind) []parse.FsckObject {
	var out []parse.FsckObject
	for _, o := range r.Objects {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// Fsck checks the object database. Findings are read from both output
// streams since git prints dangling objects on stdout and errors on stderr.
func (s *Service) Fsck(ctx context.Context, opts FsckOptions) (FsckResult, error) {
	o := newOptions(opts.Timeout).
		flag("unreachable", opts.Unreachable).
		flag("strict", opts.Strict).
		flag("root", opts.Root).
		flag("tags", opts.Tags).
		flag("full", opts.Full).
		flag("lost_found", opts.LostFound).
		flag("name_objects", opts.NameObjects)
	if opts.Dangling != nil {
		o.set("dangling", *opts.Dangling)
	}
	res, err := s.call(ctx, FsckCmd, opts.Objects, args.Options(o))
	if err != nil {
		return FsckResult{}, err
	}
	objs := parse.ParseFsck(res.Stdout)
	objs = append(objs, parse.ParseFsck(res.Stderr)...)
	return FsckResult{Objects: objs, ExitStatus: res.ExitStatus}, nil
}
