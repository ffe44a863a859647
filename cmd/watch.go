package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitcmd/internal/git"
	"github.com/thiagokokada/gitcmd/internal/watch"
)

// renderers fetch and print one listing for watch mode.
func (a *app) renderers() map[string]func(ctx context.Context, svc *git.Service) error {
	return map[string]func(ctx context.Context, svc *git.Service) error{
		"tags": func(ctx context.Context, svc *git.Service) error {
			tags, err := svc.ListTags(ctx, git.TagListOptions{})
			if err != nil {
				return err
			}
			return a.print(tags, func(w io.Writer) { writeTags(w, tags) })
		},
		"branches": func(ctx context.Context, svc *git.Service) error {
			branches, err := svc.ListBranches(ctx, git.BranchListOptions{All: true})
			if err != nil {
				return err
			}
			return a.print(branches, func(w io.Writer) { writeBranches(w, branches) })
		},
		"stashes": func(ctx context.Context, svc *git.Service) error {
			stashes, err := svc.ListStashes(ctx, git.StashListOptions{})
			if err != nil {
				return err
			}
			return a.print(stashes, func(w io.Writer) { writeStashes(w, stashes) })
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "watch <tags|branches|stashes>",
		Short:     "Print a listing again whenever the repository's refs change",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"tags", "branches", "stashes"},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			render := a.renderers()[args[0]]
			return a.watchLoop(cmd.Context(), svc, render)
		},
	}
}

func (a *app) watchLoop(ctx context.Context, svc *git.Service, render func(context.Context, *git.Service) error) error {
	changed := make(chan struct{}, 1)
	w, err := watch.New(svc.GitDir(), a.cfg.WatchDebounce(), func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			slog.Error("watcher close", slog.Any("error", err))
		}
	}()

	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	if err := render(ctx, svc); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case <-changed:
			slog.Debug("refs changed, reloading")
			if !a.jsonOut {
				fmt.Fprintln(a.stdout)
			}
			if err := render(ctx, svc); err != nil {
				slog.Error("reload failed", slog.Any("error", err))
			}
		}
	}
}
