package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitcmd/internal/git"
	"github.com/thiagokokada/gitcmd/internal/git/batch"
)

var errNotConfirmed = errors.New("refusing to delete without confirmation; pass --yes")

func confirmDelete(title string, names []string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(strings.Join(names, "\n")).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	return ok, nil
}

// approve asks before deleting. Without a terminal only --yes proceeds.
func (a *app) approve(yes bool, what string, names []string) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.interactive() {
		return false, errNotConfirmed
	}
	return a.confirm(fmt.Sprintf("Delete %d %s?", len(names), what), names)
}

func (a *app) tagsDeleteCmd() *cobra.Command {
	var opts git.TagDeleteOptions
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete tags, reporting each name separately",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := a.approve(yes, "tags", args)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(a.stderr, "Aborted")
				return nil
			}
			res, err := svc.DeleteTags(cmd.Context(), opts, args...)
			if err != nil {
				return err
			}
			return a.report(res.Failed, res, func(w io.Writer) {
				for _, t := range res.Succeeded {
					fmt.Fprintf(w, "Deleted tag %s\n", t.Name)
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) branchesDeleteCmd() *cobra.Command {
	var opts git.BranchDeleteOptions
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete branches, reporting each name separately",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			what := "branches"
			if opts.Remotes {
				what = "remote-tracking branches"
			}
			ok, err := a.approve(yes, what, args)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(a.stderr, "Aborted")
				return nil
			}
			res, err := svc.DeleteBranches(cmd.Context(), opts, args...)
			if err != nil {
				return err
			}
			return a.report(res.Failed, res, func(w io.Writer) {
				for _, b := range res.Succeeded {
					fmt.Fprintf(w, "Deleted branch %s\n", b.Name)
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "delete branches that are not fully merged")
	cmd.Flags().BoolVarP(&opts.Remotes, "remotes", "r", false, "delete remote-tracking branches")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// report prints the successes and returns errPartialFailure after listing
// every failure on stderr.
func (a *app) report(failed []batch.Failure, v any, text func(io.Writer)) error {
	if err := a.print(v, text); err != nil {
		return err
	}
	if len(failed) == 0 {
		return nil
	}
	if !a.jsonOut {
		for _, f := range failed {
			fmt.Fprintf(a.stderr, "error: %s: %s\n", f.Name, f.Message)
		}
	}
	return errPartialFailure
}
