package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/thiagokokada/gitcmd/internal/buildinfo"
	"github.com/thiagokokada/gitcmd/internal/config"
	"github.com/thiagokokada/gitcmd/internal/git"
	"github.com/thiagokokada/gitcmd/internal/git/backend"
)

// errPartialFailure makes the process exit non-zero once the per-name report
// has been printed.
var errPartialFailure = errors.New("some operations failed")

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	a.interactive = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	return a.run(ctx, os.Args[1:])
}

type app struct {
	repo       string
	configPath string
	verbose    bool
	jsonOut    bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg *config.Config
	svc *git.Service

	open        func(ctx context.Context, repo string, cfg *config.Config) (*git.Service, error)
	version     func(ctx context.Context, cfg *config.Config) (string, error)
	interactive func() bool
	confirm     func(title string, names []string) (bool, error)
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
		open:        openService,
		version:     gitVersion,
		interactive: func() bool { return false },
		confirm:     confirmDelete,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	err := root.ExecuteContext(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gitcmd",
		Short:         "Inspect and clean up git repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVarP(&a.repo, "repo", "C", ".", "path inside the repository")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "configuration file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		a.tagsCmd(),
		a.branchesCmd(),
		a.stashesCmd(),
		a.fsckCmd(),
		a.refsCmd(),
		a.logCmd(),
		a.statusCmd(),
		a.versionCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	slog.SetDefault(cfg.NewLogger(a.stderr, a.verbose))
	slog.Debug("config loaded", slog.String("path", cfg.Path()))
	return nil
}

func (a *app) service(ctx context.Context) (*git.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	svc, err := a.open(ctx, a.repo, a.cfg)
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

func cliOptions(cfg *config.Config) []backend.CLIOption {
	return []backend.CLIOption{
		backend.WithBinary(cfg.GitBinary),
		backend.WithDefaultTimeout(cfg.CommandTimeout()),
		backend.WithEnv(cfg.Environ()...),
	}
}

func openService(ctx context.Context, repo string, cfg *config.Config) (*git.Service, error) {
	return git.Open(ctx, repo, git.WithCLIOptions(cliOptions(cfg)...))
}

func gitVersion(ctx context.Context, cfg *config.Config) (string, error) {
	cli, err := backend.NewCLI(".", cliOptions(cfg)...)
	if err != nil {
		return "", err
	}
	return cli.Version(ctx)
}

func (a *app) tagsCmd() *cobra.Command {
	var opts git.TagListOptions
	cmd := &cobra.Command{
		Use:   "tags [pattern...]",
		Args:  cobra.ArbitraryArgs,
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			opts.Patterns = args
			tags, err := svc.ListTags(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.print(tags, func(w io.Writer) { writeTags(w, tags) })
		},
	}
	cmd.Flags().StringSliceVar(&opts.Sort, "sort", nil, "sort keys, e.g. -creatordate")
	cmd.Flags().StringVar(&opts.Contains, "contains", "", "only tags containing this commit")
	cmd.Flags().StringVar(&opts.PointsAt, "points-at", "", "only tags pointing at this object")
	cmd.Flags().StringVar(&opts.Merged, "merged", "", "only tags reachable from this commit")
	cmd.Flags().StringVar(&opts.NoMerged, "no-merged", "", "only tags not reachable from this commit")
	cmd.AddCommand(a.tagsDeleteCmd())
	return cmd
}

func (a *app) branchesCmd() *cobra.Command {
	var opts git.BranchListOptions
	cmd := &cobra.Command{
		Use:   "branches [pattern...]",
		Args:  cobra.ArbitraryArgs,
		Short: "List branches",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			opts.Patterns = args
			branches, err := svc.ListBranches(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.print(branches, func(w io.Writer) { writeBranches(w, branches) })
		},
	}
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "list local and remote-tracking branches")
	cmd.Flags().BoolVarP(&opts.Remotes, "remotes", "r", false, "list remote-tracking branches")
	cmd.Flags().StringVar(&opts.Contains, "contains", "", "only branches containing this commit")
	cmd.Flags().StringVar(&opts.Merged, "merged", "", "only branches merged into this commit")
	cmd.Flags().StringVar(&opts.NoMerged, "no-merged", "", "only branches not merged into this commit")
	cmd.Flags().StringSliceVar(&opts.Sort, "sort", nil, "sort keys, e.g. -committerdate")
	cmd.MarkFlagsMutuallyExclusive("all", "remotes")
	cmd.AddCommand(a.branchesDeleteCmd())
	return cmd
}

func (a *app) stashesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stashes",
		Short: "List stash entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			stashes, err := svc.ListStashes(cmd.Context(), git.StashListOptions{})
			if err != nil {
				return err
			}
			return a.print(stashes, func(w io.Writer) { writeStashes(w, stashes) })
		},
	}
}

func (a *app) fsckCmd() *cobra.Command {
	var opts git.FsckOptions
	var dangling bool
	cmd := &cobra.Command{
		Use:   "fsck [object...]",
		Short: "Verify the object database",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			opts.Objects = args
			if cmd.Flags().Changed("dangling") {
				opts.Dangling = &dangling
			}
			res, err := svc.Fsck(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := a.print(res, func(w io.Writer) { writeFsck(w, res.Objects) }); err != nil {
				return err
			}
			if res.ExitStatus != 0 {
				return fmt.Errorf("fsck reported problems (exit status %d)", res.ExitStatus)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Unreachable, "unreachable", false, "report unreachable objects")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "enable stricter checking")
	cmd.Flags().BoolVar(&opts.Root, "root", false, "report root nodes")
	cmd.Flags().BoolVar(&opts.Tags, "tags", false, "report tags")
	cmd.Flags().BoolVar(&opts.Full, "full", false, "check alternates and packs as well")
	cmd.Flags().BoolVar(&dangling, "dangling", true, "report dangling objects")
	cmd.Flags().BoolVar(&opts.NameObjects, "name-objects", false, "name objects by how they are reachable")
	return cmd
}

func (a *app) refsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs",
		Short: "List branches, remote branches and tags with their commits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			refs, err := svc.ListRefs(cmd.Context(), git.RefOptions{})
			if err != nil {
				return err
			}
			return a.print(refs, func(w io.Writer) { writeRefs(w, refs) })
		},
	}
}

func (a *app) logCmd() *cobra.Command {
	var opts git.LogOptions
	cmd := &cobra.Command{
		Use:   "log [revision...]",
		Short: "Show commits decorated with the refs pointing at them",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			opts.Revisions = args
			commits, err := svc.Log(cmd.Context(), opts)
			if err != nil {
				return err
			}
			labels, err := svc.RefLabels(cmd.Context(), git.RefOptions{})
			if err != nil {
				return err
			}
			return a.print(decorate(commits, labels), func(w io.Writer) { writeLog(w, commits, labels) })
		},
	}
	cmd.Flags().IntVarP(&opts.MaxCount, "max-count", "n", 20, "limit the number of commits")
	cmd.Flags().BoolVar(&opts.DateOrder, "date-order", false, "show commits in commit timestamp order")
	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	var opts git.StatusOptions
	cmd := &cobra.Command{
		Use:   "status [pathspec...]",
		Short: "Summarise local changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			opts.Pathspecs = args
			changes, err := svc.LocalChanges(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.print(changes, func(w io.Writer) { writeStatus(w, changes) })
		},
	}
	cmd.Flags().StringVar(&opts.UntrackedFiles, "untracked-files", "", "untracked file mode: no, normal or all")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{
				Build:         buildinfo.Read(),
				MinGitVersion: git.MinGitVersion(),
			}
			gv, err := a.version(cmd.Context(), a.cfg)
			if err != nil {
				slog.Warn("git version unavailable", slog.Any("error", err))
			}
			info.GitVersion = gv
			return a.print(info, func(w io.Writer) { writeVersion(w, info) })
		},
	}
}
