package git

import (
	"github.com/thiagokokada/gitcmd/internal/git/args"
	"github.com/thiagokokada/gitcmd/internal/git/command"
)

// Global -c overrides go before the subcommand.
var configDecl = args.KeyValue("config", "-c", args.Leading())

var (
	TagListCmd = command.MustDefine("for-each-ref", args.MustDefine(
		args.Literal("for-each-ref"),
		args.Value("format", "--format", args.Inline()),
		args.Value("sort", "--sort", args.Inline(), args.Repeatable()),
		args.Value("contains", "--contains"),
		args.Value("points_at", "--points-at", args.Alias("points-at")),
		args.Value("merged", "--merged"),
		args.Value("no_merged", "--no-merged", args.Alias("no-merged")),
		args.Exec("timeout"),
		args.Operand("pattern", args.Repeatable()),
		args.Conflicts("merged", "no_merged"),
	))

	TagDeleteCmd = command.MustDefine("tag --delete", args.MustDefine(
		args.Literal("tag"),
		args.Literal("--delete"),
		args.Exec("timeout"),
		args.Operand("tagname", args.Required(), args.Repeatable(), args.AfterSeparator("--")),
	), command.AllowExitStatus(0, 1))

	BranchListCmd = command.MustDefine("branch --list", args.MustDefine(
		args.Literal("branch"),
		args.Literal("--list"),
		args.Value("format", "--format", args.Inline()),
		args.Flag("all", "--all"),
		args.Flag("remotes", "--remotes"),
		args.Value("contains", "--contains"),
		args.Value("merged", "--merged"),
		args.Value("no_merged", "--no-merged", args.Alias("no-merged")),
		args.Value("sort", "--sort", args.Inline(), args.Repeatable()),
		args.Exec("timeout"),
		args.Operand("pattern", args.Repeatable(), args.EndOfOptions()),
		args.Conflicts("all", "remotes"),
		args.Conflicts("merged", "no_merged"),
	))

	BranchDeleteCmd = command.MustDefine("branch --delete", args.MustDefine(
		args.Literal("branch"),
		args.Literal("--delete"),
		args.Flag("force", "--force"),
		args.Flag("remotes", "--remotes"),
		args.Exec("timeout"),
		args.Operand("branchname", args.Required(), args.Repeatable(), args.AfterSeparator("--")),
	), command.AllowExitStatus(0, 1))

	StashListCmd = command.MustDefine("stash list", args.MustDefine(
		args.Literal("stash"),
		args.Literal("list"),
		args.Value("format", "--format", args.Inline()),
		args.Exec("timeout"),
	))

	// fsck reports problems as a bitmask of exit statuses 1 to 7.
	FsckCmd = command.MustDefine("fsck", args.MustDefine(
		args.Literal("fsck"),
		args.Literal("--no-progress"),
		args.Flag("unreachable", "--unreachable"),
		args.Flag("strict", "--strict"),
		args.Flag("root", "--root"),
		args.Flag("tags", "--tags"),
		args.Flag("full", "--full"),
		args.Flag("connectivity_only", "--connectivity-only"),
		args.Bool("dangling", "--dangling", args.Negatable()),
		args.Flag("lost_found", "--lost-found"),
		args.Flag("name_objects", "--name-objects"),
		args.Exec("timeout"),
		args.Operand("object", args.Repeatable(), args.EndOfOptions()),
		args.Conflicts("full", "connectivity_only"),
	), command.AllowExitStatus(0, 7))

	// show-ref exits 1 when there are no refs at all.
	ShowRefCmd = command.MustDefine("show-ref", args.MustDefine(
		args.Literal("show-ref"),
		args.Literal("--dereference"),
		args.Exec("timeout"),
	), command.AllowExitStatus(0, 1))

	RevParseVerifyCmd = command.MustDefine("rev-parse", args.MustDefine(
		args.Literal("rev-parse"),
		args.Flag("quiet", "-q"),
		args.Literal("--verify"),
		args.Exec("timeout"),
		args.Operand("rev", args.Required()),
	), command.AllowExitStatus(0, 1))

	SymbolicRefCmd = command.MustDefine("symbolic-ref", args.MustDefine(
		args.Literal("symbolic-ref"),
		args.Flag("quiet", "-q"),
		args.Flag("short", "--short"),
		args.Exec("timeout"),
		args.Operand("name", args.Required()),
	), command.AllowExitStatus(0, 1))

	StatusCmd = command.MustDefine("status", args.MustDefine(
		configDecl,
		args.Literal("status"),
		args.Literal("--porcelain=v2"),
		args.Value("untracked_files", "--untracked-files", args.Inline()),
		args.Flag("ignored", "--ignored"),
		args.Exec("timeout"),
		args.Operand("pathspec", args.Repeatable(), args.AfterSeparator("--")),
	))

	LogCmd = command.MustDefine("log", args.MustDefine(
		args.Literal("log"),
		args.Literal("--no-color"),
		args.Literal("--no-decorate"),
		args.Value("pretty", "--pretty", args.Inline()),
		args.Value("max_count", "--max-count", args.Inline(), args.Alias("n")),
		args.Flag("date_order", "--date-order"),
		args.Exec("timeout"),
		args.Operand("revision", args.Repeatable(), args.EndOfOptions()),
		configDecl,
	))
)
