package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/thiagokokada/gitcmd/internal/buildinfo"
	"github.com/thiagokokada/gitcmd/internal/git/parse"
)

const shortHashLen = 10

type versionInfo struct {
	Build         buildinfo.Info `json:"build"`
	GitVersion    string         `json:"git_version,omitempty"`
	MinGitVersion string         `json:"min_git_version"`
}

type decoratedCommit struct {
	parse.Commit
	Refs []string `json:"refs,omitempty"`
}

func decorate(commits []parse.Commit, labels map[string][]string) []decoratedCommit {
	out := make([]decoratedCommit, 0, len(commits))
	for _, c := range commits {
		out = append(out, decoratedCommit{Commit: c, Refs: labels[c.Hash]})
	}
	return out
}

// print writes v as JSON with --json and through text otherwise.
func (a *app) print(v any, text func(io.Writer)) error {
	if a.jsonOut {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	text(tw)
	return tw.Flush()
}

func shortHash(h string) string {
	if len(h) > shortHashLen {
		return h[:shortHashLen]
	}
	return h
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func writeTags(w io.Writer, tags []parse.TagInfo) {
	for _, t := range tags {
		kind := "lightweight"
		if t.Annotated {
			kind = "annotated"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Name, shortHash(t.Target), kind, firstLine(t.Message))
	}
}

func writeBranches(w io.Writer, branches []parse.BranchInfo) {
	for _, b := range branches {
		marker := " "
		switch {
		case b.Current:
			marker = "*"
		case b.CheckedOutElsewhere:
			marker = "+"
		}
		upstream := ""
		if b.Upstream != nil {
			upstream = "[" + b.Upstream.Name + "]"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\n", marker, b.Name, shortHash(b.Commit), upstream)
	}
}

func writeStashes(w io.Writer, stashes []parse.StashInfo) {
	for _, s := range stashes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Selector, shortHash(s.OID), s.Message)
	}
}

func writeFsck(w io.Writer, objects []parse.FsckObject) {
	for _, o := range objects {
		detail := o.Name
		if o.Message != "" {
			detail = o.Message
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Kind, o.Type, o.OID, detail)
	}
}

func writeRefs(w io.Writer, refs []parse.Ref) {
	for _, r := range refs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Kind, r.Name, shortHash(r.Hash))
	}
}

func writeLog(w io.Writer, commits []parse.Commit, labels map[string][]string) {
	for _, c := range commits {
		decoration := ""
		if refs := labels[c.Hash]; len(refs) > 0 {
			decoration = " (" + strings.Join(refs, ", ") + ")"
		}
		fmt.Fprintf(w, "%s%s %s\n", shortHash(c.Hash), decoration, firstLine(c.Message))
	}
}

func writeStatus(w io.Writer, c parse.LocalChanges) {
	if c.Clean() {
		fmt.Fprintln(w, "clean")
		return
	}
	for _, row := range []struct {
		set   bool
		label string
	}{
		{c.HasStaged, "staged changes"},
		{c.HasWorktree, "unstaged changes"},
		{c.HasUntracked, "untracked files"},
		{c.HasConflicts, "unmerged paths"},
	} {
		if row.set {
			fmt.Fprintln(w, row.label)
		}
	}
}

func writeVersion(w io.Writer, v versionInfo) {
	fmt.Fprintf(w, "gitcmd\t%s\n", v.Build)
	gv := v.GitVersion
	if gv == "" {
		gv = "unavailable"
	}
	fmt.Fprintf(w, "git\t%s (minimum %s)\n", gv, v.MinGitVersion)
}
