package parse

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// BranchRef names another branch without resolving it.
type BranchRef struct {
	Name string `json:"name"`
}

type BranchInfo struct {
	Name     string `json:"name"` // main, remotes/origin/main
	Ref      string `json:"ref"`  // full ref path
	Remote   bool   `json:"remote"`
	Commit   string `json:"commit"`
	Current  bool   `json:"current"`
	Worktree string `json:"worktree,omitempty"`
	// CheckedOutElsewhere is set when another worktree has the branch checked out.
	CheckedOutElsewhere bool       `json:"checked_out_elsewhere"`
	Upstream            *BranchRef `json:"upstream,omitempty"`
}

var BranchFormat = Format{
	Name: "branch",
	Fields: []Field{
		{Name: "refname", Atom: "%(refname)"},
		{Name: "objectname", Atom: "%(objectname)"},
		{Name: "HEAD", Atom: "%(HEAD)"},
		{Name: "worktreepath", Atom: "%(worktreepath)"},
		{Name: "upstream", Atom: "%(upstream)"},
	},
	Delimiters: DefaultDelimiters,
	Syntax:     RefSyntax,
}

// ParseBranches parses `git branch --list --format=<BranchFormat.Template()>`
// output. Entries that are not refs, such as "(HEAD detached at 1a2b3c)", are
// dropped.
func ParseBranches(output string) ([]BranchInfo, error) {
	rows, err := BranchFormat.Split(output)
	if err != nil {
		return nil, err
	}
	branches := make([]BranchInfo, 0, len(rows))
	for _, r := range rows {
		if !strings.HasPrefix(r[0], "refs/") {
			continue
		}
		ref := plumbing.ReferenceName(r[0])
		current := strings.TrimSpace(r[2]) == "*"
		info := BranchInfo{
			Name:                BranchName(ref),
			Ref:                 r[0],
			Remote:              ref.IsRemote(),
			Commit:              r[1],
			Current:             current,
			Worktree:            r[3],
			CheckedOutElsewhere: r[3] != "" && !current,
		}
		if r[4] != "" {
			info.Upstream = &BranchRef{Name: BranchName(plumbing.ReferenceName(r[4]))}
		}
		branches = append(branches, info)
	}
	return branches, nil
}

// BranchName shortens a ref the way `git branch --all` prints it: local heads
// lose their prefix, other namespaces keep everything after "refs/".
func BranchName(ref plumbing.ReferenceName) string {
	if ref.IsBranch() {
		return strings.TrimPrefix(ref.String(), "refs/heads/")
	}
	return strings.TrimPrefix(ref.String(), "refs/")
}
