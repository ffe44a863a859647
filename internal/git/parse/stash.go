package parse

import (
	"regexp"
	"strconv"
)

type StashInfo struct {
	Index    int       `json:"index"`
	Selector string    `json:"selector"` // stash@{0}
	OID      string    `json:"oid"`
	Author   Signature `json:"author"`
	Message  string    `json:"message"`
	// Branch is taken from the default "WIP on <b>:" or "On <b>:" messages and
	// is empty for custom messages.
	Branch string `json:"branch,omitempty"`
}

var StashFormat = Format{
	Name: "stash",
	Fields: []Field{
		{Name: "selector", Atom: "%gd"},
		{Name: "hash", Atom: "%H"},
		{Name: "authorname", Atom: "%an"},
		{Name: "authoremail", Atom: "%ae"},
		{Name: "authordate", Atom: "%aI"},
		{Name: "subject", Atom: "%gs"},
	},
	Delimiters:   DefaultDelimiters,
	Syntax:       PrettySyntax,
	TrailingText: true,
}

var (
	stashSelectorRe = regexp.MustCompile(`^stash@\{(\d+)\}$`)
	stashBranchRe   = regexp.MustCompile(`^(?:WIP on|On) ([^:]+):`)
)

// ParseStashes parses `git stash list --format=<StashFormat.Template()>` output.
func ParseStashes(output string) ([]StashInfo, error) {
	rows, err := StashFormat.Split(output)
	if err != nil {
		return nil, err
	}
	stashes := make([]StashInfo, 0, len(rows))
	for i, r := range rows {
		idx := i
		if m := stashSelectorRe.FindStringSubmatch(r[0]); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				idx = n
			}
		}
		when, err := StashFormat.date(r, 4, i, output)
		if err != nil {
			return nil, err
		}
		info := StashInfo{
			Index:    idx,
			Selector: r[0],
			OID:      r[1],
			Author:   Signature{Name: r[2], Email: r[3], When: when},
			Message:  r[5],
		}
		if m := stashBranchRe.FindStringSubmatch(r[5]); m != nil {
			info.Branch = m[1]
		}
		stashes = append(stashes, info)
	}
	return stashes, nil
}
