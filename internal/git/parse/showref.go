package parse

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

type RefKind uint8

const (
	RefKindBranch RefKind = iota
	RefKindRemoteBranch
	RefKindTag
)

func (k RefKind) String() string {
	switch k {
	case RefKindBranch:
		return "branch"
	case RefKindRemoteBranch:
		return "remote"
	case RefKindTag:
		return "tag"
	default:
		return "unknown"
	}
}

func (k RefKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Ref struct {
	Hash string  `json:"hash"` // peeled commit for annotated tags
	Kind RefKind `json:"kind"`
	Name string  `json:"name"` // short name: main, origin/main, v1
}

// ParseShowRef parses `git show-ref --dereference` output. Peeled "^{}" lines
// replace the hash of their tag; refs outside heads, remotes and tags are
// skipped.
func ParseShowRef(output string) ([]Ref, error) {
	type refEntry struct {
		hash string
		ref  plumbing.ReferenceName
	}

	peeledByTagRef := map[plumbing.ReferenceName]string{}
	var entries []refEntry

	for i, rawLine := range strings.Split(output, "\n") {
		line := strings.TrimRight(rawLine, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, &ParseError{Format: "show-ref", Expected: 2, Actual: len(parts), Record: rawLine, Index: i, Output: output}
		}
		hash, name := parts[0], parts[1]
		if base, ok := strings.CutSuffix(name, "^{}"); ok {
			if base != "" {
				peeledByTagRef[plumbing.ReferenceName(base)] = hash
			}
			continue
		}
		entries = append(entries, refEntry{hash: hash, ref: plumbing.ReferenceName(name)})
	}

	var refs []Ref
	for _, entry := range entries {
		short := entry.ref.Short()
		switch {
		case entry.ref.IsTag():
			hash := entry.hash
			if peeled := peeledByTagRef[entry.ref]; peeled != "" {
				hash = peeled
			}
			refs = append(refs, Ref{Hash: hash, Kind: RefKindTag, Name: short})
		case entry.ref.IsBranch():
			refs = append(refs, Ref{Hash: entry.hash, Kind: RefKindBranch, Name: short})
		case entry.ref.IsRemote():
			refs = append(refs, Ref{Hash: entry.hash, Kind: RefKindRemoteBranch, Name: short})
		}
	}
	return refs, nil
}
