package parse

import (
	"bufio"
	"strings"
)

type LocalChanges struct {
	HasWorktree  bool `json:"worktree"`
	HasStaged    bool `json:"staged"`
	HasUntracked bool `json:"untracked"`
	HasConflicts bool `json:"conflicts"`
}

func (c LocalChanges) Clean() bool {
	return !c.HasWorktree && !c.HasStaged && !c.HasUntracked && !c.HasConflicts
}

// ParseStatusPorcelainV2 summarises `git status --porcelain=v2` output.
func ParseStatusPorcelainV2(output string) (LocalChanges, error) {
	var res LocalChanges
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 2 {
			continue
		}
		switch line[0] {
		case '1', '2', 'u':
			if len(line) < 4 {
				continue
			}
			if line[0] == 'u' {
				res.HasConflicts = true
			}
			if line[2] != '.' {
				res.HasStaged = true
			}
			if line[3] != '.' && line[3] != '?' {
				res.HasWorktree = true
			}
		case '?':
			res.HasUntracked = true
		default:
			// '#' headers, '!' ignored.
		}
	}
	return res, scanner.Err()
}
