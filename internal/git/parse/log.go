package parse

import "strings"

type Commit struct {
	Hash         string    `json:"hash"`
	ParentHashes []string  `json:"parents"`
	Author       Signature `json:"author"`
	Committer    Signature `json:"committer"`
	Message      string    `json:"message"`
}

// LogFormat uses NUL-terminated records; a commit message cannot contain NUL.
var LogFormat = Format{
	Name: "log",
	Fields: []Field{
		{Name: "hash", Atom: "%H"},
		{Name: "parents", Atom: "%P"},
		{Name: "authorname", Atom: "%an"},
		{Name: "authoremail", Atom: "%ae"},
		{Name: "authordate", Atom: "%aI"},
		{Name: "committername", Atom: "%cn"},
		{Name: "committeremail", Atom: "%ce"},
		{Name: "committerdate", Atom: "%cI"},
		{Name: "body", Atom: "%B"},
	},
	Delimiters:   Delimiters{Field: "\n", Record: "\x00"},
	Syntax:       PrettySyntax,
	TrailingText: true,
}

// ParseLog parses `git log --pretty=tformat:<LogFormat.Template()>` output.
func ParseLog(output string) ([]Commit, error) {
	rows, err := LogFormat.Split(output)
	if err != nil {
		return nil, err
	}
	commits := make([]Commit, 0, len(rows))
	for i, r := range rows {
		hash := strings.TrimSpace(r[0])
		if hash == "" {
			return nil, &ParseError{Format: LogFormat.Name, Expected: len(r), Actual: len(r), Record: strings.Join(r, "\n"), Index: i, Output: output}
		}
		authorWhen, err := LogFormat.date(r, 4, i, output)
		if err != nil {
			return nil, err
		}
		committerWhen, err := LogFormat.date(r, 7, i, output)
		if err != nil {
			return nil, err
		}
		var parents []string
		if parentLine := strings.TrimSpace(r[1]); parentLine != "" {
			parents = strings.Fields(parentLine)
		}
		commits = append(commits, Commit{
			Hash:         hash,
			ParentHashes: parents,
			Author:       Signature{Name: r[2], Email: r[3], When: authorWhen},
			Committer:    Signature{Name: r[5], Email: r[6], When: committerWhen},
			Message:      r[8],
		})
	}
	return commits, nil
}
