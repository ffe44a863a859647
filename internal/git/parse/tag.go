package parse

import (
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"when"`
}

// TagInfo is one tag. Lightweight tags have an empty OID and Message and a
// nil Tagger.
type TagInfo struct {
	Name       string     `json:"name"`
	OID        string     `json:"oid,omitempty"` // tag object; empty for lightweight tags
	Target     string     `json:"target"`        // object the tag points at
	TargetType string     `json:"target_type"`
	Annotated  bool       `json:"annotated"`
	Tagger     *Signature `json:"tagger,omitempty"`
	Message    string     `json:"message,omitempty"`
}

var TagFormat = Format{
	Name: "tag",
	Fields: []Field{
		{Name: "refname", Atom: "%(refname)"},
		{Name: "objecttype", Atom: "%(objecttype)"},
		{Name: "objectname", Atom: "%(objectname)"},
		{Name: "*objectname", Atom: "%(*objectname)"},
		{Name: "*objecttype", Atom: "%(*objecttype)"},
		{Name: "taggername", Atom: "%(taggername)"},
		{Name: "taggeremail", Atom: "%(taggeremail)"},
		{Name: "taggerdate", Atom: "%(taggerdate:iso-strict)"},
		{Name: "contents", Atom: "%(contents)"},
	},
	Delimiters:   DefaultDelimiters,
	Syntax:       RefSyntax,
	TrailingText: true,
}

// ParseTags parses `git for-each-ref --format=<TagFormat.Template()>` output.
func ParseTags(output string) ([]TagInfo, error) {
	rows, err := TagFormat.Split(output)
	if err != nil {
		return nil, err
	}
	tags := make([]TagInfo, 0, len(rows))
	for i, r := range rows {
		tag, err := tagFromFields(r, i, output)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func tagFromFields(r []string, index int, output string) (TagInfo, error) {
	ref := plumbing.ReferenceName(r[0])
	name := r[0]
	if ref.IsTag() {
		name = ref.Short()
	}
	if r[1] != "tag" {
		return TagInfo{
			Name:       name,
			Target:     r[2],
			TargetType: r[1],
		}, nil
	}

	info := TagInfo{
		Name:       name,
		OID:        r[2],
		Target:     r[3],
		TargetType: r[4],
		Annotated:  true,
		Message:    strings.TrimSuffix(r[8], "\n"),
	}
	if r[5] != "" || r[6] != "" {
		when, err := TagFormat.date(r, 7, index, output)
		if err != nil {
			return TagInfo{}, err
		}
		info.Tagger = &Signature{
			Name:  r[5],
			Email: strings.TrimSuffix(strings.TrimPrefix(r[6], "<"), ">"),
			When:  when,
		}
	}
	return info, nil
}
