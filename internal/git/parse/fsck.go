package parse

import (
	"regexp"
	"strings"
)

type FsckKind string

const (
	FsckDangling    FsckKind = "dangling"
	FsckMissing     FsckKind = "missing"
	FsckUnreachable FsckKind = "unreachable"
	FsckWarning     FsckKind = "warning"
	FsckError       FsckKind = "error"
	FsckRoot        FsckKind = "root"
	FsckTagged      FsckKind = "tagged"
)

// FsckObject is one finding reported by git fsck. Fields that a kind does not
// report are empty.
type FsckObject struct {
	Kind    FsckKind `json:"kind"`
	Type    string   `json:"type,omitempty"` // commit, tree, blob, tag
	OID     string   `json:"oid"`
	Name    string   `json:"name,omitempty"` // --name-objects name, or the tag name for tagged objects
	TagOID  string   `json:"tag_oid,omitempty"`
	Message string   `json:"message,omitempty"`
}

type fsckPattern struct {
	re    *regexp.Regexp
	build func(m []string) FsckObject
}

// Checked in order; the first match wins.
var fsckPatterns = []fsckPattern{
	{
		re: regexp.MustCompile(`^(dangling|missing|unreachable) (\w+) ([0-9a-f]+)(?: \((.+)\))?$`),
		build: func(m []string) FsckObject {
			return FsckObject{Kind: FsckKind(m[1]), Type: m[2], OID: m[3], Name: m[4]}
		},
	},
	{
		re: regexp.MustCompile(`^(warning|error) in (\w+) ([0-9a-f]+)(?: \((.+)\))?: (.*)$`),
		build: func(m []string) FsckObject {
			return FsckObject{Kind: FsckKind(m[1]), Type: m[2], OID: m[3], Name: m[4], Message: m[5]}
		},
	},
	{
		re: regexp.MustCompile(`^root ([0-9a-f]+)(?: \((.+)\))?$`),
		build: func(m []string) FsckObject {
			return FsckObject{Kind: FsckRoot, Type: "commit", OID: m[1], Name: m[2]}
		},
	},
	{
		re: regexp.MustCompile(`^tagged (\w+) ([0-9a-f]+) \((.+)\) in ([0-9a-f]+)$`),
		build: func(m []string) FsckObject {
			return FsckObject{Kind: FsckTagged, Type: m[1], OID: m[2], Name: m[3], TagOID: m[4]}
		},
	},
}

// ParseFsck reads git fsck output line by line. Lines matching no known
// pattern, such as progress or notice lines, are ignored.
func ParseFsck(output string) []FsckObject {
	var objs []FsckObject
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, p := range fsckPatterns {
			if m := p.re.FindStringSubmatch(line); m != nil {
				objs = append(objs, p.build(m))
				break
			}
		}
	}
	return objs
}
