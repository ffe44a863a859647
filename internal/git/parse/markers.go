package parse

import (
	"regexp"
	"strings"
)

// Success markers printed on stdout by batch deletions.
var (
	DeletedTagPattern    = regexp.MustCompile(`^Deleted tag '(.+)' \(was [0-9a-f]+\)$`)
	DeletedBranchPattern = regexp.MustCompile(`^Deleted (?:remote-tracking )?branch (.+) \(was [0-9a-f]+\)\.?$`)
)

var quotedNameRe = regexp.MustCompile(`'([^']+)'`)

// ParseDeleted returns the names captured by pattern's first group, one per
// matching stdout line, in output order.
func ParseDeleted(pattern *regexp.Regexp, stdout string) []string {
	var names []string
	for _, line := range strings.Split(stdout, "\n") {
		if m := pattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

// ParseErrorLines maps the first quoted name of every "error: " stderr line
// to the rest of that line. The first message for a name is kept.
func ParseErrorLines(stderr string) map[string]string {
	errs := map[string]string{}
	for _, line := range strings.Split(stderr, "\n") {
		msg, ok := strings.CutPrefix(strings.TrimSpace(line), "error: ")
		if !ok {
			continue
		}
		m := quotedNameRe.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		if _, seen := errs[m[1]]; !seen {
			errs[m[1]] = msg
		}
	}
	return errs
}
