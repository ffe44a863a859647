// Package parse turns the structured text printed by git into typed records.
//
// Formats are rendered with non-printable delimiters passed through git's own
// escapes, so free text such as tag messages cannot be mistaken for structure.
package parse

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnexpectedOutput = errors.New("unexpected git output")

// Delimiters is the pair of separators used by a format. An empty Record
// splits records on newlines.
type Delimiters struct {
	Field  string
	Record string
}

// DefaultDelimiters uses the ASCII unit and record separators.
var DefaultDelimiters = Delimiters{Field: "\x1f", Record: "\x1e"}

// Syntax selects how a delimiter byte is escaped inside a format template.
type Syntax uint8

const (
	// RefSyntax is the for-each-ref and branch --format syntax (%1f).
	RefSyntax Syntax = iota
	// PrettySyntax is the log and stash --format syntax (%x1f).
	PrettySyntax
)

func (s Syntax) escape(delim string) string {
	var b strings.Builder
	for i := 0; i < len(delim); i++ {
		switch s {
		case PrettySyntax:
			fmt.Fprintf(&b, "%%x%02x", delim[i])
		default:
			fmt.Fprintf(&b, "%%%02x", delim[i])
		}
	}
	return b.String()
}

// Field is one placeholder of a format, e.g. {Name: "refname", Atom: "%(refname)"}.
type Field struct {
	Name string
	Atom string
}

// Format describes the shape of one git output. With TrailingText set,
// splitting stops at the field count so the last field may contain the field
// delimiter; earlier fields never may.
type Format struct {
	Name         string
	Fields       []Field
	Delimiters   Delimiters
	Syntax       Syntax
	TrailingText bool
}

// Template renders the --format argument value.
func (f Format) Template() string {
	var b strings.Builder
	sep := f.Syntax.escape(f.Delimiters.Field)
	for i, field := range f.Fields {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(field.Atom)
	}
	if f.Delimiters.Record != "" {
		b.WriteString(f.Syntax.escape(f.Delimiters.Record))
	}
	return b.String()
}

// ParseError reports a record whose field count does not match its format,
// or, when Field is set, a field whose value could not be decoded.
type ParseError struct {
	Format   string
	Expected int
	Actual   int
	Record   string
	Index    int
	Output   string

	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse %s output: record %d field %s: %v: %q",
			e.Format, e.Index, e.Field, e.Err, e.Record)
	}
	return fmt.Sprintf("parse %s output: record %d has %d fields, expected %d: %q",
		e.Format, e.Index, e.Actual, e.Expected, e.Record)
}

func (e *ParseError) Unwrap() error {
	return ErrUnexpectedOutput
}

// date decodes the strict ISO 8601 date in column col of record r. git prints
// nothing for a missing date, which yields the zero time.
func (f Format) date(r []string, col, index int, output string) (time.Time, error) {
	if r[col] == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, r[col])
	if err != nil {
		return time.Time{}, &ParseError{
			Format:   f.Name,
			Expected: len(f.Fields),
			Actual:   len(r),
			Record:   strings.Join(r, f.Delimiters.Field),
			Index:    index,
			Output:   output,
			Field:    f.Fields[col].Name,
			Err:      err,
		}
	}
	return t, nil
}

// Split cuts output into records of exactly len(f.Fields) fields.
func (f Format) Split(output string) ([][]string, error) {
	n := len(f.Fields)
	var rows [][]string
	for i, rec := range f.records(output) {
		var parts []string
		if f.TrailingText {
			parts = strings.SplitN(rec, f.Delimiters.Field, n)
		} else {
			parts = strings.Split(rec, f.Delimiters.Field)
		}
		if len(parts) != n {
			return nil, &ParseError{
				Format:   f.Name,
				Expected: n,
				Actual:   len(parts),
				Record:   rec,
				Index:    i,
				Output:   output,
			}
		}
		rows = append(rows, parts)
	}
	return rows, nil
}

func (f Format) records(output string) []string {
	if f.Delimiters.Record == "" {
		var lines []string
		for _, line := range strings.Split(output, "\n") {
			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, line)
		}
		return lines
	}

	pieces := strings.Split(output, f.Delimiters.Record)
	recs := make([]string, 0, len(pieces))
	for i, piece := range pieces {
		// git terminates each formatted record with a newline.
		if i > 0 {
			piece = strings.TrimPrefix(strings.TrimPrefix(piece, "\r"), "\n")
		}
		if i == len(pieces)-1 && strings.TrimSpace(piece) == "" {
			continue
		}
		recs = append(recs, piece)
	}
	return recs
}
