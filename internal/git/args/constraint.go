package args

import (
	"fmt"
	"slices"
	"strings"
)

type constraintKind uint8

const (
	constraintConflicts constraintKind = iota
	constraintRequires
	constraintRequiresOneOf
	constraintRequiresExactlyOneOf
	constraintForbidValues
)

// Constraint is a cross-field rule evaluated after values are resolved.
type Constraint struct {
	kind   constraintKind
	key    string
	keys   []string
	values []string
}

func (c Constraint) apply(b *builder) {
	b.constraints = append(b.constraints, c)
}

// Conflicts rejects calls supplying more than one of keys.
func Conflicts(keys ...string) Constraint {
	return Constraint{kind: constraintConflicts, keys: keys}
}

// Requires rejects calls supplying key without every one of keys.
func Requires(key string, keys ...string) Constraint {
	return Constraint{kind: constraintRequires, key: key, keys: keys}
}

// RequiresOneOf rejects calls supplying none of keys.
func RequiresOneOf(keys ...string) Constraint {
	return Constraint{kind: constraintRequiresOneOf, keys: keys}
}

// RequiresExactlyOneOf rejects calls supplying none or several of keys.
func RequiresExactlyOneOf(keys ...string) Constraint {
	return Constraint{kind: constraintRequiresExactlyOneOf, keys: keys}
}

// ForbidValues rejects specific values for key.
func ForbidValues(key string, values ...string) Constraint {
	return Constraint{kind: constraintForbidValues, key: key, values: values}
}

func (c Constraint) referenced() []string {
	if c.key == "" {
		return c.keys
	}
	return append([]string{c.key}, c.keys...)
}

// check reports a violation naming only the keys the caller supplied.
func (c Constraint) check(present func(string) bool, text func(string) []string) error {
	supplied := func(keys []string) []string {
		var out []string
		for _, k := range keys {
			if present(k) {
				out = append(out, k)
			}
		}
		return out
	}
	switch c.kind {
	case constraintConflicts:
		if got := supplied(c.keys); len(got) > 1 {
			return invalidf("conflicting options: %s", strings.Join(got, ", "))
		}
	case constraintRequires:
		if !present(c.key) {
			return nil
		}
		var missing []string
		for _, k := range c.keys {
			if !present(k) {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			return invalidf("option %s requires %s", c.key, strings.Join(missing, ", "))
		}
	case constraintRequiresOneOf:
		if len(supplied(c.keys)) == 0 {
			return invalidf("one of %s is required", strings.Join(c.keys, ", "))
		}
	case constraintRequiresExactlyOneOf:
		got := supplied(c.keys)
		switch {
		case len(got) == 0:
			return invalidf("exactly one of %s is required", strings.Join(c.keys, ", "))
		case len(got) > 1:
			return invalidf("only one of %s may be given", strings.Join(got, ", "))
		}
	case constraintForbidValues:
		if !present(c.key) {
			return nil
		}
		for _, v := range text(c.key) {
			if slices.Contains(c.values, v) {
				return invalidf("option %s does not accept value %q", c.key, v)
			}
		}
	default:
		return fmt.Errorf("unknown constraint kind %d", c.kind)
	}
	return nil
}
