package args

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Options carries caller supplied option values keyed by option name or alias.
type Options map[string]any

// KV is one pair of a key-value option when ordering matters.
type KV struct {
	Key   string
	Value string
}

// Bound is the result of one Build call.
type Bound struct {
	// Args is the ordered argument vector, without the git executable.
	Args []string
	// Exec holds execution options keyed by canonical name.
	Exec map[string]any
}

// Schema is the frozen command-line surface of one operation.
type Schema struct {
	decls       []decl
	constraints []Constraint
	index       map[string]int
}

type builder struct {
	decls       []decl
	constraints []Constraint
}

// Define validates the declarations and constraints and freezes them into a
// Schema.
func Define(elems ...Element) (*Schema, error) {
	var b builder
	for _, e := range elems {
		if e == nil {
			continue
		}
		e.apply(&b)
	}
	s := &Schema{
		decls:       make([]decl, 0, len(b.decls)),
		constraints: make([]Constraint, 0, len(b.constraints)),
		index:       map[string]int{},
	}
	for _, d := range b.decls {
		d.names = slices.Clone(d.names)
		switch d.kind {
		case KindLiteral:
			if d.token == "" {
				return nil, schemaf("literal with empty token")
			}
		case KindFlag, KindBool, KindValue, KindKeyValue:
			if d.key() == "" || d.token == "" {
				return nil, schemaf("%s requires a name and a token", d.kind)
			}
			if d.kind == KindBool && d.negatable && d.negated == "" {
				return nil, schemaf("negatable option %s has no negated token", d.key())
			}
		case KindOperand, KindExec:
			if d.key() == "" {
				return nil, schemaf("%s requires a name", d.kind)
			}
		}
		for _, name := range d.names {
			if name == "" {
				return nil, schemaf("empty alias for %s", d.key())
			}
			if _, dup := s.index[name]; dup {
				return nil, schemaf("duplicate option name %s", name)
			}
			s.index[name] = len(s.decls)
		}
		s.decls = append(s.decls, d)
	}
	for _, c := range b.constraints {
		c.keys = slices.Clone(c.keys)
		c.values = slices.Clone(c.values)
		if c.key != "" {
			k, err := s.canonical(c.key)
			if err != nil {
				return nil, err
			}
			c.key = k
		}
		for i, key := range c.keys {
			k, err := s.canonical(key)
			if err != nil {
				return nil, err
			}
			c.keys[i] = k
		}
		if len(c.referenced()) == 0 {
			return nil, schemaf("constraint without keys")
		}
		s.constraints = append(s.constraints, c)
	}
	return s, nil
}

// MustDefine is like Define but panics on an invalid schema.
func MustDefine(elems ...Element) *Schema {
	s, err := Define(elems...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) canonical(name string) (string, error) {
	idx, ok := s.index[name]
	if !ok {
		return "", schemaf("constraint references undeclared option %s", name)
	}
	return s.decls[idx].key(), nil
}

// Keys returns the canonical names of every named declaration in declaration
// order.
func (s *Schema) Keys() []string {
	var keys []string
	for _, d := range s.decls {
		if d.kind != KindLiteral {
			keys = append(keys, d.key())
		}
	}
	return keys
}

// Kind reports the declaration kind behind name, which may be an alias.
func (s *Schema) Kind(name string) (Kind, bool) {
	idx, ok := s.index[name]
	if !ok {
		return 0, false
	}
	return s.decls[idx].kind, true
}

// resolved holds the validated value of every supplied declaration.
type resolved struct {
	flags    map[int]bool
	text     map[int][]string
	pairs    map[int][]KV
	operands map[int][]string
	exec     map[int]any
}

// Build validates positional and opts against the schema and returns the
// ordered arguments. It has no side effects.
func (s *Schema) Build(positional []string, opts Options) (Bound, error) {
	if s == nil {
		return Bound{}, schemaf("nil schema")
	}
	supplied, err := s.resolveNames(opts)
	if err != nil {
		return Bound{}, err
	}
	r := resolved{
		flags:    map[int]bool{},
		text:     map[int][]string{},
		pairs:    map[int][]KV{},
		operands: map[int][]string{},
		exec:     map[int]any{},
	}
	if err := s.allocateOperands(positional, r.operands); err != nil {
		return Bound{}, err
	}
	for _, idx := range slices.Sorted(maps.Keys(supplied)) {
		if err := s.resolveValue(idx, supplied[idx], &r); err != nil {
			return Bound{}, err
		}
	}
	if err := s.checkConstraints(&r); err != nil {
		return Bound{}, err
	}
	return s.emit(&r), nil
}

// resolveNames maps every supplied key to its declaration. When several aliases
// of a declaration are given, the earliest declared one wins.
func (s *Schema) resolveNames(opts Options) (map[int]any, error) {
	var unknown []string
	for name := range opts {
		idx, ok := s.index[name]
		if !ok || s.decls[idx].kind == KindLiteral || s.decls[idx].kind == KindOperand {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, invalidf("unsupported options: %s", strings.Join(unknown, ", "))
	}
	supplied := map[int]any{}
	for idx, d := range s.decls {
		for _, name := range d.names {
			if v, ok := opts[name]; ok {
				supplied[idx] = v
				break
			}
		}
	}
	return supplied, nil
}

func (s *Schema) allocateOperands(positional []string, out map[int][]string) error {
	var operands []int
	for idx, d := range s.decls {
		if d.kind == KindOperand {
			operands = append(operands, idx)
		}
	}
	remaining := positional
	for i, idx := range operands {
		d := s.decls[idx]
		requiredAfter := 0
		for _, later := range operands[i+1:] {
			if s.decls[later].required {
				requiredAfter++
			}
		}
		avail := len(remaining) - requiredAfter
		n := 0
		switch {
		case avail <= 0:
		case d.repeatable:
			n = avail
		default:
			n = 1
		}
		if n == 0 {
			if d.required {
				return invalidf("at least one value is required for %s", d.key())
			}
			continue
		}
		out[idx] = slices.Clone(remaining[:n])
		remaining = remaining[n:]
	}
	if len(remaining) > 0 {
		return invalidf("too many positional arguments: %d unexpected (%s)", len(remaining), strings.Join(remaining, ", "))
	}
	return nil
}

func (s *Schema) resolveValue(idx int, v any, r *resolved) error {
	d := s.decls[idx]
	switch d.kind {
	case KindFlag, KindBool:
		if v == nil {
			return nil
		}
		b, ok := v.(bool)
		if !ok {
			return invalidf("option %s expects a boolean, got %T", d.key(), v)
		}
		r.flags[idx] = b
	case KindValue:
		values, err := textValues(d, v)
		if err != nil {
			return err
		}
		if values != nil {
			r.text[idx] = values
		}
	case KindKeyValue:
		pairs, err := pairValues(d, v)
		if err != nil {
			return err
		}
		if len(pairs) > 0 {
			r.pairs[idx] = pairs
		}
	case KindExec:
		if v != nil {
			r.exec[idx] = v
		}
	}
	return nil
}

func textValues(d decl, v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := scalar(v); ok {
		return []string{s}, nil
	}
	if !d.repeatable {
		return nil, invalidf("option %s expects a single value, got %T", d.key(), v)
	}
	var out []string
	switch list := v.(type) {
	case []string:
		out = slices.Clone(list)
	case []any:
		for _, item := range list {
			s, ok := scalar(item)
			if !ok {
				return nil, invalidf("option %s expects a list of values, got element %T", d.key(), item)
			}
			out = append(out, s)
		}
	default:
		return nil, invalidf("option %s expects a value or a list of values, got %T", d.key(), v)
	}
	return out, nil
}

func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case fmt.Stringer:
		return x.String(), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	default:
		return "", false
	}
}

func pairValues(d decl, v any) ([]KV, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		pairs := make([]KV, 0, len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			pairs = append(pairs, KV{Key: k, Value: x[k]})
		}
		return pairs, nil
	case []KV:
		return slices.Clone(x), nil
	case [][2]string:
		pairs := make([]KV, 0, len(x))
		for _, p := range x {
			pairs = append(pairs, KV{Key: p[0], Value: p[1]})
		}
		return pairs, nil
	default:
		return nil, invalidf("option %s expects a map or a list of pairs, got %T", d.key(), v)
	}
}

func (s *Schema) checkConstraints(r *resolved) error {
	present := func(key string) bool {
		idx := s.index[key]
		switch s.decls[idx].kind {
		case KindFlag, KindBool:
			return r.flags[idx]
		case KindValue:
			for _, v := range r.text[idx] {
				if v != "" {
					return true
				}
			}
			return false
		case KindKeyValue:
			return len(r.pairs[idx]) > 0
		case KindOperand:
			return len(r.operands[idx]) > 0
		case KindExec:
			_, ok := r.exec[idx]
			return ok
		}
		return false
	}
	text := func(key string) []string {
		idx := s.index[key]
		switch s.decls[idx].kind {
		case KindValue:
			return r.text[idx]
		case KindOperand:
			return r.operands[idx]
		case KindFlag, KindBool:
			return []string{fmt.Sprint(r.flags[idx])}
		}
		return nil
	}
	for _, c := range s.constraints {
		if err := c.check(present, text); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) emit(r *resolved) Bound {
	var leading, rest []string
	separators := map[string]bool{}
	for idx, d := range s.decls {
		var tokens []string
		switch d.kind {
		case KindLiteral:
			tokens = []string{d.token}
		case KindFlag:
			if r.flags[idx] {
				tokens = []string{d.token}
			}
		case KindBool:
			b, ok := r.flags[idx]
			switch {
			case ok && b:
				tokens = []string{d.token}
			case ok && d.negatable:
				tokens = []string{d.negated}
			}
		case KindValue:
			for _, v := range r.text[idx] {
				if d.inline {
					if v != "" {
						tokens = append(tokens, d.token+"="+v)
					}
					continue
				}
				tokens = append(tokens, d.token, v)
			}
		case KindKeyValue:
			for _, p := range r.pairs[idx] {
				pair := p.Key
				if p.Value != "" {
					pair += d.keySep + p.Value
				}
				if d.inline {
					tokens = append(tokens, d.token+"="+pair)
				} else {
					tokens = append(tokens, d.token, pair)
				}
			}
		case KindOperand:
			values := r.operands[idx]
			if len(values) > 0 && d.separator != "" && !separators[d.separator] {
				separators[d.separator] = true
				tokens = append(tokens, d.separator)
			}
			tokens = append(tokens, values...)
		}
		if d.leading {
			leading = append(leading, tokens...)
		} else {
			rest = append(rest, tokens...)
		}
	}
	b := Bound{Args: append(leading, rest...)}
	if len(r.exec) > 0 {
		b.Exec = make(map[string]any, len(r.exec))
		for idx, v := range r.exec {
			b.Exec[s.decls[idx].key()] = v
		}
	}
	return b
}
