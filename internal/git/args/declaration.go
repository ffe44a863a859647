// Package args declares the command-line surface of a git operation and turns
// caller input into an ordered argument vector.
//
// A Schema is built once per operation with Define and never changes
// afterwards, so it can be shared by concurrent callers:
//
//	var tagDelete = args.MustDefine(
//		args.Literal("tag"),
//		args.Literal("--delete"),
//		args.Exec("timeout"),
//		args.Operand("tagname", args.Required(), args.Repeatable()),
//	)
//
//	bound, err := tagDelete.Build([]string{"v1", "v2"}, nil)
package args

import "strings"

type Kind uint8

const (
	KindLiteral Kind = iota
	KindFlag
	KindBool
	KindValue
	KindKeyValue
	KindOperand
	KindExec
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindFlag:
		return "flag"
	case KindBool:
		return "boolean option"
	case KindValue:
		return "value option"
	case KindKeyValue:
		return "key-value option"
	case KindOperand:
		return "operand"
	case KindExec:
		return "execution option"
	default:
		return "unknown"
	}
}

type decl struct {
	kind  Kind
	names []string // canonical name first, then aliases
	token string

	negatable  bool
	negated    string
	repeatable bool
	required   bool
	inline     bool
	leading    bool
	keySep     string
	separator  string
}

func (d decl) key() string {
	if len(d.names) == 0 {
		return ""
	}
	return d.names[0]
}

// Option tweaks a single declaration.
type Option func(*decl)

// Alias registers additional option names resolving to the same declaration.
func Alias(names ...string) Option {
	return func(d *decl) { d.names = append(d.names, names...) }
}

// Required makes an operand mandatory.
func Required() Option {
	return func(d *decl) { d.required = true }
}

// Repeatable lets a value option or operand take a list of values.
func Repeatable() Option {
	return func(d *decl) { d.repeatable = true }
}

// Negatable makes a boolean option emit its --no- form when given false.
func Negatable() Option {
	return func(d *decl) { d.negatable = true }
}

// NegatedAs sets the token emitted for false and implies Negatable.
func NegatedAs(token string) Option {
	return func(d *decl) {
		d.negatable = true
		d.negated = token
	}
}

// Inline serializes values as --opt=value in a single token.
func Inline() Option {
	return func(d *decl) { d.inline = true }
}

// KeySeparator joins the key and value of each key-value pair.
func KeySeparator(sep string) Option {
	return func(d *decl) { d.keySep = sep }
}

// AfterSeparator places the operand values after token (usually "--"). The
// separator is only emitted when at least one value follows it.
func AfterSeparator(token string) Option {
	return func(d *decl) { d.separator = token }
}

// EndOfOptionsToken stops git's option parsing; values after it are never
// read as options even when they start with "-".
const EndOfOptionsToken = "--end-of-options"

// EndOfOptions places operand values after EndOfOptionsToken. Use it for
// operands that are revisions or patterns, where "--" would switch git to
// pathspecs.
func EndOfOptions() Option {
	return AfterSeparator(EndOfOptionsToken)
}

// Leading emits the declaration before every other token regardless of where
// it was declared.
func Leading() Option {
	return func(d *decl) { d.leading = true }
}

// Element is either a Declaration or a Constraint.
type Element interface {
	apply(*builder)
}

// Declaration is one token declaration of a schema.
type Declaration struct {
	d decl
}

func (d Declaration) apply(b *builder) {
	b.decls = append(b.decls, d.d)
}

func newDeclaration(kind Kind, name, token string, opts []Option) Declaration {
	d := decl{kind: kind, token: token}
	if name != "" {
		d.names = []string{name}
	}
	for _, opt := range opts {
		opt(&d)
	}
	if d.negatable && d.negated == "" && strings.HasPrefix(d.token, "--") {
		d.negated = "--no-" + strings.TrimPrefix(d.token, "--")
	}
	if kind == KindKeyValue && d.keySep == "" {
		d.keySep = "="
	}
	return Declaration{d: d}
}

// Literal is a fixed token that is always emitted.
func Literal(token string, opts ...Option) Declaration {
	return newDeclaration(KindLiteral, "", token, opts)
}

// Flag emits token when its value is true.
func Flag(key, token string, opts ...Option) Declaration {
	return newDeclaration(KindFlag, key, token, opts)
}

// Bool emits token for true and, when Negatable, the negated token for false.
func Bool(key, token string, opts ...Option) Declaration {
	return newDeclaration(KindBool, key, token, opts)
}

// Value emits token followed by the value, or token=value when Inline.
func Value(key, token string, opts ...Option) Declaration {
	return newDeclaration(KindValue, key, token, opts)
}

// KeyValue emits token once per pair, each pair joined by its KeySeparator.
func KeyValue(key, token string, opts ...Option) Declaration {
	return newDeclaration(KindKeyValue, key, token, opts)
}

// Operand is a positional argument.
func Operand(name string, opts ...Option) Declaration {
	return newDeclaration(KindOperand, name, "", opts)
}

// Exec is an option consumed by the runner and never passed to git.
func Exec(key string, opts ...Option) Declaration {
	return newDeclaration(KindExec, key, "", opts)
}
