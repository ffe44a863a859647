package args

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	schema := MustDefine(
		Literal("branch"),
		Flag("list", "--list"),
		Bool("force", "--force", Negatable(), Alias("f")),
		Bool("color", "--color"),
		Value("format", "--format", Inline()),
		Value("sort", "--sort", Repeatable()),
		Value("contains", "--contains"),
		KeyValue("config", "-c", KeySeparator("=")),
		Exec("timeout"),
		Operand("pattern", Repeatable()),
	)

	tests := []struct {
		name       string
		positional []string
		opts       Options
		want       []string
		wantExec   map[string]any
	}{
		{name: "literals_only", want: []string{"branch"}},
		{name: "flag_true", opts: Options{"list": true}, want: []string{"branch", "--list"}},
		{name: "flag_false", opts: Options{"list": false}, want: []string{"branch"}},
		{name: "flag_nil", opts: Options{"list": nil}, want: []string{"branch"}},
		{name: "negatable_true", opts: Options{"force": true}, want: []string{"branch", "--force"}},
		{name: "negatable_false", opts: Options{"force": false}, want: []string{"branch", "--no-force"}},
		{name: "negatable_alias", opts: Options{"f": true}, want: []string{"branch", "--force"}},
		{name: "not_negatable_false", opts: Options{"color": false}, want: []string{"branch"}},
		{name: "inline_value", opts: Options{"format": "%(refname)"}, want: []string{"branch", "--format=%(refname)"}},
		{name: "inline_empty", opts: Options{"format": ""}, want: []string{"branch"}},
		{name: "inline_nil", opts: Options{"format": nil}, want: []string{"branch"}},
		{name: "separate_value", opts: Options{"contains": "abc"}, want: []string{"branch", "--contains", "abc"}},
		{name: "integer_value", opts: Options{"contains": 42}, want: []string{"branch", "--contains", "42"}},
		{
			name: "repeatable_value",
			opts: Options{"sort": []string{"-refname", "objectname"}},
			want: []string{"branch", "--sort", "-refname", "--sort", "objectname"},
		},
		{name: "repeatable_single", opts: Options{"sort": "refname"}, want: []string{"branch", "--sort", "refname"}},
		{
			name: "key_value_map_sorted",
			opts: Options{"config": map[string]string{"z.key": "1", "a.key": "2"}},
			want: []string{"branch", "-c", "a.key=2", "-c", "z.key=1"},
		},
		{
			name: "key_value_pairs_ordered",
			opts: Options{"config": []KV{{Key: "z", Value: "1"}, {Key: "a"}}},
			want: []string{"branch", "-c", "z=1", "-c", "a"},
		},
		{
			name:     "exec_option_not_emitted",
			opts:     Options{"timeout": 5 * time.Second},
			want:     []string{"branch"},
			wantExec: map[string]any{"timeout": 5 * time.Second},
		},
		{
			name:       "operands",
			positional: []string{"feature/*", "main"},
			want:       []string{"branch", "feature/*", "main"},
		},
		{
			name:       "declaration_order",
			positional: []string{"main"},
			opts:       Options{"sort": "refname", "list": true, "format": "x"},
			want:       []string{"branch", "--list", "--format=x", "--sort", "refname", "main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := schema.Build(tt.positional, tt.opts)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if !slices.Equal(got.Args, tt.want) {
				t.Fatalf("Build() args = %q, want %q", got.Args, tt.want)
			}
			if diff := cmp.Diff(tt.wantExec, got.Exec); diff != "" {
				t.Fatalf("Build() exec mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	schema := MustDefine(
		Literal("tag"),
		Bool("force", "--force", Negatable()),
		Value("message", "--message", Alias("m")),
		Value("file", "--file", Alias("F")),
		Flag("annotate", "--annotate", Alias("a")),
		Flag("sign", "--sign"),
		Value("cleanup", "--cleanup", Inline()),
		Conflicts("message", "file"),
		Requires("sign", "annotate"),
		ForbidValues("cleanup", "scissors"),
		Operand("name", Required()),
		Operand("commit"),
	)

	tests := []struct {
		name       string
		positional []string
		opts       Options
		wantMsg    string
	}{
		{
			name:    "missing_required_operand",
			wantMsg: "at least one value is required for name",
		},
		{
			name:       "unknown_options_sorted",
			positional: []string{"v1"},
			opts:       Options{"zeta": true, "alpha": 1, "force": true},
			wantMsg:    "unsupported options: alpha, zeta",
		},
		{
			name:       "operand_name_is_not_an_option",
			positional: []string{"v1"},
			opts:       Options{"name": "v1"},
			wantMsg:    "unsupported options: name",
		},
		{
			name:       "too_many_positionals",
			positional: []string{"v1", "HEAD", "extra"},
			wantMsg:    "too many positional arguments",
		},
		{
			name:       "non_boolean",
			positional: []string{"v1"},
			opts:       Options{"force": "yes"},
			wantMsg:    "option force expects a boolean",
		},
		{
			name:       "list_for_single_value",
			positional: []string{"v1"},
			opts:       Options{"message": []string{"a", "b"}},
			wantMsg:    "option message expects a single value",
		},
		{
			name:       "conflicts_names_supplied_keys",
			positional: []string{"v1"},
			opts:       Options{"m": "msg", "F": "file.txt"},
			wantMsg:    "conflicting options: message, file",
		},
		{
			name:       "requires",
			positional: []string{"v1"},
			opts:       Options{"sign": true},
			wantMsg:    "option sign requires annotate",
		},
		{
			name:       "forbidden_value",
			positional: []string{"v1"},
			opts:       Options{"cleanup": "scissors"},
			wantMsg:    `option cleanup does not accept value "scissors"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := schema.Build(tt.positional, tt.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidArguments) {
				t.Fatalf("error %v is not ErrInvalidArguments", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %T is not *ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error = %q, want substring %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestBuild_ConstraintsIgnoreAbsentValues(t *testing.T) {
	t.Parallel()

	schema := MustDefine(
		Value("message", "--message"),
		Value("file", "--file"),
		Conflicts("message", "file"),
	)
	got, err := schema.Build(nil, Options{"message": "hi", "file": nil})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !slices.Equal(got.Args, []string{"--message", "hi"}) {
		t.Fatalf("Build() args = %q", got.Args)
	}
}

func TestBuild_RequiresOneOf(t *testing.T) {
	t.Parallel()

	one := MustDefine(
		Flag("all", "--all"),
		Flag("remotes", "--remotes"),
		RequiresOneOf("all", "remotes"),
	)
	if _, err := one.Build(nil, nil); err == nil || !strings.Contains(err.Error(), "one of all, remotes is required") {
		t.Fatalf("RequiresOneOf error = %v", err)
	}
	if _, err := one.Build(nil, Options{"all": true, "remotes": true}); err != nil {
		t.Fatalf("RequiresOneOf with both: %v", err)
	}

	exactly := MustDefine(
		Flag("all", "--all"),
		Flag("remotes", "--remotes"),
		Flag("list", "--list"),
		RequiresExactlyOneOf("all", "remotes", "list"),
	)
	if _, err := exactly.Build(nil, nil); err == nil || !strings.Contains(err.Error(), "exactly one of all, remotes, list is required") {
		t.Fatalf("RequiresExactlyOneOf none error = %v", err)
	}
	_, err := exactly.Build(nil, Options{"all": true, "list": true})
	if err == nil || !strings.Contains(err.Error(), "only one of all, list may be given") {
		t.Fatalf("RequiresExactlyOneOf many error = %v", err)
	}
	if _, err := exactly.Build(nil, Options{"remotes": true}); err != nil {
		t.Fatalf("RequiresExactlyOneOf single: %v", err)
	}
}

func TestBuild_OperandAllocation(t *testing.T) {
	t.Parallel()

	schema := MustDefine(
		Literal("checkout"),
		Operand("tree-ish"),
		Operand("paths", Repeatable(), Required(), AfterSeparator("--")),
	)
	tests := []struct {
		name       string
		positional []string
		want       []string
	}{
		{name: "required_filled_first", positional: []string{"a.txt"}, want: []string{"checkout", "--", "a.txt"}},
		{name: "optional_then_repeatable", positional: []string{"HEAD", "a.txt", "b.txt"}, want: []string{"checkout", "HEAD", "--", "a.txt", "b.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := schema.Build(tt.positional, nil)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if !slices.Equal(got.Args, tt.want) {
				t.Fatalf("Build() args = %q, want %q", got.Args, tt.want)
			}
		})
	}
}

func TestBuild_SeparatorOnlyWhenGroupNonEmpty(t *testing.T) {
	t.Parallel()

	schema := MustDefine(
		Literal("log"),
		Operand("revision"),
		Operand("paths", Repeatable(), AfterSeparator("--")),
	)
	got, err := schema.Build([]string{"HEAD"}, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !slices.Equal(got.Args, []string{"log", "HEAD"}) {
		t.Fatalf("Build() args = %q", got.Args)
	}
	got, err = schema.Build([]string{"HEAD", "a", "b"}, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !slices.Equal(got.Args, []string{"log", "HEAD", "--", "a", "b"}) {
		t.Fatalf("Build() args = %q", got.Args)
	}
}

func TestBuild_EndOfOptions(t *testing.T) {
	t.Parallel()

	schema := MustDefine(
		Literal("log"),
		Value("max-count", "--max-count", Inline()),
		Operand("revision", Repeatable(), EndOfOptions()),
	)
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "dash_value", in: []string{"--output=x"}, want: []string{"log", "--max-count=1", "--end-of-options", "--output=x"}},
		{name: "several", in: []string{"-p", "HEAD"}, want: []string{"log", "--max-count=1", "--end-of-options", "-p", "HEAD"}},
		{name: "empty", in: nil, want: []string{"log", "--max-count=1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := schema.Build(tt.in, Options{"max-count": 1})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got.Args); diff != "" {
				t.Fatalf("Build() args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_LeadingTokensFirst(t *testing.T) {
	t.Parallel()

	schema := MustDefine(
		Literal("stash"),
		Literal("list"),
		Value("format", "--format", Inline()),
		Flag("no-pager", "--no-pager", Leading()),
	)
	got, err := schema.Build(nil, Options{"format": "%gd", "no-pager": true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := []string{"--no-pager", "stash", "list", "--format=%gd"}
	if !slices.Equal(got.Args, want) {
		t.Fatalf("Build() args = %q, want %q", got.Args, want)
	}
}

func TestBuild_FirstDeclaredAliasWins(t *testing.T) {
	t.Parallel()

	schema := MustDefine(Value("message", "-m", Alias("msg", "m")))
	got, err := schema.Build(nil, Options{"m": "late", "msg": "early"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !slices.Equal(got.Args, []string{"-m", "early"}) {
		t.Fatalf("Build() args = %q", got.Args)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	schema := MustDefine(
		Literal("for-each-ref"),
		Value("sort", "--sort", Repeatable()),
		KeyValue("config", "-c", Leading()),
		Exec("timeout"),
		Operand("pattern", Repeatable()),
	)
	opts := Options{
		"sort":    []any{"refname", "-creatordate"},
		"config":  map[string]string{"b": "2", "a": "1", "c": "3"},
		"timeout": time.Second,
	}
	first, err := schema.Build([]string{"refs/tags"}, opts)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := schema.Build([]string{"refs/tags"}, opts)
			if err != nil {
				t.Errorf("Build() error = %v", err)
				return
			}
			if diff := cmp.Diff(first, got); diff != "" {
				t.Errorf("Build() not deterministic (-first +got):\n%s", diff)
			}
		}()
	}
	wg.Wait()

	_, errA := schema.Build(nil, Options{"bogus": 1, "other": 2})
	_, errB := schema.Build(nil, Options{"other": 2, "bogus": 1})
	if errA == nil || errB == nil || errA.Error() != errB.Error() {
		t.Fatalf("errors not deterministic: %v / %v", errA, errB)
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	schema := MustDefine(Value("sort", "--sort", Repeatable()), Operand("names", Repeatable()))
	sorts := []string{"a", "b"}
	positional := []string{"x", "y"}
	if _, err := schema.Build(positional, Options{"sort": sorts}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !slices.Equal(sorts, []string{"a", "b"}) || !slices.Equal(positional, []string{"x", "y"}) {
		t.Fatalf("inputs mutated: %q %q", sorts, positional)
	}
}

func TestDefine_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		elems []Element
	}{
		{name: "empty_literal", elems: []Element{Literal("")}},
		{name: "flag_without_token", elems: []Element{Flag("x", "")}},
		{name: "duplicate_names", elems: []Element{Flag("x", "-x"), Value("y", "-y", Alias("x"))}},
		{name: "constraint_unknown_key", elems: []Element{Flag("x", "-x"), Conflicts("x", "y")}},
		{name: "negatable_without_negated_form", elems: []Element{Bool("x", "-x", Negatable())}},
		{name: "empty_constraint", elems: []Element{Flag("x", "-x"), Conflicts()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Define(tt.elems...)
			if !errors.Is(err, ErrInvalidSchema) {
				t.Fatalf("Define() error = %v, want ErrInvalidSchema", err)
			}
		})
	}
}

func TestMustDefine_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustDefine(Literal(""))
}

func TestSchema_Introspection(t *testing.T) {
	t.Parallel()

	schema := MustDefine(
		Literal("tag"),
		Flag("list", "--list", Alias("l")),
		Exec("timeout"),
		Operand("pattern"),
	)
	if got := schema.Keys(); !slices.Equal(got, []string{"list", "timeout", "pattern"}) {
		t.Fatalf("Keys() = %q", got)
	}
	if kind, ok := schema.Kind("l"); !ok || kind != KindFlag {
		t.Fatalf("Kind(l) = %v, %v", kind, ok)
	}
	if _, ok := schema.Kind("missing"); ok {
		t.Fatal("Kind(missing) should not be found")
	}
}
