package binder

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/sigbind/internal/convert"
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/parser"
	"github.com/funvibe/sigbind/internal/signature"
)

func mustParse(t *testing.T, decl string) *signature.Signature {
	t.Helper()
	sig, err := parser.Parse(decl)
	if err != nil {
		t.Fatalf("Parse(%q): %v", decl, err)
	}
	return sig
}

func TestBind(t *testing.T) {
	testCases := []struct {
		name   string
		decl   string
		call   Call
		expect map[string]interface{}
	}{
		{
			"positional_fill",
			"add(x: int, y: int)",
			Call{Positionals: []string{"2", "3"}},
			map[string]interface{}{"x": int64(2), "y": int64(3)},
		},
		{
			"keyword_fill",
			"add(x: int, y: int)",
			Call{Keywords: map[string]string{"x": "2", "y": "3"}},
			map[string]interface{}{"x": int64(2), "y": int64(3)},
		},
		{
			"mixed",
			"greet(name, excited: bool = false)",
			Call{Positionals: []string{"World"}, Keywords: map[string]string{"excited": "true"}},
			map[string]interface{}{"name": "World", "excited": true},
		},
		{
			"default_applies",
			"greet(name, times: int = 1)",
			Call{Positionals: []string{"World"}},
			map[string]interface{}{"name": "World", "times": int64(1)},
		},
		{
			"nil_default",
			"f(x = nil)",
			Call{},
			map[string]interface{}{"x": nil},
		},
		{
			"var_positional_collects",
			"sum(*nums: int)",
			Call{Positionals: []string{"1", "2", "3"}},
			map[string]interface{}{"nums": []interface{}{int64(1), int64(2), int64(3)}},
		},
		{
			"var_positional_empty",
			"sum(*nums: int)",
			Call{},
			map[string]interface{}{"nums": []interface{}{}},
		},
		{
			"var_positional_after_fixed",
			"f(x, *rest)",
			Call{Positionals: []string{"a", "b", "c"}},
			map[string]interface{}{"x": "a", "rest": []interface{}{"b", "c"}},
		},
		{
			"var_keyword_collects",
			"f(x, **opts)",
			Call{Positionals: []string{"a"}, Keywords: map[string]string{"k1": "v1", "k2": "v2"}},
			map[string]interface{}{
				"x":    "a",
				"opts": map[string]interface{}{"k1": "v1", "k2": "v2"},
			},
		},
		{
			"var_keyword_empty",
			"f(**opts)",
			Call{},
			map[string]interface{}{"opts": map[string]interface{}{}},
		},
		{
			"keyword_only",
			"f(x, *, loud: bool)",
			Call{Positionals: []string{"a"}, Keywords: map[string]string{"loud": "true"}},
			map[string]interface{}{"x": "a", "loud": true},
		},
		{
			"positional_only_by_position",
			"open(path, /, mode = \"r\")",
			Call{Positionals: []string{"/tmp/x"}},
			map[string]interface{}{"path": "/tmp/x", "mode": "r"},
		},
		{
			"all_kinds",
			"f(a: int, /, b: int, *rest: int, k: bool = false, **opts)",
			Call{
				Positionals: []string{"1", "2", "3", "4"},
				Keywords:    map[string]string{"k": "true", "extra": "v"},
			},
			map[string]interface{}{
				"a":    int64(1),
				"b":    int64(2),
				"rest": []interface{}{int64(3), int64(4)},
				"k":    true,
				"opts": map[string]interface{}{"extra": "v"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sig := mustParse(t, tc.decl)
			bound, err := Bind(sig, tc.call, nil)
			if err != nil {
				t.Fatalf("Bind: %v", err)
			}
			if diff := cmp.Diff(tc.expect, bound.Arguments()); diff != "" {
				t.Fatalf("bound values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBindErrors(t *testing.T) {
	testCases := []struct {
		name string
		decl string
		call Call
		code diagnostics.ErrorCode
	}{
		{
			"not_enough_positionals",
			"add(x: int, y: int)",
			Call{Positionals: []string{"2"}},
			diagnostics.ErrB001,
		},
		{
			"too_many_positionals",
			"add(x: int, y: int)",
			Call{Positionals: []string{"1", "2", "3"}},
			diagnostics.ErrB002,
		},
		{
			"positional_only_by_name",
			"open(path, /)",
			Call{Keywords: map[string]string{"path": "x"}},
			diagnostics.ErrB003,
		},
		{
			"unknown_keyword",
			"f(x)",
			Call{Positionals: []string{"a"}, Keywords: map[string]string{"bogus": "v"}},
			diagnostics.ErrB003,
		},
		{
			"given_twice",
			"f(x)",
			Call{Positionals: []string{"a"}, Keywords: map[string]string{"x": "b"}},
			diagnostics.ErrB004,
		},
		{
			"missing_keyword_only",
			"f(*, k)",
			Call{},
			diagnostics.ErrB005,
		},
		{
			"bad_conversion",
			"add(x: int)",
			Call{Positionals: []string{"abc"}},
			diagnostics.ErrB006,
		},
		{
			"bad_keyword_conversion",
			"f(*, k: int)",
			Call{Keywords: map[string]string{"k": "abc"}},
			diagnostics.ErrB006,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sig := mustParse(t, tc.decl)
			_, err := Bind(sig, tc.call, nil)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !diagnostics.HasCode(err, tc.code) {
				t.Fatalf("expected code %s, got %v", tc.code, err)
			}
		})
	}
}

func TestPositionalOnlyNameGoesToVarKeyword(t *testing.T) {
	// With **opts declared, a keyword spelled like a positional-only
	// parameter lands in the collector instead of erroring.
	sig := mustParse(t, "f(path, /, **opts)")
	bound, err := Bind(sig, Call{
		Positionals: []string{"/tmp/x"},
		Keywords:    map[string]string{"path": "by-name"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := bound.Value("opts")
	opts := v.(map[string]interface{})
	if opts["path"] != "by-name" {
		t.Fatalf("opts = %v", opts)
	}
	if v, _ := bound.Value("path"); v != "/tmp/x" {
		t.Fatalf("path = %v", v)
	}
}

func TestBindCustomConverters(t *testing.T) {
	conv := convert.NewRegistry()
	conv.Register("upper", func(raw string) (interface{}, error) {
		out := []rune(raw)
		for i, ch := range out {
			if ch >= 'a' && ch <= 'z' {
				out[i] = ch - ('a' - 'A')
			}
		}
		return string(out), nil
	})

	sig := mustParse(t, "f(x: upper)")
	bound, err := Bind(sig, Call{Positionals: []string{"shout"}}, conv)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := bound.Value("x"); v != "SHOUT" {
		t.Fatalf("x = %v", v)
	}
}

func TestPositionalAndKeywordsViews(t *testing.T) {
	sig := mustParse(t, "f(a: int, /, b: int, *rest: int, k: bool = true, **opts)")
	bound, err := Bind(sig, Call{
		Positionals: []string{"1", "2", "3"},
		Keywords:    map[string]string{"extra": "v"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	wantPos := []interface{}{int64(1), int64(2), int64(3)}
	if diff := cmp.Diff(wantPos, bound.Positional()); diff != "" {
		t.Errorf("Positional() mismatch (-want +got):\n%s", diff)
	}

	wantKw := map[string]interface{}{"k": true, "extra": "v"}
	if diff := cmp.Diff(wantKw, bound.Keywords()); diff != "" {
		t.Errorf("Keywords() mismatch (-want +got):\n%s", diff)
	}
}

