package convert

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/sigbind/internal/diagnostics"
)

func TestBuiltins(t *testing.T) {
	testCases := []struct {
		name       string
		annotation string
		raw        string
		expect     interface{}
	}{
		{"str", "str", "hello", "hello"},
		{"string_alias", "string", "hello", "hello"},
		{"default_is_str", "", "hello", "hello"},
		{"int", "int", "42", int64(42)},
		{"int_negative", "int", "-7", int64(-7)},
		{"int_hex", "int", "0xff", int64(255)},
		{"int_binary", "int", "0b1010", int64(10)},
		{"int_underscores", "int", "1_000_000", int64(1000000)},
		{"float", "float", "3.14", 3.14},
		{"float_exponent", "float", "1e3", 1000.0},
		{"bool_true", "bool", "true", true},
		{"bool_one", "bool", "1", true},
		{"bool_false", "bool", "false", false},
		{"char", "char", "x", 'x'},
		{"char_multibyte", "char", "é", 'é'},
		{"duration", "duration", "1h30m", 90 * time.Minute},
	}

	r := NewRegistry()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Convert(tc.annotation, tc.raw)
			if err != nil {
				t.Fatalf("Convert(%q, %q): %v", tc.annotation, tc.raw, err)
			}
			if got != tc.expect {
				t.Fatalf("Convert(%q, %q) = %v (%T), want %v (%T)",
					tc.annotation, tc.raw, got, got, tc.expect, tc.expect)
			}
		})
	}
}

func TestUUID(t *testing.T) {
	r := NewRegistry()

	raw := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	got, err := r.Convert("uuid", raw)
	if err != nil {
		t.Fatal(err)
	}
	id, ok := got.(uuid.UUID)
	if !ok {
		t.Fatalf("expected uuid.UUID, got %T", got)
	}
	if id.String() != raw {
		t.Fatalf("round-trip mismatch: %s", id)
	}

	if _, err := r.Convert("uuid", "not-a-uuid"); err == nil {
		t.Fatal("expected an error for malformed uuid")
	}
}

func TestYAML(t *testing.T) {
	testCases := []struct {
		name   string
		raw    string
		expect interface{}
	}{
		{"list", "[1, 2, 3]", []interface{}{int64(1), int64(2), int64(3)}},
		{"map", "{host: localhost, port: 8080}", map[string]interface{}{
			"host": "localhost",
			"port": int64(8080),
		}},
		{"nested", "{sizes: [10, 20]}", map[string]interface{}{
			"sizes": []interface{}{int64(10), int64(20)},
		}},
		{"scalar_int", "5", int64(5)},
		{"scalar_string", "plain", "plain"},
		{"scalar_bool", "true", true},
	}

	r := NewRegistry()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Convert("yaml", tc.raw)
			if err != nil {
				t.Fatalf("Convert(yaml, %q): %v", tc.raw, err)
			}
			if !reflect.DeepEqual(got, tc.expect) {
				t.Fatalf("Convert(yaml, %q) = %#v, want %#v", tc.raw, got, tc.expect)
			}
		})
	}
}

func TestConvertErrors(t *testing.T) {
	r := NewRegistry()

	_, err := r.Convert("nonsense", "x")
	if !diagnostics.HasCode(err, diagnostics.ErrC001) {
		t.Fatalf("expected C001 for unknown annotation, got %v", err)
	}

	if _, err := r.Convert("int", "abc"); err == nil {
		t.Fatal("expected an error for non-numeric int")
	}
	if _, err := r.Convert("char", "ab"); !diagnostics.HasCode(err, diagnostics.ErrB006) {
		t.Fatalf("expected B006 for multi-rune char, got %v", err)
	}
	if _, err := r.Convert("char", ""); !diagnostics.HasCode(err, diagnostics.ErrB006) {
		t.Fatalf("expected B006 for empty char, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("upper", func(raw string) (interface{}, error) {
		out := make([]rune, 0, len(raw))
		for _, ch := range raw {
			if ch >= 'a' && ch <= 'z' {
				ch -= 'a' - 'A'
			}
			out = append(out, ch)
		}
		return string(out), nil
	})

	got, err := r.Convert("upper", "shout")
	if err != nil {
		t.Fatal(err)
	}
	if got != "SHOUT" {
		t.Fatalf("got %v", got)
	}

	// Replacing a builtin is allowed.
	r.Register("int", func(raw string) (interface{}, error) { return int64(0), nil })
	got, _ = r.Convert("int", "99")
	if got != int64(0) {
		t.Fatal("Register should replace an existing converter")
	}
}
