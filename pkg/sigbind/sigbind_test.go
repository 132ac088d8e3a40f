package sigbind

import (
	"strings"
	"testing"
)

func TestParseBindRoundTrip(t *testing.T) {
	sig, err := ParseSignature("deploy(service, replicas: int = 1, *, force: bool = false, **labels)")
	if err != nil {
		t.Fatal(err)
	}

	bound, err := BindLine(sig, `api replicas=3 force=true env=prod region="eu-west-1"`)
	if err != nil {
		t.Fatal(err)
	}

	if v, _ := bound.Value("service"); v != "api" {
		t.Errorf("service = %v", v)
	}
	if v, _ := bound.Value("replicas"); v != int64(3) {
		t.Errorf("replicas = %v", v)
	}
	if v, _ := bound.Value("force"); v != true {
		t.Errorf("force = %v", v)
	}
	labels, _ := bound.Value("labels")
	m := labels.(map[string]interface{})
	if m["env"] != "prod" || m["region"] != "eu-west-1" {
		t.Errorf("labels = %v", m)
	}
}

func TestKindsExported(t *testing.T) {
	sig, err := ParseSignature("f(a, /, b, *rest, k, **opts)")
	if err != nil {
		t.Fatal(err)
	}

	kinds := []Kind{PositionalOnly, PositionalOrKeyword, VarPositional, KeywordOnly, VarKeyword}
	for i, p := range sig.Parameters {
		if p.Kind != kinds[i] {
			t.Errorf("param %q: kind %s, want %s", p.Name, p.Kind, kinds[i])
		}
	}
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry(IgnoreCase())

	cmd, err := FromFunc("scale(replicas: int)", func(n int) string {
		return strings.Repeat("*", n)
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Add(cmd); err != nil {
		t.Fatal(err)
	}

	got, err := r.Execute("SCALE 4")
	if err != nil {
		t.Fatal(err)
	}
	if got != "****" {
		t.Fatalf("got %v", got)
	}
}

func TestDeriveSignatureExported(t *testing.T) {
	sig, err := DeriveSignature("join", func(sep string, parts ...string) string {
		return strings.Join(parts, sep)
	})
	if err != nil {
		t.Fatal(err)
	}
	if sig.Parameters[0].Kind != PositionalOnly {
		t.Errorf("fixed Go parameters are positional-only, got %s", sig.Parameters[0].Kind)
	}
	if sig.Parameters[1].Kind != VarPositional {
		t.Errorf("trailing variadic is the collector, got %s", sig.Parameters[1].Kind)
	}
}

func TestNewConverters(t *testing.T) {
	conv := NewConverters()
	v, err := conv.Convert("int", "0x10")
	if err != nil {
		t.Fatal(err)
	}
	if v != int64(16) {
		t.Fatalf("got %v", v)
	}
}

func TestUnescape(t *testing.T) {
	got, err := Unescape(`line\nbreak`)
	if err != nil {
		t.Fatal(err)
	}
	if got != "line\nbreak" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderError(t *testing.T) {
	_, err := ParseSignature("f(x, x)")
	if err == nil {
		t.Fatal("expected a parse error")
	}

	var sb strings.Builder
	RenderError(&sb, err)
	if !strings.Contains(sb.String(), "[P002]") {
		t.Fatalf("got %q", sb.String())
	}
}
