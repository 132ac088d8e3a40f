// Package binder evaluates a call against a signature: raw positional and
// keyword argument text is matched to parameter slots kind by kind,
// converted per annotation, and defaults fill whatever remains.
package binder

import (
	"sort"

	"github.com/funvibe/sigbind/internal/convert"
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/signature"
)

// Call carries the entered arguments, still as text.
type Call struct {
	Positionals []string
	Keywords    map[string]string
}

// BoundArguments is the result of a successful bind. Every parameter of the
// signature has a value: entered, converted, or its default. The variadic
// collectors hold []interface{} and map[string]interface{} respectively.
type BoundArguments struct {
	Signature *signature.Signature

	values map[string]interface{}
}

// Value returns the bound value for a parameter name.
func (b *BoundArguments) Value(name string) (interface{}, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Positional returns the values for positional-capable parameters in
// declaration order, with the variadic collector expanded at the end.
// This is the shape a positional call (e.g. reflect.Call) wants.
func (b *BoundArguments) Positional() []interface{} {
	var out []interface{}
	for _, p := range b.Signature.Parameters {
		switch p.Kind {
		case signature.PositionalOnly, signature.PositionalOrKeyword:
			out = append(out, b.values[p.Name])
		case signature.VarPositional:
			out = append(out, b.values[p.Name].([]interface{})...)
		}
	}
	return out
}

// Keywords returns keyword-only values plus everything the variadic
// keyword collector caught.
func (b *BoundArguments) Keywords() map[string]interface{} {
	out := make(map[string]interface{})
	for _, p := range b.Signature.Parameters {
		switch p.Kind {
		case signature.KeywordOnly:
			out[p.Name] = b.values[p.Name]
		case signature.VarKeyword:
			for k, v := range b.values[p.Name].(map[string]interface{}) {
				out[k] = v
			}
		}
	}
	return out
}

// Arguments returns a copy of all bound values keyed by parameter name.
func (b *BoundArguments) Arguments() map[string]interface{} {
	out := make(map[string]interface{}, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Bind matches call against sig and converts every argument. conv may be
// nil, in which case the built-in converters apply.
func Bind(sig *signature.Signature, call Call, conv *convert.Registry) (*BoundArguments, error) {
	if conv == nil {
		conv = convert.NewRegistry()
	}

	bound := &BoundArguments{Signature: sig, values: make(map[string]interface{})}

	positionals := sig.Positionals()
	varPos := sig.VarPositional()
	varKw := sig.VarKeyword()

	// Phase 1: positional arguments fill positional slots in order; the
	// overflow goes to *args when declared.
	var rest []interface{}
	for i, raw := range call.Positionals {
		if i < len(positionals) {
			p := positionals[i]
			v, err := conv.Convert(p.Annotation, raw)
			if err != nil {
				return nil, diagnostics.Wrap(diagnostics.ErrB006, err,
					"%s: cannot use %q (position %d) as %s for parameter %q",
					sig.Name, raw, i, annotationName(p.Annotation), p.Name)
			}
			bound.values[p.Name] = v
			continue
		}
		if varPos == nil {
			return nil, diagnostics.Newf(diagnostics.ErrB002,
				"%s: supplied %d positional arguments but at most %d are accepted",
				sig.Name, len(call.Positionals), len(positionals))
		}
		v, err := conv.Convert(varPos.Annotation, raw)
		if err != nil {
			return nil, diagnostics.Wrap(diagnostics.ErrB006, err,
				"%s: cannot use %q (position %d) as %s for parameter %q",
				sig.Name, raw, i, annotationName(varPos.Annotation), varPos.Name)
		}
		rest = append(rest, v)
	}
	if varPos != nil {
		if rest == nil {
			rest = []interface{}{}
		}
		bound.values[varPos.Name] = rest
	}

	// Phase 2: keyword arguments. Names are processed sorted so failures
	// are deterministic.
	extra := make(map[string]interface{})
	names := make([]string, 0, len(call.Keywords))
	for name := range call.Keywords {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := call.Keywords[name]

		p, known := sig.Lookup(name)
		if known && p.Kind.Keyword() {
			if _, dup := bound.values[name]; dup {
				return nil, diagnostics.Newf(diagnostics.ErrB004,
					"%s: keyword %q was already given positionally", sig.Name, name)
			}
			v, err := conv.Convert(p.Annotation, raw)
			if err != nil {
				return nil, diagnostics.Wrap(diagnostics.ErrB006, err,
					"%s: cannot use %q as %s for keyword %q",
					sig.Name, raw, annotationName(p.Annotation), name)
			}
			bound.values[name] = v
			continue
		}

		if known && p.Kind == signature.PositionalOnly && varKw == nil {
			return nil, diagnostics.Newf(diagnostics.ErrB003,
				"%s: parameter %q is positional-only and cannot be passed by name", sig.Name, name)
		}

		if varKw == nil {
			return nil, diagnostics.Newf(diagnostics.ErrB003,
				"%s: %q is not a keyword parameter", sig.Name, name)
		}

		v, err := conv.Convert(varKw.Annotation, raw)
		if err != nil {
			return nil, diagnostics.Wrap(diagnostics.ErrB006, err,
				"%s: cannot use %q as %s for keyword %q",
				sig.Name, raw, annotationName(varKw.Annotation), name)
		}
		extra[name] = v
	}
	if varKw != nil {
		bound.values[varKw.Name] = extra
	}

	// Phase 3: defaults and required checks.
	for _, p := range sig.Parameters {
		if p.Kind.Variadic() {
			continue
		}
		if _, ok := bound.values[p.Name]; ok {
			continue
		}
		if p.HasDefault {
			bound.values[p.Name] = p.Default
			continue
		}
		if p.Kind == signature.KeywordOnly {
			return nil, diagnostics.Newf(diagnostics.ErrB005,
				"%s: missing keyword-only argument %q", sig.Name, p.Name)
		}
		return nil, diagnostics.Newf(diagnostics.ErrB001,
			"%s: not enough positional arguments, %q is required", sig.Name, p.Name)
	}

	return bound, nil
}

func annotationName(annotation string) string {
	if annotation == "" {
		return "str"
	}
	return annotation
}
