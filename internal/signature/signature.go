package signature

import (
	"fmt"
	"strings"

	"github.com/funvibe/sigbind/internal/config"
	"github.com/funvibe/sigbind/internal/diagnostics"
)

// Parameter is one declared slot of a signature.
type Parameter struct {
	Name string
	Kind Kind

	// Annotation names the converter for raw argument text. Empty means
	// config.DefaultAnnotation.
	Annotation string

	// Default is the literal fallback value (string, int64, float64, bool
	// or nil). Only meaningful when HasDefault is set; variadic parameters
	// never carry one.
	Default    interface{}
	HasDefault bool
}

// Required reports whether an argument must be supplied for this parameter.
// Variadic collectors are never required; they default to empty.
func (p *Parameter) Required() bool {
	return !p.HasDefault && !p.Kind.Variadic()
}

func (p *Parameter) String() string {
	var sb strings.Builder
	switch p.Kind {
	case VarPositional:
		sb.WriteString(config.VarPositionalMarker)
	case VarKeyword:
		sb.WriteString(config.VarKeywordMarker)
	}
	sb.WriteString(p.Name)
	if p.Annotation != "" {
		sb.WriteString(": " + p.Annotation)
	}
	if p.HasDefault {
		sb.WriteString(" = " + formatDefault(p.Default))
	}
	return sb.String()
}

func formatDefault(v interface{}) string {
	switch d := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", d)
	default:
		return fmt.Sprintf("%v", d)
	}
}

// Signature is an ordered, classified parameter list under a name.
// It is immutable after New returns.
type Signature struct {
	Name       string
	Parameters []*Parameter

	index map[string]int
}

// New validates the declaration order and builds the lookup index.
// The ordering rules are the ones the markers imply:
//
//   - names are unique
//   - kinds never regress: PositionalOnly < PositionalOrKeyword <
//     VarPositional < KeywordOnly < VarKeyword
//   - at most one VarPositional and one VarKeyword
//   - once a positional parameter has a default, the following positional
//     ones must too (keyword-only parameters are exempt)
//   - variadic collectors carry no default
func New(name string, params ...*Parameter) (*Signature, error) {
	s := &Signature{Name: name, Parameters: params, index: make(map[string]int, len(params))}

	prevKind := PositionalOnly
	seenDefault := false
	seenVarPositional := false
	seenVarKeyword := false

	for i, p := range params {
		if p.Name == "" {
			return nil, diagnostics.Newf(diagnostics.ErrP001, "%s: parameter %d has no name", name, i)
		}
		if _, dup := s.index[p.Name]; dup {
			return nil, diagnostics.Newf(diagnostics.ErrP002, "%s: duplicate parameter %q", name, p.Name)
		}
		s.index[p.Name] = i

		if p.Kind < prevKind {
			code := diagnostics.ErrP001
			if prevKind == VarKeyword {
				code = diagnostics.ErrP004
			}
			return nil, diagnostics.Newf(code,
				"%s: %s parameter %q cannot follow a %s one", name, p.Kind.Name(), p.Name, prevKind.Name())
		}
		prevKind = p.Kind

		switch p.Kind {
		case VarPositional:
			if seenVarPositional {
				return nil, diagnostics.Newf(diagnostics.ErrP003, "%s: second variadic positional parameter %q", name, p.Name)
			}
			seenVarPositional = true
		case VarKeyword:
			if seenVarKeyword {
				return nil, diagnostics.Newf(diagnostics.ErrP003, "%s: second variadic keyword parameter %q", name, p.Name)
			}
			seenVarKeyword = true
		}

		if p.Kind.Variadic() && p.HasDefault {
			return nil, diagnostics.Newf(diagnostics.ErrP006, "%s: variadic parameter %q cannot have a default", name, p.Name)
		}

		if p.Kind.Positional() {
			if p.HasDefault {
				seenDefault = true
			} else if seenDefault {
				return nil, diagnostics.Newf(diagnostics.ErrP005,
					"%s: required parameter %q follows an optional one", name, p.Name)
			}
		}
	}

	return s, nil
}

// MustNew is New for statically-known declarations.
func MustNew(name string, params ...*Parameter) *Signature {
	s, err := New(name, params...)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup finds a parameter by name.
func (s *Signature) Lookup(name string) (*Parameter, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.Parameters[i], true
}

// Positionals returns the parameters that can be filled by position,
// in declaration order (the variadic collector excluded).
func (s *Signature) Positionals() []*Parameter {
	var out []*Parameter
	for _, p := range s.Parameters {
		if p.Kind.Positional() {
			out = append(out, p)
		}
	}
	return out
}

// VarPositional returns the '*args' parameter, or nil.
func (s *Signature) VarPositional() *Parameter {
	for _, p := range s.Parameters {
		if p.Kind == VarPositional {
			return p
		}
	}
	return nil
}

// VarKeyword returns the '**kwargs' parameter, or nil.
func (s *Signature) VarKeyword() *Parameter {
	for _, p := range s.Parameters {
		if p.Kind == VarKeyword {
			return p
		}
	}
	return nil
}

// String renders the declaration back, markers included.
func (s *Signature) String() string {
	var parts []string

	lastPosOnly := -1
	firstKwOnly := -1
	hasVarPositional := false
	for i, p := range s.Parameters {
		switch p.Kind {
		case PositionalOnly:
			lastPosOnly = i
		case VarPositional:
			hasVarPositional = true
		case KeywordOnly:
			if firstKwOnly < 0 {
				firstKwOnly = i
			}
		}
	}

	for i, p := range s.Parameters {
		if i == firstKwOnly && !hasVarPositional {
			parts = append(parts, config.VarPositionalMarker)
		}
		parts = append(parts, p.String())
		if i == lastPosOnly {
			parts = append(parts, config.PositionalOnlyMarker)
		}
	}

	return s.Name + "(" + strings.Join(parts, ", ") + ")"
}
