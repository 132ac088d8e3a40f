package signature

import "fmt"

// Kind classifies how arguments may be bound to a parameter: by position,
// by name, or both, plus the two variadic collectors. Every parameter has
// exactly one kind, fixed by its syntactic position relative to the
// variadic markers.
type Kind int

const (
	// PositionalOnly parameters accept arguments by position, never by
	// name. Declared before a '/' marker; also the natural kind of host
	// (Go) function parameters, which have no caller-visible names.
	PositionalOnly Kind = iota

	// PositionalOrKeyword parameters accept arguments either way. This is
	// the kind of every plain parameter declared before any variadic
	// marker.
	PositionalOrKeyword

	// VarPositional is the '*name' parameter collecting excess positional
	// arguments.
	VarPositional

	// KeywordOnly parameters are declared after '*' (bare or named) and
	// accept arguments by name only.
	KeywordOnly

	// VarKeyword is the '**name' parameter collecting excess named
	// arguments.
	VarKeyword
)

func (k Kind) String() string {
	switch k {
	case PositionalOnly:
		return "POSITIONAL_ONLY"
	case PositionalOrKeyword:
		return "POSITIONAL_OR_KEYWORD"
	case VarPositional:
		return "VAR_POSITIONAL"
	case KeywordOnly:
		return "KEYWORD_ONLY"
	case VarKeyword:
		return "VAR_KEYWORD"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Name returns the human-readable form used in error messages.
func (k Kind) Name() string {
	switch k {
	case PositionalOnly:
		return "positional-only"
	case PositionalOrKeyword:
		return "positional-or-keyword"
	case VarPositional:
		return "variadic positional"
	case KeywordOnly:
		return "keyword-only"
	case VarKeyword:
		return "variadic keyword"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Positional reports whether arguments can bind to this kind by position.
func (k Kind) Positional() bool {
	return k == PositionalOnly || k == PositionalOrKeyword
}

// Keyword reports whether arguments can bind to this kind by name.
func (k Kind) Keyword() bool {
	return k == PositionalOrKeyword || k == KeywordOnly
}

// Variadic reports whether the parameter collects excess arguments.
func (k Kind) Variadic() bool {
	return k == VarPositional || k == VarKeyword
}
