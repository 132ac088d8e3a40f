// Package sigbind is the embedding surface: parse signature declarations,
// bind argument text against them, and dispatch whole command lines.
package sigbind

import (
	"io"

	"github.com/funvibe/sigbind/internal/argline"
	"github.com/funvibe/sigbind/internal/binder"
	"github.com/funvibe/sigbind/internal/convert"
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/parser"
	"github.com/funvibe/sigbind/internal/registry"
	"github.com/funvibe/sigbind/internal/signature"
)

// Parameter kinds, re-exported for callers.
const (
	PositionalOnly      = signature.PositionalOnly
	PositionalOrKeyword = signature.PositionalOrKeyword
	VarPositional       = signature.VarPositional
	KeywordOnly         = signature.KeywordOnly
	VarKeyword          = signature.VarKeyword
)

type (
	Kind           = signature.Kind
	Parameter      = signature.Parameter
	Signature      = signature.Signature
	Call           = binder.Call
	BoundArguments = binder.BoundArguments
	Command        = registry.Command
	Handler        = registry.Handler
	Registry       = registry.Registry
	Verb           = registry.Verb
	ConverterFunc  = convert.Func
)

// ParseSignature parses a declaration like
// "greet(name, excited: bool = false, *rest, **opts)".
func ParseSignature(decl string) (*Signature, error) {
	return parser.Parse(decl)
}

// NewSignature builds and validates a signature from parameters directly.
func NewSignature(name string, params ...*Parameter) (*Signature, error) {
	return signature.New(name, params...)
}

// Bind evaluates positional and keyword argument text against a signature
// using the built-in converters.
func Bind(sig *Signature, positionals []string, keywords map[string]string) (*BoundArguments, error) {
	return binder.Bind(sig, binder.Call{Positionals: positionals, Keywords: keywords}, nil)
}

// BindLine splits a raw line and binds it against a signature.
func BindLine(sig *Signature, line string) (*BoundArguments, error) {
	positionals, keywords, err := argline.Fields(line)
	if err != nil {
		return nil, err
	}
	return Bind(sig, positionals, keywords)
}

// NewRegistry creates a command registry.
func NewRegistry(opts ...registry.Option) *Registry {
	return registry.New(opts...)
}

// IgnoreCase and WithConverters configure NewRegistry.
var (
	IgnoreCase     = registry.IgnoreCase
	WithConverters = registry.WithConverters
)

// FromFunc adapts a plain Go function into a command under the declared
// signature.
func FromFunc(decl string, fn interface{}) (*Command, error) {
	return registry.FromFunc(decl, fn)
}

// DeriveSignature classifies the parameters of a Go function via
// reflection.
func DeriveSignature(name string, fn interface{}) (*Signature, error) {
	return registry.DeriveSignature(name, fn)
}

// NewConverters returns a converter registry seeded with the built-in
// annotations (str, int, float, bool, char, duration, uuid, yaml, any).
func NewConverters() *convert.Registry {
	return convert.NewRegistry()
}

// Unescape decodes backslash escapes in user-entered text.
func Unescape(s string) (string, error) {
	return argline.Unescape(s)
}

// RenderError writes a diagnostic in human-readable (and, on terminals,
// colored) form.
func RenderError(w io.Writer, err error) {
	diagnostics.Render(w, err)
}
