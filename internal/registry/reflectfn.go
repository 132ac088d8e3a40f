package registry

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/sigbind/internal/binder"
	"github.com/funvibe/sigbind/internal/config"
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/parser"
	"github.com/funvibe/sigbind/internal/signature"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// DeriveSignature classifies the parameters of a plain Go function. Go
// callers cannot pass arguments by name, so every fixed parameter is
// positional-only and a trailing variadic is the positional collector.
// Parameter names are synthesized (arg1, arg2, ...) since reflection does
// not preserve them.
func DeriveSignature(name string, fn interface{}) (*signature.Signature, error) {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return nil, diagnostics.Newf(diagnostics.ErrR006, "%q is not a function", name)
	}

	n := t.NumIn()
	params := make([]*signature.Parameter, 0, n)
	for i := 0; i < n; i++ {
		in := t.In(i)
		kind := signature.PositionalOnly
		if t.IsVariadic() && i == n-1 {
			kind = signature.VarPositional
			in = in.Elem()
		}
		params = append(params, &signature.Parameter{
			Name:       fmt.Sprintf("arg%d", i+1),
			Kind:       kind,
			Annotation: annotationFor(in),
		})
	}

	return signature.New(name, params...)
}

// FromFunc builds a command whose handler adapts bound arguments to a
// reflect call on fn. decl supplies the caller-facing names, annotations
// and defaults; its positional shape must agree with fn. Keyword-only and
// variadic keyword parameters cannot map to a Go call and are rejected.
func FromFunc(decl string, fn interface{}) (*Command, error) {
	sig, err := parser.Parse(decl)
	if err != nil {
		return nil, err
	}

	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return nil, diagnostics.Newf(diagnostics.ErrR006, "%s: handler is not a function", sig.Name)
	}

	for _, p := range sig.Parameters {
		if p.Kind == signature.KeywordOnly || p.Kind == signature.VarKeyword {
			return nil, diagnostics.Newf(diagnostics.ErrR006,
				"%s: %s parameter %q cannot map to a Go call", sig.Name, p.Kind.Name(), p.Name)
		}
	}

	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}
	if len(sig.Positionals()) != fixed {
		return nil, diagnostics.Newf(diagnostics.ErrR006,
			"%s: declares %d positional parameters but the function takes %d",
			sig.Name, len(sig.Positionals()), fixed)
	}
	if sig.VarPositional() != nil && !t.IsVariadic() {
		return nil, diagnostics.Newf(diagnostics.ErrR006,
			"%s: declares %q but the function is not variadic", sig.Name, sig.VarPositional().Name)
	}

	fv := reflect.ValueOf(fn)
	handler := func(bound *binder.BoundArguments) (interface{}, error) {
		vals := bound.Positional()
		in := make([]reflect.Value, 0, len(vals))
		for i, v := range vals {
			var want reflect.Type
			if i < fixed {
				want = t.In(i)
			} else {
				want = t.In(t.NumIn() - 1).Elem()
			}
			rv, err := coerce(v, want)
			if err != nil {
				return nil, diagnostics.Wrap(diagnostics.ErrB006, err,
					"%s: argument %d", sig.Name, i)
			}
			in = append(in, rv)
		}

		results := fv.Call(in)
		return splitResults(results)
	}

	return &Command{Signature: sig, Handler: handler}, nil
}

// splitResults maps reflect call results to (value, error): a trailing
// error return is separated out, multiple values come back as a slice.
func splitResults(results []reflect.Value) (interface{}, error) {
	var err error
	if n := len(results); n > 0 && results[n-1].Type().Implements(errorType) {
		if !results[n-1].IsNil() {
			err = results[n-1].Interface().(error)
		}
		results = results[:n-1]
	}

	switch len(results) {
	case 0:
		return nil, err
	case 1:
		return results[0].Interface(), err
	default:
		out := make([]interface{}, len(results))
		for i, r := range results {
			out[i] = r.Interface()
		}
		return out, err
	}
}

// coerce adapts a converted argument value to the Go parameter type.
// Numeric widths adjust (the converters produce int64/float64); anything
// else must be assignable.
func coerce(v interface{}, want reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(want), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type() == want || rv.Type().AssignableTo(want) {
		return rv, nil
	}

	if isNumeric(rv.Kind()) && isNumeric(want.Kind()) && rv.Type().ConvertibleTo(want) {
		return rv.Convert(want), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", v, want)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// annotationFor picks the converter annotation for a Go parameter type.
func annotationFor(t reflect.Type) string {
	switch t {
	case durationType:
		return config.AnnotationDuration
	case uuidType:
		return config.AnnotationUUID
	}

	switch t.Kind() {
	case reflect.String:
		return config.AnnotationStr
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return config.AnnotationInt
	case reflect.Float32, reflect.Float64:
		return config.AnnotationFloat
	case reflect.Bool:
		return config.AnnotationBool
	default:
		return config.AnnotationAny
	}
}
