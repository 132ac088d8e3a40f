// Package convert turns raw argument text into typed values, keyed by the
// annotation name a parameter declares.
package convert

import (
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/sigbind/internal/config"
	"github.com/funvibe/sigbind/internal/diagnostics"
)

// Func converts one raw argument into its value.
type Func func(raw string) (interface{}, error)

// Registry maps annotation names to converters.
//
// Thread-safe: registration typically happens once at startup; lookups
// happen on every bind.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Func
}

// NewRegistry returns a registry seeded with the built-in annotations.
func NewRegistry() *Registry {
	r := &Registry{converters: make(map[string]Func)}
	for name, fn := range builtins {
		r.converters[name] = fn
	}
	return r
}

// Register adds or replaces the converter for an annotation name.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[name] = fn
}

// Lookup returns the converter for an annotation name.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.converters[name]
	return fn, ok
}

// Convert applies the converter for annotation to raw. An empty annotation
// means config.DefaultAnnotation.
func (r *Registry) Convert(annotation, raw string) (interface{}, error) {
	if annotation == "" {
		annotation = config.DefaultAnnotation
	}

	fn, ok := r.Lookup(annotation)
	if !ok {
		return nil, diagnostics.Newf(diagnostics.ErrC001, "unknown annotation %q", annotation)
	}
	return fn(raw)
}

var builtins = map[string]Func{
	config.AnnotationStr: func(raw string) (interface{}, error) {
		return raw, nil
	},
	"string": func(raw string) (interface{}, error) {
		return raw, nil
	},
	config.AnnotationInt: func(raw string) (interface{}, error) {
		// Base 0 accepts 0x/0o/0b prefixes and underscores.
		return strconv.ParseInt(raw, 0, 64)
	},
	config.AnnotationFloat: func(raw string) (interface{}, error) {
		return strconv.ParseFloat(raw, 64)
	},
	config.AnnotationBool: func(raw string) (interface{}, error) {
		return strconv.ParseBool(raw)
	},
	config.AnnotationChar: func(raw string) (interface{}, error) {
		r, size := utf8.DecodeRuneInString(raw)
		if size == 0 || size != len(raw) {
			return nil, diagnostics.Newf(diagnostics.ErrB006, "%q is not a single character", raw)
		}
		return r, nil
	},
	config.AnnotationDuration: func(raw string) (interface{}, error) {
		return time.ParseDuration(raw)
	},
	config.AnnotationUUID: func(raw string) (interface{}, error) {
		return uuid.Parse(raw)
	},
	// Structured literals: lists, maps and scalars in flow syntax,
	// e.g. "[1, 2, 3]" or "{host: localhost, port: 8080}".
	config.AnnotationYAML: yamlConvert,
	config.AnnotationAny:  yamlConvert,
}

func yamlConvert(raw string) (interface{}, error) {
	var data interface{}
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return normalizeYaml(data), nil
}

// normalizeYaml flattens the yaml.v3 value shapes into plain Go ones
// (string-keyed maps throughout).
func normalizeYaml(data interface{}) interface{} {
	switch v := data.(type) {
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = normalizeYaml(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[k] = normalizeYaml(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			key, ok := k.(string)
			if !ok {
				key = toString(k)
			}
			out[key] = normalizeYaml(val)
		}
		return out
	case int:
		return int64(v)
	default:
		return v
	}
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	default:
		b, err := yaml.Marshal(v)
		if err != nil {
			return ""
		}
		// yaml.Marshal appends a newline
		return string(b[:len(b)-1])
	}
}
