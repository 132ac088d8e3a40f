// Package inspect derives signatures from Go source. Exported functions of
// a loaded package classify the way any Go function does: fixed parameters
// are positional-only (Go callers cannot pass arguments by name) and a
// trailing variadic is the positional collector.
package inspect

import (
	"fmt"
	"go/types"
	"os"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/funvibe/sigbind/internal/config"
	"github.com/funvibe/sigbind/internal/signature"
)

// Inspector loads Go packages and extracts signatures from them.
type Inspector struct {
	// workDir is the directory package patterns resolve against.
	workDir string

	loadedPkgs map[string]*packages.Package
}

func New(workDir string) *Inspector {
	return &Inspector{workDir: workDir, loadedPkgs: make(map[string]*packages.Package)}
}

// Load resolves the given package patterns with full type information.
func (ins *Inspector) Load(patterns ...string) error {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedSyntax,
		Dir: ins.workDir,
		Env: append(os.Environ(), "GOWORK=off"),
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("loading packages: %w", err)
	}

	var errs []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", pkg.PkgPath, e.Msg))
		}
		ins.loadedPkgs[pkg.PkgPath] = pkg
	}

	if len(errs) > 0 {
		return fmt.Errorf("package errors:\n  %s", strings.Join(errs, "\n  "))
	}

	return nil
}

// Signatures extracts one classified signature per exported function of the
// loaded package, in scope order.
func (ins *Inspector) Signatures(pkgPath string) ([]*signature.Signature, error) {
	pkg, ok := ins.loadedPkgs[pkgPath]
	if !ok {
		return nil, fmt.Errorf("package %s not loaded", pkgPath)
	}

	var sigs []*signature.Signature
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}

		sig, err := fromGoFunc(fn)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", pkgPath, name, err)
		}
		sigs = append(sigs, sig)
	}

	return sigs, nil
}

func fromGoFunc(fn *types.Func) (*signature.Signature, error) {
	goSig := fn.Type().(*types.Signature)
	tuple := goSig.Params()

	params := make([]*signature.Parameter, 0, tuple.Len())
	for i := 0; i < tuple.Len(); i++ {
		v := tuple.At(i)

		name := v.Name()
		if name == "" || name == "_" {
			name = fmt.Sprintf("arg%d", i+1)
		}

		t := v.Type()
		kind := signature.PositionalOnly
		if goSig.Variadic() && i == tuple.Len()-1 {
			kind = signature.VarPositional
			t = t.(*types.Slice).Elem()
		}

		params = append(params, &signature.Parameter{
			Name:       name,
			Kind:       kind,
			Annotation: annotationForGoType(t),
		})
	}

	return signature.New(fn.Name(), params...)
}

// annotationForGoType maps a Go type to a converter annotation.
func annotationForGoType(t types.Type) string {
	switch t.String() {
	case "time.Duration":
		return config.AnnotationDuration
	case "github.com/google/uuid.UUID":
		return config.AnnotationUUID
	}

	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return config.AnnotationAny
	}

	switch basic.Info() & (types.IsBoolean | types.IsInteger | types.IsFloat | types.IsString) {
	case types.IsBoolean:
		return config.AnnotationBool
	case types.IsInteger:
		return config.AnnotationInt
	case types.IsFloat:
		return config.AnnotationFloat
	case types.IsString:
		return config.AnnotationStr
	default:
		return config.AnnotationAny
	}
}
