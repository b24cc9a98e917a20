package internalcheck

import (
	"fmt"
	"go/types"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const (
	modulePath  = "github.com/cubism-go/cubism-core-go"
	backendPath = modulePath + "/pkg/cubism/internal/backend"
)

// nativeImports may only appear in the backend package.
var nativeImports = map[string]bool{
	"C":                            true,
	"github.com/ebitengine/purego": true,
	"golang.org/x/sys/windows":     true,
}

func TestNativeImportsConfinedToBackend(t *testing.T) {
	cfg := &packages.Config{
		Mode:  packages.NeedSyntax | packages.NeedFiles | packages.NeedName,
		Tests: true,
	}

	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var findings []string

	for _, pkg := range pkgs {
		if pkg.PkgPath == backendPath {
			continue
		}
		for _, file := range pkg.Syntax {
			for _, spec := range file.Imports {
				path, err := strconv.Unquote(spec.Path.Value)
				if err != nil || !nativeImports[path] {
					continue
				}
				pos := pkg.Fset.Position(spec.Pos())
				findings = append(findings, fmt.Sprintf("%s: %s imported outside the backend", pos, path))
			}
		}
	}

	if len(findings) > 0 {
		t.Fatalf("native boundary policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func TestNoExportedRawPointers(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedTypes | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg, modulePath+"/pkg/cubism")
	if err != nil {
		t.Fatalf("load package: %v", err)
	}

	var findings []string
	report := func(where string, typ types.Type) {
		if containsRawPointer(typ, map[types.Type]bool{}) {
			findings = append(findings, fmt.Sprintf("%s exposes %s", where, typ))
		}
	}

	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			if !obj.Exported() {
				continue
			}
			switch obj := obj.(type) {
			case *types.Func, *types.Var, *types.Const:
				report(name, obj.Type())
			case *types.TypeName:
				checkNamedType(name, obj.Type(), report)
			}
		}
	}

	if len(findings) > 0 {
		t.Fatalf("raw pointer policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func checkNamedType(name string, typ types.Type, report func(string, types.Type)) {
	if st, ok := typ.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			if f := st.Field(i); f.Exported() {
				report(name+"."+f.Name(), f.Type())
			}
		}
	}
	mset := types.NewMethodSet(types.NewPointer(typ))
	for i := 0; i < mset.Len(); i++ {
		m := mset.At(i).Obj()
		if m.Exported() {
			report(name+"."+m.Name(), m.Type())
		}
	}
}

// containsRawPointer reports whether typ mentions unsafe.Pointer or uintptr
// anywhere in its exported shape.
func containsRawPointer(typ types.Type, seen map[types.Type]bool) bool {
	if seen[typ] {
		return false
	}
	seen[typ] = true

	switch t := typ.(type) {
	case *types.Basic:
		return t.Kind() == types.UnsafePointer || t.Kind() == types.Uintptr
	case *types.Pointer:
		return containsRawPointer(t.Elem(), seen)
	case *types.Slice:
		return containsRawPointer(t.Elem(), seen)
	case *types.Array:
		return containsRawPointer(t.Elem(), seen)
	case *types.Map:
		return containsRawPointer(t.Key(), seen) || containsRawPointer(t.Elem(), seen)
	case *types.Chan:
		return containsRawPointer(t.Elem(), seen)
	case *types.Signature:
		return tupleHasRawPointer(t.Params(), seen) || tupleHasRawPointer(t.Results(), seen)
	case *types.Named:
		// Unexported fields are opaque to callers.
		if st, ok := t.Underlying().(*types.Struct); ok {
			for i := 0; i < st.NumFields(); i++ {
				if f := st.Field(i); f.Exported() && containsRawPointer(f.Type(), seen) {
					return true
				}
			}
			return false
		}
		return containsRawPointer(t.Underlying(), seen)
	case *types.Alias:
		return containsRawPointer(types.Unalias(t), seen)
	}
	return false
}

func tupleHasRawPointer(tuple *types.Tuple, seen map[types.Type]bool) bool {
	for i := 0; i < tuple.Len(); i++ {
		if containsRawPointer(tuple.At(i).Type(), seen) {
			return true
		}
	}
	return false
}
