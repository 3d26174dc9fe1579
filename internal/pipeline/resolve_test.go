package pipeline

import (
	"testing"

	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/registry"
)

// buildEnum constructs:
//
//	type Shape = Circle(Int) | Point
//
// directly through the arena API.
func buildEnum(t *testing.T) (*ast.Module, *intern.Strings, *intern.Types, intern.Name) {
	t.Helper()
	strs := intern.NewStrings()
	types := intern.NewTypes()
	mod := ast.NewModule(strs, types)

	nameShape := strs.Intern("Shape")
	nameCircle := strs.Intern("Circle")
	namePoint := strs.Intern("Point")
	nameInt := strs.Intern("Int")

	intField := mod.AllocParsedType(ast.ParsedType{Kind: ast.PTNamed, Name: nameInt})
	fieldRange := mod.AllocParsedTypeRange([]ast.ParsedType{mod.GetParsedType(intField)})

	variants := mod.AllocDataCtors([]ast.DataCtor{
		{Name: nameCircle, Fields: fieldRange},
		{Name: namePoint},
	})

	decl := ast.Stmt{Kind: ast.StmtTypeDecl, Name: nameShape, Variants: variants}
	mod.Items = mod.AllocStmtRange([]ast.Stmt{decl})
	return mod, strs, types, nameShape
}

func TestResolveTypeDeclRegistersEnum(t *testing.T) {
	mod, strs, types, name := buildEnum(t)
	reg, _ := resolve(mod, strs, types, diagnostics.NewQueue())

	entry, ok := reg.Types[name]
	if !ok {
		t.Fatal("Shape was not registered")
	}
	if entry.Kind != registry.KindEnum {
		t.Errorf("Kind = %v, want KindEnum", entry.Kind)
	}
	if len(entry.Variants) != 2 {
		t.Fatalf("len(Variants) = %d, want 2", len(entry.Variants))
	}
	if len(entry.Variants[0].Fields) != 1 {
		t.Errorf("Circle should carry one field, got %d", len(entry.Variants[0].Fields))
	}
}

func TestParamNameFallsBackForDestructuringParam(t *testing.T) {
	strs := intern.NewStrings()
	types := intern.NewTypes()
	mod := ast.NewModule(strs, types)

	// A tuple-destructuring parameter pattern has no single bound name.
	tuplePat := mod.AllocPattern(ast.MatchPattern{Kind: ast.PatTuple})
	name := paramName(mod, strs, ast.Param{Pattern: tuplePat}, 2)
	if got := strs.Lookup(name); got != "_arg2" {
		t.Errorf("paramName = %q, want _arg2", got)
	}
}

func TestParamNameUsesBindingPattern(t *testing.T) {
	strs := intern.NewStrings()
	types := intern.NewTypes()
	mod := ast.NewModule(strs, types)

	nameX := strs.Intern("x")
	pat := mod.AllocPattern(ast.MatchPattern{Kind: ast.PatBinding, Name: nameX})
	got := paramName(mod, strs, ast.Param{Pattern: pat}, 0)
	if got != nameX {
		t.Errorf("paramName = %v, want %v", got, nameX)
	}
}

func TestCapabilitySetExtractsNamedConstraints(t *testing.T) {
	strs := intern.NewStrings()
	types := intern.NewTypes()
	mod := ast.NewModule(strs, types)

	nameNet := strs.Intern("Net")
	constraint := mod.AllocParsedType(ast.ParsedType{Kind: ast.PTNamed, Name: nameNet})
	caps := capabilitySet(mod, []ast.ParsedTypeId{constraint})

	if !caps[nameNet] {
		t.Error("capabilitySet should mark Net as required")
	}
	if len(caps) != 1 {
		t.Errorf("len(caps) = %d, want 1", len(caps))
	}
}
