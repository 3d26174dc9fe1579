package pipeline

import (
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/intern"
)

// buildAddMismatch constructs:
//
//	fn add(x: Int, y: Int) -> Int { x + y }
//	fn main() -> Int { add(1, "two") }
//
// a deliberate type mismatch at add's second argument, standing in for
// a parser that accepted the source in testdata/golden/type_mismatch.txtar.
func buildAddMismatch(t *testing.T) (*ast.Module, *intern.Strings, *intern.Types) {
	t.Helper()
	strs := intern.NewStrings()
	types := intern.NewTypes()
	mod := ast.NewModule(strs, types)

	nameAdd := strs.Intern("add")
	nameMain := strs.Intern("main")
	nameX := strs.Intern("x")
	nameY := strs.Intern("y")
	namePlus := strs.Intern("+")
	nameInt := strs.Intern("Int")
	nameTwo := strs.Intern("two")

	intAnnX := mod.AllocParsedType(ast.ParsedType{Kind: ast.PTNamed, Name: nameInt})
	intAnnY := mod.AllocParsedType(ast.ParsedType{Kind: ast.PTNamed, Name: nameInt})
	intRetAdd := mod.AllocParsedType(ast.ParsedType{Kind: ast.PTNamed, Name: nameInt})
	intRetMain := mod.AllocParsedType(ast.ParsedType{Kind: ast.PTNamed, Name: nameInt})

	xPat := mod.AllocPattern(ast.MatchPattern{Kind: ast.PatBinding, Name: nameX})
	yPat := mod.AllocPattern(ast.MatchPattern{Kind: ast.PatBinding, Name: nameY})
	params := mod.AllocParams([]ast.Param{
		{Pattern: xPat, TypeAnn: intAnnX},
		{Pattern: yPat, TypeAnn: intAnnY},
	})

	xRef := mod.AllocExpr(ast.Expr{Kind: ast.KindIdent, Type: intern.INFER, Name: nameX})
	yRef := mod.AllocExpr(ast.Expr{Kind: ast.KindIdent, Type: intern.INFER, Name: nameY})
	addBody := mod.AllocExpr(ast.Expr{Kind: ast.KindBinary, Type: intern.INFER, Name: namePlus, Left: xRef, Right: yRef})
	addFn := ast.Stmt{Kind: ast.StmtFunction, Name: nameAdd, Params: params, RetAnn: intRetAdd, Body: addBody}

	addRef := mod.AllocExpr(ast.Expr{Kind: ast.KindIdent, Type: intern.INFER, Name: nameAdd})
	callArgs := mod.AllocExprRange([]ast.Expr{
		{Kind: ast.KindIntLit, Type: intern.INFER, IntValue: 1},
		{Kind: ast.KindStringLit, Type: intern.INFER, Text: nameTwo},
	})
	callExpr := mod.AllocExpr(ast.Expr{Kind: ast.KindCall, Type: intern.INFER, Callee: addRef, Elems: callArgs})
	mainFn := ast.Stmt{Kind: ast.StmtFunction, Name: nameMain, RetAnn: intRetMain, Body: callExpr}

	mod.Items = mod.AllocStmtRange([]ast.Stmt{addFn, mainFn})
	return mod, strs, types
}

// TestTypeMismatchDiagnosticCode checks the fixed demo module's call-site
// type mismatch against the expected diagnostic code recorded in
// testdata/golden/type_mismatch.txtar, so the fixture stays load-bearing
// rather than a write-once description nothing ever reads back.
func TestTypeMismatchDiagnosticCode(t *testing.T) {
	archive, err := txtar.ParseFile("testdata/golden/type_mismatch.txtar")
	if err != nil {
		t.Fatalf("txtar.ParseFile: %v", err)
	}
	var wantCode string
	for _, f := range archive.Files {
		if f.Name == "want_code" {
			wantCode = strings.TrimSpace(string(f.Data))
		}
	}
	if wantCode == "" {
		t.Fatal("fixture is missing a want_code file")
	}

	mod, strs, types := buildAddMismatch(t)
	ctx := Run(mod, strs, types)
	diags := ctx.Diags.Finish()

	found := false
	for _, d := range diags {
		if string(d.Code) == wantCode {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("diagnostics %v do not include code %s", diags, wantCode)
	}
}
