package pipeline

import (
	"testing"

	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/intern"
)

// buildAddMain constructs:
//
//	fn add(x: Int, y: Int) -> Int { x + y }
//	fn main() -> Int { add(1, 2) }
//
// directly through the arena API, standing in for a parser's output.
func buildAddMain(t *testing.T) (*ast.Module, *intern.Strings, *intern.Types) {
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
		{Kind: ast.KindIntLit, Type: intern.INFER, IntValue: 2},
	})
	callExpr := mod.AllocExpr(ast.Expr{Kind: ast.KindCall, Type: intern.INFER, Callee: addRef, Elems: callArgs})
	mainFn := ast.Stmt{Kind: ast.StmtFunction, Name: nameMain, RetAnn: intRetMain, Body: callExpr}

	mod.Items = mod.AllocStmtRange([]ast.Stmt{addFn, mainFn})
	return mod, strs, types
}

func TestStandardPipelineLowersBothFunctions(t *testing.T) {
	mod, strs, types := buildAddMain(t)
	ctx := Run(mod, strs, types)

	if diags := ctx.Diags.Finish(); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(ctx.Reg.Functions) != 2 {
		t.Fatalf("len(Reg.Functions) = %d, want 2", len(ctx.Reg.Functions))
	}
	if len(ctx.Canon) != 2 {
		t.Fatalf("len(Canon) = %d, want 2", len(ctx.Canon))
	}
	if len(ctx.Validation) != 0 {
		t.Fatalf("unexpected validation errors: %v", ctx.Validation)
	}
}

func TestInferenceStageSkippedWithoutResolution(t *testing.T) {
	mod, strs, types := buildAddMain(t)
	ctx := NewContext(mod, strs, types)

	ctx = InferenceStage{}.Process(ctx)
	if ctx.Reg != nil {
		t.Fatal("InferenceStage should be a no-op before ResolutionStage runs")
	}
}

func TestCanonicalizationRunsAfterResolutionAndInference(t *testing.T) {
	mod, strs, types := buildAddMain(t)
	ctx := NewContext(mod, strs, types)

	ctx = ResolutionStage{}.Process(ctx)
	ctx = InferenceStage{}.Process(ctx)
	ctx = CanonicalizationStage{}.Process(ctx)

	if len(ctx.Canon) != 2 {
		t.Fatalf("len(Canon) = %d, want 2", len(ctx.Canon))
	}
}
