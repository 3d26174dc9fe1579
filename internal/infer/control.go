package infer

import (
	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/pattern"
	"github.com/funvibe/sigilc/internal/span"
)

func (i *Infer) synthIf(id ast.ExprId, e ast.Expr) intern.TypeId {
	i.Check(e.Cond, intern.BOOL)
	thenTy := i.Synthesize(e.Then)
	if e.Else == ast.NoExpr {
		i.unify(id, thenTy, intern.UNIT)
		return intern.UNIT
	}
	elseTy := i.Synthesize(e.Else)
	return i.unify(id, thenTy, elseTy)
}

// synthMatch compiles the arms' decision tree (internal/pattern, Component
// I) for its exhaustiveness/redundancy diagnostics and caches the tree for
// Component J, then infers each arm's body against the scrutinee's
// bindings, unifying every arm's result to one type (spec.md §4.I.3).
func (i *Infer) synthMatch(id ast.ExprId, e ast.Expr) intern.TypeId {
	scrutTy := i.U.Resolve(i.Synthesize(e.Scrutinee))
	tree, astArms := pattern.Compile(i.Mod, i.Reg, i.Types, i.Strs, i.Diags, scrutTy, e.Arms)
	i.Trees[id] = tree

	var result intern.TypeId = intern.UNIT
	first := true
	for _, arm := range astArms {
		guard := i.Scope.Push()
		i.bindPatternNames(arm.Pattern, scrutTy)
		if arm.Guard != ast.NoExpr {
			i.Check(arm.Guard, intern.BOOL)
		}
		bodyTy := i.Synthesize(arm.Body)
		guard.Close()

		if first {
			result = bodyTy
			first = false
		} else {
			result = i.unify(arm.Body, result, bodyTy)
		}
	}
	return result
}

func (i *Infer) synthFor(e ast.Expr) intern.TypeId {
	iterTy := i.Synthesize(e.Iter)
	elemTy := i.elementType(i.U.Resolve(iterTy), e.Span)

	guard := i.Scope.PushLoop()
	defer guard.Close()
	i.bindPatternNames(e.Pattern, elemTy)
	if e.Guard != ast.NoExpr {
		i.Check(e.Guard, intern.BOOL)
	}
	i.Synthesize(e.Body)
	return intern.UNIT
}

func (i *Infer) synthListComp(e ast.Expr) intern.TypeId {
	guard := i.Scope.Push()
	defer guard.Close()

	for _, c := range i.Mod.GetCompClauses(e.Clauses) {
		if c.IsFilter {
			i.Check(c.Condition, intern.BOOL)
			continue
		}
		iterTy := i.Synthesize(c.Iterable)
		elemTy := i.elementType(i.U.Resolve(iterTy), c.Span)
		i.bindPatternNames(c.Pattern, elemTy)
	}

	outTy := i.Synthesize(e.Output)
	return i.Types.Intern(intern.TypeData{Kind: intern.KindList, Elem: outTy})
}

func (i *Infer) elementType(iterTy intern.TypeId, sp span.Span) intern.TypeId {
	d := i.Types.Lookup(iterTy)
	switch d.Kind {
	case intern.KindList, intern.KindSet, intern.KindRange, intern.KindChannel:
		return d.Elem
	case intern.KindMap:
		return d.Key
	}
	if iterTy == intern.STR {
		return intern.CHAR
	}
	i.Diags.Add(diagnostics.New(diagnostics.E2001, sp, "value is not iterable"))
	return intern.ERROR
}

func (i *Infer) synthBlock(e ast.Expr) intern.TypeId {
	ids := exprIDs(e.Elems)
	if len(ids) == 0 {
		return intern.UNIT
	}
	guard := i.Scope.Push()
	defer guard.Close()
	var last intern.TypeId = intern.UNIT
	for _, sid := range ids {
		last = i.Synthesize(sid)
	}
	return last
}

// synthLet infers a `let` binding. Local bindings are monomorphic (see
// package doc); only top-level function signatures are generalized.
// Checks E2007 before the bound value is inferred, so a self-reference
// inside an about-to-be-bound lambda is flagged instead of silently
// resolving against an unrelated outer binding of the same name.
func (i *Infer) synthLet(id ast.ExprId, e ast.Expr) intern.TypeId {
	if valExpr := i.Mod.GetExpr(e.Value); valExpr.Kind == ast.KindLambda {
		if p := i.Mod.GetPattern(e.Pattern); p.Kind == ast.PatBinding {
			if containsSelfRef(i.Mod, valExpr.Body, p.Name) {
				i.Diags.Add(diagnostics.New(diagnostics.E2007, e.Span, "closure captures its own not-yet-bound name; use a named recursive function instead"))
			}
		}
	}

	valTy := i.Synthesize(e.Value)
	if e.TypeAnn != ast.NoParsedType {
		annTy := i.resolveParsedType(e.TypeAnn)
		valTy = i.unify(e.Value, valTy, annTy)
	}
	i.bindPatternNames(e.Pattern, valTy)

	if e.Base != ast.NoExpr {
		guard := i.Scope.Push()
		defer guard.Close()
		return i.Synthesize(e.Base)
	}
	return intern.UNIT
}

func (i *Infer) synthLambda(e ast.Expr) intern.TypeId {
	guard := i.Scope.Push()
	defer guard.Close()

	params := i.Mod.GetParams(e.Params)
	paramTys := make([]intern.TypeId, len(params))
	for k, p := range params {
		pty := i.U.FreshVar()
		if p.TypeAnn != ast.NoParsedType {
			pty = i.resolveParsedType(p.TypeAnn)
		}
		paramTys[k] = pty
		i.bindPatternNames(p.Pattern, pty)
		if p.Default != ast.NoExpr {
			i.Check(p.Default, pty)
		}
	}

	bodyTy := i.Synthesize(e.Body)
	if e.RetAnn != ast.NoParsedType {
		bodyTy = i.unify(e.Body, bodyTy, i.resolveParsedType(e.RetAnn))
	}
	return i.Types.Intern(intern.TypeData{Kind: intern.KindFunction, Params: paramTys, Ret: bodyTy})
}

// checkLambda pushes expected's parameter types onto an unannotated
// lambda's parameters instead of minting fresh vars for them, the one
// case this middle end's bidirectional split exists for (spec.md §4.G).
func (i *Infer) checkLambda(id ast.ExprId, e ast.Expr, expectedFn intern.TypeData) intern.TypeId {
	guard := i.Scope.Push()
	defer guard.Close()

	params := i.Mod.GetParams(e.Params)
	if len(params) != len(expectedFn.Params) {
		i.Diags.Add(diagnostics.New(diagnostics.E2004, e.Span, "lambda arity mismatch"))
	}
	n := len(params)
	if len(expectedFn.Params) < n {
		n = len(expectedFn.Params)
	}
	for k := 0; k < n; k++ {
		pty := expectedFn.Params[k]
		if params[k].TypeAnn != ast.NoParsedType {
			pty = i.unify(id, pty, i.resolveParsedType(params[k].TypeAnn))
		}
		i.bindPatternNames(params[k].Pattern, pty)
	}
	for k := n; k < len(params); k++ {
		pty := i.U.FreshVar()
		if params[k].TypeAnn != ast.NoParsedType {
			pty = i.resolveParsedType(params[k].TypeAnn)
		}
		i.bindPatternNames(params[k].Pattern, pty)
	}

	bodyTy := i.Check(e.Body, expectedFn.Ret)
	fnTy := i.Types.Intern(intern.TypeData{Kind: intern.KindFunction, Params: expectedFn.Params, Ret: bodyTy})
	i.Mod.SetExprType(id, fnTy)
	return fnTy
}
