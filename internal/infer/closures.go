package infer

import (
	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/intern"
)

// containsSelfRef reports whether root's subtree references name as a
// plain identifier without passing through a nested binder that shadows
// it first. Used only to flag E2007: a lambda bound via plain `let`
// referencing its own not-yet-existing name, which would need letrec
// semantics this middle end does not provide (spec.md names a dedicated
// recursive-function form for that instead). Grounded on the teacher's
// free-variable walk for closure capture analysis
// (analyzer/declarations_functions.go's capture set construction),
// narrowed to a yes/no occurrence test instead of a full captured-set.
func containsSelfRef(m *ast.Module, root ast.ExprId, name intern.Name) bool {
	if root == ast.NoExpr {
		return false
	}
	e := m.GetExpr(root)
	switch e.Kind {
	case ast.KindIdent:
		return e.Name == name

	case ast.KindLambda:
		for _, p := range m.GetParams(e.Params) {
			if patternBindsName(m, p.Pattern, name) {
				return false
			}
			if containsSelfRef(m, p.Default, name) {
				return true
			}
		}
		return containsSelfRef(m, e.Body, name)

	case ast.KindLet:
		if containsSelfRef(m, e.Value, name) {
			return true
		}
		if patternBindsName(m, e.Pattern, name) {
			return false
		}
		return containsSelfRef(m, e.Base, name)

	case ast.KindFor:
		if containsSelfRef(m, e.Iter, name) {
			return true
		}
		if patternBindsName(m, e.Pattern, name) {
			return false
		}
		if containsSelfRef(m, e.Guard, name) {
			return true
		}
		return containsSelfRef(m, e.Body, name)

	case ast.KindMatch:
		if containsSelfRef(m, e.Scrutinee, name) {
			return true
		}
		for _, arm := range m.GetArms(e.Arms) {
			if patternBindsName(m, arm.Pattern, name) {
				continue
			}
			if containsSelfRef(m, arm.Guard, name) || containsSelfRef(m, arm.Body, name) {
				return true
			}
		}
		return false

	case ast.KindListComp:
		for _, c := range m.GetCompClauses(e.Clauses) {
			if c.IsFilter {
				if containsSelfRef(m, c.Condition, name) {
					return true
				}
				continue
			}
			if containsSelfRef(m, c.Iterable, name) {
				return true
			}
			if patternBindsName(m, c.Pattern, name) {
				return false
			}
		}
		return containsSelfRef(m, e.Output, name)

	default:
		for _, child := range childExprs(m, e) {
			if containsSelfRef(m, child, name) {
				return true
			}
		}
		return false
	}
}

func patternBindsName(m *ast.Module, id ast.MatchPatternId, name intern.Name) bool {
	if id == ast.NoMatchPattern {
		return false
	}
	p := m.GetPattern(id)
	switch p.Kind {
	case ast.PatBinding:
		return p.Name == name
	case ast.PatAt:
		return p.Name == name || patternBindsName(m, p.Sub, name)
	case ast.PatTuple, ast.PatOr:
		for k := 0; k < int(p.Subs.Len); k++ {
			if patternBindsName(m, ast.MatchPatternId(p.Subs.Start+uint32(k)), name) {
				return true
			}
		}
		return false
	case ast.PatList:
		if p.RestName == name {
			return true
		}
		for k := 0; k < int(p.Subs.Len); k++ {
			if patternBindsName(m, ast.MatchPatternId(p.Subs.Start+uint32(k)), name) {
				return true
			}
		}
		return false
	case ast.PatRecord:
		for _, fp := range m.GetFieldPats(p.RecFields) {
			if patternBindsName(m, fp.Sub, name) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// childExprs enumerates every direct ExprId-valued field of e relevant to
// a free-occurrence scan; every Kind containsSelfRef doesn't special-case
// above falls through to this generic walk.
func childExprs(m *ast.Module, e ast.Expr) []ast.ExprId {
	var out []ast.ExprId
	add := func(id ast.ExprId) {
		if id != ast.NoExpr {
			out = append(out, id)
		}
	}
	for k := 0; k < int(e.Elems.Len); k++ {
		add(ast.ExprId(e.Elems.Start + uint32(k)))
	}
	for _, f := range m.GetFields(e.Fields) {
		add(f.Value)
	}
	add(e.Base)
	for _, me := range m.GetMapEntries(e.MapEntries) {
		add(me.Key)
		add(me.Value)
	}
	add(e.Operand)
	add(e.Left)
	add(e.Right)
	add(e.Callee)
	add(e.Cond)
	add(e.Then)
	add(e.Else)
	add(e.Value)
	add(e.Payload)
	add(e.Body)
	return out
}
