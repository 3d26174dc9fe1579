package infer

import (
	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/intern"
)

// bindPatternNames introduces every name an irrefutable pattern binds into
// the current scope at ty, recursing into tuple/at/list/record shapes.
// Grounded on the teacher's `bindPattern` walk in
// analyzer/declarations_patterns.go, generalized from its pointer-AST
// pattern types to this middle end's arena-resident MatchPattern.
//
// Variant/literal/range sub-patterns in let/parameter position are a
// parser-level error this package does not re-validate (only a prior
// parse/resolve pass would construct an irrefutable-position pattern that
// isn't actually irrefutable); reaching one here just binds nothing
// further rather than panicking.
func (i *Infer) bindPatternNames(id ast.MatchPatternId, ty intern.TypeId) {
	if id == ast.NoMatchPattern {
		return
	}
	p := i.Mod.GetPattern(id)
	i.Mod.SetPatternType(id, ty)

	switch p.Kind {
	case ast.PatWildcard:

	case ast.PatBinding:
		i.Scope.DefinePattern(p.Name, ty, false)

	case ast.PatAt:
		i.Scope.DefinePattern(p.Name, ty, false)
		i.bindPatternNames(p.Sub, ty)

	case ast.PatTuple:
		d := i.Types.Lookup(i.U.Resolve(ty))
		for k := 0; k < int(p.Subs.Len); k++ {
			sub := i.U.FreshVar()
			if d.Kind == intern.KindTuple && k < len(d.Elems) {
				sub = d.Elems[k]
			}
			i.bindPatternNames(patIDAt(p.Subs, k), sub)
		}

	case ast.PatList:
		d := i.Types.Lookup(i.U.Resolve(ty))
		elemTy := i.U.FreshVar()
		if d.Kind == intern.KindList {
			elemTy = d.Elem
		}
		for k := 0; k < int(p.Subs.Len); k++ {
			i.bindPatternNames(patIDAt(p.Subs, k), elemTy)
		}
		if p.HasRest && p.RestName != intern.EMPTY {
			i.Scope.DefinePattern(p.RestName, ty, false)
		}

	case ast.PatRecord:
		d := i.Types.Lookup(i.U.Resolve(ty))
		fieldTy := make(map[intern.Name]intern.TypeId, len(d.Fields))
		if d.Kind == intern.KindRow {
			for _, f := range d.Fields {
				fieldTy[f.Name] = f.Field
			}
		}
		for _, fp := range i.Mod.GetFieldPats(p.RecFields) {
			sub := fieldTy[fp.Name]
			if sub == intern.INVALID {
				sub = i.U.FreshVar()
			}
			i.bindPatternNames(fp.Sub, sub)
		}

	case ast.PatOr:
		// Every alternative of an irrefutable or-pattern binds the same
		// names; binding the first alternative's names is sufficient since
		// a well-formed or-pattern's alternatives agree on their bound set.
		if p.Subs.Len > 0 {
			i.bindPatternNames(patIDAt(p.Subs, 0), ty)
		}

	default:
		// PatLiteral/PatVariant/PatRange: no names to bind.
	}
}
