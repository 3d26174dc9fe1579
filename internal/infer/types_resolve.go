package infer

import (
	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/registry"
	"github.com/funvibe/sigilc/internal/span"
)

// ResolveParsedType exposes resolveParsedType to internal/pipeline's
// Resolution stage, which must turn function/type/trait/impl signatures
// into TypeIds before any function body exists to walk.
func (i *Infer) ResolveParsedType(id ast.ParsedTypeId) intern.TypeId {
	return i.resolveParsedType(id)
}

// PushGenerics seeds name as a fresh unification variable for each of
// names, scoped for the duration of one signature's resolution, and
// returns a closure that restores the previous generic set. Mirrors the
// save/restore InferFunction already does around a function body's own
// generics (infer.go), generalized so Resolution can seed the same
// bindings before a body exists to type-check.
func (i *Infer) PushGenerics(names []intern.Name) func() {
	saved := i.genericVars
	i.genericVars = make(map[intern.Name]intern.TypeId, len(names))
	for _, g := range names {
		i.genericVars[g] = i.U.FreshVar()
	}
	return func() { i.genericVars = saved }
}

// resolveParsedType turns a surface type annotation into an interned
// TypeId, minting a fresh unification variable for an elided annotation.
// Grounded on the teacher's `resolveType`/`ResolveGenericType`
// (analyzer/types_resolution.go), rebuilt against intern.Types instead of
// the teacher's typesystem.Type construction.
func (i *Infer) resolveParsedType(id ast.ParsedTypeId) intern.TypeId {
	if id == ast.NoParsedType {
		return i.U.FreshVar()
	}
	pt := i.Mod.GetParsedType(id)

	switch pt.Kind {
	case ast.PTNamed:
		return i.resolveNamedType(pt)

	case ast.PTTuple:
		ids := ptypeIDs(pt.Elems)
		elems := make([]intern.TypeId, len(ids))
		for k, eid := range ids {
			elems[k] = i.resolveParsedType(eid)
		}
		return i.Types.Intern(intern.TypeData{Kind: intern.KindTuple, Elems: elems})

	case ast.PTRecord:
		fields := i.Mod.GetParsedTypeFields(pt.Fields)
		ft := make([]intern.FieldType, len(fields))
		for k, f := range fields {
			ft[k] = intern.FieldType{Name: f.Name, Field: i.resolveParsedType(f.Type)}
		}
		rowVar := intern.TypeId(intern.INVALID)
		if pt.IsOpen {
			rowVar = i.U.FreshVar()
		}
		return i.Types.Intern(intern.TypeData{Kind: intern.KindRow, Fields: ft, RowVar: rowVar, IsOpen: pt.IsOpen})

	case ast.PTFunction:
		ids := ptypeIDs(pt.Params)
		params := make([]intern.TypeId, len(ids))
		for k, pid := range ids {
			params[k] = i.resolveParsedType(pid)
		}
		return i.Types.Intern(intern.TypeData{Kind: intern.KindFunction, Params: params, Ret: i.resolveParsedType(pt.Ret)})

	case ast.PTForall:
		// The bound variables themselves are only meaningful at the
		// declaration this annotation belongs to (a function/impl's own
		// Generics, already seeded into i.genericVars by InferFunction);
		// a PTForall reached while resolving an ordinary annotation is
		// transparent to its inner type.
		return i.resolveParsedType(pt.Inner)

	case ast.PTUnion:
		ids := ptypeIDs(pt.Elems)
		members := make([]intern.TypeId, len(ids))
		for k, mid := range ids {
			members[k] = i.resolveParsedType(mid)
		}
		return i.Types.Intern(intern.TypeData{Kind: intern.KindUnion, Members: members})

	default:
		return intern.ERROR
	}
}

func (i *Infer) resolveNamedType(pt ast.ParsedType) intern.TypeId {
	switch i.Strs.Lookup(pt.Name) {
	case "Int":
		return intern.INT
	case "Float":
		return intern.FLOAT
	case "Bool":
		return intern.BOOL
	case "Str":
		return intern.STR
	case "Char":
		return intern.CHAR
	case "Byte":
		return intern.BYTE
	case "Unit":
		return intern.UNIT
	case "Never":
		return intern.NEVER
	}

	argIDs := ptypeIDs(pt.Args)
	args := make([]intern.TypeId, len(argIDs))
	for k, aid := range argIDs {
		args[k] = i.resolveParsedType(aid)
	}

	if len(args) > 0 {
		switch i.Strs.Lookup(pt.Name) {
		case "List":
			if len(args) == 1 {
				return i.Types.Intern(intern.TypeData{Kind: intern.KindList, Elem: args[0]})
			}
		case "Set":
			if len(args) == 1 {
				return i.Types.Intern(intern.TypeData{Kind: intern.KindSet, Elem: args[0]})
			}
		case "Option":
			if len(args) == 1 {
				return i.Types.Intern(intern.TypeData{Kind: intern.KindOption, Elem: args[0]})
			}
		case "Range":
			if len(args) == 1 {
				return i.Types.Intern(intern.TypeData{Kind: intern.KindRange, Elem: args[0]})
			}
		case "Channel":
			if len(args) == 1 {
				return i.Types.Intern(intern.TypeData{Kind: intern.KindChannel, Elem: args[0]})
			}
		case "Map":
			if len(args) == 2 {
				return i.Types.Intern(intern.TypeData{Kind: intern.KindMap, Key: args[0], Value: args[1]})
			}
		case "Result":
			if len(args) == 2 {
				return i.Types.Intern(intern.TypeData{Kind: intern.KindResult, Ok: args[0], Err: args[1]})
			}
		}
		return i.Types.Intern(intern.TypeData{Kind: intern.KindApplied, TypeName: pt.Name, Args: args})
	}

	if v, ok := i.genericVars[pt.Name]; ok {
		return v
	}
	if _, ok := i.Reg.Types[pt.Name]; ok {
		return i.Types.Intern(intern.TypeData{Kind: intern.KindNamed, TypeName: pt.Name})
	}

	i.Diags.Add(diagnostics.New(diagnostics.E2002, span.Dummy, "unknown type: "+i.Strs.Lookup(pt.Name)))
	return intern.ERROR
}

// instantiateType copies ty, replacing every type variable it reaches
// with a fresh one (consistently, per subst) — spec.md §4.G's
// let-polymorphism instantiation step, applied to a top-level function's
// frozen signature at every call site so two calls never cross-unify the
// same variable (the classic HM bug a naive "reuse the signature's
// TypeIds directly" approach would hit). Walks intern.TypeData exactly as
// internal/unify's occurs-check does, but rebuilding instead of only
// testing membership.
func (i *Infer) instantiateType(ty intern.TypeId, subst map[intern.TypeId]intern.TypeId) intern.TypeId {
	d := i.Types.Lookup(ty)
	switch d.Kind {
	case intern.KindVar:
		if fresh, ok := subst[ty]; ok {
			return fresh
		}
		fresh := i.U.FreshVar()
		subst[ty] = fresh
		return fresh

	case intern.KindList, intern.KindSet, intern.KindOption, intern.KindRange, intern.KindChannel:
		return i.Types.Intern(intern.TypeData{Kind: d.Kind, Elem: i.instantiateType(d.Elem, subst)})

	case intern.KindMap:
		return i.Types.Intern(intern.TypeData{Kind: d.Kind, Key: i.instantiateType(d.Key, subst), Value: i.instantiateType(d.Value, subst)})

	case intern.KindResult:
		return i.Types.Intern(intern.TypeData{Kind: d.Kind, Ok: i.instantiateType(d.Ok, subst), Err: i.instantiateType(d.Err, subst)})

	case intern.KindTuple:
		elems := make([]intern.TypeId, len(d.Elems))
		for k, e := range d.Elems {
			elems[k] = i.instantiateType(e, subst)
		}
		return i.Types.Intern(intern.TypeData{Kind: d.Kind, Elems: elems})

	case intern.KindFunction:
		params := make([]intern.TypeId, len(d.Params))
		for k, p := range d.Params {
			params[k] = i.instantiateType(p, subst)
		}
		return i.Types.Intern(intern.TypeData{Kind: d.Kind, Params: params, Ret: i.instantiateType(d.Ret, subst)})

	case intern.KindApplied:
		args := make([]intern.TypeId, len(d.Args))
		for k, a := range d.Args {
			args[k] = i.instantiateType(a, subst)
		}
		return i.Types.Intern(intern.TypeData{Kind: d.Kind, TypeName: d.TypeName, Args: args})

	case intern.KindProjection:
		return i.Types.Intern(intern.TypeData{Kind: d.Kind, Base: i.instantiateType(d.Base, subst), Trait: d.Trait, Assoc: d.Assoc})

	case intern.KindRow:
		fields := make([]intern.FieldType, len(d.Fields))
		for k, f := range d.Fields {
			fields[k] = intern.FieldType{Name: f.Name, Field: i.instantiateType(f.Field, subst)}
		}
		rowVar := d.RowVar
		if rowVar != intern.INVALID {
			rowVar = i.instantiateType(rowVar, subst)
		}
		return i.Types.Intern(intern.TypeData{Kind: d.Kind, Fields: fields, RowVar: rowVar, IsOpen: d.IsOpen})

	default:
		return ty
	}
}

// functionType builds fn's (instantiated) function type, fresh variables
// substituted for every generic the signature reaches.
func (i *Infer) functionType(fn *registry.FunctionSig) intern.TypeId {
	subst := make(map[intern.TypeId]intern.TypeId)
	params := make([]intern.TypeId, len(fn.Params))
	for k, p := range fn.Params {
		params[k] = i.instantiateType(p.Ty, subst)
	}
	ret := i.instantiateType(fn.ReturnTy, subst)
	return i.Types.Intern(intern.TypeData{Kind: intern.KindFunction, Params: params, Ret: ret})
}
