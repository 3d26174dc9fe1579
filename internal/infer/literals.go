package infer

import (
	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/registry"
)

func (i *Infer) synthInterpString(e ast.Expr) intern.TypeId {
	for _, eid := range exprIDs(e.Elems) {
		i.Synthesize(eid)
	}
	return intern.STR
}

func (i *Infer) synthList(e ast.Expr) intern.TypeId {
	ids := exprIDs(e.Elems)
	if len(ids) == 0 {
		return i.Types.Intern(intern.TypeData{Kind: intern.KindList, Elem: i.U.FreshVar()})
	}
	elemTy := i.Synthesize(ids[0])
	for _, eid := range ids[1:] {
		elemTy = i.unify(eid, elemTy, i.Synthesize(eid))
	}
	return i.Types.Intern(intern.TypeData{Kind: intern.KindList, Elem: elemTy})
}

func (i *Infer) synthTuple(e ast.Expr) intern.TypeId {
	ids := exprIDs(e.Elems)
	elems := make([]intern.TypeId, len(ids))
	for k, eid := range ids {
		elems[k] = i.Synthesize(eid)
	}
	return i.Types.Intern(intern.TypeData{Kind: intern.KindTuple, Elems: elems})
}

// synthRecord infers either an anonymous row (structural open-record
// literal) or, when TypeName names a registered struct, that struct's
// nominal type — spec.md SPEC_FULL.md §3's row-vs-nominal record split.
func (i *Infer) synthRecord(e ast.Expr) intern.TypeId {
	fields := i.Mod.GetFields(e.Fields)
	ft := make([]intern.FieldType, len(fields))
	for k, f := range fields {
		ft[k] = intern.FieldType{Name: f.Name, Field: i.Synthesize(f.Value)}
	}
	if e.Base != ast.NoExpr {
		i.Synthesize(e.Base)
	}

	if e.TypeName != intern.EMPTY {
		if te, ok := i.Reg.Types[e.TypeName]; ok && te.Kind == registry.KindStruct {
			return i.Types.Intern(intern.TypeData{Kind: intern.KindNamed, TypeName: e.TypeName})
		}
	}
	return i.Types.Intern(intern.TypeData{Kind: intern.KindRow, Fields: ft, RowVar: intern.INVALID, IsOpen: false})
}

func (i *Infer) synthMap(e ast.Expr) intern.TypeId {
	entries := i.Mod.GetMapEntries(e.MapEntries)
	if len(entries) == 0 {
		return i.Types.Intern(intern.TypeData{Kind: intern.KindMap, Key: i.U.FreshVar(), Value: i.U.FreshVar()})
	}
	kt := i.Synthesize(entries[0].Key)
	vt := i.Synthesize(entries[0].Value)
	for _, ent := range entries[1:] {
		kt = i.unify(ent.Key, kt, i.Synthesize(ent.Key))
		vt = i.unify(ent.Value, vt, i.Synthesize(ent.Value))
	}
	return i.Types.Intern(intern.TypeData{Kind: intern.KindMap, Key: kt, Value: vt})
}
