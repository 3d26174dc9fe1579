// Package pattern implements the match-arm compiler spec.md §4.I
// describes in two phases: flattening arena ast.MatchPattern nodes into a
// self-contained Flat tree (§4.I.1), then compiling a set of arms into a
// Maranget-style decision tree (§4.I.2). Grounded on the teacher's
// sibling-fork exhaustiveness checker
// (mcgru-funxy/internal/analyzer/exhaustiveness.go:
// `CheckExhaustiveness`/`isExhaustive`/`checkAdtExhaustiveness`), which
// only verifies coverage recursively — REDESIGNED here into an actual
// decision tree per spec.md §4.I.2, since the teacher's algorithm never
// materializes a `Switch`/`Leaf` structure an evaluator or backend could
// execute against.
package pattern

import (
	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/registry"
)

// Kind tags the variant stored in a Flat node.
type Kind uint8

const (
	Wildcard Kind = iota
	Binding
	LitInt
	LitFloat
	LitBool
	LitStr
	LitChar
	Variant
	Tuple
	Struct
	List
	Range
	Or
	At
)

// StructField is one named field obligation of a Struct Flat.
type StructField struct {
	Name intern.Name
	Sub  Flat
}

// Flat is one flattened pattern node — a self-contained tree independent
// of the originating arena ast.MatchPattern, per spec.md §4.I.1.
type Flat struct {
	Kind Kind

	Name intern.Name // Binding/At

	IntVal   int64
	FloatVal float64
	BoolVal  bool
	StrVal   intern.Name
	CharVal  rune

	CtorName  intern.Name // Variant
	CtorIndex int         // Variant: position among the enum's declared variants
	Fields    []Flat      // Variant (positional), Tuple (elements), List (fixed elements)

	StructFields []StructField // Struct

	RestName intern.Name // List: rest-capture name
	HasRest  bool        // List: whether a `..rest` or `..` tail is present

	RangeLo   *Flat // Range: nil means unbounded
	RangeHi   *Flat
	Inclusive bool

	Alts []Flat // Or: at least two alternatives

	Inner *Flat // At: the sub-pattern the alias binds alongside
}

// Flatten converts one arena pattern into a Flat tree. scrutTy is the
// resolved type of the value this pattern matches against, used to look
// up enum variant indices/field types and struct field declarations;
// INFER is an acceptable "unknown" value when the caller couldn't resolve
// it (nested recursion in this middle end falls back to it rather than
// failing outright).
func Flatten(m *ast.Module, reg *registry.Registry, types *intern.Types, diags *diagnostics.Queue, id ast.MatchPatternId, scrutTy intern.TypeId) Flat {
	p := m.GetPattern(id)
	switch p.Kind {
	case ast.PatWildcard:
		return Flat{Kind: Wildcard}

	case ast.PatBinding:
		return Flat{Kind: Binding, Name: p.Name}

	case ast.PatLiteral:
		return flattenLiteral(m, diags, p)

	case ast.PatVariant:
		return flattenVariant(m, reg, types, diags, p, scrutTy)

	case ast.PatTuple:
		elemTys := tupleElemTypes(types, scrutTy, int(p.Subs.Len))
		fields := make([]Flat, p.Subs.Len)
		for i := range fields {
			fields[i] = Flatten(m, reg, types, diags, subIDAt(p.Subs, i), elemTys[i])
		}
		return Flat{Kind: Tuple, Fields: fields}

	case ast.PatRecord:
		return flattenRecord(m, reg, types, diags, p, scrutTy)

	case ast.PatList:
		return flattenList(m, reg, types, diags, p, scrutTy)

	case ast.PatRange:
		lo := flattenBound(m, diags, p.RangeLo)
		hi := flattenBound(m, diags, p.RangeHi)
		return Flat{Kind: Range, RangeLo: lo, RangeHi: hi, Inclusive: true}

	case ast.PatOr:
		alts := make([]Flat, p.Subs.Len)
		for i := range alts {
			alts[i] = Flatten(m, reg, types, diags, subIDAt(p.Subs, i), scrutTy)
		}
		return Flat{Kind: Or, Alts: alts}

	case ast.PatAt:
		inner := Flatten(m, reg, types, diags, p.Sub, scrutTy)
		return Flat{Kind: At, Name: p.Name, Inner: &inner}

	default:
		diags.Add(diagnostics.New(diagnostics.E3001, p.Span, "unrecognized pattern form"))
		return Flat{Kind: Wildcard}
	}
}

// subIDAt recomputes the MatchPatternId at position i of r: arena ranges
// are contiguous runs, so this is just an offset, not a lookup.
func subIDAt(r ast.MatchPatternRange, i int) ast.MatchPatternId {
	return ast.MatchPatternId(r.Start + uint32(i))
}

func flattenLiteral(m *ast.Module, diags *diagnostics.Queue, p ast.MatchPattern) Flat {
	e := m.GetExpr(p.Literal)
	switch e.Kind {
	case ast.KindIntLit:
		return Flat{Kind: LitInt, IntVal: e.IntValue}
	case ast.KindFloatLit:
		return Flat{Kind: LitFloat, FloatVal: e.FloatValue}
	case ast.KindBoolLit:
		return Flat{Kind: LitBool, BoolVal: e.BoolValue}
	case ast.KindStringLit:
		return Flat{Kind: LitStr, StrVal: e.Text}
	case ast.KindCharLit:
		return Flat{Kind: LitChar, CharVal: e.CharValue}
	default:
		// A non-literal expression in pattern position: degrade to
		// Wildcard with a diagnostic rather than fail outright
		// (spec.md §4.I.1's robust-recovery rule).
		diags.Add(diagnostics.New(diagnostics.E3001, p.Span, "expression in pattern position is not a literal"))
		return Flat{Kind: Wildcard}
	}
}

func flattenBound(m *ast.Module, diags *diagnostics.Queue, id ast.ExprId) *Flat {
	if id == ast.NoExpr {
		return nil
	}
	e := m.GetExpr(id)
	var f Flat
	switch e.Kind {
	case ast.KindIntLit:
		f = Flat{Kind: LitInt, IntVal: e.IntValue}
	case ast.KindFloatLit:
		f = Flat{Kind: LitFloat, FloatVal: e.FloatValue}
	case ast.KindCharLit:
		f = Flat{Kind: LitChar, CharVal: e.CharValue}
	default:
		diags.Add(diagnostics.New(diagnostics.E3001, e.Span, "range pattern bound is not a literal"))
		f = Flat{Kind: Wildcard}
	}
	return &f
}

func flattenVariant(m *ast.Module, reg *registry.Registry, types *intern.Types, diags *diagnostics.Queue, p ast.MatchPattern, scrutTy intern.TypeId) Flat {
	index, fieldTys := variantInfo(reg, types, scrutTy, p.Name)
	subs := m.GetPatternRange(p.Subs)
	fields := make([]Flat, len(subs))
	for i := range subs {
		ft := intern.INFER
		if i < len(fieldTys) {
			ft = fieldTys[i]
		}
		fields[i] = Flatten(m, reg, types, diags, subIDAt(p.Subs, i), ft)
	}
	return Flat{Kind: Variant, CtorName: p.Name, CtorIndex: index, Fields: fields}
}

func flattenRecord(m *ast.Module, reg *registry.Registry, types *intern.Types, diags *diagnostics.Queue, p ast.MatchPattern, scrutTy intern.TypeId) Flat {
	fieldTys := structFieldTypes(reg, types, scrutTy)
	fps := m.GetFieldPats(p.RecFields)
	out := make([]StructField, len(fps))
	for i, fp := range fps {
		ft := intern.INFER
		if t, ok := fieldTys[fp.Name]; ok {
			ft = t
		}
		out[i] = StructField{Name: fp.Name, Sub: Flatten(m, reg, types, diags, fp.Sub, ft)}
	}
	return Flat{Kind: Struct, StructFields: out}
}

func flattenList(m *ast.Module, reg *registry.Registry, types *intern.Types, diags *diagnostics.Queue, p ast.MatchPattern, scrutTy intern.TypeId) Flat {
	elemTy := intern.INFER
	if d := types.Lookup(scrutTy); d.Kind == intern.KindList {
		elemTy = d.Elem
	}
	subs := m.GetPatternRange(p.Subs)
	fields := make([]Flat, len(subs))
	for i := range subs {
		fields[i] = Flatten(m, reg, types, diags, subIDAt(p.Subs, i), elemTy)
	}
	return Flat{Kind: List, Fields: fields, RestName: p.RestName, HasRest: p.HasRest}
}

func tupleElemTypes(types *intern.Types, scrutTy intern.TypeId, n int) []intern.TypeId {
	out := make([]intern.TypeId, n)
	for i := range out {
		out[i] = intern.INFER
	}
	if d := types.Lookup(scrutTy); d.Kind == intern.KindTuple {
		for i := 0; i < n && i < len(d.Elems); i++ {
			out[i] = d.Elems[i]
		}
	}
	return out
}

// variantInfo resolves ctorName's declaration index and field types from
// the enum TypeEntry scrutTy names, returning (-1, nil) if it can't be
// resolved (e.g. scrutTy is still INFER because an earlier error already
// fired) — callers treat that as "type unknown, don't check arity".
func variantInfo(reg *registry.Registry, types *intern.Types, scrutTy intern.TypeId, ctorName intern.Name) (int, []intern.TypeId) {
	d := types.Lookup(scrutTy)
	var typeName intern.Name
	switch d.Kind {
	case intern.KindNamed:
		typeName = d.TypeName
	case intern.KindApplied:
		typeName = d.TypeName
	default:
		return -1, nil
	}
	te, ok := reg.Types[typeName]
	if !ok || te.Kind != registry.KindEnum {
		return -1, nil
	}
	for i, v := range te.Variants {
		if v.Name == ctorName {
			return i, v.Fields
		}
	}
	return -1, nil
}

func structFieldTypes(reg *registry.Registry, types *intern.Types, scrutTy intern.TypeId) map[intern.Name]intern.TypeId {
	out := make(map[intern.Name]intern.TypeId)
	d := types.Lookup(scrutTy)
	if d.Kind == intern.KindRow {
		for _, f := range d.Fields {
			out[f.Name] = f.Field
		}
		return out
	}
	var typeName intern.Name
	switch d.Kind {
	case intern.KindNamed:
		typeName = d.TypeName
	case intern.KindApplied:
		typeName = d.TypeName
	default:
		return out
	}
	if te, ok := reg.Types[typeName]; ok && te.Kind == registry.KindStruct {
		for _, f := range te.Fields {
			out[f.Name] = f.Ty
		}
	}
	return out
}
