// Package registry holds the four definition tables spec.md §4.C names:
// functions, types, traits, and impls. Grounded on the teacher's
// SymbolTable per-concern maps (symbols/symbol_table_advanced.go:
// `traitMethods`, `traitSuperTraits`, `traitDefaultMethods`,
// `implementations map[string][]InstanceDef`, `genericTypeParams`,
// `variants`, `kinds`) and the prelude-bootstrap pattern of
// symbols/symbol_table_init.go, split into spec.md's four explicit maps
// instead of one do-everything SymbolTable, each keyed by intern.Name
// rather than by plain string.
package registry

import (
	"fmt"

	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/intern"
)

// FunctionSig is one registered function's signature.
type FunctionSig struct {
	Generics     []intern.Name
	Params       []Param
	Capabilities map[intern.Name]bool
	WhereClauses []ast.ParsedTypeId
	ReturnTy     intern.TypeId
	Body         ast.ExprId
}

// Param is one function parameter's registered (name, type) pair.
type Param struct {
	Name intern.Name
	Ty   intern.TypeId
}

// TypeEntryKind tags the variant stored in a TypeEntry.
type TypeEntryKind uint8

const (
	KindStruct TypeEntryKind = iota
	KindEnum
	KindNewtype
	KindAlias
)

// EnumVariant is one case of an Enum TypeEntry.
type EnumVariant struct {
	Name   intern.Name
	Fields []intern.TypeId
}

// TypeEntry is one registered type declaration.
type TypeEntry struct {
	Kind     TypeEntryKind
	Generics []intern.Name

	Fields   []StructField // KindStruct
	Variants []EnumVariant // KindEnum
	Inner    intern.TypeId // KindNewtype
	Target   intern.TypeId // KindAlias
}

// StructField is one named field of a Struct TypeEntry.
type StructField struct {
	Name intern.Name
	Ty   intern.TypeId
}

// MethodSig is a trait method's required signature (no default body).
type MethodSig struct {
	Name     intern.Name
	Generics []intern.Name
	Params   []intern.TypeId
	ReturnTy intern.TypeId
}

// DefaultMethod is a trait method with a provided default implementation.
type DefaultMethod struct {
	MethodSig
	Body ast.ExprId
}

// AssocType is a trait-associated type placeholder (`type Output;`).
type AssocType struct {
	Name intern.Name
}

// TraitEntry is one registered trait declaration.
type TraitEntry struct {
	Generics    []intern.Name
	SuperTraits []intern.Name
	Sigs        []MethodSig
	Defaults    []DefaultMethod
	AssocTypes  []AssocType
}

// RequiredMethods returns the names a conforming impl must supply:
// signature-only methods that have no registered default.
func (t TraitEntry) RequiredMethods() []intern.Name {
	hasDefault := make(map[intern.Name]bool, len(t.Defaults))
	for _, d := range t.Defaults {
		hasDefault[d.Name] = true
	}
	var out []intern.Name
	for _, s := range t.Sigs {
		if !hasDefault[s.Name] {
			out = append(out, s.Name)
		}
	}
	return out
}

// ImplMethodDef is one method body supplied (or synthesized from a trait
// default) by an impl.
type ImplMethodDef struct {
	Name       intern.Name
	Params     []intern.TypeId
	ReturnTy   intern.TypeId
	Body       ast.ExprId
	FromDefault bool // synthesized by the trait resolver, not written by the user
}

// ImplEntry is one `impl Trait for SelfTy` (Trait == intern.EMPTY for an
// inherent impl).
type ImplEntry struct {
	Trait        intern.Name
	TraitArgs    []intern.TypeId // multi-parameter trait arguments beyond SelfTy
	SelfTy       intern.TypeId
	Generics     []intern.Name
	WhereClauses []ast.ParsedTypeId
	Methods      []ImplMethodDef
	AssocTypes   map[intern.Name]intern.TypeId
}

// Registry is the full set of definitions visible to one compilation unit.
type Registry struct {
	Functions map[intern.Name]*FunctionSig
	Types     map[intern.Name]*TypeEntry
	Traits    map[intern.Name]*TraitEntry
	Impls     []*ImplEntry

	defined map[intern.Name]bool // tracks duplicate top-level names across all four maps
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		Functions: make(map[intern.Name]*FunctionSig),
		Types:     make(map[intern.Name]*TypeEntry),
		Traits:    make(map[intern.Name]*TraitEntry),
		defined:   make(map[intern.Name]bool),
	}
}

// DuplicateDefinitionError reports an E2006: a second top-level definition
// of a name already registered in this module.
type DuplicateDefinitionError struct {
	Name intern.Name
}

func (e DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate definition of name %d", e.Name)
}

// DefineFunction registers fn under name, rejecting a redefinition.
func (r *Registry) DefineFunction(name intern.Name, fn *FunctionSig) error {
	if r.defined[name] {
		return DuplicateDefinitionError{Name: name}
	}
	r.defined[name] = true
	r.Functions[name] = fn
	return nil
}

// DefineType registers te under name, rejecting a redefinition.
func (r *Registry) DefineType(name intern.Name, te *TypeEntry) error {
	if r.defined[name] {
		return DuplicateDefinitionError{Name: name}
	}
	r.defined[name] = true
	r.Types[name] = te
	return nil
}

// DefineTrait registers tr under name, rejecting a redefinition.
func (r *Registry) DefineTrait(name intern.Name, tr *TraitEntry) error {
	if r.defined[name] {
		return DuplicateDefinitionError{Name: name}
	}
	r.defined[name] = true
	r.Traits[name] = tr
	return nil
}

// CoherenceError reports an E2021: two impls of the same trait whose
// self-types are equally specific (neither a strict specialization of the
// other), so method lookup would be ambiguous.
type CoherenceError struct {
	Trait       intern.Name
	SelfTyA     intern.TypeId
	SelfTyB     intern.TypeId
}

func (e CoherenceError) Error() string {
	return fmt.Sprintf("overlapping impls of trait %d for types %d and %d", e.Trait, e.SelfTyA, e.SelfTyB)
}

// AddImpl inserts impl after checking it does not overlap, at equal
// specificity, with an already-registered impl of the same trait
// (spec.md §4.C/§4.H.2: "a strict rule ... rejects equal-specificity
// overlaps"). Overlap is approximated by identical SelfTy after
// generics are abstracted away: two impls with the exact same concrete
// self-type, or both fully generic (SelfTy is a bare type variable),
// overlap; an impl for a concrete type never overlaps one for a distinct
// concrete type or for a structurally different generic shape.
func (r *Registry) AddImpl(types *intern.Types, impl *ImplEntry) error {
	for _, existing := range r.Impls {
		if existing.Trait != impl.Trait {
			continue
		}
		if sameSpecificity(types, existing.SelfTy, impl.SelfTy) {
			return CoherenceError{Trait: impl.Trait, SelfTyA: existing.SelfTy, SelfTyB: impl.SelfTy}
		}
	}
	r.Impls = append(r.Impls, impl)
	return nil
}

// sameSpecificity reports whether a and b are the same self-type shape for
// coherence purposes: identical ids, or both bare (unapplied) generic
// parameters of the same declaring impl (represented here as KindVar,
// since an impl's own generics are registered as fresh vars scoped to it).
func sameSpecificity(types *intern.Types, a, b intern.TypeId) bool {
	if a == b {
		return true
	}
	da, db := types.Lookup(a), types.Lookup(b)
	if da.Kind == intern.KindVar && db.Kind == intern.KindVar {
		return true
	}
	if da.Kind != db.Kind {
		return false
	}
	switch da.Kind {
	case intern.KindNamed:
		return da.TypeName == db.TypeName
	case intern.KindApplied:
		if da.TypeName != db.TypeName || len(da.Args) != len(db.Args) {
			return false
		}
		for i := range da.Args {
			if !sameSpecificity(types, da.Args[i], db.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FindImpls returns every registered impl of trait (intern.EMPTY matches
// inherent impls) whose SelfTy could apply to ty, most-specific first: an
// exact concrete match sorts before a generic (type-variable) self-type,
// mirroring spec.md §4.H.1's "respecting the most specific match".
func (r *Registry) FindImpls(types *intern.Types, trait intern.Name, ty intern.TypeId) []*ImplEntry {
	var exact, generic []*ImplEntry
	for _, impl := range r.Impls {
		if impl.Trait != trait {
			continue
		}
		d := types.Lookup(impl.SelfTy)
		if d.Kind == intern.KindVar {
			generic = append(generic, impl)
			continue
		}
		if sameSpecificity(types, impl.SelfTy, ty) {
			exact = append(exact, impl)
		}
	}
	return append(exact, generic...)
}
