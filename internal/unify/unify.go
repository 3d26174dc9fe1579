// Package unify implements destructive union-find unification over
// intern.TypeId. This is a deliberate redesign from the teacher's
// substitution-map approach (typesystem/unify.go: `Unify(t1, t2 Type)
// (Subst, error)`, rebuilding and recomposing `Subst map[string]Type`
// values at every step) into in-place union-find over integer ids, per
// spec.md §4.F: resolving a type is a pointer-chase instead of a
// recursive `Apply(Subst)` walk, and two unifications of the same
// variable don't need Subst composition to agree.
package unify

import "github.com/funvibe/sigilc/internal/intern"

// Unifier holds the destructive substitution (variable -> bound type) for
// one compilation unit. Not safe for concurrent use: spec.md §5 specifies
// the middle-end mutates its substitution single-threaded per unit.
type Unifier struct {
	Types *intern.Types
	bound map[intern.TypeId]intern.TypeId
}

// New creates a unifier with no variables yet bound.
func New(types *intern.Types) *Unifier {
	return &Unifier{Types: types, bound: make(map[intern.TypeId]intern.TypeId)}
}

// FreshVar mints a new unbound type variable via the shared type
// interner.
func (u *Unifier) FreshVar() intern.TypeId { return u.Types.FreshVar() }

// Resolve walks the substitution chain from id to its current
// representative: either an unbound variable or a concrete type. Calling
// Resolve again on the result is a no-op (idempotent).
func (u *Unifier) Resolve(id intern.TypeId) intern.TypeId {
	for {
		if u.Types.Lookup(id).Kind != intern.KindVar {
			return id
		}
		next, ok := u.bound[id]
		if !ok {
			return id
		}
		id = next
	}
}

// Unify makes a and b structurally equal, recording whatever variable
// bindings that requires. Error and Never act as bottom types: they unify
// with anything and never fail, so one failed inference doesn't cascade
// into unrelated diagnostics (spec.md §4.F/§7).
func (u *Unifier) Unify(a, b intern.TypeId) error {
	a, b = u.Resolve(a), u.Resolve(b)
	if a == b {
		return nil
	}
	if a == intern.ERROR || b == intern.ERROR || a == intern.NEVER || b == intern.NEVER {
		return nil
	}

	da, db := u.Types.Lookup(a), u.Types.Lookup(b)

	if da.Kind == intern.KindVar && db.Kind == intern.KindVar {
		// Tie-break: the lower id becomes the representative, for
		// deterministic output regardless of unification order.
		if a < b {
			return u.bind(b, a)
		}
		return u.bind(a, b)
	}
	if da.Kind == intern.KindVar {
		return u.bind(a, b)
	}
	if db.Kind == intern.KindVar {
		return u.bind(b, a)
	}

	if da.Kind != db.Kind {
		return CannotUnify{Kind: "constructor", Left: a, Right: b}
	}

	switch da.Kind {
	case intern.KindPrimitive, intern.KindError:
		return CannotUnify{Kind: "name", Left: a, Right: b}

	case intern.KindList, intern.KindSet, intern.KindOption, intern.KindRange, intern.KindChannel:
		return u.Unify(da.Elem, db.Elem)

	case intern.KindMap:
		if err := u.Unify(da.Key, db.Key); err != nil {
			return err
		}
		return u.Unify(da.Value, db.Value)

	case intern.KindResult:
		if err := u.Unify(da.Ok, db.Ok); err != nil {
			return err
		}
		return u.Unify(da.Err, db.Err)

	case intern.KindTuple:
		if len(da.Elems) != len(db.Elems) {
			return CannotUnify{Kind: "arity", Left: a, Right: b}
		}
		for i := range da.Elems {
			if err := u.Unify(da.Elems[i], db.Elems[i]); err != nil {
				return err
			}
		}
		return nil

	case intern.KindFunction:
		if len(da.Params) != len(db.Params) {
			return CannotUnify{Kind: "arity", Left: a, Right: b}
		}
		for i := range da.Params {
			if err := u.Unify(da.Params[i], db.Params[i]); err != nil {
				return err
			}
		}
		return u.Unify(da.Ret, db.Ret)

	case intern.KindNamed:
		if da.TypeName != db.TypeName {
			return CannotUnify{Kind: "name", Left: a, Right: b}
		}
		return nil

	case intern.KindApplied:
		if da.TypeName != db.TypeName || len(da.Args) != len(db.Args) {
			return CannotUnify{Kind: "name", Left: a, Right: b}
		}
		for i := range da.Args {
			if err := u.Unify(da.Args[i], db.Args[i]); err != nil {
				return err
			}
		}
		return nil

	case intern.KindProjection:
		if da.Trait != db.Trait || da.Assoc != db.Assoc {
			return CannotUnify{Kind: "name", Left: a, Right: b}
		}
		return u.Unify(da.Base, db.Base)

	case intern.KindRow:
		return u.unifyRows(a, b, da, db)

	case intern.KindModuleNamespace, intern.KindUnion:
		// Both variants are compared by id only: a != b is reported as a
		// mismatch without unifying member by member, so type variables
		// inside union members are never bound through a union.
		return CannotUnify{Kind: "constructor", Left: a, Right: b}

	default:
		return CannotUnify{Kind: "constructor", Left: a, Right: b}
	}
}

// unifyRows unifies two row (open-record) types field by field, closing
// over an open row variable on either side to absorb the other side's
// extra fields — the minimal row-unification rule needed for
// spec.md SPEC_FULL.md's row-polymorphic open records (§3).
func (u *Unifier) unifyRows(a, b intern.TypeId, da, db intern.TypeData) error {
	byName := func(fields []intern.FieldType) map[intern.Name]intern.TypeId {
		m := make(map[intern.Name]intern.TypeId, len(fields))
		for _, f := range fields {
			m[f.Name] = f.Field
		}
		return m
	}
	fa, fb := byName(da.Fields), byName(db.Fields)

	for name, ta := range fa {
		if tb, ok := fb[name]; ok {
			if err := u.Unify(ta, tb); err != nil {
				return err
			}
		}
	}

	var extraInB, extraInA []intern.FieldType
	for _, f := range db.Fields {
		if _, ok := fa[f.Name]; !ok {
			extraInB = append(extraInB, f)
		}
	}
	for _, f := range da.Fields {
		if _, ok := fb[f.Name]; !ok {
			extraInA = append(extraInA, f)
		}
	}

	switch {
	case len(extraInA) == 0 && len(extraInB) == 0:
		return nil
	case len(extraInB) > 0 && da.RowVar != intern.INVALID:
		tail := u.Types.Intern(intern.TypeData{Kind: intern.KindRow, Fields: extraInB, RowVar: db.RowVar, IsOpen: db.IsOpen})
		return u.Unify(da.RowVar, tail)
	case len(extraInA) > 0 && db.RowVar != intern.INVALID:
		tail := u.Types.Intern(intern.TypeData{Kind: intern.KindRow, Fields: extraInA, RowVar: da.RowVar, IsOpen: da.IsOpen})
		return u.Unify(db.RowVar, tail)
	default:
		return CannotUnify{Kind: "constructor", Left: a, Right: b}
	}
}

// bind records v (a variable) as resolving to t, after an occurs check:
// binding a variable to a type that contains itself would construct an
// infinite type.
func (u *Unifier) bind(v, t intern.TypeId) error {
	if u.occurs(v, t) {
		return InfiniteType{Var: v, Type: t}
	}
	u.bound[v] = t
	return nil
}

func (u *Unifier) occurs(v, t intern.TypeId) bool {
	t = u.Resolve(t)
	if t == v {
		return true
	}
	d := u.Types.Lookup(t)
	switch d.Kind {
	case intern.KindList, intern.KindSet, intern.KindOption, intern.KindRange, intern.KindChannel:
		return u.occurs(v, d.Elem)
	case intern.KindMap:
		return u.occurs(v, d.Key) || u.occurs(v, d.Value)
	case intern.KindResult:
		return u.occurs(v, d.Ok) || u.occurs(v, d.Err)
	case intern.KindTuple:
		for _, e := range d.Elems {
			if u.occurs(v, e) {
				return true
			}
		}
		return false
	case intern.KindFunction:
		for _, p := range d.Params {
			if u.occurs(v, p) {
				return true
			}
		}
		return u.occurs(v, d.Ret)
	case intern.KindApplied:
		for _, arg := range d.Args {
			if u.occurs(v, arg) {
				return true
			}
		}
		return false
	case intern.KindProjection:
		return u.occurs(v, d.Base)
	case intern.KindRow:
		for _, f := range d.Fields {
			if u.occurs(v, f.Field) {
				return true
			}
		}
		if d.RowVar != intern.INVALID {
			return u.occurs(v, d.RowVar)
		}
		return false
	default:
		return false
	}
}
