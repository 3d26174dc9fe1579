package intern

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Types interns structural TypeData into unique TypeId handles. Mirrors
// Strings: concurrent readers, exclusive writers. Grounded on the teacher's
// typesystem package (one global shape per distinct Type value) but
// reshaped into an arena of TypeData per spec.md §3/§4.A.
type Types struct {
	mu      sync.RWMutex
	byKey   map[string]TypeId // structural key -> id, Var entries never stored here
	byId    []TypeData        // index 0 unused (INVALID)
	nextVar uint32
}

// NewTypes creates a type interner with the primitive ids pre-registered at
// their reserved slots (spec.md §3).
func NewTypes() *Types {
	t := &Types{
		byKey: make(map[string]TypeId),
		byId:  make([]TypeData, firstUserTypeId),
	}
	t.byId[INVALID] = TypeData{Kind: KindError}
	prim := func(id TypeId, name string) {
		t.byId[id] = TypeData{Kind: KindPrimitive, TypeName: Name(0)}
		t.byKey["prim:"+name] = id
	}
	prim(INT, "Int")
	prim(FLOAT, "Float")
	prim(BOOL, "Bool")
	prim(STR, "Str")
	prim(CHAR, "Char")
	prim(BYTE, "Byte")
	prim(UNIT, "Unit")
	prim(NEVER, "Never")
	t.byId[INFER] = TypeData{Kind: KindPrimitive}
	t.byId[ERROR] = TypeData{Kind: KindError}
	return t
}

// Intern returns the TypeId for d, minting a fresh one on first sight.
// Structurally identical non-Var data always maps to the same id; Var data
// is never deduplicated — use FreshVar instead of Intern(TypeData{Kind:
// KindVar, ...}) to mint one.
func (t *Types) Intern(d TypeData) TypeId {
	if d.Kind == KindVar {
		panic("intern: use FreshVar to mint a type variable, not Intern")
	}
	key := structuralKey(d)

	t.mu.RLock()
	if id, ok := t.byKey[key]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byKey[key]; ok {
		return id
	}
	id := TypeId(len(t.byId))
	t.byId = append(t.byId, d)
	t.byKey[key] = id
	return id
}

// FreshVar mints a new, never-deduplicated type variable.
func (t *Types) FreshVar() TypeId {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.nextVar
	t.nextVar++
	id := TypeId(len(t.byId))
	t.byId = append(t.byId, TypeData{Kind: KindVar, VarId: v})
	return id
}

// Lookup resolves id to its structural data. Total on any id returned by
// Intern/FreshVar on this interner.
func (t *Types) Lookup(id TypeId) TypeData {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.byId) {
		panic("intern: TypeId out of range for this interner")
	}
	return t.byId[id]
}

// structuralKey builds a string discriminating TypeData shapes for
// deduplication, in the same spirit as the teacher's NormalizeUnion, which
// deduplicates by String() representation rather than a hand-rolled
// structural hash.
func structuralKey(d TypeData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", d.Kind)
	switch d.Kind {
	case KindList, KindSet, KindOption:
		fmt.Fprintf(&b, ":%d", d.Elem)
	case KindMap:
		fmt.Fprintf(&b, ":%d:%d", d.Key, d.Value)
	case KindResult:
		fmt.Fprintf(&b, ":%d:%d", d.Ok, d.Err)
	case KindRange:
		fmt.Fprintf(&b, ":%d", d.Elem)
	case KindChannel:
		fmt.Fprintf(&b, ":%d", d.Elem)
	case KindTuple:
		for _, e := range d.Elems {
			fmt.Fprintf(&b, ":%d", e)
		}
	case KindFunction:
		b.WriteString(":(")
		for _, p := range d.Params {
			fmt.Fprintf(&b, "%d,", p)
		}
		fmt.Fprintf(&b, "):%d", d.Ret)
	case KindNamed:
		fmt.Fprintf(&b, ":%d", d.TypeName)
	case KindApplied:
		fmt.Fprintf(&b, ":%d(", d.TypeName)
		for _, a := range d.Args {
			fmt.Fprintf(&b, "%d,", a)
		}
		b.WriteString(")")
	case KindProjection:
		fmt.Fprintf(&b, ":%d.%d.%d", d.Base, d.Trait, d.Assoc)
	case KindModuleNamespace:
		items := append([]NamedMember(nil), d.Items...)
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
		for _, it := range items {
			fmt.Fprintf(&b, ":%d=%d", it.Name, it.Item)
		}
	case KindRow:
		fields := append([]FieldType(nil), d.Fields...)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		for _, f := range fields {
			fmt.Fprintf(&b, ":%d=%d", f.Name, f.Field)
		}
		fmt.Fprintf(&b, ";row=%d;open=%v", d.RowVar, d.IsOpen)
	case KindUnion:
		members := append([]TypeId(nil), d.Members...)
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		for _, m := range members {
			fmt.Fprintf(&b, ":%d", m)
		}
	case KindPrimitive, KindError:
		fmt.Fprintf(&b, ":%d", d.TypeName)
	}
	return b.String()
}
