package pattern

import (
	"fmt"

	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/registry"
	"github.com/funvibe/sigilc/internal/span"
)

// Binding is one name a matched pattern introduces into the arm's body
// scope, together with the scrutinee path it reads from.
type Binding struct {
	Name intern.Name
	Path Path
}

// Arm is one flattened match arm ready for decision-tree compilation.
type Arm struct {
	Pattern  Flat
	HasGuard bool
	Span     span.Span
}

// Compile flattens every arm of a match expression's ArmRange and builds
// its Maranget-style decision tree (spec.md §4.I.2), reporting E3002 for
// any scrutinee value the arms don't cover and E3003 for any arm no
// reachable Leaf ever references. GuardArm indices in the returned tree's
// Guard nodes index into astArms — the caller (internal/infer, and later
// Component J) resolves the actual guard ast.ExprId from there.
func Compile(m *ast.Module, reg *registry.Registry, types *intern.Types, strs *intern.Strings, diags *diagnostics.Queue, scrutTy intern.TypeId, armRange ast.ArmRange) (*Node, []ast.Arm) {
	astArms := m.GetArms(armRange)
	arms := make([]Arm, len(astArms))
	flats := make([]Flat, len(astArms))
	for i, a := range astArms {
		f := Flatten(m, reg, types, diags, a.Pattern, scrutTy)
		flats[i] = f
		arms[i] = Arm{Pattern: f, HasGuard: a.Guard != ast.NoExpr, Span: a.Span}
	}

	used := make([]bool, len(arms))
	tree := build(arms, 0, ExcludedMap{}, used)

	for i, u := range used {
		if !u {
			diags.Add(diagnostics.New(diagnostics.E3003, arms[i].Span, "unreachable match arm"))
		}
	}

	checkExhaustiveness(scrutTy, types, reg, strs, flats, topSpan(astArms), diags)

	return tree, astArms
}

func topSpan(arms []ast.Arm) span.Span {
	if len(arms) == 0 {
		return span.Dummy
	}
	return arms[0].Span
}

// ExcludedMap records, at a given point in the decision tree, which
// constructors a prior sibling arm already ruled out at a given path —
// the context a Default branch carries forward so a later arm testing
// the identical (path, constructor) pair is recognized as dead code
// rather than emitting a redundant Switch case.
type ExcludedMap map[string]map[string]bool

func (e ExcludedMap) has(path Path, key string) bool {
	m, ok := e[path.String()]
	return ok && m[key]
}

func (e ExcludedMap) merged(adds ExcludedMap) ExcludedMap {
	out := make(ExcludedMap, len(e)+len(adds))
	for p, m := range e {
		cp := make(map[string]bool, len(m))
		for k := range m {
			cp[k] = true
		}
		out[p] = cp
	}
	for p, m := range adds {
		cp := out[p]
		if cp == nil {
			cp = make(map[string]bool, len(m))
			out[p] = cp
		}
		for k := range m {
			cp[k] = true
		}
	}
	return out
}

func build(arms []Arm, idx int, excluded ExcludedMap, used []bool) *Node {
	if idx >= len(arms) {
		return failNode()
	}
	arm := arms[idx]
	tests := collectCtorTests(arm.Pattern, Path{})
	failSub := build(arms, idx+1, excluded.merged(tests), used)

	onSuccess := func(binds []Binding) *Node {
		used[idx] = true
		leaf := wrapBinds(leafNode(idx), binds)
		if arm.HasGuard {
			return &Node{IsGuard: true, GuardArm: idx, IfPass: leaf, IfFail: build(arms, idx+1, excluded.merged(tests), used)}
		}
		return leaf
	}

	return matchPattern(arm.Pattern, Path{}, excluded, failSub, onSuccess, nil)
}

func matchPattern(pat Flat, path Path, excluded ExcludedMap, failSub *Node, onSuccess func([]Binding) *Node, binds []Binding) *Node {
	switch pat.Kind {
	case Wildcard:
		return onSuccess(binds)

	case Binding:
		return onSuccess(withBind(binds, Binding{Name: pat.Name, Path: path}))

	case At:
		return matchPattern(*pat.Inner, path, excluded, failSub, onSuccess, withBind(binds, Binding{Name: pat.Name, Path: path}))

	case LitBool:
		return matchCtor(path, CtorKey{Kind: LitBool, BoolVal: pat.BoolVal}, excluded, failSub, onSuccess(binds))
	case LitInt:
		return matchCtor(path, CtorKey{Kind: LitInt, IntVal: pat.IntVal}, excluded, failSub, onSuccess(binds))
	case LitFloat:
		return matchCtor(path, CtorKey{Kind: LitFloat, IntVal: int64(pat.FloatVal)}, excluded, failSub, onSuccess(binds))
	case LitStr:
		return matchCtor(path, CtorKey{Kind: LitStr, StrVal: pat.StrVal}, excluded, failSub, onSuccess(binds))
	case LitChar:
		return matchCtor(path, CtorKey{Kind: LitChar, CharVal: pat.CharVal}, excluded, failSub, onSuccess(binds))

	case Variant:
		key := ctorKey(CtorKey{Kind: Variant, Name: pat.CtorName})
		if excluded.has(path, key) {
			return failSub
		}
		sub := matchFieldsSeq(pat.Fields, 0, path, excluded, failSub, onSuccess, binds)
		return &Node{Path: path, Cases: []Case{{Ctor: CtorKey{Kind: Variant, Name: pat.CtorName}, Subtree: sub}}, Default: failSub}

	case Tuple:
		return matchFieldsSeq(pat.Fields, 0, path, excluded, failSub, onSuccess, binds)

	case Struct:
		return matchStructSeq(pat.StructFields, 0, path, excluded, failSub, onSuccess, binds)

	case List:
		key := ctorKey(CtorKey{Kind: List, ListArity: len(pat.Fields)})
		if excluded.has(path, key) {
			return failSub
		}
		innerSuccess := onSuccess
		if pat.HasRest && pat.RestName != intern.EMPTY {
			restPath := path.Child(len(pat.Fields))
			innerSuccess = func(b []Binding) *Node {
				return onSuccess(withBind(b, Binding{Name: pat.RestName, Path: restPath}))
			}
		}
		sub := matchFieldsSeq(pat.Fields, 0, path, excluded, failSub, innerSuccess, binds)
		return &Node{Path: path, Cases: []Case{{Ctor: CtorKey{Kind: List, ListArity: len(pat.Fields)}, Subtree: sub}}, Default: failSub}

	case Range:
		// No dedicated range-test primitive in the Node vocabulary: encode
		// it as a single-case Switch whose Ctor carries the bounds, which
		// the consumer (Component J's lowering) evaluates as an inclusive
		// range membership test against the path's runtime value.
		return matchCtor(path, rangeCtor(pat), excluded, failSub, onSuccess(binds))

	case Or:
		next := failSub
		for i := len(pat.Alts) - 1; i >= 0; i-- {
			next = matchPattern(pat.Alts[i], path, excluded, next, onSuccess, binds)
		}
		return next

	default:
		return onSuccess(binds)
	}
}

func matchCtor(path Path, c CtorKey, excluded ExcludedMap, failSub *Node, success *Node) *Node {
	if excluded.has(path, ctorKey(c)) {
		return failSub
	}
	return &Node{Path: path, Cases: []Case{{Ctor: c, Subtree: success}}, Default: failSub}
}

func matchFieldsSeq(fields []Flat, i int, path Path, excluded ExcludedMap, failSub *Node, onSuccess func([]Binding) *Node, binds []Binding) *Node {
	if i >= len(fields) {
		return onSuccess(binds)
	}
	return matchPattern(fields[i], path.Child(i), excluded, failSub, func(b []Binding) *Node {
		return matchFieldsSeq(fields, i+1, path, excluded, failSub, onSuccess, b)
	}, binds)
}

func matchStructSeq(fields []StructField, i int, path Path, excluded ExcludedMap, failSub *Node, onSuccess func([]Binding) *Node, binds []Binding) *Node {
	if i >= len(fields) {
		return onSuccess(binds)
	}
	return matchPattern(fields[i].Sub, path.Child(i), excluded, failSub, func(b []Binding) *Node {
		return matchStructSeq(fields, i+1, path, excluded, failSub, onSuccess, b)
	}, binds)
}

func withBind(binds []Binding, b Binding) []Binding {
	out := make([]Binding, len(binds)+1)
	copy(out, binds)
	out[len(binds)] = b
	return out
}

func wrapBinds(sub *Node, binds []Binding) *Node {
	for i := len(binds) - 1; i >= 0; i-- {
		sub = bindNode(binds[i].Name, binds[i].Path, sub)
	}
	return sub
}

// collectCtorTests walks pat once (without building any tree nodes) and
// records every (path, constructor) test it performs, used to seed the
// excluded-set a following arm sees in its Default branch.
func collectCtorTests(pat Flat, path Path) ExcludedMap {
	out := ExcludedMap{}
	var walk func(p Flat, at Path)
	walk = func(p Flat, at Path) {
		switch p.Kind {
		case Wildcard, Binding:
			return
		case At:
			walk(*p.Inner, at)
		case LitBool:
			mark(out, at, ctorKey(CtorKey{Kind: LitBool, BoolVal: p.BoolVal}))
		case LitInt:
			mark(out, at, ctorKey(CtorKey{Kind: LitInt, IntVal: p.IntVal}))
		case LitFloat:
			mark(out, at, ctorKey(CtorKey{Kind: LitFloat, IntVal: int64(p.FloatVal)}))
		case LitStr:
			mark(out, at, ctorKey(CtorKey{Kind: LitStr, StrVal: p.StrVal}))
		case LitChar:
			mark(out, at, ctorKey(CtorKey{Kind: LitChar, CharVal: p.CharVal}))
		case Variant:
			mark(out, at, ctorKey(CtorKey{Kind: Variant, Name: p.CtorName}))
			for i, f := range p.Fields {
				walk(f, at.Child(i))
			}
		case Tuple:
			for i, f := range p.Fields {
				walk(f, at.Child(i))
			}
		case Struct:
			for i, f := range p.StructFields {
				walk(f.Sub, at.Child(i))
			}
		case List:
			mark(out, at, ctorKey(CtorKey{Kind: List, ListArity: len(p.Fields)}))
			for i, f := range p.Fields {
				walk(f, at.Child(i))
			}
		case Range:
			mark(out, at, ctorKey(rangeCtor(p)))
		case Or:
			for _, alt := range p.Alts {
				walk(alt, at)
			}
		}
	}
	walk(pat, path)
	return out
}

func mark(m ExcludedMap, path Path, key string) {
	inner := m[path.String()]
	if inner == nil {
		inner = make(map[string]bool)
		m[path.String()] = inner
	}
	inner[key] = true
}

func rangeCtor(pat Flat) CtorKey {
	c := CtorKey{Kind: Range}
	if pat.RangeLo != nil {
		c.IntVal = pat.RangeLo.IntVal
		if pat.RangeLo.Kind == LitChar {
			c.IntVal = int64(pat.RangeLo.CharVal)
		}
	}
	if pat.RangeHi != nil {
		c.CharVal = rune(pat.RangeHi.IntVal)
		if pat.RangeHi.Kind == LitChar {
			c.CharVal = pat.RangeHi.CharVal
		}
	}
	return c
}

func ctorKey(c CtorKey) string {
	return fmt.Sprintf("%d:%d:%d:%v:%d:%d:%d", c.Kind, c.Name, c.IntVal, c.BoolVal, c.StrVal, c.CharVal, c.ListArity)
}
