package pattern

import (
	"fmt"
	"strings"

	"github.com/funvibe/sigilc/internal/intern"
)

// Path is a field-access chain from the match scrutinee: Path{} is the
// scrutinee itself, Path{0} its first tuple/variant element, Path{0,1}
// that element's second sub-element, and so on. Component J's lowering
// turns a Path into the projection expressions a Switch node tests.
type Path []int

// Child returns the path extended by one more step.
func (p Path) Child(i int) Path {
	np := make(Path, len(p)+1)
	copy(np, p)
	np[len(p)] = i
	return np
}

// String renders p as a stable map key for ExcludedMap.
func (p Path) String() string {
	var b strings.Builder
	for _, i := range p {
		fmt.Fprintf(&b, "/%d", i)
	}
	return b.String()
}

// Node is one decision-tree node, per spec.md §4.I.2's closed vocabulary:
// Leaf, Fail, Switch, Bind, Guard.
type Node struct {
	IsLeaf  bool
	IsFail  bool
	IsBind  bool
	IsGuard bool

	// Leaf: the matched arm.
	Arm int

	// Bind: the name/path materialized into the environment, plus the
	// subtree to continue evaluating with it in scope.
	BindName intern.Name
	BindPath Path
	Sub      *Node

	// Switch: which scrutinee position is tested, the per-constructor
	// subtrees, and the fallback for constructors the cases don't cover
	// (Compile always sets it, even when the cases already cover every
	// constructor of the tested type).
	Path    Path
	Cases   []Case
	Default *Node

	// Guard: the guard expression's owning arm (evaluated by the
	// consumer against that arm's bound environment) plus the subtrees
	// to take on pass/fail.
	GuardArm int
	IfPass   *Node
	IfFail   *Node
}

// Case is one constructor arm of a Switch.
type Case struct {
	Ctor    CtorKey
	Subtree *Node
}

// CtorKey identifies one constructor a Switch branches on: a variant
// name, a boolean value, a literal, or a list shape (by element count
// and whether a rest-pattern follows).
type CtorKey struct {
	Kind      Kind // Variant, LitBool, LitInt, LitStr, LitChar, LitFloat, List, or Range
	Name      intern.Name
	BoolVal   bool
	IntVal    int64
	StrVal    intern.Name
	CharVal   rune
	ListArity int
}

func leafNode(arm int) *Node  { return &Node{IsLeaf: true, Arm: arm} }
func failNode() *Node         { return &Node{IsFail: true} }

func bindNode(name intern.Name, path Path, sub *Node) *Node {
	return &Node{IsBind: true, BindName: name, BindPath: path, Sub: sub}
}
