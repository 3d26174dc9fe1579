package canon

import "github.com/funvibe/sigilc/internal/pattern"

// CanonResult is one item's (function body, const initializer, ...)
// canonicalization output: the arena, its root node, and the two pools
// Lower populates as it walks (spec.md §6.2's "middle end -> backends"
// boundary artifact).
type CanonResult struct {
	Arena     *CanArena
	Root      CanId
	Constants *ConstantPool
	Trees     []*pattern.Node // indexed by DecisionTreeId
}

// Tree resolves id to its decision tree.
func (r *CanonResult) Tree(id DecisionTreeId) *pattern.Node { return r.Trees[id] }
