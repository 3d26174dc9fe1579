package unify

import (
	"fmt"

	"github.com/funvibe/sigilc/internal/intern"
)

// CannotUnify reports two structurally incompatible types: differing
// constructors, mismatched arity, or incompatible nominal names. Grounded
// on the teacher's unify error path (typesystem/unify.go returns a plain
// `error`), given a structured shape per spec.md §4.F so the inferrer can
// build a `TypeCheckError` with an `ErrorContext{kind,note}` around it
// (SPEC_FULL.md ambient-stack section).
type CannotUnify struct {
	Kind  string // short discriminator: "constructor", "arity", "name"
	Left  intern.TypeId
	Right intern.TypeId
}

func (e CannotUnify) Error() string {
	return fmt.Sprintf("cannot unify (%s mismatch): %d vs %d", e.Kind, e.Left, e.Right)
}

// InfiniteType reports an occurs-check failure: binding Var to Type would
// construct a type containing itself.
type InfiniteType struct {
	Var  intern.TypeId
	Type intern.TypeId
}

func (e InfiniteType) Error() string {
	return fmt.Sprintf("infinite type: var %d occurs in %d", e.Var, e.Type)
}
