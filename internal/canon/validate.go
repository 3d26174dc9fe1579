package canon

import "github.com/funvibe/sigilc/internal/intern"

// ValidationError reports one canonical-IR invariant violation found by
// Validate. Grounded on spec.md §4.J's five-point validator contract;
// the teacher has no equivalent separate pass (it compiles straight to
// bytecode), so this structure is new rather than adapted from a single
// teacher file — built to the invariant list itself.
type ValidationError struct {
	Node    CanId
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// Validate walks r's arena asserting spec.md §4.J's five invariants.
// Intended to run always in debug builds; callers may skip it in a
// release build for speed (the spec's explicit escape hatch), so this
// function performs no recovery of its own — it just reports every
// violation it finds and lets the caller decide what to do with them.
func Validate(r *CanonResult) []ValidationError {
	var errs []ValidationError
	if r.Root == NoCan {
		// A fatal earlier error can legitimately leave the result empty
		// (invariant 5's explicit allowance); nothing further to check.
		if r.Arena.Len() == 0 {
			return nil
		}
	} else if !r.Arena.InBounds(r.Root) {
		errs = append(errs, ValidationError{Node: r.Root, Message: "root CanId out of bounds"})
	}

	for i := 1; i <= r.Arena.Len(); i++ {
		id := CanId(i)
		n := r.Arena.Get(id)
		errs = append(errs, validateNode(r, id, n)...)
	}
	return errs
}

func validateNode(r *CanonResult, id CanId, n CanNode) []ValidationError {
	var errs []ValidationError
	check := func(ref CanId) {
		if ref != NoCan && !r.Arena.InBounds(ref) {
			errs = append(errs, ValidationError{Node: id, Message: "dangling CanId reference"})
		}
	}
	checkRange := func(rg CanRange) {
		if !r.Arena.RangeInBounds(rg) {
			errs = append(errs, ValidationError{Node: id, Message: "CanRange out of backing-storage bounds"})
			return
		}
		for _, ref := range r.Arena.GetRange(rg) {
			check(ref)
		}
	}

	check(n.Operand)
	check(n.Left)
	check(n.Right)
	check(n.Callee)
	check(n.Cond)
	check(n.Then)
	check(n.Else)
	check(n.Iter)
	check(n.Guard)
	check(n.Body)
	check(n.Scrutinee)
	check(n.Value)
	check(n.Result)
	checkRange(n.Args)
	checkRange(n.Keys)
	checkRange(n.Values)
	checkRange(n.Stmts)
	checkRange(n.Arms)
	checkRange(n.ArmGuards)

	if n.Ty == intern.INFER {
		errs = append(errs, ValidationError{Node: id, Message: "node left untyped (INFER) after canonicalization"})
	}

	if n.Kind == CanConstant && int(n.Const) >= r.Constants.Len() {
		errs = append(errs, ValidationError{Node: id, Message: "ConstantId out of bounds"})
	}
	if n.Kind == CanMatch && int(n.DecisionTree) >= len(r.Trees) {
		errs = append(errs, ValidationError{Node: id, Message: "DecisionTreeId out of bounds"})
	}

	return errs
}
