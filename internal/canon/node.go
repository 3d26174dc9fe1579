package canon

import (
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/span"
)

// CanKind tags the variant stored in a CanNode — spec.md §4's closed
// canonical vocabulary, one kind per operation with every surface-level
// sugar form erased before a node is ever allocated.
type CanKind uint8

const (
	CanConstant CanKind = iota
	CanIdent
	CanUnary
	CanBinary
	CanCast
	CanField
	CanIndex
	CanAssign
	CanIf
	CanFor
	CanLoop
	CanMatch
	CanBlock
	CanLet
	CanLambda
	CanCall
	CanMethodCall
	CanList
	CanTuple
	CanMap
	CanStruct
	CanRangeExpr
	CanBreak
	CanContinue
	CanTry
	CanAwait
	CanSome
	CanNone
	CanOk
	CanErr
	CanReturn // supplements spec.md §4.J's illustrative list: lowers KindReturn, which the type checker already gives real ReturnType-checked semantics
	CanError
)

// CanNode is one canonical-IR node. Mirrors internal/ast.Expr's flattened,
// Kind-tagged shape (one struct, fields reused per variant) rather than
// introducing a second interface hierarchy; Ty must never be
// intern.INFER once Lower returns (validate.go's invariant 3).
type CanNode struct {
	Kind CanKind
	Span span.Span
	Ty   intern.TypeId

	// CanConstant: the interned literal value.
	Const ConstantId

	// CanIdent: the referenced name.
	// CanField: the field name. CanMethodCall: the method name.
	// CanUnary/CanBinary: the operator's interned spelling.
	// CanAssign: the compound-assignment operator, EMPTY for plain "=".
	// CanBreak/CanContinue: the loop label, EMPTY if unlabeled.
	Name intern.Name

	// CanUnary/CanCast/CanTry/CanAwait/CanField/CanIndex(receiver)/
	// CanMethodCall(receiver): operand.
	Operand CanId

	// CanBinary/CanAssign/CanIndex(index): left/right (or target/value).
	Left  CanId
	Right CanId

	// CanCast: target type, and whether the cast can fail at runtime
	// (narrowing) as opposed to always succeeding (widening). Lower itself
	// constructs no CanCast nodes.
	CastTy    intern.TypeId
	Fallible  bool

	// CanCall: callee plus argument nodes. CanMethodCall: argument nodes
	// (Operand holds the receiver). CanList/CanTuple/CanStruct: element
	// nodes. CanStruct: TypeName names the nominal type (EMPTY for an
	// anonymous record/row value).
	Callee   CanId
	Args     CanRange
	TypeName intern.Name

	// CanStruct: field names parallel to Args, same length and order.
	FieldNames []intern.Name

	// CanMap: key nodes and value nodes, parallel and same length.
	Keys   CanRange
	Values CanRange

	// CanIf: condition, then-branch, else-branch (NoCan if absent).
	Cond CanId
	Then CanId
	Else CanId

	// CanFor/CanLoop: binding name (EMPTY for CanLoop or an ignored
	// binding), iterable (CanFor only, NoCan for CanLoop), guard (NoCan
	// if none), body.
	Iter  CanId
	Guard CanId
	Body  CanId

	// CanMatch: scrutinee, compiled decision tree, the arm bodies the
	// tree's Leaf nodes index into by position, and each arm's guard
	// expression (NoCan if unguarded) parallel to Arms — kept separate
	// from the tree's Guard nodes (which carry only the arm index) so
	// arms stay "pure branch bodies" per spec.md §4.J.
	Scrutinee    CanId
	DecisionTree DecisionTreeId
	Arms         CanRange
	ArmGuards    CanRange

	// CanBlock: statement nodes; Result is the block's value: its last
	// expression, lowered separately from Stmts, which hold the ones before
	// it (NoCan only for an empty block). Lower always sets Result
	// explicitly so validate.go never has to special-case "implicit".
	Stmts  CanRange
	Result CanId

	// CanLet: bound value. (CanLambda's body is in Body above.)
	Value CanId

	// CanLambda: parameter names (types live on Ty's KindFunction.Params,
	// indexed the same way) and body.
	Params []intern.Name

	// CanSome/CanOk/CanErr/CanTry(unused)/CanReturn-equivalent payload:
	// reuses Value above for Some/Ok/Err's wrapped expression.
}
