package ast

import (
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/span"
)

// ExprKind tags the variant stored in an Expr. Grounded on the teacher's
// Expression sum type (ast_core.go, ast_expressions.go: IntegerLiteral,
// BooleanLiteral, NilLiteral, FloatLiteral, BigIntLiteral, RationalLiteral,
// TupleLiteral, ListLiteral, RecordLiteral, MapLiteral, StringLiteral,
// FormatStringLiteral, InterpolatedString, CharLiteral, BytesLiteral,
// BitsLiteral, plus control-flow/binding forms scattered across the
// Visitor interface), flattened from pointer/interface dispatch into one
// tagged struct addressed by ExprId per spec.md Component B.
type ExprKind uint8

const (
	KindIntLit ExprKind = iota
	KindFloatLit
	KindBigIntLit
	KindRationalLit
	KindBoolLit
	KindUnitLit
	KindCharLit
	KindStringLit
	KindInterpString
	KindBytesLit
	KindBitsLit
	KindListLit
	KindTupleLit
	KindRecordLit
	KindMapLit
	KindIdent
	KindUnary
	KindBinary
	KindCall
	KindMethodCall
	KindIf
	KindMatch
	KindFor
	KindListComp
	KindBlock
	KindLet
	KindLambda
	KindOk
	KindErr
	KindSome
	KindNone
	KindReturn
	KindBreak
	KindContinue
	KindTry
	KindAssign
	KindWithCapability
	KindFunctionSeq // sugar: `a |> b |> c` pipeline, erased in Component J
	KindFunctionExp  // sugar: `f ,, g` composition, erased in Component J
	KindError        // parse-error recovery placeholder
)

// Expr is one arena-resident expression node. Only the fields relevant to
// Kind are meaningful; the flattened-struct shape mirrors
// internal/intern.TypeData for the same reason: a closed, enum-tagged set
// of variants is cheaper to store and traverse as one struct type than as
// an interface hierarchy, at the cost of callers switching on Kind first.
//
// Type holds the inferred TypeId, intern.INFER until Component G runs.
type Expr struct {
	Kind ExprKind
	Span span.Span
	Type intern.TypeId

	// KindIntLit.
	IntValue int64
	// KindFloatLit.
	FloatValue float64
	// KindBigIntLit: the literal's decimal text, parsed with math/big by
	// the consumer that needs arbitrary precision (Component J's constant
	// pool), not eagerly here.
	// KindRationalLit: uses the Numerator/Denominator fields below, not Text.
	// KindStringLit/KindBytesLit/KindBitsLit: raw decoded text.
	Text intern.Name

	Numerator   int64
	Denominator int64

	// KindBoolLit.
	BoolValue bool
	// KindCharLit.
	CharValue rune

	// KindInterpString: alternating KindStringLit and arbitrary
	// sub-expression nodes, in source order.
	// KindListLit/KindTupleLit: element expressions.
	// KindCall/KindMethodCall: argument expressions.
	// KindBlock: statement expressions; the final one (if not a unit-typed
	// statement) is the block's value.
	// KindWithCapability: capability identifier expressions.
	// KindFunctionSeq: pipeline steps in application order.
	Elems ExprRange

	// KindRecordLit: field name/value pairs.
	Fields FieldRange
	// KindRecordLit: optional `..base` update-syntax source record.
	// KindLet (statement form): unused.
	Base ExprId
	// KindRecordLit: optional nominal type name (`Point { x: 1, y: 2 }`);
	// EMPTY for a bare anonymous record literal.
	TypeName intern.Name

	// KindMapLit: key/value entry pairs.
	MapEntries MapEntryRange

	// KindIdent: the referenced name.
	// KindMethodCall: the method name.
	// KindUnary/KindBinary: the operator, stored as its interned spelling
	// (e.g. "+", "::", "|>") rather than a closed operator enum, since
	// trait-dispatched user operators (Component H) extend the set.
	// KindAssign: the compound-assignment operator ("+=" etc.), EMPTY for
	// plain "=".
	// KindReturn/KindBreak/KindContinue: the loop/block label, EMPTY if
	// unlabeled.
	Name intern.Name

	// KindUnary: operand. KindTry: operand.
	// KindMethodCall: receiver.
	Operand ExprId

	// KindBinary/KindAssign: left/right (or target/value) operands.
	Left  ExprId
	Right ExprId

	// KindCall: the callee expression (an Ident, a field projection, or an
	// arbitrary higher-order expression).
	Callee ExprId

	// KindIf: condition, then-branch, else-branch (NoExpr if absent —
	// an absent else is Unit-typed).
	Cond ExprId
	Then ExprId
	Else ExprId

	// KindMatch: the scrutinee plus its arms.
	Scrutinee ExprId
	Arms      ArmRange

	// KindFor: binding pattern, iterable, optional guard (NoExpr if none),
	// loop body.
	Pattern MatchPatternId
	Iter    ExprId
	Guard   ExprId
	Body    ExprId

	// KindListComp: output expression plus generator/filter clauses.
	Output  ExprId
	Clauses CompClauseRange

	// KindLet: optional type annotation (NoParsedType if inferred), bound
	// value, and — for `let ... in` expression-form lets — the
	// continuation body (NoExpr for a statement-form let, whose scope is
	// the rest of its enclosing block).
	TypeAnn ParsedTypeId
	Value   ExprId

	// KindLambda: parameters, optional return annotation, body.
	Params  ParamRange
	RetAnn  ParsedTypeId

	// KindOk/KindErr/KindSome: payload. KindNone/KindReturn(bare)/
	// KindBreak(bare)/KindContinue: Payload is NoExpr.
	Payload ExprId
}

// CompClause is one generator (`pattern <- iterable`) or filter
// (`condition`) clause of a list comprehension. Grounded on the teacher's
// CompClause/CompGenerator/CompFilter (ast_list_comp.go), merged into one
// tagged struct the way Expr itself is.
type CompClause struct {
	IsFilter  bool
	Pattern   MatchPatternId // generator clauses only
	Iterable  ExprId         // generator clauses only
	Condition ExprId         // filter clauses only
	Span      span.Span
}

// Arm is one `pattern [if guard] -> body` clause of a match expression.
type Arm struct {
	Pattern MatchPatternId
	Guard   ExprId // NoExpr if unguarded
	Body    ExprId
	Span    span.Span
}

// Param is one function or lambda parameter.
type Param struct {
	Pattern  MatchPatternId
	TypeAnn  ParsedTypeId // NoParsedType if elided
	Default  ExprId       // NoExpr if required
	Variadic bool
	Span     span.Span
}

// FieldLit is one `name: value` pair of a record literal.
type FieldLit struct {
	Name  intern.Name
	Value ExprId
	Span  span.Span
}

// MapEntry is one `key: value` pair of a map literal.
type MapEntry struct {
	Key   ExprId
	Value ExprId
}
