// Package ast is the post-parse expression tree: a flat, append-only arena
// of nodes addressed by 32-bit handles instead of the teacher's
// pointer-and-Visitor tree (ast_core.go/ast_expressions.go). Spans are byte
// offsets (internal/span) rather than token.Token line/column pairs, since
// this package starts downstream of lexing/parsing.
package ast

// ExprId addresses one expression node in a Module's arena. The zero value,
// NoExpr, never denotes a real node.
type ExprId uint32

// NoExpr is the sentinel "absent expression" handle, e.g. an if with no
// else branch.
const NoExpr ExprId = 0

// StmtId addresses one item-level statement (function/type/trait/impl/const
// declaration or a top-level use).
type StmtId uint32

// NoStmt is the sentinel "absent statement" handle.
const NoStmt StmtId = 0

// MatchPatternId addresses one pattern node within a match arm or let
// binding.
type MatchPatternId uint32

// NoMatchPattern is the sentinel "absent pattern" handle.
const NoMatchPattern MatchPatternId = 0

// ParsedTypeId addresses one surface type-annotation node (pre-resolution:
// `List Int`, `A | B`, `{x: Int, ..}`).
type ParsedTypeId uint32

// NoParsedType is the sentinel "no annotation present" handle.
const NoParsedType ParsedTypeId = 0

// ParamId addresses one function parameter (pattern + optional type
// annotation + optional default).
type ParamId uint32

// ArmId addresses one match arm (pattern + optional guard + body).
type ArmId uint32

// ExprRange is a contiguous run of expression ids materialized once by
// AllocExprRange and never mutated afterward — used for call arguments,
// list/tuple elements, and block statement-expression sequences.
type ExprRange struct {
	Start uint32
	Len   uint32
}

// IsEmpty reports whether the range denotes zero elements.
func (r ExprRange) IsEmpty() bool { return r.Len == 0 }

// StmtRange is a contiguous run of item ids, e.g. the items of a module or
// the where-clause of an impl.
type StmtRange struct {
	Start uint32
	Len   uint32
}

// ArmRange is a contiguous run of match arms.
type ArmRange struct {
	Start uint32
	Len   uint32
}

// MatchPatternRange is a contiguous run of sub-patterns, e.g. a tuple
// pattern's elements or an or-pattern's alternatives.
type MatchPatternRange struct {
	Start uint32
	Len   uint32
}

// ParamRange is a contiguous run of function parameters.
type ParamRange struct {
	Start uint32
	Len   uint32
}

// ParsedTypeRange is a contiguous run of surface type arguments, e.g.
// `Result<Int, String>`'s two arguments.
type ParsedTypeRange struct {
	Start uint32
	Len   uint32
}

// MapEntryRange is a contiguous run of map-literal key/value pairs.
type MapEntryRange struct {
	Start uint32
	Len   uint32
}

// FieldRange is a contiguous run of record/struct fields, either literal
// (name + value expr) or pattern (name + sub-pattern).
type FieldRange struct {
	Start uint32
	Len   uint32
}

// NameRange is a contiguous run of interned identifiers, e.g. a generic
// parameter list `<T, U>` or a capability-set `<Net, Fs>`.
type NameRange struct {
	Start uint32
	Len   uint32
}

// CompClauseRange is a contiguous run of list-comprehension clauses.
type CompClauseRange struct {
	Start uint32
	Len   uint32
}
