package ast

import (
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/span"
)

// PatternKind tags the variant stored in a MatchPattern. Grounded on the
// teacher's Pattern interface implementations referenced throughout
// analyzer/declarations_patterns.go (IdentifierPattern, TuplePattern,
// ListPattern, WildcardPattern, RecordPattern) and
// analyzer/exhaustiveness.go's ADT/variant pattern handling, extended with
// Range/Or/At to give Component I's decision-tree builder a closed pattern
// language to flatten.
type PatternKind uint8

const (
	PatWildcard PatternKind = iota
	PatBinding
	PatLiteral
	PatVariant
	PatTuple
	PatRecord
	PatList
	PatRange
	PatOr
	PatAt
)

// MatchPattern is one arena-resident pattern node.
type MatchPattern struct {
	Kind PatternKind
	Span span.Span
	Type intern.TypeId

	// PatBinding: the bound variable name. PatAt: the alias name bound
	// alongside Sub. PatVariant/PatRecord: the constructor/type name.
	Name intern.Name

	// PatLiteral: the literal value, reusing Expr's literal encoding so a
	// single constant-folding path (Component J) handles both.
	Literal ExprId

	// PatVariant: constructor payload sub-patterns, positional.
	// PatTuple: element sub-patterns.
	// PatList: fixed-position element sub-patterns; a `..rest` tail is
	// carried by HasRest/RestName below, not by an element here.
	// PatOr: alternative sub-patterns, at least two.
	Subs MatchPatternRange

	// PatRecord: named field sub-patterns.
	RecFields FieldPatRange
	// PatRecord: whether unmatched fields are permitted (`{ x, .. }`).
	IsOpenRecord bool

	// PatList: optional rest-capture name for `[a, b, ..rest]`, EMPTY if
	// the list pattern is exact or the rest is discarded (`..`).
	RestName intern.Name
	HasRest  bool

	// PatRange: inclusive bounds, reusing the literal encoding above.
	RangeLo ExprId
	RangeHi ExprId

	// PatAt: the sub-pattern the alias binds alongside (`n @ Some(_)`).
	Sub MatchPatternId
}

// FieldPat is one `name: pattern` (or bare `name` shorthand, where Sub ==
// the implicit binding pattern for Name) entry of a record pattern.
type FieldPat struct {
	Name intern.Name
	Sub  MatchPatternId
	Span span.Span
}

// FieldPatRange is a contiguous run of record-pattern field entries.
type FieldPatRange struct {
	Start uint32
	Len   uint32
}
