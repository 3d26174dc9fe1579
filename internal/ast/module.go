package ast

import "github.com/funvibe/sigilc/internal/intern"

// Module is the arena owning every node parsed from one source file:
// expressions, patterns, surface type annotations, and item-level
// statements, each addressed by a 32-bit id into a flat slice rather than
// allocated individually and linked by pointer. Grounded on the teacher's
// ast.Program (ast_core.go), which held a flat `[]Statement` at the root
// but still pointer-linked everything beneath it; spec.md Component B
// pushes that flattening all the way down.
//
// Index 0 of the exprs, stmts, patterns and ptypes slices is a reserved
// sentinel (the zero value of the corresponding Id type denotes "absent"),
// so those four start at length 1; the other slices start empty.
type Module struct {
	Strs  *intern.Strings
	Types *intern.Types

	// Name is this module's declared package/module name, EMPTY for an
	// unnamed root script.
	Name intern.Name

	// Items holds the module's top-level statements in source order.
	Items StmtRange

	exprs    []Expr
	stmts    []Stmt
	patterns []MatchPattern
	ptypes   []ParsedType
	params   []Param
	arms     []Arm
	clauses  []CompClause
	fieldLit []FieldLit
	fieldPat []FieldPat
	ptFields []ParsedTypeField
	mapEnt   []MapEntry
	ctors    []DataCtor
	names    []intern.Name
}

// NewModule creates an empty arena backed by the given shared interners,
// with no sizing hint.
func NewModule(strs *intern.Strings, types *intern.Types) *Module {
	return WithCapacityHint(strs, types, 0)
}

// WithCapacityHint pre-sizes the arena's node slices from the source
// length. The heuristic — roughly one function definition per 50 bytes of
// source, floor 8 — trades a little over-allocation for avoiding repeated
// slice-growth copies while parsing a large module.
func WithCapacityHint(strs *intern.Strings, types *intern.Types, sourceLen int) *Module {
	hint := sourceLen / 50
	if hint < 8 {
		hint = 8
	}
	return &Module{
		Strs:     strs,
		Types:    types,
		exprs:    make([]Expr, 1, hint*4+1),
		stmts:    make([]Stmt, 1, hint+1),
		patterns: make([]MatchPattern, 1, hint*2+1),
		ptypes:   make([]ParsedType, 1, hint+1),
		params:   make([]Param, 0, hint),
		arms:     make([]Arm, 0, hint),
		clauses:  make([]CompClause, 0, hint/4+1),
		fieldLit: make([]FieldLit, 0, hint),
		fieldPat: make([]FieldPat, 0, hint),
		ptFields: make([]ParsedTypeField, 0, hint),
		mapEnt:   make([]MapEntry, 0, hint/4+1),
		ctors:    make([]DataCtor, 0, hint/4+1),
		names:    make([]intern.Name, 0, hint),
	}
}
