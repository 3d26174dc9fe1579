// Package canon lowers a type-checked expression tree (internal/ast +
// internal/infer's annotations) into the canonical IR spec.md §4.J
// describes: a minimal, sugar-free node vocabulary with every decision
// tree and literal constant pulled out into side pools. Grounded on the
// teacher's AST -> bytecode lowering (vm/compiler_expressions.go,
// compiler_statements.go) for the flatten-sugar-into-primitives shape,
// generalized from "emit bytecode" into "build a second typed tree" since
// this repo's backends (out of scope here) consume a canonical IR rather
// than a chunk of opcodes.
package canon

import "github.com/funvibe/sigilc/internal/intern"

// CanId addresses one node in a CanArena. The zero value, NoCan, never
// denotes a real node.
type CanId uint32

// NoCan is the sentinel "absent node" handle.
const NoCan CanId = 0

// CanRange is a contiguous run of canonical node ids, materialized once
// and never mutated afterward — used for block statements, call
// arguments, list/tuple/struct elements, and match arms.
type CanRange struct {
	Start uint32
	Len   uint32
}

// IsEmpty reports whether the range denotes zero elements.
func (r CanRange) IsEmpty() bool { return r.Len == 0 }

// ConstantId addresses one deduplicated literal value in a CanonResult's
// constant pool.
type ConstantId uint32

// DecisionTreeId addresses one compiled match decision tree (a
// *pattern.Node, opaque to this package) in a CanonResult's tree pool.
type DecisionTreeId uint32

// ConstantKind tags the variant stored in a Constant.
type ConstantKind uint8

const (
	ConstInt ConstantKind = iota
	ConstFloat
	ConstBool
	ConstStr
	ConstChar
	ConstByte
	ConstUnit
	ConstBigInt   // arbitrary-precision literal text, parsed lazily by the consumer
	ConstRational // numerator in IntVal, denominator in Denom
)

// Constant is one interned literal value. Structurally identical
// constants of the same kind always share a ConstantId (constants.go's
// ConstantPool.Intern), the way intern.Types dedupes structural types.
type Constant struct {
	Kind ConstantKind

	IntVal   int64 // ConstInt, and ConstRational's numerator
	Denom    int64 // ConstRational's denominator
	FloatVal float64
	BoolVal  bool
	CharVal  rune
	ByteVal  byte
	Text     intern.Name // ConstStr/ConstBigInt: the literal text
}
