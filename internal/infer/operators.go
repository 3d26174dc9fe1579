package infer

// Operator classification tables, grounded on the teacher's
// inference_solver.go operator-category switch (`isArithmeticOp`,
// `isComparisonOp`, `isLogicalOp`), extended with traitMethodForOp/
// unaryTraitMethod for spec.md §4.H's trait-dispatched user-operator
// fallback (the teacher resolves operator overloads through its
// InstanceDef method tables the same way; this only renames the lookup
// keys to this middle end's five built-in operator traits).

var arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}
var comparisonOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true}
var equalityOps = map[string]bool{"==": true, "!=": true}
var logicalOps = map[string]bool{"&&": true, "||": true}
var bitwiseOps = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}

// traitMethodForOp names the trait method a binary operator falls back to
// when the left operand is not a primitive type the operator handles
// directly.
var traitMethodForOp = map[string]string{
	"+":  "add",
	"-":  "subtract",
	"*":  "multiply",
	"/":  "divide",
	"%":  "modulo",
	"<":  "less_than",
	"<=": "less_equal",
	">":  "greater_than",
	">=": "greater_equal",
	"==": "eq",
	"!=": "eq",
}

// unaryTraitMethod names the trait method a unary operator falls back to
// when the operand isn't a primitive Int/Float/Bool.
var unaryTraitMethod = map[string]string{
	"-": "negate",
	"!": "not",
	"~": "bit_not",
}
