package canon

import (
	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/pattern"
	"github.com/funvibe/sigilc/internal/registry"
)

// LowerFunction canonicalizes one registered function's body, the
// per-item granularity spec.md §4.J's "Output: CanonResult per item"
// describes. trees is the decision-tree cache Component G populated
// while type-checking this same function (Infer.Trees).
func LowerFunction(mod *ast.Module, strs *intern.Strings, types *intern.Types, reg *registry.Registry, diags *diagnostics.Queue, trees map[ast.ExprId]*pattern.Node, fn *registry.FunctionSig) *CanonResult {
	l := New(mod, strs, types, reg, diags, trees)
	if fn.Body == ast.NoExpr {
		return &CanonResult{Arena: l.ca, Root: NoCan, Constants: l.consts}
	}
	return l.Lower(fn.Body)
}
