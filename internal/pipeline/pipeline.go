// Package pipeline orchestrates one compilation unit's middle-end passes:
// Resolution, Inference (with Pattern Compilation embedded in each match
// expression it synthesizes), and Canonicalization, spec.md §0's overall
// flow. Grounded on the teacher's Processor/PipelineContext staged-walk
// shape (internal/backend/processor.go, internal/analyzer/processor.go,
// internal/parser/processor.go all implement `Process(ctx) ctx` against a
// shared *pipeline.PipelineContext), generalized from "parse, analyze,
// execute" into this middle end's own three named stages.
package pipeline

import (
	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/canon"
	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/infer"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/registry"
)

// PipelineContext threads every compilation unit's shared state through
// the stages below, the way the teacher's PipelineContext threads a
// module loader and evaluator state through parse/analyze/execute.
type PipelineContext struct {
	Mod   *ast.Module
	Strs  *intern.Strings
	Types *intern.Types
	Diags *diagnostics.Queue

	Reg   *registry.Registry
	Infer *infer.Infer

	// Canon holds one CanonResult per registered function, keyed by its
	// declared name, populated by the Canonicalization stage.
	Canon map[intern.Name]*canon.CanonResult
	// Validation accumulates every canon.ValidationError found across all
	// functions' CanonResults (spec.md §4.J's five invariants).
	Validation []canon.ValidationError
}

// Processor is one named pipeline stage. Each implementation mutates and
// returns the same *PipelineContext, matching the teacher's
// `Process(ctx *PipelineContext) *PipelineContext` signature so stages
// compose uniformly regardless of what they do internally.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline is a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline running processors in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, continuing even after a stage adds
// diagnostics (the teacher's own rationale still applies: an LSP-style
// caller wants every phase's diagnostics, not just the first failure's).
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}

// NewContext seeds an empty PipelineContext for mod, ready for Resolution.
func NewContext(mod *ast.Module, strs *intern.Strings, types *intern.Types) *PipelineContext {
	return &PipelineContext{
		Mod:   mod,
		Strs:  strs,
		Types: types,
		Diags: diagnostics.NewQueue(),
		Canon: make(map[intern.Name]*canon.CanonResult),
	}
}

// Standard builds the default three-stage pipeline: Resolution, Inference
// and Canonicalization. Pattern Compilation is not a stage of its own; it
// runs embedded within Inference's match-expression synthesis
// (internal/infer/control.go).
func Standard() *Pipeline {
	return New(ResolutionStage{}, InferenceStage{}, CanonicalizationStage{})
}

// ResolutionStage populates ctx.Reg and ctx.Infer from ctx.Mod's
// top-level items (resolve.go).
type ResolutionStage struct{}

func (ResolutionStage) Process(ctx *PipelineContext) *PipelineContext {
	reg, inf := resolve(ctx.Mod, ctx.Strs, ctx.Types, ctx.Diags)
	ctx.Reg = reg
	ctx.Infer = inf
	return ctx
}

// InferenceStage type-checks every registered function body in turn.
// Running a registry-budget-aware loop here (rather than bailing out
// after the first Halted) matches spec.md §7's "keep going to surface as
// many real errors as the budget allows" behavior: once the queue halts,
// further Check calls are skipped but already-inferred bodies are left
// alone, so Canonicalization can still run on whatever did type-check.
type InferenceStage struct{}

func (InferenceStage) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Infer == nil || ctx.Diags.Halted() {
		return ctx
	}
	for _, fn := range ctx.Reg.Functions {
		if ctx.Diags.Halted() {
			break
		}
		ctx.Infer.InferFunction(fn)
	}
	return ctx
}

// CanonicalizationStage lowers every registered function's now-typed body
// into a canon.CanonResult and validates the result, the final pipeline
// stage spec.md §4.J describes.
type CanonicalizationStage struct{}

func (CanonicalizationStage) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Infer == nil {
		return ctx
	}
	for name, fn := range ctx.Reg.Functions {
		result := canon.LowerFunction(ctx.Mod, ctx.Strs, ctx.Types, ctx.Reg, ctx.Diags, ctx.Infer.Trees, fn)
		ctx.Canon[name] = result
		ctx.Validation = append(ctx.Validation, canon.Validate(result)...)
	}
	return ctx
}

// Run is a convenience wrapper building a fresh context for mod and
// driving it through Standard()'s three stages in one call — the shape
// cmd/sigilc-middlewared and internal/wire both use to go from a parsed
// module to a CanonResult/diagnostic set.
func Run(mod *ast.Module, strs *intern.Strings, types *intern.Types) *PipelineContext {
	return Standard().Run(NewContext(mod, strs, types))
}
