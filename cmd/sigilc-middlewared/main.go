// Command sigilc-middlewared is a demonstration driver for this module's
// middle end: since the lexer/parser/evaluator/VM/LLVM backend this repo's
// pipeline feeds are out of scope (spec.md §1's external collaborators),
// there is no source text to read here. Instead this binary hand-builds a
// small fixed ast.Module directly through the arena's Alloc* API — the same
// shape a real parser would leave behind — and drives it through
// internal/pipeline's three stages, then renders the result through every
// internal/render emitter and, optionally, serves it over internal/wire.
//
// Grounded on the teacher's cmd/funxy (cmd/funxy/main.go), which likewise
// dispatches on a leading os.Args subcommand rather than a flag-parsing
// library; this binary keeps that plain os.Args style for its much smaller
// surface ("run" vs "serve").
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/config"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/pipeline"
	"github.com/funvibe/sigilc/internal/render"
	"github.com/funvibe/sigilc/internal/wire"
)

func main() {
	cmd := "run"
	if len(os.Args) >= 2 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "run":
		runDemo()
	case "serve":
		serveDemo()
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [run|serve]\n", os.Args[0])
		os.Exit(2)
	}
}

// runDemo lowers the fixed demo module and prints its diagnostics in all
// three internal/render formats, in the order a CI pipeline would want them:
// human first (for a developer's terminal), then JSON, then SARIF.
func runDemo() {
	cfg, err := config.LoadOrDefault(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "sigilc-middlewared: loading sigilc.yaml:", err)
		cfg = config.Default()
	}

	ctx, src := demoRun(cfg)
	diags := ctx.Diags.Finish()

	fmt.Println("=== human ===")
	render.Human(os.Stdout, src, diags, cfg.ResolveAnsi(os.Stdout.Fd()))

	fmt.Println("\n=== json ===")
	data, err := render.MarshalJSON(src, ctx.Diags.Run, diags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sigilc-middlewared: marshaling JSON report:", err)
	} else {
		os.Stdout.Write(data)
		fmt.Println()
	}

	fmt.Println("\n=== sarif ===")
	os.Stdout.Write(render.SARIF(src, ctx.Diags.Run, diags))
	fmt.Println()

	for name, result := range ctx.Canon {
		valid := true
		for _, v := range ctx.Validation {
			if v.Node != result.Root {
				continue
			}
			valid = false
		}
		fmt.Printf("\nfunction %s: %d arena nodes, %d constants, valid=%v\n",
			ctx.Strs.Lookup(name), result.Arena.Len(), result.Constants.Len(), valid)
	}

	if len(diags) > 0 {
		os.Exit(1)
	}
}

// serveDemo lowers the fixed demo module and streams its diagnostics over
// internal/wire's gRPC exporter on localhost, blocking until interrupted —
// the "Middle end -> backends" delivery path spec.md §1 names as an
// external collaborator this binary only demonstrates, never drives itself.
func serveDemo() {
	cfg, err := config.LoadOrDefault(".")
	if err != nil {
		cfg = config.Default()
	}

	ctx, _ := demoRun(cfg)
	diags := ctx.Diags.Finish()

	lis, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		fmt.Fprintln(os.Stderr, "sigilc-middlewared: listening:", err)
		os.Exit(1)
	}
	fmt.Printf("sigilc-middlewared: exporting %d diagnostic(s) for run %s on %s\n",
		len(diags), ctx.Diags.Run, lis.Addr())

	server := wire.NewExportServer(ctx.Diags.Run, diags)
	if err := server.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, "sigilc-middlewared: serving:", err)
		os.Exit(1)
	}
}

// demoRun builds the fixed demo module and drives it through
// pipeline.Standard(). The module is equivalent to:
//
//	fn add(x: Int, y: Int) -> Int { x + y }
//	fn main() -> Int { add(1, 2) }
//
// which exercises Resolution (two function signatures), Inference (a call
// site unifying against add's resolved type), and Canonicalization (two
// lowered function bodies) without needing a real parser.
func demoRun(cfg *config.Config) (*pipeline.PipelineContext, *render.Source) {
	strs := intern.NewStrings()
	types := intern.NewTypes()
	mod := ast.NewModule(strs, types)

	nameAdd := strs.Intern("add")
	nameMain := strs.Intern("main")
	nameX := strs.Intern("x")
	nameY := strs.Intern("y")
	namePlus := strs.Intern("+")
	nameInt := strs.Intern("Int")

	intAnn := mod.AllocParsedType(ast.ParsedType{Kind: ast.PTNamed, Name: nameInt})
	intAnnY := mod.AllocParsedType(ast.ParsedType{Kind: ast.PTNamed, Name: nameInt})
	intAnnRetAdd := mod.AllocParsedType(ast.ParsedType{Kind: ast.PTNamed, Name: nameInt})
	intAnnRetMain := mod.AllocParsedType(ast.ParsedType{Kind: ast.PTNamed, Name: nameInt})

	xPat := mod.AllocPattern(ast.MatchPattern{Kind: ast.PatBinding, Name: nameX})
	yPat := mod.AllocPattern(ast.MatchPattern{Kind: ast.PatBinding, Name: nameY})

	params := mod.AllocParams([]ast.Param{
		{Pattern: xPat, TypeAnn: intAnn},
		{Pattern: yPat, TypeAnn: intAnnY},
	})

	xRef := mod.AllocExpr(ast.Expr{Kind: ast.KindIdent, Type: intern.INFER, Name: nameX})
	yRef := mod.AllocExpr(ast.Expr{Kind: ast.KindIdent, Type: intern.INFER, Name: nameY})
	addBody := mod.AllocExpr(ast.Expr{Kind: ast.KindBinary, Type: intern.INFER, Name: namePlus, Left: xRef, Right: yRef})

	addFn := ast.Stmt{
		Kind:   ast.StmtFunction,
		Name:   nameAdd,
		Params: params,
		RetAnn: intAnnRetAdd,
		Body:   addBody,
	}

	addRef := mod.AllocExpr(ast.Expr{Kind: ast.KindIdent, Type: intern.INFER, Name: nameAdd})
	callArgs := mod.AllocExprRange([]ast.Expr{
		{Kind: ast.KindIntLit, Type: intern.INFER, IntValue: 1},
		{Kind: ast.KindIntLit, Type: intern.INFER, IntValue: 2},
	})
	callExpr := mod.AllocExpr(ast.Expr{Kind: ast.KindCall, Type: intern.INFER, Callee: addRef, Elems: callArgs})

	mainFn := ast.Stmt{
		Kind:   ast.StmtFunction,
		Name:   nameMain,
		RetAnn: intAnnRetMain,
		Body:   callExpr,
	}

	mod.Items = mod.AllocStmtRange([]ast.Stmt{addFn, mainFn})

	pctx := pipeline.NewContext(mod, strs, types)
	pctx.Diags = pctx.Diags.WithBudget(cfg.DiagnosticBudget)
	ctx := pipeline.Standard().Run(pctx)
	src := &render.Source{Path: "<sigilc-middlewared demo>", Text: []byte("fn add(x: Int, y: Int) -> Int { x + y }\nfn main() -> Int { add(1, 2) }\n")}
	return ctx, src
}
