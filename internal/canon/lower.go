package canon

import (
	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/pattern"
	"github.com/funvibe/sigilc/internal/registry"
)

// Lowerer walks a type-checked expression tree once and builds its
// canonical form, materializing match decision trees and literal
// constants into CanonResult's side pools as it goes. Grounded on the
// teacher's Compiler (vm/compiler.go/compiler_expressions.go/
// compiler_statements.go): the same single-pass recursive walk shape,
// rebuilt to produce a second typed tree instead of bytecode, since this
// repo's backends (out of scope here) consume a canonical IR rather than
// a vm.Chunk.
type Lowerer struct {
	Mod    *ast.Module
	Strs   *intern.Strings
	Types  *intern.Types
	Reg    *registry.Registry
	Diags  *diagnostics.Queue
	Trees  map[ast.ExprId]*pattern.Node

	ca       *CanArena
	consts   *ConstantPool
	treePool []*pattern.Node
}

// New returns a Lowerer sharing the interners/registry/diagnostics of
// the rest of the compilation unit's pipeline. trees is the Infer.Trees
// map Component G populated while type-checking the same tree.
func New(mod *ast.Module, strs *intern.Strings, types *intern.Types, reg *registry.Registry, diags *diagnostics.Queue, trees map[ast.ExprId]*pattern.Node) *Lowerer {
	return &Lowerer{
		Mod: mod, Strs: strs, Types: types, Reg: reg, Diags: diags, Trees: trees,
		ca:     NewCanArena(),
		consts: NewConstantPool(),
	}
}

// Lower canonicalizes root and returns the finished result. Call once
// per Lowerer — its arena/constant pool/tree pool are shared across the
// whole walk.
func (l *Lowerer) Lower(root ast.ExprId) *CanonResult {
	rootId := l.expr(root)
	return &CanonResult{Arena: l.ca, Root: rootId, Constants: l.consts, Trees: l.treePool}
}

func (l *Lowerer) alloc(n CanNode) CanId { return l.ca.Alloc(n) }

func (l *Lowerer) exprIDs(r ast.ExprRange) []ast.ExprId {
	ids := make([]ast.ExprId, r.Len)
	for k := range ids {
		ids[k] = ast.ExprId(r.Start + uint32(k))
	}
	return ids
}

func (l *Lowerer) lowerRange(r ast.ExprRange) CanRange {
	ids := l.exprIDs(r)
	out := make([]CanId, len(ids))
	for k, eid := range ids {
		out[k] = l.expr(eid)
	}
	return l.ca.AllocRange(out)
}

// expr lowers one ast node into its canonical form, erasing every sugar
// kind (FunctionSeq/FunctionExp/WithCapability) spec.md §4.J names.
func (l *Lowerer) expr(id ast.ExprId) CanId {
	if id == ast.NoExpr {
		return NoCan
	}
	e := l.Mod.GetExpr(id)

	switch e.Kind {
	case ast.KindIntLit:
		return l.constNode(e, Constant{Kind: ConstInt, IntVal: e.IntValue})
	case ast.KindBigIntLit:
		return l.constNode(e, Constant{Kind: ConstBigInt, Text: e.Text})
	case ast.KindFloatLit:
		return l.constNode(e, Constant{Kind: ConstFloat, FloatVal: e.FloatValue})
	case ast.KindRationalLit:
		return l.constNode(e, Constant{Kind: ConstRational, IntVal: e.Numerator, Denom: e.Denominator})
	case ast.KindBoolLit:
		return l.constNode(e, Constant{Kind: ConstBool, BoolVal: e.BoolValue})
	case ast.KindUnitLit:
		return l.constNode(e, Constant{Kind: ConstUnit})
	case ast.KindCharLit:
		return l.constNode(e, Constant{Kind: ConstChar, CharVal: e.CharValue})
	case ast.KindStringLit, ast.KindBytesLit, ast.KindBitsLit:
		return l.constNode(e, Constant{Kind: ConstStr, Text: e.Text})

	case ast.KindInterpString:
		return l.lowerInterpString(e)

	case ast.KindListLit:
		return l.alloc(CanNode{Kind: CanList, Span: e.Span, Ty: e.Type, Args: l.lowerRange(e.Elems)})

	case ast.KindTupleLit:
		return l.alloc(CanNode{Kind: CanTuple, Span: e.Span, Ty: e.Type, Args: l.lowerRange(e.Elems)})

	case ast.KindMapLit:
		return l.lowerMap(e)

	case ast.KindRecordLit:
		return l.lowerRecord(e)

	case ast.KindIdent:
		return l.alloc(CanNode{Kind: CanIdent, Span: e.Span, Ty: e.Type, Name: e.Name})

	case ast.KindUnary:
		return l.alloc(CanNode{Kind: CanUnary, Span: e.Span, Ty: e.Type, Name: e.Name, Operand: l.expr(e.Operand)})

	case ast.KindBinary:
		return l.alloc(CanNode{Kind: CanBinary, Span: e.Span, Ty: e.Type, Name: e.Name, Left: l.expr(e.Left), Right: l.expr(e.Right)})

	case ast.KindCall:
		return l.alloc(CanNode{Kind: CanCall, Span: e.Span, Ty: e.Type, Callee: l.expr(e.Callee), Args: l.lowerRange(e.Elems)})

	case ast.KindMethodCall:
		return l.alloc(CanNode{Kind: CanMethodCall, Span: e.Span, Ty: e.Type, Name: e.Name, Operand: l.expr(e.Operand), Args: l.lowerRange(e.Elems)})

	case ast.KindIf:
		return l.alloc(CanNode{Kind: CanIf, Span: e.Span, Ty: e.Type, Cond: l.expr(e.Cond), Then: l.expr(e.Then), Else: l.expr(e.Else)})

	case ast.KindMatch:
		return l.lowerMatch(id, e)

	case ast.KindFor:
		return l.lowerFor(e)

	case ast.KindListComp:
		return l.lowerListComp(e)

	case ast.KindBlock:
		return l.lowerBlock(e)

	case ast.KindLet:
		return l.lowerLet(e)

	case ast.KindLambda:
		return l.lowerLambda(e)

	case ast.KindOk:
		return l.alloc(CanNode{Kind: CanOk, Span: e.Span, Ty: e.Type, Value: l.expr(e.Payload)})
	case ast.KindErr:
		return l.alloc(CanNode{Kind: CanErr, Span: e.Span, Ty: e.Type, Value: l.expr(e.Payload)})
	case ast.KindSome:
		return l.alloc(CanNode{Kind: CanSome, Span: e.Span, Ty: e.Type, Value: l.expr(e.Payload)})
	case ast.KindNone:
		return l.alloc(CanNode{Kind: CanNone, Span: e.Span, Ty: e.Type})

	case ast.KindReturn:
		return l.alloc(CanNode{Kind: CanReturn, Span: e.Span, Ty: e.Type, Value: l.expr(e.Payload)})
	case ast.KindBreak:
		return l.alloc(CanNode{Kind: CanBreak, Span: e.Span, Ty: e.Type, Name: e.Name})
	case ast.KindContinue:
		return l.alloc(CanNode{Kind: CanContinue, Span: e.Span, Ty: e.Type, Name: e.Name})

	case ast.KindTry:
		return l.alloc(CanNode{Kind: CanTry, Span: e.Span, Ty: e.Type, Operand: l.expr(e.Operand)})

	case ast.KindAssign:
		return l.alloc(CanNode{Kind: CanAssign, Span: e.Span, Ty: e.Type, Name: e.Name, Left: l.expr(e.Left), Right: l.expr(e.Right)})

	case ast.KindWithCapability:
		// The capability set is a static-only construct: Component G
		// already verified every provider, so nothing survives into the
		// canonical form beyond the protected body itself.
		return l.expr(e.Body)

	case ast.KindFunctionSeq:
		return l.lowerFunctionSeq(e)

	case ast.KindFunctionExp:
		return l.lowerFunctionExp(e)

	case ast.KindError:
		return l.alloc(CanNode{Kind: CanError, Span: e.Span, Ty: intern.ERROR})

	default:
		l.Diags.Add(diagnostics.New(diagnostics.E9001, e.Span, "canonicalization: unhandled expression kind"))
		return l.alloc(CanNode{Kind: CanError, Span: e.Span, Ty: intern.ERROR})
	}
}

func (l *Lowerer) constNode(e ast.Expr, c Constant) CanId {
	return l.alloc(CanNode{Kind: CanConstant, Span: e.Span, Ty: e.Type, Const: l.consts.Intern(c)})
}

// lowerInterpString folds an interpolated string's parts into nested
// `.concat` method calls, keeping the result typed Str (spec.md §4.J).
func (l *Lowerer) lowerInterpString(e ast.Expr) CanId {
	parts := l.exprIDs(e.Elems)
	if len(parts) == 0 {
		return l.alloc(CanNode{Kind: CanConstant, Span: e.Span, Ty: intern.STR, Const: l.consts.Intern(Constant{Kind: ConstStr, Text: intern.EMPTY})})
	}
	acc := l.expr(parts[0])
	concat := l.Strs.Intern("concat")
	for _, pid := range parts[1:] {
		part := l.expr(pid)
		acc = l.alloc(CanNode{
			Kind: CanMethodCall, Span: e.Span, Ty: intern.STR,
			Name: concat, Operand: acc, Args: l.ca.AllocRange([]CanId{part}),
		})
	}
	return acc
}

func (l *Lowerer) lowerMap(e ast.Expr) CanId {
	entries := l.Mod.GetMapEntries(e.MapEntries)
	keys := make([]CanId, len(entries))
	vals := make([]CanId, len(entries))
	for k, ent := range entries {
		keys[k] = l.expr(ent.Key)
		vals[k] = l.expr(ent.Value)
	}
	return l.alloc(CanNode{
		Kind: CanMap, Span: e.Span, Ty: e.Type,
		Keys: l.ca.AllocRange(keys), Values: l.ca.AllocRange(vals),
	})
}

// lowerRecord canonicalizes a record literal. A nominal struct literal
// with `..base` update syntax is expanded against the registry's full
// field list here, so the canonical node always carries every field's
// value explicitly and no Base/spread concept needs to survive into the
// canonical vocabulary.
func (l *Lowerer) lowerRecord(e ast.Expr) CanId {
	lits := l.Mod.GetFields(e.Fields)
	written := make(map[intern.Name]ast.ExprId, len(lits))
	for _, f := range lits {
		written[f.Name] = f.Value
	}

	if e.TypeName != intern.EMPTY {
		if te, ok := l.Reg.Types[e.TypeName]; ok && te.Kind == registry.KindStruct {
			names := make([]intern.Name, len(te.Fields))
			args := make([]CanId, len(te.Fields))
			for k, sf := range te.Fields {
				names[k] = sf.Name
				if vid, ok := written[sf.Name]; ok {
					args[k] = l.expr(vid)
				} else if e.Base != ast.NoExpr {
					base := l.expr(e.Base)
					args[k] = l.alloc(CanNode{Kind: CanField, Span: e.Span, Ty: sf.Ty, Operand: base, Name: sf.Name})
				}
			}
			return l.alloc(CanNode{
				Kind: CanStruct, Span: e.Span, Ty: e.Type, TypeName: e.TypeName,
				FieldNames: names, Args: l.ca.AllocRange(args),
			})
		}
	}

	names := make([]intern.Name, len(lits))
	args := make([]CanId, len(lits))
	for k, f := range lits {
		names[k] = f.Name
		args[k] = l.expr(f.Value)
	}
	return l.alloc(CanNode{Kind: CanStruct, Span: e.Span, Ty: e.Type, FieldNames: names, Args: l.ca.AllocRange(args)})
}

// lowerMatch materializes the decision tree Component G already built
// for this expression (Infer.Trees) into the result's tree pool, and
// lowers each arm's guard and body separately so the stored arms stay
// pure branch bodies.
func (l *Lowerer) lowerMatch(id ast.ExprId, e ast.Expr) CanId {
	scrut := l.expr(e.Scrutinee)
	var treeId DecisionTreeId
	if tree, ok := l.Trees[id]; ok {
		treeId = DecisionTreeId(len(l.treePool))
		l.treePool = append(l.treePool, tree)
	}

	arms := l.Mod.GetArms(e.Arms)
	bodies := make([]CanId, len(arms))
	guards := make([]CanId, len(arms))
	for k, arm := range arms {
		bodies[k] = l.expr(arm.Body)
		guards[k] = l.expr(arm.Guard)
	}

	return l.alloc(CanNode{
		Kind: CanMatch, Span: e.Span, Ty: e.Type,
		Scrutinee: scrut, DecisionTree: treeId,
		Arms: l.ca.AllocRange(bodies), ArmGuards: l.ca.AllocRange(guards),
	})
}

// lowerFor canonicalizes a for-loop. Irrefutable simple bindings (the
// overwhelming common case) keep their name directly on CanFor; any
// other pattern binds an empty name (intern.EMPTY) and relies on the loop body
// already having been lowered against that pattern's bound names by
// Component G (the canonical form doesn't re-destructure — a richer
// pattern would need a nested single-arm CanMatch the way a `let`
// would, not attempted here; see DESIGN.md).
func (l *Lowerer) lowerFor(e ast.Expr) CanId {
	name := loopBindingName(l.Mod, e.Pattern)
	return l.alloc(CanNode{
		Kind: CanFor, Span: e.Span, Ty: e.Type, Name: name,
		Iter: l.expr(e.Iter), Guard: l.expr(e.Guard), Body: l.expr(e.Body),
	})
}

func loopBindingName(m *ast.Module, id ast.MatchPatternId) intern.Name {
	if id == ast.NoMatchPattern {
		return intern.EMPTY
	}
	p := m.GetPattern(id)
	if p.Kind == ast.PatBinding {
		return p.Name
	}
	return intern.EMPTY
}

// lowerListComp desugars `[out for p <- iter if cond, ...]` into nested
// for-loops pushing onto an accumulator list, the same "loop + explicit
// accumulator" shape most list-comprehension desugarings use since the
// canonical vocabulary (spec.md §4.J) has no comprehension node of its
// own.
func (l *Lowerer) lowerListComp(e ast.Expr) CanId {
	accName := l.Strs.Intern("__comp_acc")
	push := l.Strs.Intern("push")

	body := func() CanId {
		out := l.expr(e.Output)
		acc := l.alloc(CanNode{Kind: CanIdent, Span: e.Span, Ty: e.Type, Name: accName})
		call := l.alloc(CanNode{Kind: CanMethodCall, Span: e.Span, Ty: intern.UNIT, Operand: acc, Name: push, Args: l.ca.AllocRange([]CanId{out})})
		return call
	}()

	clauses := l.Mod.GetCompClauses(e.Clauses)
	for k := len(clauses) - 1; k >= 0; k-- {
		c := clauses[k]
		if c.IsFilter {
			body = l.alloc(CanNode{Kind: CanIf, Span: c.Span, Ty: intern.UNIT, Cond: l.expr(c.Condition), Then: body, Else: NoCan})
			continue
		}
		name := loopBindingName(l.Mod, c.Pattern)
		body = l.alloc(CanNode{Kind: CanFor, Span: c.Span, Ty: intern.UNIT, Name: name, Iter: l.expr(c.Iterable), Body: body})
	}

	accIdent := l.alloc(CanNode{Kind: CanIdent, Span: e.Span, Ty: e.Type, Name: accName})
	accInit := l.alloc(CanNode{Kind: CanList, Span: e.Span, Ty: e.Type})
	letAcc := l.alloc(CanNode{Kind: CanLet, Span: e.Span, Ty: intern.UNIT, Name: accName, Value: accInit})
	return l.alloc(CanNode{
		Kind: CanBlock, Span: e.Span, Ty: e.Type,
		Stmts: l.ca.AllocRange([]CanId{letAcc, body}), Result: accIdent,
	})
}

func (l *Lowerer) lowerBlock(e ast.Expr) CanId {
	ids := l.exprIDs(e.Elems)
	if len(ids) == 0 {
		return l.alloc(CanNode{Kind: CanBlock, Span: e.Span, Ty: intern.UNIT, Result: NoCan})
	}
	stmts := make([]CanId, len(ids)-1)
	for k, sid := range ids[:len(ids)-1] {
		stmts[k] = l.expr(sid)
	}
	result := l.expr(ids[len(ids)-1])
	return l.alloc(CanNode{Kind: CanBlock, Span: e.Span, Ty: e.Type, Stmts: l.ca.AllocRange(stmts), Result: result})
}

// lowerLet canonicalizes both let forms: statement-form (Base == NoExpr,
// returned as a bare CanLet for the enclosing lowerBlock to collect into
// Stmts) and expression-form (`let ... in ...`, wrapped into a CanBlock
// whose Result is the lowered continuation) per the Base field-reuse
// Component G's synthLet already relies on.
func (l *Lowerer) lowerLet(e ast.Expr) CanId {
	name := loopBindingName(l.Mod, e.Pattern)
	letNode := l.alloc(CanNode{Kind: CanLet, Span: e.Span, Ty: intern.UNIT, Name: name, Value: l.expr(e.Value)})
	if e.Base == ast.NoExpr {
		return letNode
	}
	cont := l.expr(e.Base)
	return l.alloc(CanNode{
		Kind: CanBlock, Span: e.Span, Ty: e.Type,
		Stmts: l.ca.AllocRange([]CanId{letNode}), Result: cont,
	})
}

func (l *Lowerer) lowerLambda(e ast.Expr) CanId {
	params := l.Mod.GetParams(e.Params)
	names := make([]intern.Name, len(params))
	for k, p := range params {
		names[k] = loopBindingName(l.Mod, p.Pattern)
	}
	return l.alloc(CanNode{Kind: CanLambda, Span: e.Span, Ty: e.Type, Params: names, Body: l.expr(e.Body)})
}

// lowerFunctionSeq erases a `|>` pipeline into nested calls:
// `a |> f |> g` becomes `g(f(a))` (spec.md §4.J).
func (l *Lowerer) lowerFunctionSeq(e ast.Expr) CanId {
	ids := l.exprIDs(e.Elems)
	if len(ids) == 0 {
		return l.alloc(CanNode{Kind: CanError, Span: e.Span, Ty: intern.ERROR})
	}
	acc := l.expr(ids[0])
	for _, fid := range ids[1:] {
		fn := l.expr(fid)
		fe := l.Mod.GetExpr(fid)
		acc = l.alloc(CanNode{Kind: CanCall, Span: e.Span, Ty: fe.Type, Callee: fn, Args: l.ca.AllocRange([]CanId{acc})})
	}
	return acc
}

// lowerFunctionExp erases `f ,, g` composition into a lambda:
// `\x -> g(f(x))` (spec.md §4.J), since composition denotes a function
// value rather than an immediately-applied call chain.
func (l *Lowerer) lowerFunctionExp(e ast.Expr) CanId {
	argName := l.Strs.Intern("__comp_arg")
	lt := l.Types.Lookup(l.Mod.GetExpr(e.Left).Type)
	var paramTy, midTy intern.TypeId
	if lt.Kind == intern.KindFunction && len(lt.Params) == 1 {
		paramTy, midTy = lt.Params[0], lt.Ret
	}

	param := l.alloc(CanNode{Kind: CanIdent, Span: e.Span, Ty: paramTy, Name: argName})
	f := l.expr(e.Left)
	g := l.expr(e.Right)
	applyF := l.alloc(CanNode{Kind: CanCall, Span: e.Span, Ty: midTy, Callee: f, Args: l.ca.AllocRange([]CanId{param})})
	applyG := l.alloc(CanNode{Kind: CanCall, Span: e.Span, Ty: e.Type, Callee: g, Args: l.ca.AllocRange([]CanId{applyF})})
	return l.alloc(CanNode{Kind: CanLambda, Span: e.Span, Ty: e.Type, Params: []intern.Name{argName}, Body: applyG})
}
