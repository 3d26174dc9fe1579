package infer

import (
	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/traits"
)

// synthBinary infers a binary expression: built-in operators resolve
// directly against primitive operand types, anything else falls back to
// trait-method dispatch (spec.md §4.H). Grounded on the teacher's
// `inferBinaryExpression` (analyzer/inference.go), generalized from its
// hand-written numeric-coercion rules into this middle end's unifier.
func (i *Infer) synthBinary(id ast.ExprId, e ast.Expr) intern.TypeId {
	op := i.Strs.Lookup(e.Name)
	lt := i.Synthesize(e.Left)
	rt := i.Synthesize(e.Right)

	switch {
	case logicalOps[op]:
		i.unify(e.Left, lt, intern.BOOL)
		i.unify(e.Right, rt, intern.BOOL)
		return intern.BOOL

	case equalityOps[op]:
		i.unify(id, lt, rt)
		return intern.BOOL

	case comparisonOps[op]:
		lr := i.U.Resolve(lt)
		if lr == intern.INT || lr == intern.FLOAT || lr == intern.STR || lr == intern.CHAR {
			i.unify(id, lt, rt)
			return intern.BOOL
		}
		return i.dispatchOperatorTrait(id, e, op, lt, rt)

	case arithmeticOps[op] || bitwiseOps[op]:
		lr := i.U.Resolve(lt)
		if lr == intern.INT || lr == intern.FLOAT || lr == intern.BYTE {
			i.unify(id, lt, rt)
			return lr
		}
		return i.dispatchOperatorTrait(id, e, op, lt, rt)

	default:
		return i.dispatchOperatorTrait(id, e, op, lt, rt)
	}
}

func (i *Infer) dispatchOperatorTrait(id ast.ExprId, e ast.Expr, op string, lt, rt intern.TypeId) intern.TypeId {
	methodText, ok := traitMethodForOp[op]
	if !ok {
		i.Diags.Add(diagnostics.New(diagnostics.E2036, e.Span, "unknown operator: "+op))
		return intern.ERROR
	}
	method := i.Strs.Intern(methodText)
	res, err := traits.LookupMethod(i.Reg, i.Types, i.U.Resolve(lt), method)
	if err != nil {
		i.Diags.Add(diagnostics.New(diagnostics.E2020, e.Span, "no operator "+op+" implementation for this type"))
		return intern.ERROR
	}
	if len(res.Method.Params) > 0 {
		i.unify(e.Right, rt, res.Method.Params[0])
	} else {
		i.Diags.Add(diagnostics.New(diagnostics.E2036, e.Span, "operator method takes no right-hand operand"))
	}
	if comparisonOps[op] || equalityOps[op] {
		if i.U.Resolve(res.Method.ReturnTy) != intern.BOOL {
			i.Diags.Add(diagnostics.New(diagnostics.E2037, e.Span, "comparison operator must return Bool"))
			return intern.ERROR
		}
	}
	return res.Method.ReturnTy
}

func (i *Infer) synthUnary(e ast.Expr) intern.TypeId {
	op := i.Strs.Lookup(e.Name)
	ot := i.Synthesize(e.Operand)
	r := i.U.Resolve(ot)

	switch op {
	case "-":
		if r == intern.INT || r == intern.FLOAT {
			return r
		}
	case "!":
		if r == intern.BOOL {
			return intern.BOOL
		}
	case "~":
		if r == intern.INT {
			return intern.INT
		}
	}

	methodText, ok := unaryTraitMethod[op]
	if !ok {
		i.Diags.Add(diagnostics.New(diagnostics.E2036, e.Span, "unknown unary operator: "+op))
		return intern.ERROR
	}
	res, err := traits.LookupMethod(i.Reg, i.Types, r, i.Strs.Intern(methodText))
	if err != nil {
		i.Diags.Add(diagnostics.New(diagnostics.E2020, e.Span, "no unary operator "+op+" implementation for this type"))
		return intern.ERROR
	}
	return res.Method.ReturnTy
}

// synthCall infers a direct or higher-order function call. Grounded on
// the teacher's `inferCallExpression` (analyzer/inference_calls.go),
// reusing this middle end's Check to push each parameter's declared type
// down onto its argument (so an argument lambda gets its parameter types
// from the callee's signature, not a fresh unconstrained var).
func (i *Infer) synthCall(id ast.ExprId, e ast.Expr) intern.TypeId {
	calleeTy := i.Synthesize(e.Callee)
	argIds := exprIDs(e.Elems)

	calleeExpr := i.Mod.GetExpr(e.Callee)
	if calleeExpr.Kind == ast.KindIdent {
		if fn, ok := i.Reg.Functions[calleeExpr.Name]; ok {
			if missing := traits.MissingCapabilities(i.caps, fn.Capabilities); len(missing) > 0 {
				i.Diags.Add(diagnostics.New(diagnostics.E2009, e.Span, "call requires a capability not held by the caller"))
			}
		}
	}

	d := i.Types.Lookup(i.U.Resolve(calleeTy))
	if d.Kind != intern.KindFunction {
		if d.Kind != intern.KindPrimitive || i.U.Resolve(calleeTy) != intern.ERROR {
			i.Diags.Add(diagnostics.New(diagnostics.E2001, e.Span, "call target is not a function"))
		}
		for _, a := range argIds {
			i.Synthesize(a)
		}
		return intern.ERROR
	}

	if len(d.Params) != len(argIds) {
		i.Diags.Add(diagnostics.New(diagnostics.E2004, e.Span, "wrong number of arguments"))
	}
	n := len(d.Params)
	if len(argIds) < n {
		n = len(argIds)
	}
	for k := 0; k < n; k++ {
		i.Check(argIds[k], d.Params[k])
	}
	for k := n; k < len(argIds); k++ {
		i.Synthesize(argIds[k])
	}
	return d.Ret
}

func (i *Infer) synthMethodCall(e ast.Expr) intern.TypeId {
	recvTy := i.Synthesize(e.Operand)
	argIds := exprIDs(e.Elems)

	res, err := traits.LookupMethod(i.Reg, i.Types, i.U.Resolve(recvTy), e.Name)
	if err != nil {
		i.Diags.Add(diagnostics.New(diagnostics.E2003, e.Span, "unknown method"))
		for _, a := range argIds {
			i.Synthesize(a)
		}
		return intern.ERROR
	}

	if len(res.Method.Params) != len(argIds) {
		i.Diags.Add(diagnostics.New(diagnostics.E2004, e.Span, "wrong number of arguments"))
	}
	n := len(res.Method.Params)
	if len(argIds) < n {
		n = len(argIds)
	}
	for k := 0; k < n; k++ {
		i.Check(argIds[k], res.Method.Params[k])
	}
	for k := n; k < len(argIds); k++ {
		i.Synthesize(argIds[k])
	}
	return res.Method.ReturnTy
}

func (i *Infer) synthTry(e ast.Expr) intern.TypeId {
	ot := i.Synthesize(e.Operand)
	d := i.Types.Lookup(i.U.Resolve(ot))
	if d.Kind != intern.KindResult {
		i.Diags.Add(diagnostics.New(diagnostics.E2001, e.Span, "`?` operator requires a Result value"))
		return intern.ERROR
	}
	return d.Ok
}

func (i *Infer) synthAssign(e ast.Expr) intern.TypeId {
	targetTy := i.Synthesize(e.Left)
	if left := i.Mod.GetExpr(e.Left); left.Kind == ast.KindIdent {
		if b, ok := i.Scope.Lookup(left.Name); ok && !b.Mutable {
			i.Diags.Add(diagnostics.New(diagnostics.E2001, e.Span, "cannot assign to immutable binding"))
		}
	}
	i.Check(e.Right, targetTy)
	return intern.UNIT
}

// synthWithCapability extends the active capability set with each element
// for the duration of Body. An element's static type must implement the
// named trait (its own interned name doubles as both the in-scope
// provider binding and the capability/trait name by convention — spec.md
// §4.H.5's capability-passing form); a mismatch is reported but the
// capability is still granted so the body's inference doesn't cascade
// further diagnostics off a missing binding.
func (i *Infer) synthWithCapability(e ast.Expr) intern.TypeId {
	var added []intern.Name
	for _, cid := range exprIDs(e.Elems) {
		ce := i.Mod.GetExpr(cid)
		providerTy := i.Synthesize(cid)
		if ce.Kind == ast.KindIdent {
			if !traits.CapabilityProvided(i.Reg, i.Types, ce.Name, i.U.Resolve(providerTy)) {
				i.Diags.Add(diagnostics.New(diagnostics.E2009, ce.Span, "capability provider does not implement the required capability"))
			}
			if !i.caps[ce.Name] {
				i.caps[ce.Name] = true
				added = append(added, ce.Name)
			}
		}
	}
	bodyTy := i.Synthesize(e.Body)
	for _, name := range added {
		delete(i.caps, name)
	}
	return bodyTy
}

func (i *Infer) synthFunctionSeq(e ast.Expr) intern.TypeId {
	ids := exprIDs(e.Elems)
	if len(ids) == 0 {
		return intern.UNIT
	}
	acc := i.Synthesize(ids[0])
	for _, fid := range ids[1:] {
		fnTy := i.Synthesize(fid)
		d := i.Types.Lookup(i.U.Resolve(fnTy))
		if d.Kind != intern.KindFunction || len(d.Params) != 1 {
			i.Diags.Add(diagnostics.New(diagnostics.E2001, e.Span, "pipeline step is not a unary function"))
			acc = intern.ERROR
			continue
		}
		i.unify(fid, acc, d.Params[0])
		acc = d.Ret
	}
	return acc
}

func (i *Infer) synthFunctionExp(id ast.ExprId, e ast.Expr) intern.TypeId {
	lt := i.Synthesize(e.Left)
	rt := i.Synthesize(e.Right)
	dl := i.Types.Lookup(i.U.Resolve(lt))
	dr := i.Types.Lookup(i.U.Resolve(rt))
	if dl.Kind != intern.KindFunction || dr.Kind != intern.KindFunction || len(dl.Params) != 1 || len(dr.Params) != 1 {
		i.Diags.Add(diagnostics.New(diagnostics.E2001, e.Span, "composition operands must be unary functions"))
		return intern.ERROR
	}
	i.unify(id, dl.Ret, dr.Params[0])
	return i.Types.Intern(intern.TypeData{Kind: intern.KindFunction, Params: []intern.TypeId{dl.Params[0]}, Ret: dr.Ret})
}

func (i *Infer) synthReturn(id ast.ExprId, e ast.Expr) intern.TypeId {
	retTy := i.Scope.ReturnType()
	valTy := intern.TypeId(intern.UNIT)
	if e.Payload != ast.NoExpr {
		valTy = i.Synthesize(e.Payload)
	}
	if retTy != intern.INVALID {
		i.unify(id, valTy, retTy)
	}
	return intern.NEVER
}

func (i *Infer) synthOk(e ast.Expr) intern.TypeId {
	okTy := i.Synthesize(e.Payload)
	return i.Types.Intern(intern.TypeData{Kind: intern.KindResult, Ok: okTy, Err: i.U.FreshVar()})
}

func (i *Infer) synthErr(e ast.Expr) intern.TypeId {
	errTy := i.Synthesize(e.Payload)
	return i.Types.Intern(intern.TypeData{Kind: intern.KindResult, Ok: i.U.FreshVar(), Err: errTy})
}

func (i *Infer) synthSome(e ast.Expr) intern.TypeId {
	t := i.Synthesize(e.Payload)
	return i.Types.Intern(intern.TypeData{Kind: intern.KindOption, Elem: t})
}

func (i *Infer) synthIdent(e ast.Expr) intern.TypeId {
	if b, ok := i.Scope.Lookup(e.Name); ok {
		return b.Type
	}
	if fn, ok := i.Reg.Functions[e.Name]; ok {
		return i.functionType(fn)
	}
	i.Diags.Add(diagnostics.New(diagnostics.E2003, e.Span, "unknown identifier"))
	return intern.ERROR
}
