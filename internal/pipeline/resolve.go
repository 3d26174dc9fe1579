package pipeline

import (
	"fmt"

	"github.com/funvibe/sigilc/internal/ast"
	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/infer"
	"github.com/funvibe/sigilc/internal/intern"
	"github.com/funvibe/sigilc/internal/registry"
	"github.com/funvibe/sigilc/internal/span"
	"github.com/funvibe/sigilc/internal/traits"
)

// resolve is the first pipeline stage, spec.md §4.C/§4.H's "Resolution":
// walk mod's top-level items and populate a Registry with every function,
// type, trait, and impl declaration, resolving each surface ParsedType
// annotation into an intern.TypeId along the way. Grounded on the
// teacher's two-pass declaration-collection walk (analyzer/analyzer.go's
// `collectDeclarations` followed by `analyzeDeclaration`), which likewise
// registers type/trait shapes before resolving function bodies so forward
// references within a module work regardless of declaration order.
//
// The returned *infer.Infer carries the same Types/Reg/Diags a caller
// reuses for the Inference stage proper, since a signature's generics
// (seeded here via PushGenerics) and a body's generics are the same
// per-item scope.
func resolve(mod *ast.Module, strs *intern.Strings, types *intern.Types, diags *diagnostics.Queue) (*registry.Registry, *infer.Infer) {
	reg := registry.New()
	inf := infer.New(mod, strs, types, reg, diags)

	items := mod.GetStmtRange(mod.Items)

	// Pass 1: nominal types and trait shapes, so a function declared
	// earlier in the file than the type it returns still resolves.
	for _, it := range items {
		switch it.Kind {
		case ast.StmtTypeDecl:
			resolveTypeDecl(mod, reg, inf, it)
		case ast.StmtTraitDef:
			resolveTrait(mod, reg, inf, it)
		}
	}

	// Pass 2: functions, constants, impls, and derive requests, which may
	// reference any type or trait registered above.
	for _, it := range items {
		switch it.Kind {
		case ast.StmtFunction, ast.StmtTestDef:
			resolveFunction(mod, strs, reg, inf, it, diags)
		case ast.StmtConstDef:
			resolveConst(mod, reg, inf, it, diags)
		case ast.StmtImplDef:
			resolveImpl(mod, strs, types, reg, inf, it, diags)
		case ast.StmtDefImplDef:
			resolveDerive(mod, strs, reg, inf, it, diags)
		case ast.StmtExtendDef:
			resolveExtend(mod, strs, reg, inf, it, diags)
		case ast.StmtUseDef:
			// Resolving a `use` against another compilation unit's exports
			// is the module loader's job, out of scope for this middle
			// end (spec.md §1); nothing local to register.
		}
	}

	return reg, inf
}

func ptypeIDs(r ast.ParsedTypeRange) []ast.ParsedTypeId {
	ids := make([]ast.ParsedTypeId, r.Len)
	for k := range ids {
		ids[k] = ast.ParsedTypeId(r.Start + uint32(k))
	}
	return ids
}

func paramName(mod *ast.Module, strs *intern.Strings, p ast.Param, idx int) intern.Name {
	if p.Pattern != ast.NoMatchPattern {
		if pat := mod.GetPattern(p.Pattern); pat.Kind == ast.PatBinding {
			return pat.Name
		}
	}
	// A destructuring parameter pattern (`fn f((a, b)) -> ...`) has no
	// single bound name at the signature level; Scope binds its pieces
	// once the body itself is type-checked (the same irrefutable-pattern
	// simplification Component J's lowering documents for let/for).
	return strs.Intern(fmt.Sprintf("_arg%d", idx))
}

func resolveTypeDecl(mod *ast.Module, reg *registry.Registry, inf *infer.Infer, it ast.Stmt) {
	pop := inf.PushGenerics(mod.GetNames(it.Generics))
	defer pop()

	te := &registry.TypeEntry{Generics: mod.GetNames(it.Generics)}
	if it.IsAlias {
		te.Kind = registry.KindAlias
		te.Target = inf.ResolveParsedType(it.Alias)
	} else {
		te.Kind = registry.KindEnum
		for _, ctor := range mod.GetDataCtors(it.Variants) {
			fieldIDs := ptypeIDs(ctor.Fields)
			fields := make([]intern.TypeId, len(fieldIDs))
			for k, fid := range fieldIDs {
				fields[k] = inf.ResolveParsedType(fid)
			}
			te.Variants = append(te.Variants, registry.EnumVariant{Name: ctor.Name, Fields: fields})
		}
	}

	if err := reg.DefineType(it.Name, te); err != nil {
		inf.Diags.Add(diagnostics.New(diagnostics.E2006, span.Dummy, err.Error()))
	}
}

func resolveTrait(mod *ast.Module, reg *registry.Registry, inf *infer.Infer, it ast.Stmt) {
	pop := inf.PushGenerics(mod.GetNames(it.Generics))
	defer pop()

	te := &registry.TraitEntry{Generics: mod.GetNames(it.Generics)}
	for _, sup := range ptypeIDs(it.SuperTraits) {
		te.SuperTraits = append(te.SuperTraits, mod.GetParsedType(sup).Name)
	}

	for _, m := range mod.GetStmtRange(it.Methods) {
		sig := registry.MethodSig{
			Name:     m.Name,
			Generics: mod.GetNames(m.Generics),
			ReturnTy: inf.ResolveParsedType(m.RetAnn),
		}
		for _, p := range mod.GetParams(m.Params) {
			sig.Params = append(sig.Params, inf.ResolveParsedType(p.TypeAnn))
		}
		if m.Body == ast.NoExpr {
			te.Sigs = append(te.Sigs, sig)
			continue
		}
		te.Defaults = append(te.Defaults, registry.DefaultMethod{MethodSig: sig, Body: m.Body})
	}

	if err := reg.DefineTrait(it.Name, te); err != nil {
		inf.Diags.Add(diagnostics.New(diagnostics.E2006, span.Dummy, err.Error()))
	}
}

func resolveFunction(mod *ast.Module, strs *intern.Strings, reg *registry.Registry, inf *infer.Infer, it ast.Stmt, diags *diagnostics.Queue) {
	generics := mod.GetNames(it.Generics)
	pop := inf.PushGenerics(generics)
	defer pop()

	params := mod.GetParams(it.Params)
	fn := &registry.FunctionSig{
		Generics:     generics,
		ReturnTy:     inf.ResolveParsedType(it.RetAnn),
		Body:         it.Body,
		WhereClauses: ptypeIDs(it.Constraints),
	}
	for k, p := range params {
		fn.Params = append(fn.Params, registry.Param{Name: paramName(mod, strs, p, k), Ty: inf.ResolveParsedType(p.TypeAnn)})
	}
	fn.Capabilities = capabilitySet(mod, fn.WhereClauses)

	if err := reg.DefineFunction(it.Name, fn); err != nil {
		diags.Add(diagnostics.New(diagnostics.E2006, span.Dummy, err.Error()))
	}
}

// capabilitySet extracts the `uses Net, Fs` effect set a function's
// where-clause carries, the way spec.md §4.H.5's capability propagation
// requires it. Every where-clause entry that is a plain named type is
// taken as an effect name; ordinary trait bounds are not told apart from
// capability markers. Grounded on Component H's CapabilityProvided/
// MissingCapabilities contract (internal/traits/traits.go), which expects
// a plain map[intern.Name]bool rather than the ParsedType constraint list
// function registration otherwise carries unprocessed.
func capabilitySet(mod *ast.Module, constraints []ast.ParsedTypeId) map[intern.Name]bool {
	caps := make(map[intern.Name]bool)
	for _, id := range constraints {
		pt := mod.GetParsedType(id)
		if pt.Kind == ast.PTNamed {
			caps[pt.Name] = true
		}
	}
	return caps
}

func resolveConst(mod *ast.Module, reg *registry.Registry, inf *infer.Infer, it ast.Stmt, diags *diagnostics.Queue) {
	// A top-level const is registered as a zero-argument function so the
	// rest of the pipeline (Inference, Canonicalization) needs no separate
	// "constant" item kind; its pattern is expected to be a bare
	// identifier (spec.md §4.C permits any irrefutable pattern, but a
	// destructuring top-level const has no single name to register under,
	// so it falls back to the whole item's declared Name).
	fn := &registry.FunctionSig{
		ReturnTy: inf.ResolveParsedType(it.TypeAnn),
		Body:     it.Value,
	}
	if err := reg.DefineFunction(it.Name, fn); err != nil {
		diags.Add(diagnostics.New(diagnostics.E2006, span.Dummy, err.Error()))
	}
}

func resolveImpl(mod *ast.Module, strs *intern.Strings, types *intern.Types, reg *registry.Registry, inf *infer.Infer, it ast.Stmt, diags *diagnostics.Queue) {
	pop := inf.PushGenerics(mod.GetNames(it.Generics))
	defer pop()

	argIDs := ptypeIDs(it.Args)
	if len(argIDs) == 0 {
		return
	}
	selfTy := inf.ResolveParsedType(argIDs[0])
	var traitArgs []intern.TypeId
	for _, aid := range argIDs[1:] {
		traitArgs = append(traitArgs, inf.ResolveParsedType(aid))
	}

	impl := &registry.ImplEntry{
		Trait:        it.Name,
		TraitArgs:    traitArgs,
		SelfTy:       selfTy,
		Generics:     mod.GetNames(it.Generics),
		WhereClauses: ptypeIDs(it.Constraints),
	}
	for _, m := range mod.GetStmtRange(it.Methods) {
		method := registry.ImplMethodDef{Name: m.Name, ReturnTy: inf.ResolveParsedType(m.RetAnn), Body: m.Body}
		for _, p := range mod.GetParams(m.Params) {
			method.Params = append(method.Params, inf.ResolveParsedType(p.TypeAnn))
		}
		impl.Methods = append(impl.Methods, method)
	}

	if trait, ok := reg.Traits[it.Name]; ok {
		traits.SynthesizeDefaults(trait, impl)
		if missing := traits.MissingRequiredMethods(trait, impl); len(missing) > 0 {
			diags.Add(diagnostics.New(diagnostics.E2009, span.Dummy,
				fmt.Sprintf("impl of %s for %d is missing %d required method(s)", strs.Lookup(it.Name), selfTy, len(missing))))
		}
	}

	if err := reg.AddImpl(types, impl); err != nil {
		diags.Add(diagnostics.New(diagnostics.E2021, span.Dummy, err.Error()))
	}
}

func resolveDerive(mod *ast.Module, strs *intern.Strings, reg *registry.Registry, inf *infer.Infer, it ast.Stmt, diags *diagnostics.Queue) {
	target := inf.ResolveParsedType(it.Target)
	impls, unknown := traits.ExpandDerive(strs, mod.GetNames(it.TraitNames), target)
	for _, name := range unknown {
		diags.Add(diagnostics.New(diagnostics.E2032, span.Dummy, "unknown derivable trait: "+strs.Lookup(name)))
	}
	for _, impl := range impls {
		if err := reg.AddImpl(inf.Types, impl); err != nil {
			diags.Add(diagnostics.New(diagnostics.E2030, span.Dummy, err.Error()))
		}
	}
}

func resolveExtend(mod *ast.Module, strs *intern.Strings, reg *registry.Registry, inf *infer.Infer, it ast.Stmt, diags *diagnostics.Queue) {
	// `extend Type { ... }` registers an inherent impl (Trait == EMPTY):
	// the same ImplEntry shape as `instance Trait for Type`, just without
	// a trait to check coherence/required-methods against.
	argIDs := ptypeIDs(it.Args)
	if len(argIDs) == 0 {
		return
	}
	selfTy := inf.ResolveParsedType(argIDs[0])
	impl := &registry.ImplEntry{SelfTy: selfTy, Generics: mod.GetNames(it.Generics)}
	for _, m := range mod.GetStmtRange(it.Methods) {
		method := registry.ImplMethodDef{Name: m.Name, ReturnTy: inf.ResolveParsedType(m.RetAnn), Body: m.Body}
		for _, p := range mod.GetParams(m.Params) {
			method.Params = append(method.Params, inf.ResolveParsedType(p.TypeAnn))
		}
		impl.Methods = append(impl.Methods, method)
	}
	if err := reg.AddImpl(inf.Types, impl); err != nil {
		diags.Add(diagnostics.New(diagnostics.E2021, span.Dummy, err.Error()))
	}
}
