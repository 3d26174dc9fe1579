// Package scope implements the lexical environment the type inferrer
// (internal/infer) pushes and pops while walking a function body.
// Grounded on the teacher's SymbolTable outer-chain
// (symbols/symbol_table_advanced.go: `outer *SymbolTable`, `scopeType
// ScopeType`), generalized into an explicit stack with a panic-safe guard
// per spec.md §4.E — the teacher relies on Go's GC to reclaim abandoned
// SymbolTable chains and never needs an explicit pop-on-drop, but spec.md
// §4.E requires scope exit to survive panics and early returns during
// recursive inference.
package scope

import "github.com/funvibe/sigilc/internal/intern"

// BindingKind distinguishes why a name is in scope, mirroring the
// teacher's SymbolKind (symbols/symbol_table_core.go) narrowed to the
// binding forms spec.md §4.E names.
type BindingKind uint8

const (
	BindLocal BindingKind = iota
	BindParam
	BindLoopVar
	BindPattern
)

// Binding is one name's entry in a scope.
type Binding struct {
	Type    intern.TypeId
	Kind    BindingKind
	Mutable bool
}

// frame is one stack level. ReturnType is intern.INVALID outside a
// function frame; isLoop marks a loop body frame for InLoop().
type frame struct {
	bindings   map[intern.Name]Binding
	returnType intern.TypeId
	isLoop     bool
}

// Scopes is the stacked-binding environment of one function body (or
// top-level unit) being inferred.
type Scopes struct {
	frames []frame
}

// New creates an empty stack with one base frame, so lookups and defines
// are always valid even before the first explicit Push.
func New() *Scopes {
	return &Scopes{frames: []frame{newFrame(intern.INVALID, false)}}
}

func newFrame(ret intern.TypeId, isLoop bool) frame {
	return frame{bindings: make(map[intern.Name]Binding), returnType: ret, isLoop: isLoop}
}

// Guard pops its scope's frame exactly once, on Close. Holding it through a
// defer makes scope exit resilient to panics and early returns, the
// "required discipline for resource safety" spec.md §4.E mandates.
type Guard struct {
	s      *Scopes
	closed bool
}

// Close pops the frame this guard owns. Safe to call more than once; only
// the first call has effect, so `defer g.Close()` composes with an
// explicit early pop.
func (g *Guard) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.s.frames = g.s.frames[:len(g.s.frames)-1]
}

func (s *Scopes) push(f frame) *Guard {
	s.frames = append(s.frames, f)
	return &Guard{s: s}
}

// Push opens a plain block scope (e.g. an `if`/`match` arm body).
func (s *Scopes) Push() *Guard {
	return s.push(newFrame(s.currentReturnType(), s.InLoop()))
}

// PushFunction opens a function-body scope with the given declared return
// type, used by `return` checking.
func (s *Scopes) PushFunction(ret intern.TypeId) *Guard {
	return s.push(newFrame(ret, false))
}

// PushLoop opens a loop-body scope; InLoop() becomes true for it and every
// nested non-loop scope until popped.
func (s *Scopes) PushLoop() *Guard {
	return s.push(newFrame(s.currentReturnType(), true))
}

// Pop closes the innermost scope directly, equivalent to calling Close on
// the Guard Push returned. Exposed for call sites that never kept the
// guard (e.g. a loop body fully contained in one function with no
// intervening panic risk); prefer the Guard form when any code in between
// can panic or return early.
func (s *Scopes) Pop() {
	if len(s.frames) <= 1 {
		panic("scope: Pop called with no pushed frame (stack underflow)")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the current number of stacked frames, base frame included.
// Tests use this to assert push/pop balance.
func (s *Scopes) Depth() int { return len(s.frames) }

func (s *Scopes) top() *frame { return &s.frames[len(s.frames)-1] }

func (s *Scopes) currentReturnType() intern.TypeId { return s.top().returnType }

// ReturnType reports the declared return type of the innermost function
// frame, or intern.INVALID if no frame on the stack is a function frame
// (the check is approximate: any frame inherits its enclosing function's
// return type, see Push/PushLoop, so this is simply the top frame's type).
func (s *Scopes) ReturnType() intern.TypeId { return s.top().returnType }

// InLoop reports whether the innermost frame is a loop body or nested
// inside one (spec.md's "any ancestor is a loop").
func (s *Scopes) InLoop() bool { return s.top().isLoop }

func (s *Scopes) define(name intern.Name, b Binding) {
	s.top().bindings[name] = b
}

// DefineLocal binds a `let`-introduced name in the current scope.
func (s *Scopes) DefineLocal(name intern.Name, ty intern.TypeId, mutable bool) {
	s.define(name, Binding{Type: ty, Kind: BindLocal, Mutable: mutable})
}

// DefineParam binds a function or lambda parameter.
func (s *Scopes) DefineParam(name intern.Name, ty intern.TypeId) {
	s.define(name, Binding{Type: ty, Kind: BindParam})
}

// DefineLoopVar binds a `for`-loop's element variable.
func (s *Scopes) DefineLoopVar(name intern.Name, ty intern.TypeId) {
	s.define(name, Binding{Type: ty, Kind: BindLoopVar})
}

// DefinePattern binds a name introduced by a match/let pattern.
func (s *Scopes) DefinePattern(name intern.Name, ty intern.TypeId, mutable bool) {
	s.define(name, Binding{Type: ty, Kind: BindPattern, Mutable: mutable})
}

// Lookup walks the frame stack from innermost to outermost and returns the
// first binding found for name.
func (s *Scopes) Lookup(name intern.Name) (Binding, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i].bindings[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// LookupLocal looks only in the innermost frame, used by duplicate-binding
// diagnostics (E2006-style shadowing-within-one-scope checks) that must
// not see outer shadowed names.
func (s *Scopes) LookupLocal(name intern.Name) (Binding, bool) {
	b, ok := s.top().bindings[name]
	return b, ok
}
