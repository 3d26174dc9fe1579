package ast

import "github.com/funvibe/sigilc/internal/intern"

// AllocExpr appends e and returns its new id.
func (m *Module) AllocExpr(e Expr) ExprId {
	id := ExprId(len(m.exprs))
	m.exprs = append(m.exprs, e)
	return id
}

// GetExpr resolves id to its node. Panics (index out of range) on an id
// from a different Module, which indicates a programmer error.
func (m *Module) GetExpr(id ExprId) Expr { return m.exprs[id] }

// SetExprType records the resolved type of id. Type inference calls this
// once per node as it walks the tree, rather than threading a separate
// ExprId -> TypeId map alongside the arena.
func (m *Module) SetExprType(id ExprId, ty intern.TypeId) { m.exprs[id].Type = ty }

// SetPatternType records the resolved type of id, mirroring SetExprType
// for the pattern arena.
func (m *Module) SetPatternType(id MatchPatternId, ty intern.TypeId) { m.patterns[id].Type = ty }

// AllocExprRange appends es contiguously and returns a range over them.
func (m *Module) AllocExprRange(es []Expr) ExprRange {
	start := uint32(len(m.exprs))
	m.exprs = append(m.exprs, es...)
	return ExprRange{Start: start, Len: uint32(len(es))}
}

// GetExprRange resolves r to its node slice.
func (m *Module) GetExprRange(r ExprRange) []Expr {
	return m.exprs[r.Start : r.Start+r.Len]
}

// AllocStmt appends s and returns its new id.
func (m *Module) AllocStmt(s Stmt) StmtId {
	id := StmtId(len(m.stmts))
	m.stmts = append(m.stmts, s)
	return id
}

// GetStmt resolves id to its node.
func (m *Module) GetStmt(id StmtId) Stmt { return m.stmts[id] }

// AllocStmtRange appends ss contiguously and returns a range over them.
func (m *Module) AllocStmtRange(ss []Stmt) StmtRange {
	start := uint32(len(m.stmts))
	m.stmts = append(m.stmts, ss...)
	return StmtRange{Start: start, Len: uint32(len(ss))}
}

// GetStmtRange resolves r to its node slice.
func (m *Module) GetStmtRange(r StmtRange) []Stmt {
	return m.stmts[r.Start : r.Start+r.Len]
}

// AllocPattern appends p and returns its new id.
func (m *Module) AllocPattern(p MatchPattern) MatchPatternId {
	id := MatchPatternId(len(m.patterns))
	m.patterns = append(m.patterns, p)
	return id
}

// GetPattern resolves id to its node.
func (m *Module) GetPattern(id MatchPatternId) MatchPattern { return m.patterns[id] }

// AllocPatternRange appends ps contiguously and returns a range over them.
func (m *Module) AllocPatternRange(ps []MatchPattern) MatchPatternRange {
	start := uint32(len(m.patterns))
	m.patterns = append(m.patterns, ps...)
	return MatchPatternRange{Start: start, Len: uint32(len(ps))}
}

// GetPatternRange resolves r to its node slice.
func (m *Module) GetPatternRange(r MatchPatternRange) []MatchPattern {
	return m.patterns[r.Start : r.Start+r.Len]
}

// AllocParsedType appends t and returns its new id.
func (m *Module) AllocParsedType(t ParsedType) ParsedTypeId {
	id := ParsedTypeId(len(m.ptypes))
	m.ptypes = append(m.ptypes, t)
	return id
}

// GetParsedType resolves id to its node.
func (m *Module) GetParsedType(id ParsedTypeId) ParsedType { return m.ptypes[id] }

// AllocParsedTypeRange appends ts contiguously and returns a range over
// them.
func (m *Module) AllocParsedTypeRange(ts []ParsedType) ParsedTypeRange {
	start := uint32(len(m.ptypes))
	m.ptypes = append(m.ptypes, ts...)
	return ParsedTypeRange{Start: start, Len: uint32(len(ts))}
}

// GetParsedTypeRange resolves r to its node slice.
func (m *Module) GetParsedTypeRange(r ParsedTypeRange) []ParsedType {
	return m.ptypes[r.Start : r.Start+r.Len]
}

// AllocParams appends ps contiguously and returns a range over them.
func (m *Module) AllocParams(ps []Param) ParamRange {
	start := uint32(len(m.params))
	m.params = append(m.params, ps...)
	return ParamRange{Start: start, Len: uint32(len(ps))}
}

// GetParams resolves r to its node slice.
func (m *Module) GetParams(r ParamRange) []Param {
	return m.params[r.Start : r.Start+r.Len]
}

// AllocArms appends as contiguously and returns a range over them.
func (m *Module) AllocArms(as []Arm) ArmRange {
	start := uint32(len(m.arms))
	m.arms = append(m.arms, as...)
	return ArmRange{Start: start, Len: uint32(len(as))}
}

// GetArms resolves r to its node slice.
func (m *Module) GetArms(r ArmRange) []Arm {
	return m.arms[r.Start : r.Start+r.Len]
}

// AllocCompClauses appends cs contiguously and returns a range over them.
func (m *Module) AllocCompClauses(cs []CompClause) CompClauseRange {
	start := uint32(len(m.clauses))
	m.clauses = append(m.clauses, cs...)
	return CompClauseRange{Start: start, Len: uint32(len(cs))}
}

// GetCompClauses resolves r to its node slice.
func (m *Module) GetCompClauses(r CompClauseRange) []CompClause {
	return m.clauses[r.Start : r.Start+r.Len]
}

// AllocFields appends fs contiguously and returns a range over them.
func (m *Module) AllocFields(fs []FieldLit) FieldRange {
	start := uint32(len(m.fieldLit))
	m.fieldLit = append(m.fieldLit, fs...)
	return FieldRange{Start: start, Len: uint32(len(fs))}
}

// GetFields resolves r to its node slice.
func (m *Module) GetFields(r FieldRange) []FieldLit {
	return m.fieldLit[r.Start : r.Start+r.Len]
}

// AllocFieldPats appends fs contiguously and returns a range over them.
func (m *Module) AllocFieldPats(fs []FieldPat) FieldPatRange {
	start := uint32(len(m.fieldPat))
	m.fieldPat = append(m.fieldPat, fs...)
	return FieldPatRange{Start: start, Len: uint32(len(fs))}
}

// GetFieldPats resolves r to its node slice.
func (m *Module) GetFieldPats(r FieldPatRange) []FieldPat {
	return m.fieldPat[r.Start : r.Start+r.Len]
}

// AllocParsedTypeFields appends fs contiguously and returns a range over
// them.
func (m *Module) AllocParsedTypeFields(fs []ParsedTypeField) ParsedTypeFieldRange {
	start := uint32(len(m.ptFields))
	m.ptFields = append(m.ptFields, fs...)
	return ParsedTypeFieldRange{Start: start, Len: uint32(len(fs))}
}

// GetParsedTypeFields resolves r to its node slice.
func (m *Module) GetParsedTypeFields(r ParsedTypeFieldRange) []ParsedTypeField {
	return m.ptFields[r.Start : r.Start+r.Len]
}

// AllocMapEntries appends es contiguously and returns a range over them.
func (m *Module) AllocMapEntries(es []MapEntry) MapEntryRange {
	start := uint32(len(m.mapEnt))
	m.mapEnt = append(m.mapEnt, es...)
	return MapEntryRange{Start: start, Len: uint32(len(es))}
}

// GetMapEntries resolves r to its node slice.
func (m *Module) GetMapEntries(r MapEntryRange) []MapEntry {
	return m.mapEnt[r.Start : r.Start+r.Len]
}

// AllocDataCtors appends cs contiguously and returns a range over them.
func (m *Module) AllocDataCtors(cs []DataCtor) DataCtorRange {
	start := uint32(len(m.ctors))
	m.ctors = append(m.ctors, cs...)
	return DataCtorRange{Start: start, Len: uint32(len(cs))}
}

// GetDataCtors resolves r to its node slice.
func (m *Module) GetDataCtors(r DataCtorRange) []DataCtor {
	return m.ctors[r.Start : r.Start+r.Len]
}

// AllocNames appends ns contiguously and returns a range over them.
func (m *Module) AllocNames(ns []intern.Name) NameRange {
	start := uint32(len(m.names))
	m.names = append(m.names, ns...)
	return NameRange{Start: start, Len: uint32(len(ns))}
}

// GetNames resolves r to its name slice.
func (m *Module) GetNames(r NameRange) []intern.Name {
	return m.names[r.Start : r.Start+r.Len]
}
