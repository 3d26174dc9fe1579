package ast

import "github.com/funvibe/sigilc/internal/intern"

// ParsedTypeKind tags the variant stored in a ParsedType: the surface
// syntax of a type annotation, before Component A/F resolve it into an
// intern.TypeId. Grounded on the teacher's Type interface implementations
// (ast_types.go: NamedType, TupleType, RecordType, FunctionType, ForallType,
// UnionType), flattened the same way Expr and MatchPattern are.
type ParsedTypeKind uint8

const (
	PTNamed ParsedTypeKind = iota
	PTTuple
	PTRecord
	PTFunction
	PTForall
	PTUnion
)

// ParsedType is one arena-resident surface type-annotation node.
type ParsedType struct {
	Kind ParsedTypeKind

	// PTNamed: the type constructor name (`Int`, `List`, `Result`) and its
	// applied arguments, empty for a non-generic name.
	Name intern.Name
	Args ParsedTypeRange

	// PTTuple: element types. PTUnion: member types (at least two).
	Elems ParsedTypeRange

	// PTRecord: named fields plus whether trailing unlisted fields are
	// permitted (`{ x: Int, .. }`).
	Fields ParsedTypeFieldRange
	IsOpen bool

	// PTFunction: parameter types and return type.
	Params ParsedTypeRange
	Ret    ParsedTypeId

	// PTForall: bound type variables and the inner quantified type.
	Vars  NameRange
	Inner ParsedTypeId
}

// ParsedTypeField is one `name: Type` entry of a record type annotation.
type ParsedTypeField struct {
	Name intern.Name
	Type ParsedTypeId
}

// ParsedTypeFieldRange is a contiguous run of record type-annotation
// fields.
type ParsedTypeFieldRange struct {
	Start uint32
	Len   uint32
}

// StmtKind tags the variant stored in a Stmt: a top-level or trait/impl-body
// item. Grounded on the teacher's top-level Statement implementations
// (FunctionStatement, ConstantDeclaration, TypeDeclarationStatement,
// TraitDeclaration, InstanceDeclaration, ImportStatement) plus spec.md's
// derive/extend forms the teacher only has partial support for.
type StmtKind uint8

const (
	StmtFunction StmtKind = iota
	StmtTestDef
	StmtConstDef
	StmtTypeDecl
	StmtTraitDef
	StmtImplDef
	StmtDefImplDef // #[derive(...)]-style synthesized impl request
	StmtExtendDef
	StmtUseDef
)

// Stmt is one arena-resident item.
type Stmt struct {
	Kind StmtKind

	// StmtFunction/StmtTraitDef(method sig)/StmtTestDef/StmtConstDef/
	// StmtTypeDecl/StmtTraitDef/StmtImplDef(trait name)/StmtUseDef(alias):
	Name intern.Name

	// StmtFunction/StmtTraitDef/StmtImplDef/StmtTypeDecl: generic type
	// parameters in scope for this item.
	Generics NameRange

	// StmtFunction: value parameters, optional return annotation, and body
	// (NoExpr for a trait-method signature with no default).
	Params ParamRange
	RetAnn ParsedTypeId
	Body   ExprId

	// StmtFunction/StmtTraitDef/StmtImplDef: `where`-clause constraint
	// types (e.g. `T: Numeric`, encoded as a PTNamed trait-application
	// type whose first argument is the constrained variable).
	Constraints ParsedTypeRange

	// StmtConstDef: the bound pattern (usually a bare identifier, but
	// spec.md permits any irrefutable pattern), optional type annotation,
	// and value expression.
	Pattern MatchPatternId
	TypeAnn ParsedTypeId
	Value   ExprId

	// StmtTypeDecl: whether this is a `type alias` (Alias holds the
	// target) or an ADT (Variants holds the constructors).
	IsAlias  bool
	Alias    ParsedTypeId
	Variants DataCtorRange

	// StmtTraitDef: super-traits this trait requires.
	// StmtImplDef: the module-qualified trait being implemented (ModuleName
	// EMPTY for an unqualified trait) and its type arguments — by
	// convention Args[0] is the implementing type for a single-parameter
	// trait, with further entries for multi-parameter traits
	// (`instance Convert<A, B>`).
	SuperTraits ParsedTypeRange
	ModuleName  intern.Name
	Args        ParsedTypeRange

	// StmtTraitDef/StmtImplDef/StmtExtendDef: the method definitions
	// (StmtFunction items) in the body.
	Methods StmtRange

	// StmtDefImplDef: the derived trait names and the target type they
	// are derived for.
	TraitNames NameRange
	Target     ParsedTypeId

	// StmtUseDef: the dotted module path and an optional selective-import
	// item list (empty imports the module name itself into scope); the
	// optional rename is carried in Name.
	Path  NameRange
	Items NameRange
}

// DataCtor is one case of an algebraic data type, e.g. `Triangle(Int, Int,
// Int)` or `Empty`.
type DataCtor struct {
	Name   intern.Name
	Fields ParsedTypeRange
}

// DataCtorRange is a contiguous run of ADT constructor definitions.
type DataCtorRange struct {
	Start uint32
	Len   uint32
}
