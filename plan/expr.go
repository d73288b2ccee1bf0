package plan

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// ExprID identifies a single logical column. The same ID always denotes the
// same column no matter how many times the attribute is renamed or re-aliased
// on its way up the plan tree.
type ExprID int64

var exprIDCounter int64

// NewExprID allocates a process-unique column identity.
func NewExprID() ExprID {
	return ExprID(atomic.AddInt64(&exprIDCounter, 1))
}

type DataType int

const (
	TypeUnknown DataType = iota
	TypeBool
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeString
	TypeDate
	TypeTimestamp
	TypeArray
	TypeMap
	TypeStruct
)

func (t DataType) String() string {
	switch t {
	case TypeBool:
		return "boolean"
	case TypeInt:
		return "int"
	case TypeLong:
		return "bigint"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeDecimal:
		return "decimal"
	case TypeString:
		return "string"
	case TypeDate:
		return "date"
	case TypeTimestamp:
		return "timestamp"
	case TypeArray:
		return "array"
	case TypeMap:
		return "map"
	case TypeStruct:
		return "struct"
	}
	return "unknown"
}

// Nested reports whether the type has no SQL cast syntax.
func (t DataType) Nested() bool {
	return t == TypeArray || t == TypeMap || t == TypeStruct
}

// Attribute names one output column of a plan node.
type Attribute struct {
	ID        ExprID
	Name      string
	Qualifier string
	Type      DataType
}

// Expr is a scalar or aggregate computation owned by a plan node. The set of
// implementations is closed; the compiler dispatches on the concrete type and
// falls back to String() for anything it does not recognize.
type Expr interface {
	// String returns a dialect-agnostic textual form of the expression.
	String() string
	isExpr()
}

type Literal struct {
	Value interface{}
	Type  DataType
}

type AttrRef struct {
	Attr Attribute
}

// Col is shorthand for an attribute reference.
func Col(a Attribute) *AttrRef { return &AttrRef{Attr: a} }

type Alias struct {
	Child     Expr
	Name      string
	ID        ExprID
	Qualifier string
}

// BinaryOp is a generic infix operator. Op holds the canonical SQL spelling
// ("=", "<", "+", "AND", "LIKE", ...).
type BinaryOp struct {
	Op    string
	Left  Expr
	Right Expr
}

type Not struct {
	Child Expr
}

// In tests membership against a list of expressions.
type In struct {
	Value Expr
	List  []Expr
}

// InSet tests membership against raw stored values. Each value is re-wrapped
// as a literal before rendering, keeping string values quoted and everything
// else verbatim.
type InSet struct {
	Value  Expr
	Values []interface{}
}

type If struct {
	Cond Expr
	Then Expr
	Else Expr
}

type CaseBranch struct {
	When Expr
	Then Expr
}

type CaseWhen struct {
	Branches []CaseBranch
	Else     Expr
}

type Coalesce struct {
	Args []Expr
}

type Cast struct {
	Child  Expr
	Target DataType
}

// FieldAccess reads a field out of a struct-typed or array-typed column. The
// whole access path renders as one quoted dotted identifier.
type FieldAccess struct {
	Child Expr
	Field string
}

// DatePart extracts a date component; Part is one of year, month, day, hour,
// minute, second or date.
type DatePart struct {
	Part  string
	Child Expr
}

type LikeKind int

const (
	LikeStartsWith LikeKind = iota
	LikeEndsWith
	LikeContains
)

// LikePattern is a STARTS_WITH / ENDS_WITH / CONTAINS match, lowered to LIKE
// with the appropriate % affixes.
type LikePattern struct {
	Kind    LikeKind
	Left    Expr
	Pattern Expr
}

type AggFunc struct {
	Name     string
	Distinct bool
	Args     []Expr
}

type WindowFunc struct {
	Fn          Expr
	PartitionBy []Expr
	OrderBy     []Expr
}

type SortKey struct {
	Child     Expr
	Ascending bool
	// NullsFirst is carried through from the input plan but ignored when
	// rendering; the target dialect's default null ordering applies.
	NullsFirst bool
}

// UnscaledValue unwraps a decimal to its unscaled integer representation. It
// has no textual form of its own.
type UnscaledValue struct {
	Child Expr
}

// CheckOverflow guards a decimal computation. It has no textual form of its
// own.
type CheckOverflow struct {
	Child Expr
}

type Exists struct {
	Plan Plan
}

type ScalarSubquery struct {
	Plan Plan
}

type InSubquery struct {
	Value Expr
	Plan  Plan
}

// Raw carries pre-rendered SQL text.
type Raw struct {
	SQL string
}

func (*Literal) isExpr()        {}
func (*AttrRef) isExpr()        {}
func (*Alias) isExpr()          {}
func (*BinaryOp) isExpr()       {}
func (*Not) isExpr()            {}
func (*In) isExpr()             {}
func (*InSet) isExpr()          {}
func (*If) isExpr()             {}
func (*CaseWhen) isExpr()       {}
func (*Coalesce) isExpr()       {}
func (*Cast) isExpr()           {}
func (*FieldAccess) isExpr()    {}
func (*DatePart) isExpr()       {}
func (*LikePattern) isExpr()    {}
func (*AggFunc) isExpr()        {}
func (*WindowFunc) isExpr()     {}
func (*SortKey) isExpr()        {}
func (*UnscaledValue) isExpr()  {}
func (*CheckOverflow) isExpr()  {}
func (*Exists) isExpr()         {}
func (*ScalarSubquery) isExpr() {}
func (*InSubquery) isExpr()     {}
func (*Raw) isExpr()            {}

func (e *Literal) String() string {
	switch v := e.Value.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		if e.Type == TypeDate {
			return "DATE '" + v.Format("2006-01-02") + "'"
		}
		return "TIMESTAMP '" + v.Format("2006-01-02 15:04:05") + "'"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (e *AttrRef) String() string {
	if e.Attr.Qualifier != "" {
		return e.Attr.Qualifier + "." + e.Attr.Name
	}
	return e.Attr.Name
}

func (e *Alias) String() string {
	return e.Child.String() + " AS " + e.Name
}

func (e *BinaryOp) String() string {
	return e.Left.String() + " " + e.Op + " " + e.Right.String()
}

func (e *Not) String() string {
	return "(NOT " + e.Child.String() + ")"
}

func (e *In) String() string {
	return "(" + e.Value.String() + " IN (" + joinExprs(e.List) + "))"
}

func (e *InSet) String() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = (&Literal{Value: v}).String()
	}
	return "(" + e.Value.String() + " IN (" + strings.Join(parts, ", ") + "))"
}

func (e *If) String() string {
	return "CASE WHEN " + e.Cond.String() + " THEN " + e.Then.String() +
		" ELSE " + e.Else.String() + " END"
}

func (e *CaseWhen) String() string {
	var sb strings.Builder
	sb.WriteString("CASE")
	for _, b := range e.Branches {
		sb.WriteString(" WHEN " + b.When.String() + " THEN " + b.Then.String())
	}
	if e.Else != nil {
		sb.WriteString(" ELSE " + e.Else.String())
	}
	sb.WriteString(" END")
	return sb.String()
}

func (e *Coalesce) String() string {
	return "coalesce(" + joinExprs(e.Args) + ")"
}

func (e *Cast) String() string {
	if e.Target.Nested() {
		return e.Child.String()
	}
	return "CAST(" + e.Child.String() + " AS " + e.Target.String() + ")"
}

func (e *FieldAccess) String() string {
	return e.Child.String() + "." + e.Field
}

func (e *DatePart) String() string {
	return e.Part + "(" + e.Child.String() + ")"
}

func (e *LikePattern) String() string {
	switch e.Kind {
	case LikeEndsWith:
		return "ENDS_WITH(" + e.Left.String() + ", " + e.Pattern.String() + ")"
	case LikeContains:
		return "CONTAINS(" + e.Left.String() + ", " + e.Pattern.String() + ")"
	}
	return "STARTS_WITH(" + e.Left.String() + ", " + e.Pattern.String() + ")"
}

func (e *AggFunc) String() string {
	if e.Distinct {
		return e.Name + "(DISTINCT " + joinExprs(e.Args) + ")"
	}
	return e.Name + "(" + joinExprs(e.Args) + ")"
}

func (e *WindowFunc) String() string {
	var sb strings.Builder
	sb.WriteString(e.Fn.String())
	sb.WriteString(" OVER (")
	if len(e.PartitionBy) > 0 {
		sb.WriteString("PARTITION BY " + joinExprs(e.PartitionBy))
	}
	if len(e.OrderBy) > 0 {
		if len(e.PartitionBy) > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("ORDER BY " + joinExprs(e.OrderBy))
	}
	sb.WriteString(")")
	return sb.String()
}

func (e *SortKey) String() string {
	if e.Ascending {
		return e.Child.String() + " ASC"
	}
	return e.Child.String() + " DESC"
}

func (e *UnscaledValue) String() string { return e.Child.String() }
func (e *CheckOverflow) String() string { return e.Child.String() }

func (e *Exists) String() string         { return "EXISTS (<subquery>)" }
func (e *ScalarSubquery) String() string { return "(<subquery>)" }
func (e *InSubquery) String() string     { return "(" + e.Value.String() + " IN (<subquery>))" }

func (e *Raw) String() string { return e.SQL }

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// OutputAttr derives the attribute a named projection item produces.
func OutputAttr(e Expr) Attribute {
	switch v := e.(type) {
	case *AttrRef:
		return v.Attr
	case *Alias:
		return Attribute{ID: v.ID, Name: v.Name, Qualifier: v.Qualifier, Type: OutputAttr(v.Child).Type}
	default:
		return Attribute{Name: e.String()}
	}
}
