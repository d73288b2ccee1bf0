package plan

// Plan is one node of a resolved logical plan tree. Children are owned
// exclusively by their parent; a plan is a tree, never a DAG. Rewrites build
// fresh nodes and never mutate their input.
type Plan interface {
	// Output lists the node's output columns in order.
	Output() []Attribute
	// Children lists the node's child plans in order.
	Children() []Plan
	isPlan()
}

// TableScan reads a table reachable on the remote data source. RemoteName,
// when set, is the identity used to qualify the scan's output attributes;
// Table is the spelling used in FROM clauses.
type TableScan struct {
	Schema     string
	Table      string
	RemoteName string
	Cols       []Attribute
}

// EmptyRelation is the zero-row placeholder. It renders as no text at all;
// set operations drop it and SELECT-bearing parents omit their FROM clause
// over it.
type EmptyRelation struct {
	Cols []Attribute
}

type Filter struct {
	Cond  Expr
	Child Plan
}

// Project is a SELECT list. A nil Exprs slice is the identity projection
// inserted by scope recovery and renders as SELECT *; input plans with an
// empty projection list are degenerate and removed during canonicalization.
type Project struct {
	Exprs    []Expr
	Distinct bool
	Child    Plan
}

// Aggregate groups by Grouping and outputs Aggs. When Aggs is empty the
// grouping expressions double as the output list.
type Aggregate struct {
	Grouping []Expr
	Aggs     []Expr
	Child    Plan
}

type Window struct {
	WindowExprs []Expr
	Child       Plan
}

// Sort orders rows globally (ORDER BY) or per partition (SORT BY).
type Sort struct {
	Keys   []Expr
	Global bool
	Child  Plan
}

type LocalLimit struct {
	Limit Expr
	Child Plan
}

type GlobalLimit struct {
	Limit Expr
	Child Plan
}

type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
	CrossJoin
)

func (t JoinType) SQL() string {
	switch t {
	case LeftOuterJoin:
		return "LEFT OUTER JOIN"
	case RightOuterJoin:
		return "RIGHT OUTER JOIN"
	case FullOuterJoin:
		return "FULL OUTER JOIN"
	case CrossJoin:
		return "CROSS JOIN"
	}
	return "JOIN"
}

type Join struct {
	Type  JoinType
	Left  Plan
	Right Plan
	Cond  Expr
}

type Union struct {
	Branches []Plan
}

type Intersect struct {
	Left  Plan
	Right Plan
}

// SubqueryAlias names a derived table so it can stand where SQL requires a
// named FROM-clause source.
type SubqueryAlias struct {
	Alias string
	Child Plan
}

func (*TableScan) isPlan()     {}
func (*EmptyRelation) isPlan() {}
func (*Filter) isPlan()        {}
func (*Project) isPlan()       {}
func (*Aggregate) isPlan()     {}
func (*Window) isPlan()        {}
func (*Sort) isPlan()          {}
func (*LocalLimit) isPlan()    {}
func (*GlobalLimit) isPlan()   {}
func (*Join) isPlan()          {}
func (*Union) isPlan()         {}
func (*Intersect) isPlan()     {}
func (*SubqueryAlias) isPlan() {}

func (p *TableScan) Output() []Attribute     { return p.Cols }
func (p *EmptyRelation) Output() []Attribute { return p.Cols }
func (p *Filter) Output() []Attribute        { return p.Child.Output() }

func (p *Project) Output() []Attribute {
	if p.Exprs == nil {
		return p.Child.Output()
	}
	out := make([]Attribute, len(p.Exprs))
	for i, e := range p.Exprs {
		out[i] = OutputAttr(e)
	}
	return out
}

func (p *Aggregate) Output() []Attribute {
	exprs := p.Aggs
	if len(exprs) == 0 {
		exprs = p.Grouping
	}
	out := make([]Attribute, len(exprs))
	for i, e := range exprs {
		out[i] = OutputAttr(e)
	}
	return out
}

func (p *Window) Output() []Attribute {
	out := append([]Attribute{}, p.Child.Output()...)
	for _, e := range p.WindowExprs {
		out = append(out, OutputAttr(e))
	}
	return out
}

func (p *Sort) Output() []Attribute        { return p.Child.Output() }
func (p *LocalLimit) Output() []Attribute  { return p.Child.Output() }
func (p *GlobalLimit) Output() []Attribute { return p.Child.Output() }

func (p *Join) Output() []Attribute {
	out := append([]Attribute{}, p.Left.Output()...)
	return append(out, p.Right.Output()...)
}

func (p *Union) Output() []Attribute {
	if len(p.Branches) == 0 {
		return nil
	}
	return p.Branches[0].Output()
}

func (p *Intersect) Output() []Attribute     { return p.Left.Output() }
func (p *SubqueryAlias) Output() []Attribute { return p.Child.Output() }

func (p *TableScan) Children() []Plan     { return nil }
func (p *EmptyRelation) Children() []Plan { return nil }
func (p *Filter) Children() []Plan        { return []Plan{p.Child} }
func (p *Project) Children() []Plan       { return []Plan{p.Child} }
func (p *Aggregate) Children() []Plan     { return []Plan{p.Child} }
func (p *Window) Children() []Plan        { return []Plan{p.Child} }
func (p *Sort) Children() []Plan          { return []Plan{p.Child} }
func (p *LocalLimit) Children() []Plan    { return []Plan{p.Child} }
func (p *GlobalLimit) Children() []Plan   { return []Plan{p.Child} }
func (p *Join) Children() []Plan          { return []Plan{p.Left, p.Right} }
func (p *Union) Children() []Plan         { return p.Branches }
func (p *Intersect) Children() []Plan     { return []Plan{p.Left, p.Right} }
func (p *SubqueryAlias) Children() []Plan { return []Plan{p.Child} }
