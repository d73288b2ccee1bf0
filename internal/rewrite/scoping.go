package rewrite

import (
	"fmt"

	"github.com/fedsql/pushdown/plan"
)

// Node-kind ordering consulted when deciding where a synthetic projection
// belongs. Kinds below Project take the projection directly above them;
// kinds above it pass the insertion down to their child.
const (
	orderRelation = 1
	orderFilter   = 2
	orderProject  = 3
	orderAggr     = 4
	orderSort     = 5
	orderLocalLim = 6
	orderGlobLim  = 7
)

func nodeOrder(p plan.Plan) (int, bool) {
	switch p.(type) {
	case *plan.TableScan, *plan.EmptyRelation:
		return orderRelation, true
	case *plan.Filter:
		return orderFilter, true
	case *plan.Project:
		return orderProject, true
	case *plan.Aggregate, *plan.Window:
		return orderAggr, true
	case *plan.Sort:
		return orderSort, true
	case *plan.LocalLimit:
		return orderLocalLim, true
	case *plan.GlobalLimit:
		return orderGlobLim, true
	}
	return 0, false
}

// emitsSelect reports whether the subtree renders to a complete SELECT
// statement: a SELECT-bearing head, or a chain of clause-appending operators
// (filter, sort, limits) over one.
func emitsSelect(p plan.Plan) bool {
	switch n := p.(type) {
	case *plan.Project, *plan.Aggregate, *plan.Window:
		return true
	case *plan.Filter:
		return emitsSelect(n.Child)
	case *plan.Sort:
		return emitsSelect(n.Child)
	case *plan.LocalLimit:
		return emitsSelect(n.Child)
	case *plan.GlobalLimit:
		return emitsSelect(n.Child)
	}
	return false
}

// insertSelect pushes a synthetic identity projection into the subtree at
// the lowest point that keeps the emitted clauses in valid SQL order: nodes
// ordered above Project hand the insertion to their child, everything else
// takes the projection directly above itself.
func insertSelect(p plan.Plan) (plan.Plan, error) {
	if emitsSelect(p) {
		return p, nil
	}

	if ord, ok := nodeOrder(p); ok && ord > orderProject {
		child, err := insertSelect(p.Children()[0])
		if err != nil {
			return nil, err
		}
		return plan.WithChildren(p, []plan.Plan{child}), nil
	}

	switch p.(type) {
	case *plan.TableScan, *plan.EmptyRelation, *plan.Filter,
		*plan.Join, *plan.Union, *plan.Intersect, *plan.SubqueryAlias:
		return &plan.Project{Child: p}, nil
	}
	return nil, fmt.Errorf("recover scoping: no ordering for node %T", p)
}

func isNamedSource(p plan.Plan) bool {
	switch p.(type) {
	case *plan.TableScan, *plan.SubqueryAlias:
		return true
	}
	return false
}

func isEmptyRelation(p plan.Plan) bool {
	_, ok := p.(*plan.EmptyRelation)
	return ok
}

// ensureSelect makes the subtree a complete SELECT statement unless it
// already is one.
func ensureSelect(p plan.Plan) (plan.Plan, error) {
	if emitsSelect(p) {
		return p, nil
	}
	return insertSelect(p)
}

// addProject walks the tree and makes sure every scope boundary - join
// operands, set-operation branches, limit scopes and the FROM sources of
// SELECT-bearing nodes - is headed by a complete SELECT. A left join operand
// that is already a named source stays bare, and the zero-row placeholder is
// left for the emitter to drop.
func addProject(p plan.Plan) (plan.Plan, error) {
	children := p.Children()
	rewritten := make([]plan.Plan, len(children))
	for i, c := range children {
		nc, err := addProject(c)
		if err != nil {
			return nil, err
		}
		rewritten[i] = nc
	}
	p = plan.WithChildren(p, rewritten)

	var err error
	switch n := p.(type) {
	case *plan.Join:
		left, right := n.Left, n.Right
		if !isNamedSource(left) {
			if left, err = ensureSelect(left); err != nil {
				return nil, err
			}
		}
		if _, ok := right.(*plan.SubqueryAlias); !ok {
			if right, err = ensureSelect(right); err != nil {
				return nil, err
			}
		}
		return &plan.Join{Type: n.Type, Left: left, Right: right, Cond: n.Cond}, nil

	case *plan.Union:
		branches := make([]plan.Plan, len(n.Branches))
		for i, b := range n.Branches {
			if isEmptyRelation(b) {
				branches[i] = b
				continue
			}
			if branches[i], err = ensureSelect(b); err != nil {
				return nil, err
			}
		}
		return &plan.Union{Branches: branches}, nil

	case *plan.Intersect:
		left, err := ensureSelect(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := ensureSelect(n.Right)
		if err != nil {
			return nil, err
		}
		return &plan.Intersect{Left: left, Right: right}, nil

	case *plan.GlobalLimit:
		child, err := ensureSelect(n.Child)
		if err != nil {
			return nil, err
		}
		return &plan.GlobalLimit{Limit: n.Limit, Child: child}, nil

	case *plan.Aggregate:
		if isEmptyRelation(n.Child) {
			return n, nil
		}
		child, err := ensureSelect(n.Child)
		if err != nil {
			return nil, err
		}
		return &plan.Aggregate{Grouping: n.Grouping, Aggs: n.Aggs, Child: child}, nil

	case *plan.Window:
		if isEmptyRelation(n.Child) {
			return n, nil
		}
		child, err := ensureSelect(n.Child)
		if err != nil {
			return nil, err
		}
		return &plan.Window{WindowExprs: n.WindowExprs, Child: child}, nil

	case *plan.Project:
		// DISTINCT must not textually absorb a sort or limit from below.
		if ord, ok := nodeOrder(n.Child); n.Distinct && ok && ord > orderAggr && !emitsSelect(n.Child) {
			child, err := insertSelect(n.Child)
			if err != nil {
				return nil, err
			}
			return &plan.Project{Exprs: n.Exprs, Distinct: true, Child: child}, nil
		}
	}
	return p, nil
}

// addSubqueryAlias wraps every derived table that stands where SQL requires
// a named source - join operands and the FROM sources of SELECT-bearing
// nodes - in a uniquely named subquery alias. Set-operation branches are
// complete SELECTs and take no alias; the set operation itself is aliased
// when it occupies a FROM position.
func addSubqueryAlias(p plan.Plan, nm *Namer) plan.Plan {
	wrap := func(c plan.Plan) plan.Plan {
		switch c.(type) {
		case *plan.SubqueryAlias, *plan.EmptyRelation:
			return c
		case *plan.Union, *plan.Intersect:
			return &plan.SubqueryAlias{Alias: nm.Subquery(), Child: c}
		}
		if emitsSelect(c) {
			return &plan.SubqueryAlias{Alias: nm.Subquery(), Child: c}
		}
		return c
	}

	var rec func(p plan.Plan) plan.Plan
	rec = func(p plan.Plan) plan.Plan {
		switch n := p.(type) {
		case *plan.Project:
			return &plan.Project{Exprs: n.Exprs, Distinct: n.Distinct, Child: rec(wrap(n.Child))}
		case *plan.Aggregate:
			return &plan.Aggregate{Grouping: n.Grouping, Aggs: n.Aggs, Child: rec(wrap(n.Child))}
		case *plan.Window:
			return &plan.Window{WindowExprs: n.WindowExprs, Child: rec(wrap(n.Child))}
		case *plan.Join:
			return &plan.Join{Type: n.Type, Left: rec(wrap(n.Left)), Right: rec(wrap(n.Right)), Cond: n.Cond}
		default:
			children := p.Children()
			if len(children) == 0 {
				return p
			}
			rewritten := make([]plan.Plan, len(children))
			for i, c := range children {
				rewritten[i] = rec(c)
			}
			return plan.WithChildren(p, rewritten)
		}
	}
	return rec(p)
}
