package rewrite

import (
	"github.com/fedsql/pushdown/plan"
)

// substitutionMap maps each aliased projection item to the expression it
// names, so references to the alias can be replaced by the expression itself.
func substitutionMap(exprs []plan.Expr) map[plan.ExprID]plan.Expr {
	m := make(map[plan.ExprID]plan.Expr, len(exprs))
	for _, e := range exprs {
		if a, ok := e.(*plan.Alias); ok && a.ID != 0 {
			m[a.ID] = a.Child
		}
	}
	return m
}

func substitute(e plan.Expr, m map[plan.ExprID]plan.Expr) plan.Expr {
	return plan.TransformExpr(e, func(x plan.Expr) plan.Expr {
		if ref, ok := x.(*plan.AttrRef); ok {
			if repl, found := m[ref.Attr.ID]; found {
				return repl
			}
		}
		return x
	})
}

func substituteAll(exprs []plan.Expr, m map[plan.ExprID]plan.Expr) []plan.Expr {
	out := make([]plan.Expr, len(exprs))
	for i, e := range exprs {
		out[i] = substitute(e, m)
	}
	return out
}

// collapseProjects merges adjacent projections into one, inlining the inner
// list's aliases into the outer expressions.
func collapseProjects(p plan.Plan) (plan.Plan, bool) {
	return plan.TransformUp(p, func(n plan.Plan) (plan.Plan, bool) {
		outer, ok := n.(*plan.Project)
		if !ok || len(outer.Exprs) == 0 {
			return n, false
		}
		inner, ok := outer.Child.(*plan.Project)
		if !ok || inner.Distinct || len(inner.Exprs) == 0 {
			return n, false
		}
		m := substitutionMap(inner.Exprs)
		return &plan.Project{
			Exprs:    substituteAll(outer.Exprs, m),
			Distinct: outer.Distinct,
			Child:    inner.Child,
		}, true
	})
}

// combineUnions flattens nested unions into a single N-way union.
func combineUnions(p plan.Plan) (plan.Plan, bool) {
	return plan.TransformUp(p, func(n plan.Plan) (plan.Plan, bool) {
		u, ok := n.(*plan.Union)
		if !ok {
			return n, false
		}
		nested := false
		for _, b := range u.Branches {
			if _, ok := b.(*plan.Union); ok {
				nested = true
				break
			}
		}
		if !nested {
			return n, false
		}
		var flat []plan.Plan
		for _, b := range u.Branches {
			if inner, ok := b.(*plan.Union); ok {
				flat = append(flat, inner.Branches...)
			} else {
				flat = append(flat, b)
			}
		}
		return &plan.Union{Branches: flat}, true
	})
}

// inlineProject absorbs a projection that is the sole child of an Aggregate
// into the aggregate's expression lists, and hoists a projection out from
// under a Sort so the sort keys apply directly to the projection's input.
// Neither rewrite changes the row set or the output schema.
func inlineProject(p plan.Plan) (plan.Plan, bool) {
	return plan.TransformUp(p, func(n plan.Plan) (plan.Plan, bool) {
		switch v := n.(type) {
		case *plan.Aggregate:
			proj, ok := v.Child.(*plan.Project)
			if !ok || proj.Distinct || len(proj.Exprs) == 0 {
				return n, false
			}
			m := substitutionMap(proj.Exprs)
			return &plan.Aggregate{
				Grouping: substituteAll(v.Grouping, m),
				Aggs:     substituteAll(v.Aggs, m),
				Child:    proj.Child,
			}, true

		case *plan.Sort:
			proj, ok := v.Child.(*plan.Project)
			if !ok || proj.Distinct || len(proj.Exprs) == 0 {
				return n, false
			}
			m := substitutionMap(proj.Exprs)
			return &plan.Project{
				Exprs: proj.Exprs,
				Child: &plan.Sort{
					Keys:   substituteAll(v.Keys, m),
					Global: v.Global,
					Child:  proj.Child,
				},
			}, true
		}
		return n, false
	})
}

// dropEmpty removes Project/Aggregate/Window nodes with nothing to output;
// they have no SQL form.
func dropEmpty(p plan.Plan) (plan.Plan, bool) {
	return plan.TransformUp(p, func(n plan.Plan) (plan.Plan, bool) {
		switch v := n.(type) {
		case *plan.Project:
			if len(v.Exprs) == 0 && v.Exprs != nil {
				return v.Child, true
			}
		case *plan.Aggregate:
			if len(v.Grouping) == 0 && len(v.Aggs) == 0 {
				return v.Child, true
			}
		case *plan.Window:
			if len(v.WindowExprs) == 0 {
				return v.Child, true
			}
		}
		return n, false
	})
}
