package rewrite

import (
	"github.com/fedsql/pushdown/plan"
)

// normalizeQualifiers recomputes every attribute's qualifier in one
// bottom-up pass: a scan backed by a remote table qualifies its output by
// that table's name, a scan without that identity clears the qualifier, and
// every other node looks its attributes up in its children's output by
// exprId. Rendering "table.column" then needs no scope information at all.
func normalizeQualifiers(p plan.Plan) plan.Plan {
	switch n := p.(type) {
	case *plan.TableScan:
		cols := make([]plan.Attribute, len(n.Cols))
		for i, a := range n.Cols {
			a.Qualifier = n.RemoteName
			cols[i] = a
		}
		return &plan.TableScan{Schema: n.Schema, Table: n.Table, RemoteName: n.RemoteName, Cols: cols}

	case *plan.EmptyRelation:
		cols := make([]plan.Attribute, len(n.Cols))
		for i, a := range n.Cols {
			a.Qualifier = ""
			cols[i] = a
		}
		return &plan.EmptyRelation{Cols: cols}
	}

	children := p.Children()
	rewritten := make([]plan.Plan, len(children))
	for i, c := range children {
		rewritten[i] = normalizeQualifiers(c)
	}
	p = plan.WithChildren(p, rewritten)

	quals := make(map[plan.ExprID]string)
	for _, c := range rewritten {
		for _, a := range c.Output() {
			if a.ID == 0 {
				continue
			}
			if _, seen := quals[a.ID]; !seen {
				quals[a.ID] = a.Qualifier
			}
		}
	}

	return plan.MapExprs(p, func(e plan.Expr) plan.Expr {
		return plan.TransformExpr(e, func(x plan.Expr) plan.Expr {
			ref, ok := x.(*plan.AttrRef)
			if !ok {
				return x
			}
			a := ref.Attr
			a.Qualifier = quals[a.ID]
			return &plan.AttrRef{Attr: a}
		})
	})
}
