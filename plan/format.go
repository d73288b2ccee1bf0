package plan

import (
	"strings"
)

// Format renders the tree one node per line, children indented. The output
// is deterministic for a given plan shape and is what cache fingerprints are
// computed over.
func Format(p Plan) string {
	var sb strings.Builder
	sb.Grow(256)
	formatNode(&sb, p, 0)
	return sb.String()
}

func formatNode(sb *strings.Builder, p Plan, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(describe(p))
	sb.WriteByte('\n')
	for _, c := range p.Children() {
		formatNode(sb, c, depth+1)
	}
}

func describe(p Plan) string {
	switch n := p.(type) {
	case *TableScan:
		name := n.Table
		if n.Schema != "" {
			name = n.Schema + "." + name
		}
		return "TableScan " + name
	case *EmptyRelation:
		return "EmptyRelation"
	case *Filter:
		return "Filter " + n.Cond.String()
	case *Project:
		if n.Exprs == nil {
			return "Project *"
		}
		kind := "Project"
		if n.Distinct {
			kind = "Project DISTINCT"
		}
		return kind + " " + joinExprs(n.Exprs)
	case *Aggregate:
		return "Aggregate [" + joinExprs(n.Grouping) + "] [" + joinExprs(n.Aggs) + "]"
	case *Window:
		return "Window " + joinExprs(n.WindowExprs)
	case *Sort:
		if n.Global {
			return "Sort " + joinExprs(n.Keys)
		}
		return "SortLocal " + joinExprs(n.Keys)
	case *LocalLimit:
		return "LocalLimit " + n.Limit.String()
	case *GlobalLimit:
		return "GlobalLimit " + n.Limit.String()
	case *Join:
		s := "Join " + n.Type.SQL()
		if n.Cond != nil {
			s += " ON " + n.Cond.String()
		}
		return s
	case *Union:
		return "Union"
	case *Intersect:
		return "Intersect"
	case *SubqueryAlias:
		return "SubqueryAlias " + n.Alias
	}
	return "Unknown"
}
