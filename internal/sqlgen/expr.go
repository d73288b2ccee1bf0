package sqlgen

import (
	"fmt"
	"strings"

	"github.com/fedsql/pushdown/internal/rewrite"
	"github.com/fedsql/pushdown/plan"
)

func (co *Compiler) exprListSQL(exprs []plan.Expr) ([]string, error) {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := co.exprSQL(e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// exprSQL renders one scalar or aggregate expression. Unmatched expression
// kinds fall back to the generic textual form the expression carries itself.
func (co *Compiler) exprSQL(e plan.Expr) (string, error) {
	switch v := e.(type) {
	case *plan.Literal:
		return co.dialect.Literal(v)

	case *plan.AttrRef:
		return co.dialect.Attribute(v.Attr), nil

	case *plan.Alias:
		child, err := co.exprSQL(v.Child)
		if err != nil {
			return "", err
		}
		name := co.dialect.QuoteIdentifier(v.Name)
		if v.Qualifier != "" {
			name = co.dialect.QuoteIdentifier(v.Qualifier) + "." + name
		}
		return child + " AS " + name, nil

	case *plan.DatePart:
		child, err := co.exprSQL(v.Child)
		if err != nil {
			return "", err
		}
		return co.dialect.FunctionName(v.Part) + "(" + child + ")", nil

	case *plan.FieldAccess:
		return co.fieldAccessSQL(v)

	case *plan.Cast:
		child, err := co.exprSQL(v.Child)
		if err != nil {
			return "", err
		}
		// No SQL cast syntax exists for nested types; the cast is erased.
		if v.Target.Nested() {
			return child, nil
		}
		return "CAST(" + child + " AS " + co.dialect.TypeName(v.Target) + ")", nil

	case *plan.LikePattern:
		return co.likeSQL(v)

	case *plan.If:
		cond, err := co.exprSQL(v.Cond)
		if err != nil {
			return "", err
		}
		then, err := co.exprSQL(v.Then)
		if err != nil {
			return "", err
		}
		els, err := co.exprSQL(v.Else)
		if err != nil {
			return "", err
		}
		return "CASE WHEN " + cond + " THEN " + then + " ELSE " + els + " END", nil

	case *plan.CaseWhen:
		var sb strings.Builder
		sb.WriteString("CASE")
		for _, b := range v.Branches {
			when, err := co.exprSQL(b.When)
			if err != nil {
				return "", err
			}
			then, err := co.exprSQL(b.Then)
			if err != nil {
				return "", err
			}
			sb.WriteString(" WHEN " + when + " THEN " + then)
		}
		if v.Else != nil {
			els, err := co.exprSQL(v.Else)
			if err != nil {
				return "", err
			}
			sb.WriteString(" ELSE " + els)
		}
		sb.WriteString(" END")
		return sb.String(), nil

	case *plan.Coalesce:
		args, err := co.exprListSQL(v.Args)
		if err != nil {
			return "", err
		}
		return "coalesce(" + strings.Join(args, ", ") + ")", nil

	case *plan.UnscaledValue:
		return co.exprSQL(v.Child)

	case *plan.CheckOverflow:
		return co.exprSQL(v.Child)

	case *plan.Not:
		return co.notSQL(v)

	case *plan.In:
		value, err := co.exprSQL(v.Value)
		if err != nil {
			return "", err
		}
		list, err := co.exprListSQL(v.List)
		if err != nil {
			return "", err
		}
		return "(" + value + " IN (" + strings.Join(list, ", ") + "))", nil

	case *plan.InSet:
		value, err := co.exprSQL(v.Value)
		if err != nil {
			return "", err
		}
		items := make([]string, len(v.Values))
		for i, raw := range v.Values {
			lit := &plan.Literal{Value: raw}
			if _, ok := raw.(string); ok {
				lit.Type = plan.TypeString
			}
			s, err := co.dialect.Literal(lit)
			if err != nil {
				return "", err
			}
			items[i] = s
		}
		return "(" + value + " IN (" + strings.Join(items, ", ") + "))", nil

	case *plan.BinaryOp:
		left, err := co.exprSQL(v.Left)
		if err != nil {
			return "", err
		}
		right, err := co.exprSQL(v.Right)
		if err != nil {
			return "", err
		}
		return left + " " + v.Op + " " + right, nil

	case *plan.SortKey:
		child, err := co.exprSQL(v.Child)
		if err != nil {
			return "", err
		}
		// Null-ordering metadata is dropped; the dialect's default applies.
		if v.Ascending {
			return child + " ASC", nil
		}
		return child + " DESC", nil

	case *plan.Exists:
		sub, err := co.subquerySQL(v.Plan)
		if err != nil {
			return "", err
		}
		return "EXISTS (" + sub + ")", nil

	case *plan.ScalarSubquery:
		sub, err := co.subquerySQL(v.Plan)
		if err != nil {
			return "", err
		}
		return "(" + sub + ")", nil

	case *plan.InSubquery:
		value, err := co.exprSQL(v.Value)
		if err != nil {
			return "", err
		}
		sub, err := co.subquerySQL(v.Plan)
		if err != nil {
			return "", err
		}
		return "(" + value + " IN (" + sub + "))", nil

	case *plan.AggFunc:
		args, err := co.exprListSQL(v.Args)
		if err != nil {
			return "", err
		}
		if v.Distinct {
			return v.Name + "(DISTINCT " + strings.Join(args, ", ") + ")", nil
		}
		return v.Name + "(" + strings.Join(args, ", ") + ")", nil

	case *plan.WindowFunc:
		return co.windowFuncSQL(v)

	case *plan.Raw:
		return v.SQL, nil
	}

	return e.String(), nil
}

// fieldAccessSQL renders struct or array field access as a single quoted
// dotted path when the access chain bottoms out at a column, and falls back
// to dotting the rendered base expression otherwise.
func (co *Compiler) fieldAccessSQL(v *plan.FieldAccess) (string, error) {
	if path, ok := accessPath(v); ok {
		return co.dialect.QuoteIdentifier(strings.Join(path, ".")), nil
	}
	base, err := co.exprSQL(v.Child)
	if err != nil {
		return "", err
	}
	return base + "." + co.dialect.QuoteIdentifier(v.Field), nil
}

func accessPath(e plan.Expr) ([]string, bool) {
	switch v := e.(type) {
	case *plan.AttrRef:
		return []string{v.Attr.Name}, true
	case *plan.FieldAccess:
		path, ok := accessPath(v.Child)
		if !ok {
			return nil, false
		}
		return append(path, v.Field), true
	}
	return nil, false
}

// likeSQL lowers STARTS_WITH/ENDS_WITH/CONTAINS to LIKE, splicing the %
// affixes inside the rendered pattern literal's quotes. Only string-literal
// patterns can take the affixes; anything else would be swallowed by the
// quoting.
func (co *Compiler) likeSQL(v *plan.LikePattern) (string, error) {
	left, err := co.exprSQL(v.Left)
	if err != nil {
		return "", err
	}
	pattern, err := co.exprSQL(v.Pattern)
	if err != nil {
		return "", err
	}
	if len(pattern) < 2 || pattern[0] != '\'' || pattern[len(pattern)-1] != '\'' {
		return "", fmt.Errorf("pattern match requires a string literal, got %s", v.Pattern.String())
	}
	body := pattern[1 : len(pattern)-1]
	switch v.Kind {
	case plan.LikeEndsWith:
		return left + " LIKE '%" + body + "'", nil
	case plan.LikeContains:
		return left + " LIKE '%" + body + "%'", nil
	}
	return left + " LIKE '" + body + "%'", nil
}

func (co *Compiler) notSQL(v *plan.Not) (string, error) {
	if b, ok := v.Child.(*plan.BinaryOp); ok && (b.Op == "=" || b.Op == "LIKE") {
		left, err := co.exprSQL(b.Left)
		if err != nil {
			return "", err
		}
		right, err := co.exprSQL(b.Right)
		if err != nil {
			return "", err
		}
		if b.Op == "=" {
			return left + " <> " + right, nil
		}
		return left + " NOT LIKE " + right, nil
	}
	child, err := co.exprSQL(v.Child)
	if err != nil {
		return "", err
	}
	return "(NOT " + child + ")", nil
}

func (co *Compiler) windowFuncSQL(v *plan.WindowFunc) (string, error) {
	fn, err := co.exprSQL(v.Fn)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(fn)
	sb.WriteString(" OVER (")
	if len(v.PartitionBy) > 0 {
		parts, err := co.exprListSQL(v.PartitionBy)
		if err != nil {
			return "", err
		}
		sb.WriteString("PARTITION BY " + strings.Join(parts, ", "))
	}
	if len(v.OrderBy) > 0 {
		keys, err := co.exprListSQL(v.OrderBy)
		if err != nil {
			return "", err
		}
		if len(v.PartitionBy) > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("ORDER BY " + strings.Join(keys, ", "))
	}
	sb.WriteString(")")
	return sb.String(), nil
}

// subquerySQL runs a plan nested inside a subquery expression through the
// same canonicalize-and-rename pipeline as the outer query, sharing the
// alias counter so generated names stay unique across the whole statement.
func (co *Compiler) subquerySQL(p plan.Plan) (string, error) {
	fp, err := rewrite.FinalPlan(p, co.namer)
	if err != nil {
		return "", err
	}
	return co.planSQL(fp)
}
