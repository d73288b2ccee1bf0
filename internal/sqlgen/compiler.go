package sqlgen

import (
	"fmt"
	"strings"

	"github.com/fedsql/pushdown/dialect"
	"github.com/fedsql/pushdown/internal/rewrite"
	"github.com/fedsql/pushdown/plan"
)

// Compiler turns one resolved plan into SQL text for one target dialect.
// Instances are cheap and single-use conceptually: the subquery alias
// counter inside is monotonic per instance and must not be shared across
// goroutines.
type Compiler struct {
	dialect dialect.Dialect
	namer   *rewrite.Namer
}

func NewCompiler(d dialect.Dialect) *Compiler {
	return &Compiler{dialect: d, namer: rewrite.NewNamer()}
}

// Compile canonicalizes the plan, restores its original output column names
// and emits the SQL string.
func (co *Compiler) Compile(p plan.Plan) (string, error) {
	if p == nil {
		return "", fmt.Errorf("plan is nil")
	}
	fp, err := rewrite.FinalPlan(p, co.namer)
	if err != nil {
		return "", err
	}
	return co.planSQL(fp)
}

// planSQL assumes a canonical plan; one case per node kind. Anything else
// reaching here means canonicalization failed its contract, so compilation
// stops rather than emit text that will not parse.
func (co *Compiler) planSQL(p plan.Plan) (string, error) {
	switch n := p.(type) {
	case *plan.Project:
		return co.projectSQL(n)

	case *plan.Aggregate:
		return co.aggregateSQL(n)

	case *plan.Window:
		return co.windowSQL(n)

	case *plan.Filter:
		child, err := co.planSQL(n.Child)
		if err != nil {
			return "", err
		}
		cond, err := co.exprSQL(n.Cond)
		if err != nil {
			return "", err
		}
		keyword := "WHERE"
		if _, ok := n.Child.(*plan.Aggregate); ok {
			keyword = "HAVING"
		}
		return child + " " + keyword + " " + cond, nil

	case *plan.Sort:
		child, err := co.planSQL(n.Child)
		if err != nil {
			return "", err
		}
		keys, err := co.exprListSQL(n.Keys)
		if err != nil {
			return "", err
		}
		keyword := "ORDER BY"
		if !n.Global {
			keyword = "SORT BY"
		}
		return child + " " + keyword + " " + strings.Join(keys, ", "), nil

	case *plan.LocalLimit:
		child, err := co.planSQL(n.Child)
		if err != nil {
			return "", err
		}
		limit, err := co.exprSQL(n.Limit)
		if err != nil {
			return "", err
		}
		return co.dialect.LimitSQL(child, limit), nil

	case *plan.GlobalLimit:
		return co.globalLimitSQL(n)

	case *plan.Union:
		return co.unionSQL(n)

	case *plan.Intersect:
		left, err := co.planSQL(n.Left)
		if err != nil {
			return "", err
		}
		right, err := co.planSQL(n.Right)
		if err != nil {
			return "", err
		}
		return co.dialect.SetOpSQL("INTERSECT", []string{left, right}), nil

	case *plan.TableScan:
		return co.dialect.RelationSQL(n)

	case *plan.EmptyRelation:
		return "", nil

	case *plan.SubqueryAlias:
		child, err := co.planSQL(n.Child)
		if err != nil {
			return "", err
		}
		return co.dialect.SubqueryAliasSQL(n.Alias, child), nil

	case *plan.Join:
		left, err := co.planSQL(n.Left)
		if err != nil {
			return "", err
		}
		right, err := co.planSQL(n.Right)
		if err != nil {
			return "", err
		}
		var cond string
		if n.Cond != nil {
			if cond, err = co.exprSQL(n.Cond); err != nil {
				return "", err
			}
		}
		return co.dialect.JoinSQL(n.Type.SQL(), left, right, cond), nil
	}

	return "", fmt.Errorf("cannot generate SQL for plan node %T", p)
}

func (co *Compiler) projectSQL(n *plan.Project) (string, error) {
	from, err := co.planSQL(n.Child)
	if err != nil {
		return "", err
	}
	exprs := []string{"*"}
	if n.Exprs != nil {
		if exprs, err = co.exprListSQL(n.Exprs); err != nil {
			return "", err
		}
	}
	return co.dialect.ProjectSQL(n.Distinct, exprs, from), nil
}

func (co *Compiler) aggregateSQL(n *plan.Aggregate) (string, error) {
	if len(n.Grouping) == 0 && len(n.Aggs) == 0 {
		return "", fmt.Errorf("aggregate has neither grouping nor aggregate expressions")
	}
	from, err := co.planSQL(n.Child)
	if err != nil {
		return "", err
	}
	list := n.Aggs
	if len(list) == 0 {
		list = n.Grouping
	}
	exprs, err := co.exprListSQL(list)
	if err != nil {
		return "", err
	}
	sql := co.dialect.ProjectSQL(false, exprs, from)
	if len(n.Grouping) > 0 {
		grouping, err := co.exprListSQL(n.Grouping)
		if err != nil {
			return "", err
		}
		sql += " GROUP BY " + strings.Join(grouping, ", ")
	}
	return sql, nil
}

func (co *Compiler) windowSQL(n *plan.Window) (string, error) {
	from, err := co.planSQL(n.Child)
	if err != nil {
		return "", err
	}
	var exprs []string
	for _, a := range n.Child.Output() {
		exprs = append(exprs, co.dialect.Attribute(a))
	}
	windows, err := co.exprListSQL(n.WindowExprs)
	if err != nil {
		return "", err
	}
	exprs = append(exprs, windows...)
	return co.dialect.ProjectSQL(false, exprs, from), nil
}

// globalLimitSQL folds the planner's GlobalLimit-over-LocalLimit pair into a
// single limit clause; emitting the clause twice would change semantics on
// dialects where it nests.
func (co *Compiler) globalLimitSQL(n *plan.GlobalLimit) (string, error) {
	limit, err := co.exprSQL(n.Limit)
	if err != nil {
		return "", err
	}
	child := n.Child
	if local, ok := child.(*plan.LocalLimit); ok {
		inner, err := co.exprSQL(local.Limit)
		if err != nil {
			return "", err
		}
		if inner == limit {
			child = local.Child
		}
	}
	sql, err := co.planSQL(child)
	if err != nil {
		return "", err
	}
	return co.dialect.LimitSQL(sql, limit), nil
}

// unionSQL drops zero-row placeholder branches before assembling the set
// operation. A single surviving branch is emitted unwrapped.
func (co *Compiler) unionSQL(n *plan.Union) (string, error) {
	var branches []string
	for _, b := range n.Branches {
		if _, ok := b.(*plan.EmptyRelation); ok {
			continue
		}
		sql, err := co.planSQL(b)
		if err != nil {
			return "", err
		}
		branches = append(branches, sql)
	}
	switch len(branches) {
	case 0:
		return "", fmt.Errorf("union has no non-empty branches")
	case 1:
		return branches[0], nil
	}
	return co.dialect.SetOpSQL("UNION ALL", branches), nil
}
