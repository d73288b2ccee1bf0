package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedsql/pushdown/plan"
)

func testScan(table string, cols ...string) *plan.TableScan {
	attrs := make([]plan.Attribute, len(cols))
	for i, c := range cols {
		attrs[i] = plan.Attribute{ID: plan.NewExprID(), Name: c}
	}
	return &plan.TableScan{Table: table, Cols: attrs}
}

func remoteScan(table string, cols ...string) *plan.TableScan {
	s := testScan(table, cols...)
	s.RemoteName = table
	return s
}

func TestNamer(t *testing.T) {
	nm := NewNamer()
	assert.Equal(t, "gen_subquery_0", nm.Subquery())
	assert.Equal(t, "gen_subquery_1", nm.Subquery())
	assert.Equal(t, "gen_subquery_2", nm.Subquery())
}

func TestCollapseProjects(t *testing.T) {
	scan := testScan("t", "a")
	id := plan.NewExprID()
	inner := &plan.Project{
		Exprs: []plan.Expr{&plan.Alias{Child: plan.Col(scan.Cols[0]), Name: "x", ID: id}},
		Child: scan,
	}
	outer := &plan.Project{
		Exprs: []plan.Expr{plan.Col(plan.Attribute{ID: id, Name: "x"})},
		Child: inner,
	}

	got, changed := collapseProjects(outer)
	require.True(t, changed)

	p, ok := got.(*plan.Project)
	require.True(t, ok)
	assert.Same(t, scan, p.Child)
	require.Len(t, p.Exprs, 1)
	assert.Equal(t, "a", p.Exprs[0].String())
}

func TestCollapseProjectsKeepsDistinct(t *testing.T) {
	scan := testScan("t", "a")
	inner := &plan.Project{
		Exprs:    []plan.Expr{plan.Col(scan.Cols[0])},
		Distinct: true,
		Child:    scan,
	}
	outer := &plan.Project{Exprs: []plan.Expr{plan.Col(scan.Cols[0])}, Child: inner}

	_, changed := collapseProjects(outer)
	assert.False(t, changed, "DISTINCT projection must not be merged away")
}

func TestCombineUnions(t *testing.T) {
	a, b, c := testScan("a", "x"), testScan("b", "x"), testScan("c", "x")
	nested := &plan.Union{Branches: []plan.Plan{
		&plan.Union{Branches: []plan.Plan{a, b}},
		c,
	}}

	got, changed := combineUnions(nested)
	require.True(t, changed)
	u := got.(*plan.Union)
	require.Len(t, u.Branches, 3)
	assert.Same(t, a, u.Branches[0])
	assert.Same(t, c, u.Branches[2])
}

func TestInlineProjectIntoAggregate(t *testing.T) {
	scan := testScan("t", "dept", "salary")
	id := plan.NewExprID()
	proj := &plan.Project{
		Exprs: []plan.Expr{
			plan.Col(scan.Cols[0]),
			&plan.Alias{
				Child: &plan.BinaryOp{Op: "*", Left: plan.Col(scan.Cols[1]), Right: &plan.Literal{Value: 2}},
				Name:  "pay", ID: id,
			},
		},
		Child: scan,
	}
	agg := &plan.Aggregate{
		Grouping: []plan.Expr{plan.Col(scan.Cols[0])},
		Aggs: []plan.Expr{&plan.AggFunc{
			Name: "sum",
			Args: []plan.Expr{plan.Col(plan.Attribute{ID: id, Name: "pay"})},
		}},
		Child: proj,
	}

	got, changed := inlineProject(agg)
	require.True(t, changed)
	na := got.(*plan.Aggregate)
	assert.Same(t, scan, na.Child)
	assert.Equal(t, "sum(salary * 2)", na.Aggs[0].String())
}

func TestInlineProjectHoistsAboveSort(t *testing.T) {
	scan := testScan("t", "a")
	id := plan.NewExprID()
	proj := &plan.Project{
		Exprs: []plan.Expr{&plan.Alias{Child: plan.Col(scan.Cols[0]), Name: "x", ID: id}},
		Child: scan,
	}
	sort := &plan.Sort{
		Keys: []plan.Expr{&plan.SortKey{
			Child:     plan.Col(plan.Attribute{ID: id, Name: "x"}),
			Ascending: true,
		}},
		Global: true,
		Child:  proj,
	}

	got, changed := inlineProject(sort)
	require.True(t, changed)

	np, ok := got.(*plan.Project)
	require.True(t, ok, "projection must end up above the sort")
	ns := np.Child.(*plan.Sort)
	assert.Same(t, scan, ns.Child)
	assert.Equal(t, "a ASC", ns.Keys[0].String())
}

func TestDropEmpty(t *testing.T) {
	scan := testScan("t", "a")

	got, changed := dropEmpty(&plan.Project{Exprs: []plan.Expr{}, Child: scan})
	assert.True(t, changed)
	assert.Same(t, plan.Plan(scan), got)

	got, changed = dropEmpty(&plan.Aggregate{Child: scan})
	assert.True(t, changed)
	assert.Same(t, plan.Plan(scan), got)

	// The identity projection has a nil list and is not degenerate.
	star := &plan.Project{Child: scan}
	_, changed = dropEmpty(star)
	assert.False(t, changed)
}

func TestInsertSelectBelowSort(t *testing.T) {
	scan := testScan("t", "a")
	sort := &plan.Sort{
		Keys:   []plan.Expr{&plan.SortKey{Child: plan.Col(scan.Cols[0]), Ascending: true}},
		Global: true,
		Child:  scan,
	}

	got, err := insertSelect(sort)
	require.NoError(t, err)

	ns, ok := got.(*plan.Sort)
	require.True(t, ok, "the sort stays on top so ORDER BY follows the SELECT")
	np, ok := ns.Child.(*plan.Project)
	require.True(t, ok)
	assert.Nil(t, np.Exprs)
	assert.Same(t, scan, np.Child)
}

func TestEmitsSelect(t *testing.T) {
	scan := testScan("t", "a")
	assert.False(t, emitsSelect(scan))
	assert.False(t, emitsSelect(&plan.Filter{Cond: &plan.Literal{Value: true}, Child: scan}))
	assert.True(t, emitsSelect(&plan.Project{Child: scan}))
	assert.True(t, emitsSelect(&plan.Sort{Global: true, Child: &plan.Project{Child: scan}}))
	assert.False(t, emitsSelect(&plan.Join{Left: scan, Right: scan}))
}

func TestCanonicalizeFilterScan(t *testing.T) {
	scan := testScan("employees", "age")
	f := &plan.Filter{
		Cond:  &plan.BinaryOp{Op: ">", Left: plan.Col(scan.Cols[0]), Right: &plan.Literal{Value: 30}},
		Child: scan,
	}

	got, err := Canonicalize(f, NewNamer())
	require.NoError(t, err)

	p, ok := got.(*plan.Project)
	require.True(t, ok, "a bare filter chain must gain a SELECT head")
	assert.Nil(t, p.Exprs)
	_, ok = p.Child.(*plan.Filter)
	assert.True(t, ok)
}

func TestCanonicalizeJoinWrapsRightOperand(t *testing.T) {
	left := remoteScan("A", "id")
	right := remoteScan("B", "id")
	j := &plan.Join{
		Type: plan.InnerJoin,
		Left: left, Right: right,
		Cond: &plan.BinaryOp{Op: "=", Left: plan.Col(left.Cols[0]), Right: plan.Col(right.Cols[0])},
	}

	got, err := Canonicalize(j, NewNamer())
	require.NoError(t, err)

	root := got.(*plan.Project)
	nj := root.Child.(*plan.Join)
	_, ok := nj.Left.(*plan.TableScan)
	assert.True(t, ok, "a named left operand stays bare")
	sub, ok := nj.Right.(*plan.SubqueryAlias)
	require.True(t, ok, "the right operand always becomes a derived table")
	assert.Equal(t, "gen_subquery_0", sub.Alias)

	// Qualifiers survive the rewrite so the condition renders table.column.
	assert.Equal(t, "A.id = B.id", nj.Cond.String())
}

func TestCanonicalizeAggregateAliasesItsSource(t *testing.T) {
	scan := testScan("t", "dept")
	agg := &plan.Aggregate{
		Grouping: []plan.Expr{plan.Col(scan.Cols[0])},
		Aggs:     []plan.Expr{plan.Col(scan.Cols[0])},
		Child:    scan,
	}

	got, err := Canonicalize(agg, NewNamer())
	require.NoError(t, err)

	na := got.(*plan.Aggregate)
	sub, ok := na.Child.(*plan.SubqueryAlias)
	require.True(t, ok)
	assert.Equal(t, "gen_subquery_0", sub.Alias)
	_, ok = sub.Child.(*plan.Project)
	assert.True(t, ok)
}

func TestNormalizeQualifiersClearsLocalNames(t *testing.T) {
	scan := testScan("t", "a") // no remote identity
	f := &plan.Filter{
		Cond: &plan.BinaryOp{
			Op:   ">",
			Left: &plan.AttrRef{Attr: plan.Attribute{ID: scan.Cols[0].ID, Name: "a", Qualifier: "stale"}},
			Right: &plan.Literal{Value: 1},
		},
		Child: scan,
	}

	got := normalizeQualifiers(f)
	assert.Equal(t, "a > 1", got.(*plan.Filter).Cond.String())
}

func TestFinalPlanPreservesNames(t *testing.T) {
	scan := testScan("t", "a")
	id := plan.NewExprID()
	inner := &plan.Project{
		Exprs: []plan.Expr{&plan.Alias{Child: plan.Col(scan.Cols[0]), Name: "x", ID: id}},
		Child: scan,
	}
	outer := &plan.Project{
		Exprs: []plan.Expr{plan.Col(plan.Attribute{ID: id, Name: "x"})},
		Child: inner,
	}

	got, err := FinalPlan(outer, NewNamer())
	require.NoError(t, err)

	out := got.Output()
	require.Len(t, out, 1)
	assert.Equal(t, "x", out[0].Name, "collapsing the projections must not leak the inner name")

	// The restored name comes from an outer re-aliasing projection.
	root := got.(*plan.Project)
	_, ok := root.Child.(*plan.SubqueryAlias)
	assert.True(t, ok)
}

func TestRenameWrapClearsQualifiers(t *testing.T) {
	scan := remoteScan("A", "a")
	canonical := &plan.Project{
		Exprs: []plan.Expr{plan.Col(plan.Attribute{ID: scan.Cols[0].ID, Name: "a", Qualifier: "A"})},
		Child: scan,
	}

	got := renameWrap(canonical, []string{"x"}, NewNamer())
	root := got.(*plan.Project)

	al, ok := root.Exprs[0].(*plan.Alias)
	require.True(t, ok)
	assert.Equal(t, "x", al.Name)
	ref := al.Child.(*plan.AttrRef)
	assert.Empty(t, ref.Attr.Qualifier,
		"the wrapper's references read from the fresh alias, not the source table")
}

func TestFinalPlanNoWrapWhenNamesStable(t *testing.T) {
	scan := testScan("t", "a")
	p := &plan.Project{Exprs: []plan.Expr{plan.Col(scan.Cols[0])}, Child: scan}

	got, err := FinalPlan(p, NewNamer())
	require.NoError(t, err)

	root := got.(*plan.Project)
	_, ok := root.Child.(*plan.TableScan)
	assert.True(t, ok, "stable names take no rename wrapper")
}
