package rewrite

import (
	"fmt"

	"github.com/fedsql/pushdown/plan"
)

// FinalPlan canonicalizes the plan and guarantees the result's output column
// names still match the input's, positionally. Canonicalization may smuggle
// synthetic names in through inlining or aliasing; when that happens the
// canonical plan is wrapped in a fresh subquery alias plus an outer
// projection that re-aliases every drifted column back to its captured name.
func FinalPlan(p plan.Plan, nm *Namer) (plan.Plan, error) {
	orig := p.Output()
	names := make([]string, len(orig))
	for i, a := range orig {
		names[i] = a.Name
	}

	canonical, err := Canonicalize(p, nm)
	if err != nil {
		return nil, err
	}

	out := canonical.Output()
	if len(out) != len(names) {
		return nil, fmt.Errorf("canonicalization changed output arity from %d to %d", len(names), len(out))
	}
	for i, a := range out {
		if a.Name != names[i] {
			return renameWrap(canonical, names, nm), nil
		}
	}
	return canonical, nil
}

func renameWrap(canonical plan.Plan, names []string, nm *Namer) plan.Plan {
	sub := &plan.SubqueryAlias{Alias: nm.Subquery(), Child: canonical}

	out := canonical.Output()
	exprs := make([]plan.Expr, len(out))
	for i, a := range out {
		// The outer projection reads from the fresh subquery alias, not from
		// whatever table qualified the column inside it.
		a.Qualifier = ""
		ref := plan.Col(a)
		if a.Name == names[i] {
			exprs[i] = ref
		} else {
			exprs[i] = &plan.Alias{Child: ref, Name: names[i], ID: a.ID}
		}
	}
	return &plan.Project{Exprs: exprs, Child: sub}
}
