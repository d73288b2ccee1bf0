package rewrite

import (
	"github.com/fedsql/pushdown/plan"
)

// maxIterations caps the prepare stage's fixed-point loop.
const maxIterations = 100

type rule struct {
	name  string
	apply func(plan.Plan) (plan.Plan, bool)
}

var prepareRules = []rule{
	{name: "collapse-projects", apply: collapseProjects},
	{name: "combine-unions", apply: combineUnions},
	{name: "inline-project", apply: inlineProject},
	{name: "drop-empty", apply: dropEmpty},
}

func runFixedPoint(p plan.Plan, rules []rule) plan.Plan {
	for i := 0; i < maxIterations; i++ {
		changed := false
		for _, r := range rules {
			np, ch := r.apply(p)
			p = np
			changed = changed || ch
		}
		if !changed {
			break
		}
	}
	return p
}

// Canonicalize rewrites an arbitrary resolved plan into a form the compiler
// can emit with purely local, per-node logic: adjacent operators merged,
// every scope boundary headed by a SELECT-bearing node, derived tables
// wrapped in unique aliases and attribute qualifiers recomputed.
func Canonicalize(p plan.Plan, nm *Namer) (plan.Plan, error) {
	p = runFixedPoint(p, prepareRules)

	p, err := addProject(p)
	if err != nil {
		return nil, err
	}
	if !emitsSelect(p) {
		if p, err = insertSelect(p); err != nil {
			return nil, err
		}
	}

	p = addSubqueryAlias(p, nm)
	return normalizeQualifiers(p), nil
}
