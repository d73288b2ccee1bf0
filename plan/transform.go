package plan

// WithChildren copies p with its children replaced in order. The caller must
// pass exactly as many children as the node has.
func WithChildren(p Plan, children []Plan) Plan {
	switch n := p.(type) {
	case *TableScan, *EmptyRelation:
		return p
	case *Filter:
		return &Filter{Cond: n.Cond, Child: children[0]}
	case *Project:
		return &Project{Exprs: n.Exprs, Distinct: n.Distinct, Child: children[0]}
	case *Aggregate:
		return &Aggregate{Grouping: n.Grouping, Aggs: n.Aggs, Child: children[0]}
	case *Window:
		return &Window{WindowExprs: n.WindowExprs, Child: children[0]}
	case *Sort:
		return &Sort{Keys: n.Keys, Global: n.Global, Child: children[0]}
	case *LocalLimit:
		return &LocalLimit{Limit: n.Limit, Child: children[0]}
	case *GlobalLimit:
		return &GlobalLimit{Limit: n.Limit, Child: children[0]}
	case *Join:
		return &Join{Type: n.Type, Left: children[0], Right: children[1], Cond: n.Cond}
	case *Union:
		return &Union{Branches: children}
	case *Intersect:
		return &Intersect{Left: children[0], Right: children[1]}
	case *SubqueryAlias:
		return &SubqueryAlias{Alias: n.Alias, Child: children[0]}
	}
	return p
}

// TransformUp rebuilds the tree bottom-up, applying f to every node after its
// children have been rewritten. It reports whether any node changed.
func TransformUp(p Plan, f func(Plan) (Plan, bool)) (Plan, bool) {
	changed := false

	old := p.Children()
	if len(old) > 0 {
		children := make([]Plan, len(old))
		childChanged := false
		for i, c := range old {
			nc, ch := TransformUp(c, f)
			children[i] = nc
			childChanged = childChanged || ch
		}
		if childChanged {
			p = WithChildren(p, children)
			changed = true
		}
	}

	np, ch := f(p)
	return np, changed || ch
}

// MapExprs copies p with every expression it owns passed through f. Child
// plans are left alone.
func MapExprs(p Plan, f func(Expr) Expr) Plan {
	mapAll := func(exprs []Expr) []Expr {
		if exprs == nil {
			return nil
		}
		out := make([]Expr, len(exprs))
		for i, e := range exprs {
			out[i] = f(e)
		}
		return out
	}

	switch n := p.(type) {
	case *Filter:
		return &Filter{Cond: f(n.Cond), Child: n.Child}
	case *Project:
		return &Project{Exprs: mapAll(n.Exprs), Distinct: n.Distinct, Child: n.Child}
	case *Aggregate:
		return &Aggregate{Grouping: mapAll(n.Grouping), Aggs: mapAll(n.Aggs), Child: n.Child}
	case *Window:
		return &Window{WindowExprs: mapAll(n.WindowExprs), Child: n.Child}
	case *Sort:
		return &Sort{Keys: mapAll(n.Keys), Global: n.Global, Child: n.Child}
	case *LocalLimit:
		return &LocalLimit{Limit: f(n.Limit), Child: n.Child}
	case *GlobalLimit:
		return &GlobalLimit{Limit: f(n.Limit), Child: n.Child}
	case *Join:
		if n.Cond == nil {
			return p
		}
		return &Join{Type: n.Type, Left: n.Left, Right: n.Right, Cond: f(n.Cond)}
	default:
		return p
	}
}

// TransformExpr rebuilds an expression tree bottom-up, applying f to every
// node after its children have been rewritten. Plans nested inside subquery
// expressions are not descended into; they are rewritten when their own
// compilation runs.
func TransformExpr(e Expr, f func(Expr) Expr) Expr {
	if e == nil {
		return nil
	}

	all := func(exprs []Expr) []Expr {
		out := make([]Expr, len(exprs))
		for i, c := range exprs {
			out[i] = TransformExpr(c, f)
		}
		return out
	}

	switch v := e.(type) {
	case *Alias:
		e = &Alias{Child: TransformExpr(v.Child, f), Name: v.Name, ID: v.ID, Qualifier: v.Qualifier}
	case *BinaryOp:
		e = &BinaryOp{Op: v.Op, Left: TransformExpr(v.Left, f), Right: TransformExpr(v.Right, f)}
	case *Not:
		e = &Not{Child: TransformExpr(v.Child, f)}
	case *In:
		e = &In{Value: TransformExpr(v.Value, f), List: all(v.List)}
	case *InSet:
		e = &InSet{Value: TransformExpr(v.Value, f), Values: v.Values}
	case *If:
		e = &If{Cond: TransformExpr(v.Cond, f), Then: TransformExpr(v.Then, f), Else: TransformExpr(v.Else, f)}
	case *CaseWhen:
		branches := make([]CaseBranch, len(v.Branches))
		for i, b := range v.Branches {
			branches[i] = CaseBranch{When: TransformExpr(b.When, f), Then: TransformExpr(b.Then, f)}
		}
		e = &CaseWhen{Branches: branches, Else: TransformExpr(v.Else, f)}
	case *Coalesce:
		e = &Coalesce{Args: all(v.Args)}
	case *Cast:
		e = &Cast{Child: TransformExpr(v.Child, f), Target: v.Target}
	case *FieldAccess:
		e = &FieldAccess{Child: TransformExpr(v.Child, f), Field: v.Field}
	case *DatePart:
		e = &DatePart{Part: v.Part, Child: TransformExpr(v.Child, f)}
	case *LikePattern:
		e = &LikePattern{Kind: v.Kind, Left: TransformExpr(v.Left, f), Pattern: TransformExpr(v.Pattern, f)}
	case *AggFunc:
		e = &AggFunc{Name: v.Name, Distinct: v.Distinct, Args: all(v.Args)}
	case *WindowFunc:
		e = &WindowFunc{Fn: TransformExpr(v.Fn, f), PartitionBy: all(v.PartitionBy), OrderBy: all(v.OrderBy)}
	case *SortKey:
		e = &SortKey{Child: TransformExpr(v.Child, f), Ascending: v.Ascending, NullsFirst: v.NullsFirst}
	case *UnscaledValue:
		e = &UnscaledValue{Child: TransformExpr(v.Child, f)}
	case *CheckOverflow:
		e = &CheckOverflow{Child: TransformExpr(v.Child, f)}
	case *InSubquery:
		e = &InSubquery{Value: TransformExpr(v.Value, f), Plan: v.Plan}
	}

	return f(e)
}
