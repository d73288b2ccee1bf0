package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLiteralString(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		lit  *Literal
		want string
	}{
		{&Literal{Value: nil}, "NULL"},
		{&Literal{Value: "it's"}, "'it''s'"},
		{&Literal{Value: true}, "TRUE"},
		{&Literal{Value: false}, "FALSE"},
		{&Literal{Value: 42}, "42"},
		{&Literal{Value: 3.5}, "3.5"},
		{&Literal{Value: ts, Type: TypeDate}, "DATE '2024-03-15'"},
		{&Literal{Value: ts, Type: TypeTimestamp}, "TIMESTAMP '2024-03-15 10:30:00'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.lit.String())
	}
}

func TestExprString(t *testing.T) {
	age := Col(Attribute{ID: NewExprID(), Name: "age"})
	name := Col(Attribute{ID: NewExprID(), Name: "name", Qualifier: "users"})

	tests := []struct {
		expr Expr
		want string
	}{
		{age, "age"},
		{name, "users.name"},
		{&BinaryOp{Op: ">", Left: age, Right: &Literal{Value: 30}}, "age > 30"},
		{&Not{Child: age}, "(NOT age)"},
		{&Alias{Child: age, Name: "years"}, "age AS years"},
		{&In{Value: age, List: []Expr{&Literal{Value: 1}, &Literal{Value: 2}}}, "(age IN (1, 2))"},
		{&InSet{Value: age, Values: []interface{}{1, 2}}, "(age IN (1, 2))"},
		{&Coalesce{Args: []Expr{age, &Literal{Value: 0}}}, "coalesce(age, 0)"},
		{&Cast{Child: age, Target: TypeString}, "CAST(age AS string)"},
		{&Cast{Child: age, Target: TypeArray}, "age"},
		{&DatePart{Part: "year", Child: age}, "year(age)"},
		{&SortKey{Child: age, Ascending: true}, "age ASC"},
		{&SortKey{Child: age, Ascending: false}, "age DESC"},
		{&UnscaledValue{Child: age}, "age"},
		{&CheckOverflow{Child: age}, "age"},
		{&AggFunc{Name: "sum", Args: []Expr{age}}, "sum(age)"},
		{&AggFunc{Name: "count", Distinct: true, Args: []Expr{age}}, "count(DISTINCT age)"},
		{
			&If{Cond: &BinaryOp{Op: "=", Left: age, Right: &Literal{Value: 1}}, Then: &Literal{Value: "a"}, Else: &Literal{Value: "b"}},
			"CASE WHEN age = 1 THEN 'a' ELSE 'b' END",
		},
		{&LikePattern{Kind: LikeStartsWith, Left: name, Pattern: &Literal{Value: "ab"}}, "STARTS_WITH(users.name, 'ab')"},
		{&LikePattern{Kind: LikeContains, Left: name, Pattern: &Literal{Value: "ab"}}, "CONTAINS(users.name, 'ab')"},
		{&Raw{SQL: "1 + 1"}, "1 + 1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.expr.String())
	}
}

func TestOutputAttr(t *testing.T) {
	id := NewExprID()
	a := Attribute{ID: id, Name: "age", Qualifier: "t", Type: TypeInt}

	out := OutputAttr(Col(a))
	assert.Equal(t, a, out)

	out = OutputAttr(&Alias{Child: Col(a), Name: "years", ID: id})
	assert.Equal(t, id, out.ID)
	assert.Equal(t, "years", out.Name)
	assert.Equal(t, TypeInt, out.Type, "renaming keeps the column's type")

	out = OutputAttr(&BinaryOp{Op: "+", Left: Col(a), Right: &Literal{Value: 1}})
	assert.Equal(t, "age + 1", out.Name)
	assert.Zero(t, out.ID)
}

func TestNewExprIDUnique(t *testing.T) {
	seen := map[ExprID]bool{}
	for i := 0; i < 100; i++ {
		id := NewExprID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
