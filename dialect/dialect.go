package dialect

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/fedsql/pushdown/plan"
)

// Dialect supplies everything about SQL text that varies per target
// database: identifier quoting, attribute and literal spelling, clause
// assembly and function names. The compiler holds no compiled-in assumptions
// about any specific database's syntax.
type Dialect interface {
	Name() string

	QuoteIdentifier(s string) string
	Attribute(a plan.Attribute) string
	Literal(v *plan.Literal) (string, error)
	TypeName(t plan.DataType) string
	FunctionName(canonical string) string

	RelationSQL(t *plan.TableScan) (string, error)
	ProjectSQL(distinct bool, exprs []string, from string) string
	JoinSQL(joinType, left, right, cond string) string
	SetOpSQL(op string, branches []string) string
	SubqueryAliasSQL(alias, child string) string
	LimitSQL(child, limit string) string
}

var fold = cases.Fold()

// ForName returns the dialect registered under the given database type name,
// compared case-insensitively. An empty name selects the ANSI dialect.
func ForName(name string) (Dialect, error) {
	switch fold.String(name) {
	case "", "ansi":
		return NewANSI(), nil
	case "postgres", "postgresql":
		return NewPostgres(), nil
	case "mysql", "mariadb":
		return NewMySQL(), nil
	case "sqlite":
		return NewSQLite(), nil
	case "oracle":
		return NewOracle(), nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}
