package dialect

import (
	"github.com/fedsql/pushdown/plan"
)

type Oracle struct {
	ANSI
}

func NewOracle() *Oracle {
	return &Oracle{ANSI{QuoteChar: '"'}}
}

func (d *Oracle) Name() string { return "oracle" }

// Oracle has no LIMIT clause; the limited query is nested under a ROWNUM
// filter. Oracle allows an inline view without an alias, so no name is
// needed here.
func (d *Oracle) LimitSQL(child, limit string) string {
	return "SELECT * FROM (" + child + ") WHERE ROWNUM <= " + limit
}

func (d *Oracle) TypeName(t plan.DataType) string {
	switch t {
	case plan.TypeInt, plan.TypeLong:
		return "NUMBER"
	case plan.TypeString:
		return "VARCHAR2(4000)"
	case plan.TypeDouble:
		return "BINARY_DOUBLE"
	}
	return d.ANSI.TypeName(t)
}
