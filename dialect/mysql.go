package dialect

import (
	"strings"

	"github.com/fedsql/pushdown/plan"
)

type MySQL struct {
	ANSI
}

func NewMySQL() *MySQL {
	return &MySQL{ANSI{QuoteChar: '`'}}
}

func (d *MySQL) Name() string { return "mysql" }

func (d *MySQL) Literal(v *plan.Literal) (string, error) {
	if s, ok := v.Value.(string); ok {
		s = strings.ReplaceAll(s, `\`, `\\`)
		return "'" + strings.ReplaceAll(s, "'", "''") + "'", nil
	}
	return d.ANSI.Literal(v)
}

func (d *MySQL) TypeName(t plan.DataType) string {
	switch t {
	case plan.TypeInt:
		return "SIGNED"
	case plan.TypeLong:
		return "SIGNED"
	case plan.TypeString:
		return "CHAR"
	}
	return d.ANSI.TypeName(t)
}
