package dialect

import (
	"github.com/fedsql/pushdown/plan"
)

type SQLite struct {
	ANSI
}

func NewSQLite() *SQLite {
	return &SQLite{ANSI{QuoteChar: '"'}}
}

func (d *SQLite) Name() string { return "sqlite" }

func (d *SQLite) TypeName(t plan.DataType) string {
	switch t {
	case plan.TypeInt, plan.TypeLong:
		return "INTEGER"
	case plan.TypeFloat, plan.TypeDouble:
		return "REAL"
	case plan.TypeString:
		return "TEXT"
	}
	return d.ANSI.TypeName(t)
}
