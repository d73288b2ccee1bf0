package dialect

import (
	"github.com/fedsql/pushdown/plan"
)

type Postgres struct {
	ANSI
}

func NewPostgres() *Postgres {
	return &Postgres{ANSI{QuoteChar: '"'}}
}

func (d *Postgres) Name() string { return "postgres" }

func (d *Postgres) TypeName(t plan.DataType) string {
	switch t {
	case plan.TypeDouble:
		return "DOUBLE PRECISION"
	case plan.TypeString:
		return "TEXT"
	}
	return d.ANSI.TypeName(t)
}
