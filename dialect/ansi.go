package dialect

import (
	"fmt"
	"strings"
	"time"

	"github.com/fedsql/pushdown/plan"
)

// ANSI renders standard SQL and is the base every other dialect embeds.
// Identifiers are quoted only when they need to be, so simple plans come out
// readable.
type ANSI struct {
	QuoteChar byte
}

func NewANSI() *ANSI {
	return &ANSI{QuoteChar: '"'}
}

func (d *ANSI) Name() string { return "ansi" }

var reservedWords = map[string]struct{}{
	"select": {}, "from": {}, "where": {}, "group": {}, "order": {},
	"by": {}, "having": {}, "join": {}, "on": {}, "union": {}, "all": {},
	"distinct": {}, "as": {}, "and": {}, "or": {}, "not": {}, "in": {},
	"exists": {}, "case": {}, "when": {}, "then": {}, "else": {}, "end": {},
	"limit": {}, "table": {}, "user": {}, "desc": {}, "asc": {},
	"null": {}, "true": {}, "false": {}, "between": {}, "like": {},
	"intersect": {}, "into": {}, "values": {},
}

func plainIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if s[0] >= '0' && s[0] <= '9' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			c >= '0' && c <= '9' || c == '_' {
			continue
		}
		return false
	}
	_, reserved := reservedWords[strings.ToLower(s)]
	return !reserved
}

func (d *ANSI) QuoteIdentifier(s string) string {
	if plainIdentifier(s) {
		return s
	}
	q := string(d.QuoteChar)
	return q + strings.ReplaceAll(s, q, q+q) + q
}

func (d *ANSI) Attribute(a plan.Attribute) string {
	if a.Qualifier != "" {
		return d.QuoteIdentifier(a.Qualifier) + "." + d.QuoteIdentifier(a.Name)
	}
	return d.QuoteIdentifier(a.Name)
}

func (d *ANSI) Literal(v *plan.Literal) (string, error) {
	switch val := v.Value.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'", nil
	case bool:
		if val {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%d", val), nil
	case float32, float64:
		return fmt.Sprintf("%v", val), nil
	case time.Time:
		if v.Type == plan.TypeDate {
			return "DATE '" + val.Format("2006-01-02") + "'", nil
		}
		return "TIMESTAMP '" + val.Format("2006-01-02 15:04:05") + "'", nil
	}
	return "", fmt.Errorf("cannot format literal %v (%T)", v.Value, v.Value)
}

func (d *ANSI) TypeName(t plan.DataType) string {
	switch t {
	case plan.TypeBool:
		return "BOOLEAN"
	case plan.TypeInt:
		return "INT"
	case plan.TypeLong:
		return "BIGINT"
	case plan.TypeFloat:
		return "FLOAT"
	case plan.TypeDouble:
		return "DOUBLE"
	case plan.TypeDecimal:
		return "DECIMAL"
	case plan.TypeString:
		return "VARCHAR"
	case plan.TypeDate:
		return "DATE"
	case plan.TypeTimestamp:
		return "TIMESTAMP"
	}
	return strings.ToUpper(t.String())
}

var ansiFunctions = map[string]string{
	"year":   "YEAR",
	"month":  "MONTH",
	"day":    "DAY",
	"hour":   "HOUR",
	"minute": "MINUTE",
	"second": "SECOND",
	"date":   "DATE",
}

func (d *ANSI) FunctionName(canonical string) string {
	if name, ok := ansiFunctions[canonical]; ok {
		return name
	}
	return canonical
}

func (d *ANSI) RelationSQL(t *plan.TableScan) (string, error) {
	if t.Table == "" {
		return "", fmt.Errorf("table scan has no table name")
	}
	if t.Schema != "" {
		return d.QuoteIdentifier(t.Schema) + "." + d.QuoteIdentifier(t.Table), nil
	}
	return d.QuoteIdentifier(t.Table), nil
}

func (d *ANSI) ProjectSQL(distinct bool, exprs []string, from string) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(exprs, ", "))
	if from != "" {
		sb.WriteString(" FROM ")
		sb.WriteString(from)
	}
	return sb.String()
}

func (d *ANSI) JoinSQL(joinType, left, right, cond string) string {
	s := left + " " + joinType + " " + right
	if cond != "" {
		s += " ON " + cond
	}
	return s
}

// SetOpSQL parenthesizes every branch: a branch may carry its own ORDER BY
// or limit clause, which must not leak into the set operation's parse.
func (d *ANSI) SetOpSQL(op string, branches []string) string {
	wrapped := make([]string, len(branches))
	for i, b := range branches {
		wrapped[i] = "(" + b + ")"
	}
	return strings.Join(wrapped, " "+op+" ")
}

func (d *ANSI) SubqueryAliasSQL(alias, child string) string {
	return "(" + child + ") AS " + d.QuoteIdentifier(alias)
}

func (d *ANSI) LimitSQL(child, limit string) string {
	return child + " LIMIT " + limit
}
