package rewrite

import "strconv"

// Namer hands out subquery alias names unique within one compilation. It is
// not safe for concurrent use; every compilation owns its own instance.
type Namer struct {
	n int
}

func NewNamer() *Namer {
	return &Namer{}
}

func (nm *Namer) Subquery() string {
	name := "gen_subquery_" + strconv.Itoa(nm.n)
	nm.n++
	return name
}
