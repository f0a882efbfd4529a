package querygen

import (
	"fmt"
	"strings"
)

// Clause is the query position an expression is rendered for. It decides
// whether literals are inlined or bound.
type Clause int

const (
	ClauseSelect Clause = iota
	ClauseWhere
	ClauseHaving
	ClauseGroupBy
	ClauseOrderBy
	ClauseJoinOn
	ClauseSet
)

var clauseNames = [...]string{
	ClauseSelect:  "select",
	ClauseWhere:   "where",
	ClauseHaving:  "having",
	ClauseGroupBy: "group by",
	ClauseOrderBy: "order by",
	ClauseJoinOn:  "join on",
	ClauseSet:     "set",
}

func (c Clause) String() string {
	if int(c) < 0 || int(c) >= len(clauseNames) {
		return fmt.Sprintf("Clause(%d)", int(c))
	}
	return clauseNames[c]
}

// ParseClause maps a clause name to its Clause. Underscores and hyphens
// may stand in for the space ("group_by").
func ParseClause(name string) (Clause, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", " ", "-", " ").Replace(n)
	for i, cn := range clauseNames {
		if cn == n {
			return Clause(i), nil
		}
	}
	return 0, fmt.Errorf("unknown clause %q", name)
}

// inlinesAll reports whether every literal is written as text in c.
// Some backends reject parameters in the select list.
func (c Clause) inlinesAll() bool {
	return c == ClauseSelect
}
