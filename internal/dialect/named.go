package dialect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnboundParameter is returned by BindNamed for a :name with no value.
var ErrUnboundParameter = errors.New("unbound parameter")

// BindNamed rewrites every :name reference in sql to d's positional
// placeholder and collects the values lookup returns, in order of
// appearance. A name referenced twice is bound twice. References inside
// quoted text and "::" casts are left alone.
func BindNamed(d Dialect, sql string, lookup func(name string) (any, bool)) (Statement, error) {
	var (
		sb    strings.Builder
		args  []any
		last  int
		skip  int
		unerr error
	)
	scanner{sql}.each(func(i, _ int) bool {
		if i < skip || sql[i] != ':' {
			return true
		}
		if i+1 < len(sql) && sql[i+1] == ':' {
			skip = i + 2
			return true
		}
		if i > 0 && sql[i-1] == ':' {
			return true
		}
		j := i + 1
		for j < len(sql) && isWordByte(sql[j]) {
			j++
		}
		if j == i+1 || isDigit(sql[i+1]) {
			return true
		}

		name := sql[i+1 : j]
		v, ok := lookup(name)
		if !ok {
			unerr = fmt.Errorf("%w :%s", ErrUnboundParameter, name)
			return false
		}
		args = append(args, v)
		sb.WriteString(sql[last:i])
		sb.WriteString(d.Placeholder(len(args)))
		last = j
		skip = j
		return true
	})
	if unerr != nil {
		return Statement{}, unerr
	}
	sb.WriteString(sql[last:])
	return Statement{SQL: sb.String(), Args: args}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
