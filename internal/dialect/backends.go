package dialect

import (
	"math"
	"strconv"
	"strings"
)

// mysqlMaxRows stands in for "no limit" when MySQL needs an offset
// without a row count.
const mysqlMaxRows = "18446744073709551615"

// MySQL renders LIMIT offset, count and counts distinct tuples natively.
type MySQL struct{}

func (MySQL) Name() string                    { return "mysql" }
func (MySQL) Placeholder(int) string          { return "?" }
func (MySQL) SelectItems(arg string) []string { return splitSelectItems(arg) }

func (d MySQL) ApplyLimit(stmt Statement, offset, limit *int64) (Statement, error) {
	if err := checkBounds(d.Name(), offset, limit); err != nil {
		return Statement{}, err
	}
	switch {
	case offset == nil && limit == nil:
		return stmt, nil
	case offset == nil:
		return Statement{SQL: stmt.SQL + " limit ?", Args: appendArgs(stmt.Args, *limit)}, nil
	case limit == nil:
		return Statement{SQL: stmt.SQL + " limit ?, " + mysqlMaxRows, Args: appendArgs(stmt.Args, *offset)}, nil
	default:
		return Statement{SQL: stmt.SQL + " limit ?, ?", Args: appendArgs(stmt.Args, *offset, *limit)}, nil
	}
}

// CountDistinctTuple uses MySQL's multi-argument COUNT(DISTINCT a, b),
// which already skips rows where any argument is null.
func (MySQL) CountDistinctTuple(items []string) string {
	return strings.Join(items, ", ")
}

// PostgreSQL renders LIMIT $n OFFSET $m with numbered placeholders.
type PostgreSQL struct{}

func (PostgreSQL) Name() string                    { return "postgresql" }
func (PostgreSQL) Placeholder(position int) string { return "$" + strconv.Itoa(position) }
func (PostgreSQL) SelectItems(arg string) []string { return splitSelectItems(arg) }

func (d PostgreSQL) ApplyLimit(stmt Statement, offset, limit *int64) (Statement, error) {
	if err := checkBounds(d.Name(), offset, limit); err != nil {
		return Statement{}, err
	}
	next := len(stmt.Args) + 1
	switch {
	case offset == nil && limit == nil:
		return stmt, nil
	case offset == nil:
		return Statement{SQL: stmt.SQL + " limit " + d.Placeholder(next), Args: appendArgs(stmt.Args, *limit)}, nil
	case limit == nil:
		return Statement{SQL: stmt.SQL + " offset " + d.Placeholder(next), Args: appendArgs(stmt.Args, *offset)}, nil
	default:
		sql := stmt.SQL + " limit " + d.Placeholder(next) + " offset " + d.Placeholder(next+1)
		return Statement{SQL: sql, Args: appendArgs(stmt.Args, *limit, *offset)}, nil
	}
}

// CountDistinctTuple counts a row constructor, guarded so a tuple with a
// null component is skipped like a null single column would be.
func (PostgreSQL) CountDistinctTuple(items []string) string {
	return nullGuard(items) + "(" + strings.Join(items, ", ") + ") end"
}

// SQLite renders LIMIT ? OFFSET ?.
type SQLite struct{}

func (SQLite) Name() string                    { return "sqlite" }
func (SQLite) Placeholder(int) string          { return "?" }
func (SQLite) SelectItems(arg string) []string { return splitSelectItems(arg) }

func (d SQLite) ApplyLimit(stmt Statement, offset, limit *int64) (Statement, error) {
	if err := checkBounds(d.Name(), offset, limit); err != nil {
		return Statement{}, err
	}
	switch {
	case offset == nil && limit == nil:
		return stmt, nil
	case offset == nil:
		return Statement{SQL: stmt.SQL + " limit ?", Args: appendArgs(stmt.Args, *limit)}, nil
	case limit == nil:
		return Statement{SQL: stmt.SQL + " limit -1 offset ?", Args: appendArgs(stmt.Args, *offset)}, nil
	default:
		return Statement{SQL: stmt.SQL + " limit ? offset ?", Args: appendArgs(stmt.Args, *limit, *offset)}, nil
	}
}

// CountDistinctTuple concatenates quote() of each item. quote() renders
// each value as an SQL literal, so the '|' separator cannot collide with
// the values themselves.
func (SQLite) CountDistinctTuple(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "quote(" + it + ")"
	}
	return nullGuard(items) + strings.Join(quoted, " || '|' || ") + " end"
}

// SQLServer renders OFFSET ... ROWS FETCH NEXT ... ROWS ONLY, which needs
// an ORDER BY; one is added when the statement has none.
type SQLServer struct{}

func (SQLServer) Name() string                    { return "sqlserver" }
func (SQLServer) Placeholder(position int) string { return "@p" + strconv.Itoa(position) }
func (SQLServer) SelectItems(arg string) []string { return splitSelectItems(arg) }

func (d SQLServer) ApplyLimit(stmt Statement, offset, limit *int64) (Statement, error) {
	if err := checkBounds(d.Name(), offset, limit); err != nil {
		return Statement{}, err
	}
	if offset == nil && limit == nil {
		return stmt, nil
	}

	sql := stmt.SQL
	if !hasTopLevelKeyword(sql, "order by") {
		sql += " order by (select 0)"
	}
	next := len(stmt.Args) + 1
	args := stmt.Args
	if offset == nil {
		sql += " offset 0 rows"
	} else {
		sql += " offset " + d.Placeholder(next) + " rows"
		args = appendArgs(args, *offset)
		next++
	}
	if limit != nil {
		sql += " fetch next " + d.Placeholder(next) + " rows only"
		args = appendArgs(args, *limit)
	}
	return Statement{SQL: sql, Args: args}, nil
}

// Oracle wraps the statement and filters on ROWNUM.
type Oracle struct{}

func (Oracle) Name() string                    { return "oracle" }
func (Oracle) Placeholder(position int) string { return ":" + strconv.Itoa(position) }
func (Oracle) SelectItems(arg string) []string { return splitSelectItems(arg) }

func (d Oracle) ApplyLimit(stmt Statement, offset, limit *int64) (Statement, error) {
	if err := checkBounds(d.Name(), offset, limit); err != nil {
		return Statement{}, err
	}
	next := len(stmt.Args) + 1
	switch {
	case offset == nil && limit == nil:
		return stmt, nil
	case offset == nil:
		sql := "select * from (" + stmt.SQL + ") where rownum <= " + d.Placeholder(next)
		return Statement{SQL: sql, Args: appendArgs(stmt.Args, *limit)}, nil
	case limit == nil:
		sql := "select * from (select row_.*, rownum rownum_ from (" + stmt.SQL + ") row_) where rownum_ > " + d.Placeholder(next)
		return Statement{SQL: sql, Args: appendArgs(stmt.Args, *offset)}, nil
	default:
		sql := "select * from (select row_.*, rownum rownum_ from (" + stmt.SQL + ") row_ where rownum <= " +
			d.Placeholder(next) + ") where rownum_ > " + d.Placeholder(next+1)
		return Statement{SQL: sql, Args: appendArgs(stmt.Args, rownumBound(*offset, *limit), *offset)}, nil
	}
}

// rownumBound is offset+limit, saturated at math.MaxInt64.
func rownumBound(offset, limit int64) int64 {
	if limit > math.MaxInt64-offset {
		return math.MaxInt64
	}
	return offset + limit
}

// nullGuard returns "case when a is null or b is null then null else ".
func nullGuard(items []string) string {
	var sb strings.Builder
	sb.WriteString("case when ")
	for i, it := range items {
		if i > 0 {
			sb.WriteString(" or ")
		}
		sb.WriteString(it)
		sb.WriteString(" is null")
	}
	sb.WriteString(" then null else ")
	return sb.String()
}
