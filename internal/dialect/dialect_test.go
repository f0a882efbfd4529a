package dialect

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestApplyLimit(t *testing.T) {
	base := Statement{SQL: "select e.id from employee e where e.dept = ? and e.age > ?", Args: []any{"sales", 30}}

	tests := []struct {
		name    string
		d       Dialect
		offset  *int64
		limit   *int64
		wantSQL string
		want    []any
	}{
		{"mysql both", MySQL{}, ptr(20), ptr(10), base.SQL + " limit ?, ?", []any{"sales", 30, int64(20), int64(10)}},
		{"mysql limit", MySQL{}, nil, ptr(10), base.SQL + " limit ?", []any{"sales", 30, int64(10)}},
		{"mysql offset", MySQL{}, ptr(5), nil, base.SQL + " limit ?, 18446744073709551615", []any{"sales", 30, int64(5)}},
		{"postgresql both", PostgreSQL{}, ptr(20), ptr(10), base.SQL + " limit $3 offset $4", []any{"sales", 30, int64(10), int64(20)}},
		{"postgresql offset", PostgreSQL{}, ptr(20), nil, base.SQL + " offset $3", []any{"sales", 30, int64(20)}},
		{"sqlite both", SQLite{}, ptr(20), ptr(10), base.SQL + " limit ? offset ?", []any{"sales", 30, int64(10), int64(20)}},
		{"sqlite offset", SQLite{}, ptr(20), nil, base.SQL + " limit -1 offset ?", []any{"sales", 30, int64(20)}},
		{"sqlserver both", SQLServer{}, ptr(20), ptr(10), base.SQL + " order by (select 0) offset @p3 rows fetch next @p4 rows only", []any{"sales", 30, int64(20), int64(10)}},
		{"sqlserver limit", SQLServer{}, nil, ptr(10), base.SQL + " order by (select 0) offset 0 rows fetch next @p3 rows only", []any{"sales", 30, int64(10)}},
		{
			"oracle both", Oracle{}, ptr(20), ptr(10),
			"select * from (select row_.*, rownum rownum_ from (" + base.SQL + ") row_ where rownum <= :3) where rownum_ > :4",
			[]any{"sales", 30, int64(30), int64(20)},
		},
		{"oracle limit", Oracle{}, nil, ptr(10), "select * from (" + base.SQL + ") where rownum <= :3", []any{"sales", 30, int64(10)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.d.ApplyLimit(base, tc.offset, tc.limit)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, got.SQL)
			assert.Equal(t, tc.want, got.Args)
		})
	}
}

func TestApplyLimit_NoBoundsIsIdentity(t *testing.T) {
	base := Statement{SQL: "select 1", Args: []any{1}}
	for _, name := range Names() {
		d, err := Lookup(name)
		require.NoError(t, err)
		got, err := d.ApplyLimit(base, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, base, got, name)
	}
}

func TestApplyLimit_DoesNotAliasArgs(t *testing.T) {
	args := make([]any, 1, 8)
	args[0] = "x"
	base := Statement{SQL: "select ?", Args: args}

	a, err := SQLite{}.ApplyLimit(base, nil, ptr(1))
	require.NoError(t, err)
	b, err := SQLite{}.ApplyLimit(base, nil, ptr(2))
	require.NoError(t, err)

	assert.Equal(t, []any{"x", int64(1)}, a.Args)
	assert.Equal(t, []any{"x", int64(2)}, b.Args)
	assert.Len(t, base.Args, 1)
}

func TestApplyLimit_NegativeBounds(t *testing.T) {
	_, err := MySQL{}.ApplyLimit(Statement{SQL: "select 1"}, ptr(-1), nil)
	var le *LimitError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "mysql", le.Dialect)
	assert.EqualError(t, err, "mysql: negative offset -1")

	_, err = PostgreSQL{}.ApplyLimit(Statement{SQL: "select 1"}, nil, ptr(-5))
	assert.EqualError(t, err, "postgresql: negative limit -5")
}

func TestOracle_RownumBoundSaturates(t *testing.T) {
	tests := []struct {
		name   string
		offset int64
		limit  int64
		bound  int64
	}{
		{"small", 20, 10, 30},
		{"offset near max", math.MaxInt64 - 5, 10, math.MaxInt64},
		{"limit near max", 1, math.MaxInt64, math.MaxInt64},
		{"exactly max", math.MaxInt64 - 10, 10, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Oracle{}.ApplyLimit(Statement{SQL: "select 1 from dual"}, ptr(tt.offset), ptr(tt.limit))
			require.NoError(t, err)
			assert.Equal(t, []any{tt.bound, tt.offset}, stmt.Args)
		})
	}
}

func TestSQLServer_KeepsExistingOrderBy(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			"top level",
			"select id from t order by id",
			"select id from t order by id offset 0 rows fetch next @p1 rows only",
		},
		{
			"only in subquery",
			"select id from (select id from t order by id) x",
			"select id from (select id from t order by id) x order by (select 0) offset 0 rows fetch next @p1 rows only",
		},
		{
			"only in string",
			"select id from t where note = 'order by'",
			"select id from t where note = 'order by' order by (select 0) offset 0 rows fetch next @p1 rows only",
		},
		{
			"identifier containing keyword",
			"select reorder by_x from t",
			"select reorder by_x from t order by (select 0) offset 0 rows fetch next @p1 rows only",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SQLServer{}.ApplyLimit(Statement{SQL: tc.sql}, nil, ptr(3))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.SQL)
		})
	}
}

func TestSelectItems(t *testing.T) {
	tests := []struct {
		arg  string
		want []string
	}{
		{"a", []string{"a"}},
		{"a.x, a.y", []string{"a.x", "a.y"}},
		{"coalesce(a, b), c", []string{"coalesce(a, b)", "c"}},
		{"'x, y', z", []string{"'x, y'", "z"}},
		{"'it''s, fine', z", []string{"'it''s, fine'", "z"}},
		{`"col,1", b`, []string{`"col,1"`, "b"}},
		{"a, , b", []string{"a", "b"}},
		{"", nil},
	}

	for _, tc := range tests {
		t.Run(tc.arg, func(t *testing.T) {
			assert.Equal(t, tc.want, MySQL{}.SelectItems(tc.arg))
			assert.Equal(t, len(tc.want), CountSelectItems(SQLite{}, tc.arg))
		})
	}
}

func TestCountDistinctTuple(t *testing.T) {
	items := []string{"a", "b"}

	assert.Equal(t, "a, b", MySQL{}.CountDistinctTuple(items))
	assert.Equal(t, "case when a is null or b is null then null else (a, b) end", PostgreSQL{}.CountDistinctTuple(items))
	assert.Equal(t, "case when a is null or b is null then null else quote(a) || '|' || quote(b) end", SQLite{}.CountDistinctTuple(items))

	var d Dialect = SQLServer{}
	_, ok := d.(TupleCounter)
	assert.False(t, ok)
	d = Oracle{}
	_, ok = d.(TupleCounter)
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	for alias, want := range map[string]string{
		"mysql":      "mysql",
		"MariaDB":    "mysql",
		"postgres":   "postgresql",
		"pgx":        "postgresql",
		" sqlite3 ":  "sqlite",
		"mssql":      "sqlserver",
		"ora":        "oracle",
		"PostgreSQL": "postgresql",
	} {
		d, err := Lookup(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, want, d.Name(), alias)
	}

	_, err := Lookup("db2")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownDialect)
	assert.Contains(t, err.Error(), `"db2"`)
	assert.Contains(t, err.Error(), "mysql, oracle, postgresql, sqlite, sqlserver")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"mysql", "oracle", "postgresql", "sqlite", "sqlserver"}, Names())
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", MySQL{}.Placeholder(3))
	assert.Equal(t, "$3", PostgreSQL{}.Placeholder(3))
	assert.Equal(t, "?", SQLite{}.Placeholder(3))
	assert.Equal(t, "@p3", SQLServer{}.Placeholder(3))
	assert.Equal(t, ":3", Oracle{}.Placeholder(3))
}

func TestBindNamed(t *testing.T) {
	values := map[string]any{"param_1": "sales", "param_2": 30, "since": "2024-01-01"}
	lookup := func(name string) (any, bool) {
		v, ok := values[name]
		return v, ok
	}

	tests := []struct {
		name    string
		d       Dialect
		sql     string
		wantSQL string
		want    []any
	}{
		{
			"postgresql", PostgreSQL{},
			"e.dept = :param_1 and e.age > :param_2",
			"e.dept = $1 and e.age > $2",
			[]any{"sales", 30},
		},
		{
			"repeated name", SQLServer{},
			"a = :since or b = :since",
			"a = @p1 or b = @p2",
			[]any{"2024-01-01", "2024-01-01"},
		},
		{
			"quoted text and casts untouched", MySQL{},
			"a = ':param_1' and b::text = :param_1 and c = :1",
			"a = ':param_1' and b::text = ? and c = :1",
			[]any{"sales"},
		},
		{
			"inside parentheses", Oracle{},
			"f(:param_2, (:param_1))",
			"f(:1, (:2))",
			[]any{30, "sales"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BindNamed(tc.d, tc.sql, lookup)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, got.SQL)
			assert.Equal(t, tc.want, got.Args)
		})
	}

	_, err := BindNamed(MySQL{}, "a = :missing", lookup)
	assert.ErrorIs(t, err, ErrUnboundParameter)
	assert.EqualError(t, err, "unbound parameter :missing")
}
