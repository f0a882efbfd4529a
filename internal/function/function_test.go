package function

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/testutil"
)

func render(t *testing.T, f Function, args ...string) (string, error) {
	t.Helper()
	ctx := NewRenderContext(args...)
	if err := f.Render(ctx); err != nil {
		return "", err
	}
	return ctx.String(), nil
}

func TestCountTuple(t *testing.T) {
	tests := []struct {
		name string
		d    dialect.Dialect
		args []string
		want string
	}{
		{"single", dialect.MySQL{}, []string{"a"}, "count(a)"},
		{"single distinct", dialect.MySQL{}, []string{"'DISTINCT'", "a"}, "count(distinct a)"},
		{"lower-case qualifier", dialect.MySQL{}, []string{"'distinct'", "a"}, "count(distinct a)"},
		{"distinct tuple", dialect.MySQL{}, []string{"'DISTINCT'", "a", "b"}, "count(distinct a, b)"},
		{"tuple", dialect.MySQL{}, []string{"a", "b"}, "count(case when a is null or b is null then null else 1 end)"},
		{"three", dialect.Oracle{}, []string{"a", "b", "c"}, "count(case when a is null or b is null or c is null then null else 1 end)"},
		{"flattened composite", dialect.MySQL{}, []string{"e.id.x, e.id.y"}, "count(case when e.id.x is null or e.id.y is null then null else 1 end)"},
		{"flattened composite distinct", dialect.MySQL{}, []string{"'DISTINCT'", "e.id.x, e.id.y", "c"}, "count(distinct e.id.x, e.id.y, c)"},
		{"function argument is one item", dialect.MySQL{}, []string{"coalesce(a, b)"}, "count(coalesce(a, b))"},
		{"unquoted distinct is a value", dialect.MySQL{}, []string{"DISTINCT"}, "count(DISTINCT)"},
		{
			"postgresql distinct tuple", dialect.PostgreSQL{}, []string{"'DISTINCT'", "a", "b"},
			"count(distinct case when a is null or b is null then null else (a, b) end)",
		},
		{
			"sqlite distinct tuple", dialect.SQLite{}, []string{"'DISTINCT'", "a", "b"},
			"count(distinct case when a is null or b is null then null else quote(a) || '|' || quote(b) end)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := render(t, CountTuple{Dialect: tc.d}, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCountTuple_Errors(t *testing.T) {
	f := CountTuple{Dialect: dialect.MySQL{}}

	_, err := render(t, f)
	assert.ErrorIs(t, err, ErrNoArguments)
	assert.EqualError(t, err, "count_tuple: needs at least one argument")

	_, err = render(t, f, "'DISTINCT'")
	assert.ErrorIs(t, err, ErrNothingToCount)
	assert.EqualError(t, err, "count_tuple: needs at least one expression to count (args='DISTINCT')")

	_, err = render(t, f, "'DISTINCT'", " ")
	assert.ErrorIs(t, err, ErrNothingToCount)
}

func TestCountTuple_MissingTupleCounter(t *testing.T) {
	f := CountTuple{Dialect: dialect.SQLServer{}}

	got, err := render(t, f, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "count(case when a is null or b is null then null else 1 end)", got)

	_, err = render(t, f, "'DISTINCT'", "a", "b")
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.EqualError(t, err, "count_tuple: distinct multi-column count is not supported by dialect sqlserver")
}

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(dialect.SQLServer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"count_tuple"}, r.Names())
	assert.Equal(t, "sqlserver", r.Dialect().Name())

	_, err = NewRegistry(dialect.SQLServer{}, StrictTupleCount())
	assert.True(t, IsUnsupported(err))

	_, err = NewRegistry(dialect.Oracle{}, StrictTupleCount())
	assert.True(t, IsUnsupported(err))

	_, err = NewRegistry(dialect.PostgreSQL{}, StrictTupleCount())
	assert.NoError(t, err)

	_, err = NewRegistry(nil)
	assert.EqualError(t, err, "function registry: nil dialect")
}

func TestRegistry_Render(t *testing.T) {
	r, err := NewRegistry(dialect.MySQL{},
		WithFunction(Template{FuncName: "Year", Pattern: "extract(year from ?1)"}),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"count_tuple", "year"}, r.Names())

	got, err := r.Render("COUNT_TUPLE", "'DISTINCT'", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "count(distinct a, b)", got)

	got, err = r.Render("year", "e.hired")
	require.NoError(t, err)
	assert.Equal(t, "extract(year from e.hired)", got)

	_, err = r.Render("nope")
	assert.EqualError(t, err, `unknown function "nope"`)

	var nilRegistry *Registry
	_, ok := nilRegistry.Lookup("count_tuple")
	assert.False(t, ok)
}

func TestTemplate(t *testing.T) {
	tests := []struct {
		pattern string
		args    []string
		want    string
	}{
		{"coalesce(?1, ?2)", []string{"a", "b"}, "coalesce(a, b)"},
		{"?2 - ?1", []string{"a", "b"}, "b - a"},
		{"?1 || '?' || ?1", []string{"x"}, "x || '?' || x"},
		{"now()", nil, "now()"},
		{"f(?10)", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "ten"}, "f(ten)"},
	}

	for _, tc := range tests {
		t.Run(tc.pattern, func(t *testing.T) {
			got, err := render(t, Template{FuncName: "t", Pattern: tc.pattern}, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := render(t, Template{FuncName: "t", Pattern: "f(?2)"}, "a")
	assert.EqualError(t, err, "t: pattern references argument ?2 but 1 given")
}

// The rendered counts must agree with SQLite's own null-skipping COUNT.
func TestCountTuple_ExecutesOnSQLite(t *testing.T) {
	db := testutil.OpenSQLite(t, testutil.EmployeeSchema)
	f := CountTuple{Dialect: dialect.SQLite{}}

	tests := []struct {
		name string
		args []string
		want int64
	}{
		{"single column skips nulls", []string{"dept"}, 7},
		{"tuple skips rows with any null", []string{"dept", "manager_id"}, 6},
		{"flattened tuple", []string{"dept, manager_id"}, 6},
		{"distinct single", []string{"'DISTINCT'", "dept"}, 2},
		{"distinct tuple", []string{"'DISTINCT'", "dept", "manager_id"}, 3},
		{"distinct tuple of three", []string{"'DISTINCT'", "dept", "manager_id", "age"}, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := render(t, f, tc.args...)
			require.NoError(t, err)
			got := testutil.QueryInt64(t, db, "select "+expr+" from employee")
			assert.Equal(t, tc.want, got, expr)
		})
	}
}
