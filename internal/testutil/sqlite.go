// Package testutil provides helpers for executing rendered SQL in tests.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// EmployeeSchema is a small fixture used by execution tests. The rows
// contain nulls in both dept and manager_id so null-skipping behaviour is
// observable.
const EmployeeSchema = `
CREATE TABLE employee (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	dept       TEXT,
	manager_id INTEGER,
	age        INTEGER NOT NULL
);
INSERT INTO employee (id, name, dept, manager_id, age) VALUES
	(1, 'ada',     'eng',   NULL, 36),
	(2, 'brian',   'eng',   1,    29),
	(3, 'carla',   'eng',   1,    41),
	(4, 'dmitri',  'sales', 1,    29),
	(5, 'eve',     'sales', 4,    52),
	(6, 'farid',   NULL,    4,    33),
	(7, 'grace',   'sales', 4,    29),
	(8, 'hiro',    'eng',   1,    29);
`

// OpenSQLite opens a private in-memory SQLite database and applies the
// given schema statements. The database is closed when the test ends.
//
// The pool is limited to one connection: every new connection to
// ":memory:" would otherwise see its own empty database.
func OpenSQLite(t testing.TB, schema ...string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err, "open sqlite")
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Ping(), "ping sqlite")
	for _, stmt := range schema {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "apply schema")
	}
	return db
}

// QueryInt64 runs a query returning a single integer.
func QueryInt64(t testing.TB, db *sql.DB, query string, args ...any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.QueryRow(query, args...).Scan(&n), "query: %s", query)
	return n
}

// QueryInt64s runs a query and returns its first column as integers, in
// row order.
func QueryInt64s(t testing.TB, db *sql.DB, query string, args ...any) []int64 {
	t.Helper()

	rows, err := db.Query(query, args...)
	require.NoError(t, err, "query: %s", query)
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var n int64
		require.NoError(t, rows.Scan(&n))
		out = append(out, n)
	}
	require.NoError(t, rows.Err())
	return out
}
