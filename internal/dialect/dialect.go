// Package dialect isolates backend-specific SQL syntax behind a small
// strategy interface.
//
// A Dialect is selected once per target backend (usually through Lookup)
// and is immutable afterwards. It supplies:
//   - positional placeholder syntax
//   - row limiting that composes with an already parameterized statement
//   - the logical select items inside a synthetic composite argument
//
// Backends that can count distinct multi-column tuples additionally
// implement TupleCounter.
package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Dialect is the backend strategy consumed by the query generator and the
// SQL function renderers.
type Dialect interface {
	// Name is the canonical registry name (e.g. "mysql").
	Name() string

	// Placeholder returns the positional parameter marker for the
	// 1-based position.
	Placeholder(position int) string

	// ApplyLimit wraps or extends stmt so it returns at most limit rows
	// starting after offset rows. Either bound may be nil. Parameters the
	// limit clause introduces are appended after stmt.Args; existing
	// arguments keep their positions.
	ApplyLimit(stmt Statement, offset, limit *int64) (Statement, error)

	// SelectItems returns the logical items projected by a single rendered
	// argument. A composite value flattened into one text fragment
	// ("a.x, a.y") yields one item per column.
	SelectItems(arg string) []string
}

// TupleCounter is implemented by dialects that can count distinct
// multi-column tuples.
type TupleCounter interface {
	// CountDistinctTuple returns the count target that follows
	// "count(distinct " for the given items.
	CountDistinctTuple(items []string) string
}

// Statement is SQL text with positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// ErrUnknownDialect is returned by Lookup for unregistered names.
var ErrUnknownDialect = errors.New("unknown dialect")

// LimitError reports an invalid row-limiting request.
type LimitError struct {
	Dialect string
	Message string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Dialect, e.Message)
}

// CountSelectItems returns the number of logical items in arg according
// to d.
func CountSelectItems(d Dialect, arg string) int {
	return len(d.SelectItems(arg))
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Dialect)
	canonical  = make(map[string]bool)
)

func init() {
	Register(MySQL{}, "mariadb")
	Register(PostgreSQL{}, "postgres", "pgx", "pg")
	Register(SQLite{}, "sqlite3")
	Register(SQLServer{}, "mssql", "sqlserver2012")
	Register(Oracle{}, "ora")
}

// Register adds d under its name and the given aliases. Names are
// case-insensitive. Registering a name twice replaces the earlier entry.
func Register(d Dialect, aliases ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := strings.ToLower(d.Name())
	registry[name] = d
	canonical[name] = true
	for _, a := range aliases {
		registry[strings.ToLower(a)] = d
	}
}

// Lookup returns the dialect registered under name or an error wrapping
// ErrUnknownDialect.
func Lookup(name string) (Dialect, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownDialect, name, strings.Join(namesLocked(), ", "))
	}
	return d, nil
}

// Names returns the canonical dialect names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(canonical))
	for n := range canonical {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func checkBounds(dialect string, offset, limit *int64) error {
	if offset != nil && *offset < 0 {
		return &LimitError{Dialect: dialect, Message: fmt.Sprintf("negative offset %d", *offset)}
	}
	if limit != nil && *limit < 0 {
		return &LimitError{Dialect: dialect, Message: fmt.Sprintf("negative limit %d", *limit)}
	}
	return nil
}

// appendArgs returns a new slice with extra after args, never aliasing the
// caller's backing array.
func appendArgs(args []any, extra ...any) []any {
	out := make([]any, 0, len(args)+len(extra))
	out = append(out, args...)
	return append(out, extra...)
}
