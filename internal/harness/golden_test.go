package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios renders every scenario under testdata/scenarios and
// compares it with its golden file.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -run TestScenarios -update
func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "expectation failures: %v", result.Errors)
		})
	}
}

func TestSnapshot(t *testing.T) {
	data, err := Snapshot([]Output{
		{Case: "a", Dialect: "mysql", SQL: "x = ?", Args: []any{"o'k", int64(1), true}},
		{Case: "a", Dialect: "oracle", Error: "boom"},
		{Case: "b", Dialect: "sqlite", SQL: "y"},
		{Case: "c", Dialect: "sqlite", SQL: "d = ?", Args: []any{time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)}},
	})
	require.NoError(t, err)

	want := `-- a (mysql)
x = ?
args: ["o'k", 1, true]

-- a (oracle)
error: boom

-- b (sqlite)
y
args: []

-- c (sqlite)
d = ?
args: ["2024-03-05T00:00:00Z"]
`
	assert.Equal(t, want, string(data))
}

func TestSnapshot_UnencodableArg(t *testing.T) {
	_, err := Snapshot([]Output{{Case: "a", Dialect: "mysql", Args: []any{make(chan int)}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a (mysql)")
}
