package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders outputs in the golden text form:
//
//	-- case (dialect)
//	<sql>
//	args: [<json>, ...]
//
// or, for a failed render, a single "error: <message>" line after the
// header. Blocks are separated by a blank line.
func Snapshot(outputs []Output) ([]byte, error) {
	var buf bytes.Buffer
	for i, o := range outputs {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "-- %s (%s)\n", o.Case, o.Dialect)
		if o.Error != "" {
			fmt.Fprintf(&buf, "error: %s\n", o.Error)
			continue
		}
		args, err := FormatArgs(o.Args)
		if err != nil {
			return nil, fmt.Errorf("%s (%s): %w", o.Case, o.Dialect, err)
		}
		fmt.Fprintf(&buf, "%s\nargs: %s\n", o.SQL, args)
	}
	return buf.Bytes(), nil
}

// FormatArgs renders statement arguments as a bracketed, comma separated
// list of JSON values.
func FormatArgs(args []any) (string, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return "", err
		}
		parts[i] = string(b)
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// Returns error if the scenario cannot be executed.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against the golden
// file named name.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(result.Outputs)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
