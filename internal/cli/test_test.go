package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

func executeTest(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	return executeCommand(t, NewTestCommand, &RootOptions{Format: format}, args...)
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := executeTest(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := executeTest(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := executeTest(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := executeTest(t, "json", t.TempDir())
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTestCommandRunsScenarios(t *testing.T) {
	out, err := executeTest(t, "text", harnessScenarios)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ count_tuple\n")
	assert.Contains(t, out, "✓ filters\n")
	assert.Contains(t, out, "✓ select_list\n")
	assert.Contains(t, out, "Test Summary: 3 passed, 0 failed, 3 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFilterJSON(t *testing.T) {
	out, err := executeTest(t, "json", harnessScenarios, "--filter", "count*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, []ScenarioResult{{Name: "count_tuple", Pass: true}}, resp.Data.Scenarios)
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	goldenDir := filepath.Join(t.TempDir(), "golden")

	out, err := executeTest(t, "text", harnessScenarios, "--filter", "select_list", "--update", "--golden-dir", goldenDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ select_list (golden updated)")

	written, err := os.ReadFile(filepath.Join(goldenDir, "select_list.golden"))
	require.NoError(t, err)
	expected, err := os.ReadFile("../harness/testdata/golden/select_list.golden")
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(written))

	// The fresh golden file is now compared against.
	_, err = executeTest(t, "text", harnessScenarios, "--filter", "select_list", "--golden-dir", goldenDir)
	require.NoError(t, err)
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	goldenDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "filters.golden"), []byte("stale\n"), 0644))

	out, err := executeTest(t, "text", harnessScenarios, "--filter", "filters", "--golden-dir", goldenDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ filters")
	assert.Contains(t, out, "output does not match golden file")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	scenario := `name: wrong
description: "expects the wrong operator"
dialects: [postgresql]
cases:
  - name: ne
    expression:
      ne: [e.age, 3]
    expect:
      sql: "e.age != 3"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(scenario), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [\n"), 0644))

	out, err := executeTest(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 2)

	assert.Equal(t, "broken.yaml", resp.Data.Scenarios[0].Name)
	require.Len(t, resp.Data.Scenarios[0].Errors, 1)
	assert.Contains(t, resp.Data.Scenarios[0].Errors[0], "failed to load scenario")

	assert.Equal(t, "wrong", resp.Data.Scenarios[1].Name)
	require.Len(t, resp.Data.Scenarios[1].Errors, 1)
	assert.Contains(t, resp.Data.Scenarios[1].Errors[0], `Expected: "e.age != 3"`)
	assert.Contains(t, resp.Data.Scenarios[1].Errors[0], `Actual: "e.age <> 3"`)

	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}

func TestTestHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "scenarios")
	assert.Contains(t, output, "--update")
	assert.Contains(t, output, "--filter")
	assert.Contains(t, output, "--golden-dir")
	assert.Contains(t, output, "scenarios-dir")
}

func TestFindScenarioFiles(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test1.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test2.yml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ignore.txt"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFindScenarioFilesWithFilter(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "limit-mysql.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "limit-oracle.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "count-tuple.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "limit-*")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "limit-mysql.yaml"),
		filepath.Join(tmpDir, "limit-oracle.yaml"),
	}, files)

	_, err = findScenarioFiles(tmpDir, "[")
	assert.Error(t, err)
}

func TestFindScenarioFilesSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "subdir")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "root.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(subDir, "sub.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
