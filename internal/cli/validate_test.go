package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exprdocTestdata = "../exprdoc/testdata"

func TestValidateValidDocument(t *testing.T) {
	out, err := executeCommand(t, NewValidateCommand, &RootOptions{Format: "text"}, seniorsDoc)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All documents valid (1)")
}

func TestValidateValidDirectoryJSON(t *testing.T) {
	// seniors.yaml and seniors.cue; notes.txt is not a document file.
	out, err := executeCommand(t, NewValidateCommand, &RootOptions{Format: "json"}, exprdocTestdata)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Documents)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, err := executeCommand(t, NewValidateCommand, &RootOptions{Format: "text"}, "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005") // ErrCodeNotFound
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, err := executeCommand(t, NewValidateCommand, &RootOptions{Format: "text"}, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E003") // ErrCodeNoFiles
}

func invalidDocsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeDoc(t, dir, "bad.yaml", "expression: {foo: 1}\n")
	writeDoc(t, dir, "broken.yaml", "expression: [unclosed\n")
	writeDoc(t, dir, "good.yaml", "expression: {is_null: e.manager_id}\n")
	writeDoc(t, dir, "unbound.yaml", "expression: {eq: [e.age, {param: age}]}\n")
	return dir
}

func TestValidateCollectsAllErrors(t *testing.T) {
	dir := invalidDocsDir(t)

	out, err := executeCommand(t, NewValidateCommand, &RootOptions{Format: "json"}, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 3 error(s)")

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 3)

	// Load errors come first, then documents in file order.
	assert.Equal(t, filepath.Join(dir, "broken.yaml"), resp.Data.Errors[0].Path)
	assert.Equal(t, ErrCodeFormat, resp.Data.Errors[0].Code)
	assert.Equal(t, filepath.Join(dir, "bad.yaml"), resp.Data.Errors[1].Path)
	assert.Equal(t, ErrCodeInvalidNode, resp.Data.Errors[1].Code)
	assert.Contains(t, resp.Data.Errors[1].Message, `unknown expression kind "foo"`)
	assert.Equal(t, filepath.Join(dir, "unbound.yaml"), resp.Data.Errors[2].Path)
	assert.Equal(t, ErrCodeBindFailed, resp.Data.Errors[2].Code)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeFormat, resp.Error.Code)
}

func TestValidateInvalidText(t *testing.T) {
	dir := invalidDocsDir(t)

	out, err := executeCommand(t, NewValidateCommand, &RootOptions{Format: "text"}, dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, filepath.Join(dir, "unbound.yaml")+"\n  E113: unbound parameter :age")
}

func TestValidateVerboseOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json", Verbose: true})
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{seniorsDoc})

	require.NoError(t, cmd.Execute())

	// Verbose lines stay off stdout so JSON remains parseable.
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Contains(t, errBuf.String(), "Found 1 document file(s)")
	assert.Contains(t, errBuf.String(), "Validating document: "+seniorsDoc)
}
