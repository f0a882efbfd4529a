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

const seniorsDoc = "../exprdoc/testdata/seniors.yaml"

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func executeRender(t *testing.T, opts *RootOptions, args ...string) (string, string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewRenderCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), errBuf.String(), err
}

func TestRenderDocument(t *testing.T) {
	out, _, err := executeRender(t, &RootOptions{Format: "text"}, seniorsDoc)
	require.NoError(t, err)

	assert.Equal(t,
		"e.dept = $1 and e.age >= $2 and e.status not in (Status.RETIRED, $3) limit $4 offset $5\n"+
			`args: ["eng", 30, "LEAVE", 10, 5]`+"\n",
		out)
}

func TestRenderDialectFlag(t *testing.T) {
	out, _, err := executeRender(t, &RootOptions{Format: "text", Dialect: "mysql"}, seniorsDoc)
	require.NoError(t, err)

	assert.Equal(t,
		"e.dept = ? and e.age >= ? and e.status not in (Status.RETIRED, ?) limit ?, ?\n"+
			`args: ["eng", 30, "LEAVE", 5, 10]`+"\n",
		out)
}

func TestRenderParamOverride(t *testing.T) {
	out, _, err := executeRender(t, &RootOptions{Format: "text"}, seniorsDoc, "--param", "minAge=40")
	require.NoError(t, err)
	assert.Contains(t, out, `args: ["eng", 40, "LEAVE", 10, 5]`)
}

func TestRenderJSON(t *testing.T) {
	out, _, err := executeRender(t, &RootOptions{Format: "json"}, seniorsDoc)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []RenderOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)

	got := resp.Data[0]
	assert.Equal(t, "seniors", got.Name)
	assert.Equal(t, "postgresql", got.Dialect)
	assert.Equal(t, "where", got.Clause)
	assert.Equal(t, "e.dept = :param_1 and e.age >= :minAge and e.status not in (Status.RETIRED, :param_2)", got.Rendered)
	assert.Equal(t, []string{"minAge"}, got.Parameters)
	require.Len(t, got.Bindings, 2)
	assert.Equal(t, BindingOutput{Name: "param_1", Value: "eng", Type: "string"}, got.Bindings[0])
	assert.Equal(t, "param_2", got.Bindings[1].Name)
}

func TestRenderPrefixAndClause(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "pick.yaml", `
expression:
  case:
    when:
      - if: {gt: [e.age, 60]}
        then: {string: senior}
    else: {string: other}
`)

	out, _, err := executeRender(t, &RootOptions{Format: "json"}, path, "--prefix", "p", "--clause", "where")
	require.NoError(t, err)

	var resp struct {
		Data []RenderOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "case when e.age > 60 then :p1 else :p2 end", resp.Data[0].Rendered)
	assert.Equal(t, "case when e.age > 60 then $1 else $2 end", resp.Data[0].SQL)
	assert.Equal(t, []any{"senior", "other"}, resp.Data[0].Args)

	out, _, err = executeRender(t, &RootOptions{Format: "text"}, path, "--clause", "select")
	require.NoError(t, err)
	assert.Equal(t, "case when e.age > 60 then 'senior' else 'other' end\nargs: []\n", out)
}

func TestRenderDirectory(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.yaml", "expression: {is_null: e.manager_id}\n")
	writeDoc(t, dir, "b.yaml", "expression: {ne: [e.age, 3]}\n")

	out, _, err := executeRender(t, &RootOptions{Format: "text"}, dir)
	require.NoError(t, err)

	expected := "-- " + filepath.Join(dir, "a.yaml") + "\n" +
		"e.manager_id is null\nargs: []\n" +
		"\n" +
		"-- " + filepath.Join(dir, "b.yaml") + "\n" +
		"e.age <> 3\nargs: []\n"
	assert.Equal(t, expected, out)
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	unbound := writeDoc(t, dir, "unbound.yaml", "expression: {eq: [e.age, {param: age}]}\n")
	unsupported := writeDoc(t, dir, "unsupported.yaml", "expression: {eq: [e.tags, {literal: [1, 2]}]}\n")
	badNode := writeDoc(t, dir, "bad.yaml", "expression: {foo: 1}\n")
	badDialect := writeDoc(t, dir, "dialect.yaml", "dialect: db2\nexpression: {is_null: e.x}\n")
	badClause := writeDoc(t, dir, "clause.yaml", "clause: window\nexpression: {is_null: e.x}\n")

	tests := []struct {
		name     string
		args     []string
		code     string
		exitCode int
	}{
		{"unbound parameter", []string{unbound}, ErrCodeBindFailed, ExitFailure},
		{"unsupported literal", []string{unsupported}, ErrCodeRenderFailed, ExitFailure},
		{"invalid node", []string{badNode}, ErrCodeInvalidNode, ExitFailure},
		{"unknown dialect", []string{badDialect}, ErrCodeUnknownDialect, ExitCommandError},
		{"invalid clause", []string{badClause}, ErrCodeInvalidClause, ExitCommandError},
		{"missing path", []string{filepath.Join(dir, "missing.yaml")}, ErrCodeNotFound, ExitCommandError},
		{"bad param", []string{unbound, "--param", "age"}, ErrCodeGeneric, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := executeRender(t, &RootOptions{Format: "json"}, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestRenderStrict(t *testing.T) {
	out, _, err := executeRender(t, &RootOptions{Format: "json", Dialect: "oracle"}, seniorsDoc, "--strict")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "not supported by dialect oracle")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeGeneric, resp.Error.Code)

	_, _, err = executeRender(t, &RootOptions{Format: "text", Dialect: "oracle"}, seniorsDoc)
	require.NoError(t, err)
	_, _, err = executeRender(t, &RootOptions{Format: "text", Dialect: "sqlite"}, seniorsDoc, "--strict")
	require.NoError(t, err)
}

func TestRenderUnboundParameterBoundByFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "unbound.yaml", "expression: {eq: [e.age, {param: age}]}\n")

	out, _, err := executeRender(t, &RootOptions{Format: "text"}, path, "-p", "age=41")
	require.NoError(t, err)
	assert.Equal(t, "e.age = $1\nargs: [41]\n", out)
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"n=3", "s=abc", "b=true", "e=", "q='7'"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 3, "s": "abc", "b": true, "e": "", "q": "7"}, params)

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseParams([]string{"=3"})
	assert.Error(t, err)

	_, err = parseParams([]string{"l=[1, 2]"})
	assert.Error(t, err)
}

func TestRenderExpandNegation(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "neg.yaml", `
expression:
  not:
    and:
      - eq: [e.a, 1]
      - is_null: e.b
`)

	out, _, err := executeRender(t, &RootOptions{Format: "text"}, path)
	require.NoError(t, err)
	assert.Equal(t, "not (e.a = 1 and e.b is null)\nargs: []\n", out)

	out, _, err = executeRender(t, &RootOptions{Format: "text"}, path, "--expand-negation")
	require.NoError(t, err)
	assert.Equal(t, "e.a <> 1 or e.b is not null\nargs: []\n", out)
}

func TestRenderInlineParams(t *testing.T) {
	out, _, err := executeRender(t, &RootOptions{Format: "text"}, seniorsDoc, "--inline-params")
	require.NoError(t, err)

	// The numeric parameter value is inlined; character values still bind.
	assert.Equal(t,
		"e.dept = $1 and e.age >= 30 and e.status not in (Status.RETIRED, $2) limit $3 offset $4\n"+
			`args: ["eng", "LEAVE", 10, 5]`+"\n",
		out)
}
