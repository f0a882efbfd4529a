package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "exprsql", cmd.Use)
	assert.Contains(t, cmd.Long, "expression trees")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"render", "validate", "limit", "count-tuple", "dialects", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dialectFlag := cmd.PersistentFlags().Lookup("dialect")
	require.NotNil(t, dialectFlag)
	assert.Equal(t, "d", dialectFlag.Shorthand)
	assert.Equal(t, "", dialectFlag.DefValue)
}

func TestRenderCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	renderCmd, _, err := cmd.Find([]string{"render"})
	require.NoError(t, err)

	paramFlag := renderCmd.Flags().Lookup("param")
	require.NotNil(t, paramFlag)
	assert.Equal(t, "p", paramFlag.Shorthand)

	prefixFlag := renderCmd.Flags().Lookup("prefix")
	require.NotNil(t, prefixFlag)
	assert.Equal(t, "param_", prefixFlag.DefValue)

	require.NotNil(t, renderCmd.Flags().Lookup("clause"))
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	require.NotNil(t, testCmd.Flags().Lookup("filter"))
	require.NotNil(t, testCmd.Flags().Lookup("golden-dir"))
}

func TestDialectName(t *testing.T) {
	assert.Equal(t, "mysql", (&RootOptions{Dialect: "mysql"}).dialectName("oracle"))
	assert.Equal(t, "oracle", (&RootOptions{}).dialectName("oracle"))
	assert.Equal(t, DefaultDialect, (&RootOptions{}).dialectName(""))
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "invalid", "dialects"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootDialectFlagReachesSubcommand(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--dialect", "sqlite", "render", seniorsDoc})

	require.NoError(t, cmd.Execute())
	assert.Equal(t,
		"e.dept = ? and e.age >= ? and e.status not in (Status.RETIRED, ?) limit ? offset ?\n"+
			`args: ["eng", 30, "LEAVE", 10, 5]`+"\n",
		buf.String())
}
