package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvity/tree-sweep/internal/testutil"
)

// executeCommand is a helper function to execute cobra command and capture output
func executeCommand(root *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	stdoutBuf := new(bytes.Buffer)
	stderrBuf := new(bytes.Buffer)
	root.SetOut(stdoutBuf)
	root.SetErr(stderrBuf)
	root.SetArgs(args)
	// pflag keeps values between executions of the shared rootCmd.
	root.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, name := range []string{"help", "version"} {
		if f := root.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
		}
	}

	err = root.Execute()

	return stdoutBuf.String(), stderrBuf.String(), err
}

func TestRootCmdHelp(t *testing.T) {
	stdout, stderr, err := executeCommand(rootCmd, "--help")

	require.NoError(t, err, "Executing --help should not produce an error")
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "git-sync [directory]")
	assert.Contains(t, stdout, "--backend")
	assert.Contains(t, stdout, "--rate")
	assert.NotContains(t, stdout, "--ext", "archive options belong to check-zip")
}

// TestRootCmdHelp_AllFlagsPresent verifies all defined flags appear in help output
func TestRootCmdHelp_AllFlagsPresent(t *testing.T) {
	stdout, _, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)

	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		assert.Contains(t, stdout, "--"+f.Name, "Help output should contain flag --%s", f.Name)
		if f.Shorthand != "" && f.ShorthandDeprecated == "" {
			assert.Contains(t, stdout, "-"+f.Shorthand+",", "Help output should contain shorthand -%s for flag --%s", f.Shorthand, f.Name)
		}
	})
}

func TestRootCmdVersion(t *testing.T) {
	testCmd := &cobra.Command{Use: "git-sync [directory]"}
	testCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", "test-1.2.3", "testcommit123", "2024-01-01T10:00:00Z")
	testCmd.SetVersionTemplate(`{{.Name}} version {{.Version}}` + "\n")

	stdout, stderr, err := executeCommand(testCmd, "--version")

	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "git-sync version test-1.2.3 (commit: testcommit123, built: 2024-01-01T10:00:00Z)\n", stdout)
}

func TestRootCmd_RejectsExtraArguments(t *testing.T) {
	_, stderr, err := executeCommand(rootCmd, "a", "b")
	require.Error(t, err)
	assert.Contains(t, stderr, "accepts at most 1 arg(s), received 2")
}

func TestRootCmd_LogFlagTakesFilePath(t *testing.T) {
	root := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(root, "notes.txt"), "x")
	logFile := filepath.Join(t.TempDir(), "out.log")

	stdout, _, err := executeCommand(rootCmd, "--no-tui", "--backend", "gogit", "-l", logFile, root)

	require.NoError(t, err)
	assert.FileExists(t, logFile)
	assert.Contains(t, stdout, "📝 Log file saved successfully at: "+logFile)
}

func TestRootCmd_RejectsMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, _, err := executeCommand(rootCmd, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

// TestMain is needed to run tests
func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
