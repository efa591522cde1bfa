package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetCLIState clears global flag state so tests do not leak parsed
// flags into each other. Cobra keeps bound variables between Execute
// calls, so every test goes through execRipple.
func resetCLIState() {
	cfgFile = ""
	repoDir = "."
	verbose = false
	nextJSON = false
	nextWrite = false
	nextWatch = false
	initUser = false
	initForce = false
}

// execRipple runs a command through Execute with args and captures the
// command's output. The user-level config lookup is pointed at an empty
// directory so developer machines cannot leak configuration into
// assertions. Failures still print to the process stderr, exactly as
// they would for a user.
func execRipple(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetCLIState()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := Execute()
	return buf.String(), err
}

func TestRootCmdStructure(t *testing.T) {
	assert.Equal(t, "ripple", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCmdPersistentFlags(t *testing.T) {
	tests := map[string]struct {
		flagName     string
		wantShortcut string
	}{
		"config has shortcut c": {
			flagName:     "config",
			wantShortcut: "c",
		},
		"dir has shortcut C": {
			flagName:     "dir",
			wantShortcut: "C",
		},
		"verbose has shortcut v": {
			flagName:     "verbose",
			wantShortcut: "v",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag, "flag %s should exist", tt.flagName)
			assert.Equal(t, tt.wantShortcut, flag.Shorthand)
		})
	}
}

func TestRootCmdSubcommands(t *testing.T) {
	commandNames := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		commandNames[cmd.Name()] = true
	}

	assert.True(t, commandNames["next"], "should have next command")
	assert.True(t, commandNames["check"], "should have check command")
	assert.True(t, commandNames["version"], "should have version command")
	assert.True(t, commandNames["init"], "should have init command")
}

func TestRootCmdHelp(t *testing.T) {
	out, err := execRipple(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "ripple")
	assert.Contains(t, out, "next")
	assert.Contains(t, out, "check")
}

func TestUnknownCommandMapsToInvalidArguments(t *testing.T) {
	_, err := execRipple(t, "bogus")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestUnknownFlagMapsToInvalidArguments(t *testing.T) {
	_, err := execRipple(t, "next", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestIsUsageError(t *testing.T) {
	tests := map[string]struct {
		msg  string
		want bool
	}{
		"unknown command": {
			msg:  `unknown command "bogus" for "ripple"`,
			want: true,
		},
		"unknown flag": {
			msg:  "unknown flag: --frobnicate",
			want: true,
		},
		"unknown shorthand": {
			msg:  "unknown shorthand flag: 'z' in -z",
			want: true,
		},
		"run failure": {
			msg:  "opening repository at /tmp: repository does not exist",
			want: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUsageError(errMsg(tt.msg)))
		})
	}
}

// errMsg builds a plain error with a fixed message.
type errMsg string

func (e errMsg) Error() string { return string(e) }
