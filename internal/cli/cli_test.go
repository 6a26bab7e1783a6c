package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Structure(t *testing.T) {
	cmd := NewRootCmd()

	require.Equal(t, "cleo", cmd.Use)
	require.NotEmpty(t, cmd.Short)
	require.True(t, cmd.SilenceUsage)
	require.True(t, cmd.SilenceErrors)

	for _, flag := range []string{"format", "json", "quiet", "verbose", "dry-run", "no-color", "actor", "session"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(flag), "expected persistent flag %q", flag)
	}
}

func TestNewRootCmd_RegistersEveryLeafCommand(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{
		"add", "show", "list", "find", "update", "complete", "reopen",
		"cancel", "uncancel", "delete", "archive", "unarchive", "set-gate",
		"focus", "session",
		"analyze", "deps", "waves", "next", "validate", "doctor", "migrate",
		"orchestrator", "research-append", "metrics-summary",
	}
	for _, name := range want {
		found := false
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		require.True(t, found, "expected subcommand %q to be registered", name)
	}
}

func TestNewFocusCmd_HasSetShowClear(t *testing.T) {
	cmd := newFocusCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	require.True(t, names["set"])
	require.True(t, names["show"])
	require.True(t, names["clear"])
}

func TestNewSessionCmd_HasFullLifecycle(t *testing.T) {
	cmd := newSessionCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"start", "end", "suspend", "resume", "status"} {
		require.True(t, names[want], "expected session subcommand %q", want)
	}
}

func TestNewOrchestratorCmd_HasSpawnReadyNextReturn(t *testing.T) {
	cmd := newOrchestratorCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"spawn", "ready", "next", "return"} {
		require.True(t, names[want], "expected orchestrator subcommand %q", want)
	}
}

func TestNewCancelCmd_RequiresReason(t *testing.T) {
	cmd := newCancelCmd()
	flag := cmd.Flags().Lookup("reason")
	require.NotNil(t, flag)
	require.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag])
	require.NoError(t, cmd.Args(cmd, []string{"T1"}))
}

func TestNewResearchCmd_RequiresIDAndTitle(t *testing.T) {
	cmd := newResearchCmd()
	for _, name := range []string{"id", "title"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag)
		require.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag], "expected --%s to be required", name)
	}
}

func TestActor_DefaultsToCLI(t *testing.T) {
	cmd := newShowCmd()
	cmd.Flags().String("actor", "", "")
	require.Equal(t, "cli", actor(cmd))
}

func TestSessionID_ReadsSessionFlag(t *testing.T) {
	cmd := newFocusShowCmd()
	cmd.Flags().String("session", "sess-1", "")
	require.Equal(t, "sess-1", sessionID(cmd))
}
