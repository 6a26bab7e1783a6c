package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against args inside dir, returning the
// combined stdout it wrote. Mirrors the teacher's pattern of driving a
// freshly built cobra tree rather than shelling out to a built binary.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(cwd)) }()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func newTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".cleo"), 0o755))
	return dir
}

func TestCLI_AddAndListRoundTrip(t *testing.T) {
	dir := newTestProject(t)

	_, err := runCLI(t, dir, "--json", "add", "Write onboarding doc")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "--json", "list")
	require.NoError(t, err)

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	require.Equal(t, "Write onboarding doc", resp.Data[0].Title)
}

func TestCLI_ShowUnknownTaskReturnsNonZeroExit(t *testing.T) {
	dir := newTestProject(t)

	out, err := runCLI(t, dir, "--json", "show", "T99")
	require.Error(t, err)

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code     string `json:"code"`
			ExitCode int    `json:"exitCode"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestCLI_OutsideProjectFails(t *testing.T) {
	dir := t.TempDir() // no .cleo, no .git

	_, err := runCLI(t, dir, "list")
	require.Error(t, err)
}

func TestCLI_FocusSetAndShow(t *testing.T) {
	dir := newTestProject(t)

	addOut, err := runCLI(t, dir, "--json", "add", "Investigate flaky test")
	require.NoError(t, err)

	var addResp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(addOut), &addResp))
	taskID := addResp.Data.ID
	require.NotEmpty(t, taskID)

	startOut, err := runCLI(t, dir, "--json", "session", "start", "--name", "dev")
	require.NoError(t, err)

	var startResp struct {
		Data struct {
			Session struct {
				ID string `json:"id"`
			} `json:"Session"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(startOut), &startResp))
	sessID := startResp.Data.Session.ID
	require.NotEmpty(t, sessID)

	_, err = runCLI(t, dir, "--json", "--session", sessID, "focus", "set", taskID)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "--json", "--session", sessID, "focus", "show")
	require.NoError(t, err)

	var showResp struct {
		Data string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &showResp))
	require.Equal(t, taskID, showResp.Data)
}

func TestCLI_ValidateOnEmptyProjectReportsHealthy(t *testing.T) {
	dir := newTestProject(t)

	out, err := runCLI(t, dir, "--json", "validate")
	require.NoError(t, err)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Valid bool `json:"Valid"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.True(t, resp.Success)
	require.True(t, resp.Data.Valid)
}
