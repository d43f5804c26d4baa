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

func executeTest(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

const failingScenario = `
name: failing
description: expects the wrong output
config:
  relationships:
    post: [related_posts]
network:
  sites:
    - id: 1
    - id: 2
  crossposts:
    - {source: 1, source_id: 12, target: 2, target_id: 99}
transforms:
  - key: related_posts
    value: "12"
    source: 1
    target: 2
    expect:
      output: "98"
`

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

func TestTestCommandUpdateRequiresGolden(t *testing.T) {
	_, err := executeTest(t, "text", testScenariosDir, "--update")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := executeTest(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")

	out, err = executeTest(t, "json", t.TempDir())
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTestCommandPassingScenarios(t *testing.T) {
	out, err := executeTest(t, "text", testScenariosDir, "--golden", testGoldenDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ crosspost-network")
	assert.Contains(t, out, "✓ json-values")
	assert.Contains(t, out, "✓ unavailable")
	assert.Contains(t, out, "Test Summary: 3 passed, 0 failed, 3 total")
}

func TestTestCommandFilter(t *testing.T) {
	out, err := executeTest(t, "json", testScenariosDir, "--filter", "crosspost*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "crosspost-network", resp.Data.Scenarios[0].Name)
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, err := executeTest(t, "text", testScenariosDir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "failing.yaml"), []byte(failingScenario), 0o644))

	out, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, `output = "99", expected "98"`)

	out, err = executeTest(t, "json", dir)
	require.Error(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\n"), 0o644))

	out, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandGoldenUpdateAndCompare(t *testing.T) {
	golden := t.TempDir()

	out, err := executeTest(t, "text", testScenariosDir, "--golden", golden, "--update")
	require.NoError(t, err, out)

	written, err := os.ReadFile(filepath.Join(golden, "crosspost-network.golden"))
	require.NoError(t, err)
	expected, err := os.ReadFile(filepath.Join(testGoldenDir, "crosspost-network.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(written))

	// A tampered golden file fails the comparison.
	require.NoError(t, os.WriteFile(filepath.Join(golden, "unavailable.golden"), []byte("{}"), 0o644))
	out, err = executeTest(t, "text", testScenariosDir, "--golden", golden)
	require.Error(t, err)
	assert.Contains(t, out, "✗ unavailable")
	assert.Contains(t, out, "trace does not match golden file")
}
