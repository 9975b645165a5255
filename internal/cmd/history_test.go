package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryWithoutDatabase(t *testing.T) {
	stdout, _, err := executeCommand(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No builds recorded yet")
}

func TestHistoryListsBuilds(t *testing.T) {
	t.Setenv("FEATURELIST_HOME", t.TempDir())
	out := filepath.Join(t.TempDir(), "feature_list.json")

	_, _, err := executeInHome("generate", "--output", out)
	require.NoError(t, err)

	stdout, _, err := executeInHome("history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Catalog Builds (2)")
	assert.Contains(t, stdout, "Phase: initial")
	assert.Contains(t, stdout, "Phase: extension")
	assert.Contains(t, stdout, out)

	stdout, _, err = executeInHome("history", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Catalog Builds (1)")
	assert.Contains(t, stdout, "Phase: extension")
	assert.NotContains(t, stdout, "Phase: initial")
}

func TestHistoryLatestForOutput(t *testing.T) {
	t.Setenv("FEATURELIST_HOME", t.TempDir())
	out := filepath.Join(t.TempDir(), "feature_list.json")

	_, _, err := executeInHome("generate", "--output", out, "--phase", "initial")
	require.NoError(t, err)

	stdout, _, err := executeInHome("history", "--output", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Catalog Builds (1)")
	assert.Contains(t, stdout, "Phase: initial")

	stdout, _, err = executeInHome("history", "--output", filepath.Join(t.TempDir(), "other.json"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "No builds recorded yet")
}
