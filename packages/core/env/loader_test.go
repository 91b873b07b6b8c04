package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvironmentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.postman_environment.json")
	content := `{"name": "dev", "values": [{"key": "host", "value": "localhost", "enabled": true}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	e, err := LoadEnvironmentFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dev", e.Name)

	r := NewResolver()
	r.SetPostmanVariables(e.Values)
	assert.Equal(t, "localhost", r.Resolve("{{host}}"))
}

func TestLoadEnvironmentFile_Errors(t *testing.T) {
	_, err := LoadEnvironmentFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"values": []}`), 0644))
	_, err = LoadEnvironmentFile(path)
	assert.ErrorContains(t, err, "bad.json")
}

func TestMergeVariables(t *testing.T) {
	got := MergeVariables(
		map[string]any{"a": 1, "b": 1},
		nil,
		map[string]any{"b": 2},
	)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, got)
}

func TestLoadSystemEnv(t *testing.T) {
	t.Setenv("ABABIL_VAR_host", "example.org")
	got := LoadSystemEnv("ABABIL_VAR_")
	assert.Equal(t, "example.org", got["host"])
}

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments([]string{"a=1", "b=x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1", "b": "x=y", "c": ""}, got)

	_, err = ParseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseAssignments([]string{"=v"})
	assert.Error(t, err)
}
