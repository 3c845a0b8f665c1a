package helpers

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Items []string `json:"items" yaml:"items"`
}

func TestLoadDocument_PicksDecoderByExtension(t *testing.T) {
	dir := t.TempDir()
	in := sample{Name: "plan", Items: []string{"a", "b"}}

	jsonPath := filepath.Join(dir, "plan.json")
	yamlPath := filepath.Join(dir, "plan.yml")
	require.NoError(t, SaveJSON(in, jsonPath))
	require.NoError(t, SaveYAML(in, yamlPath))

	var fromJSON, fromYAML sample
	require.NoError(t, LoadDocument(jsonPath, &fromJSON))
	require.NoError(t, LoadDocument(yamlPath, &fromYAML))

	assert.Equal(t, in, fromJSON)
	assert.Equal(t, in, fromYAML)
}

func TestLoadJSON_MissingFile(t *testing.T) {
	var out sample
	err := LoadJSON(filepath.Join(t.TempDir(), "nope.json"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestGenerateOutputFilename(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "plan-20260304-050607.json", GenerateOutputFilename("plan", "json", at))
}

func TestEnsureDirAndFileExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, EnsureDir(dir))
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing.md")))
}

func TestGetOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "plan.json"), GetOutputPath("out", "plan.json"))
}
