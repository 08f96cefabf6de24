package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUsesHardcodedFallbacks(t *testing.T) {
	for _, key := range []string{
		"LIMINAL_ORACLE_PROVIDER", "LIMINAL_OLLAMA_ENDPOINT", "LIMINAL_OLLAMA_MODEL",
		"LIMINAL_ORACLE_MODE", "LIMINAL_ORACLE_RECORDING",
	} {
		t.Setenv(key, "")
	}

	cfg := Default()
	assert.Equal(t, "mock", cfg.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.Endpoint)
	assert.Equal(t, "gemma3:12b", cfg.Model)
	assert.Equal(t, "live", cfg.Mode)
	assert.Equal(t, "oracle_recordings.jsonl", cfg.Recording)
}

func TestDefaultPrefersEnvironmentOverFallback(t *testing.T) {
	t.Setenv("LIMINAL_ORACLE_PROVIDER", "ollama")
	t.Setenv("LIMINAL_OLLAMA_MODEL", "llama3:8b")

	cfg := Default()
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "llama3:8b", cfg.Model)
}

func TestLoadWithMissingIniFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.ini"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadAppliesIniOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "liminal.ini")
	content := "; comment\n[oracle]\nprovider = ollama\nendpoint = http://box:11434\nmodel = gemma3:27b\nmode = record\nrecording = tape.jsonl\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "http://box:11434", cfg.Endpoint)
	assert.Equal(t, "gemma3:27b", cfg.Model)
	assert.Equal(t, "record", cfg.Mode)
	assert.Equal(t, "tape.jsonl", cfg.Recording)
}

func TestLoadIniKeysAreCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "liminal.ini")
	content := "Provider = ollama\nENDPOINT = http://box:11434\nMoDe = record\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "http://box:11434", cfg.Endpoint)
	assert.Equal(t, "record", cfg.Mode)
}

func TestLoadIniPartiallyOverridesLeavingRestAtDefault(t *testing.T) {
	t.Setenv("LIMINAL_OLLAMA_MODEL", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "liminal.ini")
	require.NoError(t, os.WriteFile(path, []byte("mode = replay\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "replay", cfg.Mode)
	assert.Equal(t, "gemma3:12b", cfg.Model)
}
