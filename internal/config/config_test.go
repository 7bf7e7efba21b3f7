package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Padaria Safári")
	cfg.Business.Document = "12.345.678/0001-90"
	cfg.Logging.Format = "json"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Empty(t, cfg.Business.Document)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Safari", cfg.Git.AuthorName)
	assert.Equal(t, "safari@localhost", cfg.Git.AuthorEmail)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_MissingSectionsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: Loja\ngit:\n  auto_commit: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Loja", cfg.Business.Name)
	assert.False(t, cfg.Git.AutoCommit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business: [unclosed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Biz")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "auto_commit: true")
	assert.Contains(t, contents, "format: text")
	assert.NotContains(t, contents, "document:", "empty document is omitted")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{"LOG_LEVEL": "debug", "LOG_FORMAT": " json ", "SAFARI_ADDR": ""}
	cfg := Default("x")
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}
