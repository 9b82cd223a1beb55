package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.LLM.DefaultBackend)
	assert.Equal(t, 5, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "./uploads", cfg.Storage.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9999
llm:
  default_backend: openai
  timeout_seconds: 3
database:
  host: db.internal
  port: 5433
storage:
  dir: /var/lib/applyforge
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.LLM.DefaultBackend)
	assert.Equal(t, 3, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "/var/lib/applyforge", cfg.Storage.Dir)
	// Untouched sections keep their defaults.
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_ProviderKeyEnvOverride(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key-123")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "test-key-123", cfg.LLM.Gemini.APIKey)
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		Database: "applyforge",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=applyforge sslmode=disable",
		p.GetDSN())
}
