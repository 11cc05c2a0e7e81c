package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
app:
  name: "atom-nlu-test"
  environment: "test"
server:
  address: ":9999"
engine:
  rule_threshold: 0.95
  cross_platform_threshold: 0.75
generative:
  base_url: "http://localhost:7000"
  timeout: 5000
cache:
  backend: "memory"
  ttl: 60000
training:
  log_path: "/tmp/training.jsonl"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "atom-nlu-test", cfg.App.Name)
	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.Equal(t, 0.95, cfg.Engine.RuleThreshold)
	assert.Equal(t, 0.75, cfg.Engine.CrossPlatformThreshold)
	assert.Equal(t, "http://localhost:7000", cfg.Generative.BaseURL)
	assert.Equal(t, 5000, cfg.Generative.Timeout)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 60000, cfg.Cache.TTL)
}

func TestLoadFromFileAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: "minimal"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.Server.Address)
	assert.Equal(t, 0.9, cfg.Engine.RuleThreshold)
	assert.Equal(t, 0.8, cfg.Engine.CrossPlatformThreshold)
	assert.Equal(t, 10000, cfg.Generative.Timeout)
	assert.Equal(t, 2, cfg.Generative.MaxRetries)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 300000, cfg.Cache.TTL)
	assert.Equal(t, "data/training.jsonl", cfg.Training.LogPath)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown cache backend",
			content: `
cache:
  backend: "memcached"
`,
		},
		{
			name: "redis backend without address",
			content: `
cache:
  backend: "redis"
`,
		},
		{
			name: "rule threshold out of range",
			content: `
engine:
  rule_threshold: 1.5
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadFromFile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFileEnvOverride(t *testing.T) {
	t.Setenv("GENERATIVE_API_KEY", "from-env")

	path := writeConfig(t, `
generative:
  base_url: "http://localhost:7000"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Generative.APIKey)
}

func TestLoadFromFileExpandsEnvVars(t *testing.T) {
	t.Setenv("NLU_TEST_ADDR", ":7777")

	path := writeConfig(t, `
server:
  address: "${NLU_TEST_ADDR}"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Address)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
