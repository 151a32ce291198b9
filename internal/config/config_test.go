package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Registry.CachingEnabled())
	assert.Equal(t, 30, cfg.Registry.DefaultTimeoutSeconds)
	assert.Equal(t, 2, cfg.Registry.Retries())
	assert.Equal(t, 100, cfg.Registry.CacheMaxSize)
	assert.Equal(t, 3, cfg.Router.MaxAgents)
	assert.Equal(t, "sqlite", cfg.Reporting.Store)
	assert.Equal(t, []string{"knowledge", "test", "gitlab", "environment"}, cfg.Agents.Builtins)
}

func TestLoad_ParsesAndFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
registry:
  enableCaching: false
  maxRetries: 0
  defaultTimeoutSeconds: 5
router:
  maxAgents: 2
agents:
  builtins: [knowledge, test]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Registry.CachingEnabled())
	assert.Equal(t, 0, cfg.Registry.Retries())
	assert.Equal(t, 5, cfg.Registry.DefaultTimeoutSeconds)
	assert.Equal(t, 2, cfg.Router.MaxAgents)
	assert.Equal(t, []string{"knowledge", "test"}, cfg.Agents.Builtins)

	// untouched sections keep defaults
	assert.Equal(t, 100, cfg.Registry.CacheMaxSize)
	assert.Equal(t, 18790, cfg.Gateway.Port)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "registry: [broken")
	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoad_ExpandsTokenEnvVar(t *testing.T) {
	t.Setenv("SB_TEST_TOKEN", "s3cret")
	path := writeConfig(t, `
gateway:
  auth:
    token: ${SB_TEST_TOKEN}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Gateway.Auth.Token)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SWITCHBOARD_LOG_LEVEL", "debug")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))

	bad := Defaults()
	neg := -1
	bad.Registry.MaxRetries = &neg
	bad.Gateway.Port = 70000
	bad.Gateway.Bind = "everywhere"
	bad.Reporting.Store = "postgres"
	bad.Agents.Builtins = []string{"knowledge", "mystery"}

	issues := Validate(&bad)
	require.Len(t, issues, 5)
	paths := make([]string, 0, len(issues))
	for _, i := range issues {
		paths = append(paths, i.Path)
	}
	assert.Contains(t, paths, "registry.maxRetries")
	assert.Contains(t, paths, "gateway.port")
	assert.Contains(t, paths, "gateway.bind")
	assert.Contains(t, paths, "reporting.store")
	assert.Contains(t, paths, "agents.builtins")
}

func TestResolvePaths_HonorsHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SWITCHBOARD_HOME", dir)

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, dir, p.Base)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), p.Config)

	require.NoError(t, p.EnsureDirs())
	assert.DirExists(t, p.Data)
	assert.DirExists(t, p.Logs)

	assert.Equal(t, filepath.Join(dir, "data", "reporting.db"),
		p.ReportingDBPath(ReportingConfig{}))
	assert.Equal(t, "/tmp/x.db", p.ReportingDBPath(ReportingConfig{Path: "/tmp/x.db"}))
}
