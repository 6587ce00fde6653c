package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultTimeZone, cfg.Calendar.TimeZone)
	assert.Equal(t, StoreMemory, cfg.Session.Store)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  turn_timeout: 30s
calendar:
  id: team@example.com
  time_zone: Europe/Berlin
oracle:
  provider: openai
  model: gpt-4o-mini
session:
  store: redis
  ttl: 2h
  redis_addr: localhost:6379
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.TurnTimeout)
	assert.Equal(t, "team@example.com", cfg.Calendar.ID)
	assert.Equal(t, "Europe/Berlin", cfg.Calendar.TimeZone)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultStartHour, cfg.Calendar.StartHour)
	assert.Equal(t, "openai", cfg.Oracle.Provider)
	assert.Equal(t, StoreRedis, cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calendar:\n  id: from-file\n"), 0o600))

	t.Setenv("CALENDAR_ID", "from-env")
	t.Setenv("GOOGLE_API_KEY", "gem-key")
	t.Setenv("OPENAI_API_KEY", "oai-key")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Calendar.ID)
	assert.Equal(t, 90*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 3, cfg.Session.RedisDB)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "gem-key", cfg.OracleAPIKey("gemini"))
	assert.Equal(t, "oai-key", cfg.OracleAPIKey("openai"))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)

	t.Setenv("SESSION_TTL", "forever")
	_, err = Load("")
	assert.ErrorContains(t, err, "SESSION_TTL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "bad zone", mutate: func(c *Config) { c.Calendar.TimeZone = "Mars/Olympus" }, wantErr: "invalid time zone"},
		{name: "empty window", mutate: func(c *Config) { c.Calendar.StartHour = 17 }, wantErr: "working window"},
		{name: "unknown provider", mutate: func(c *Config) { c.Oracle.Provider = "llama" }, wantErr: "unknown oracle provider"},
		{name: "redis without addr", mutate: func(c *Config) { c.Session.Store = StoreRedis }, wantErr: "redis address"},
		{name: "unknown store", mutate: func(c *Config) { c.Session.Store = "disk" }, wantErr: "unknown session store"},
		{name: "zero burst", mutate: func(c *Config) { c.Server.RateBurst = 0 }, wantErr: "rate burst"},
		{name: "shared port", mutate: func(c *Config) { c.Metrics.Addr = c.Server.Addr }, wantErr: "metrics address"},
		{name: "no timeout", mutate: func(c *Config) { c.Server.TurnTimeout = 0 }, wantErr: "turn timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles", loc.String())
}
