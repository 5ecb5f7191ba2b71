package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/drumtwinlabs/drumtwin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drumtwin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesLayerOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
step: 250ms
supervisor:
  danger_temp: 570
redis:
  addr: "localhost:6379"
  ttl: 1h
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Step)
	assert.Equal(t, 570.0, cfg.Supervisor.DangerTemp)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Hour, cfg.Redis.TTL)

	// Untouched sections keep their defaults.
	def := config.Default()
	assert.Equal(t, def.Supervisor.SafeFireLimit, cfg.Supervisor.SafeFireLimit)
	assert.Equal(t, def.Physics, cfg.Physics)
	assert.Equal(t, def.Initial, cfg.Initial)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"non-positive step", "step: 0s\n"},
		{"inverted water bounds", "physics:\n  min_water_level: 95\n"},
		{"safe fire limit out of range", "supervisor:\n  safe_fire_limit: 150\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "server: [not a map"))
	assert.Error(t, err)
}

func TestRedis_Enabled(t *testing.T) {
	assert.False(t, config.Redis{}.Enabled())
	assert.True(t, config.Redis{Addr: "localhost:6379"}.Enabled())
}
