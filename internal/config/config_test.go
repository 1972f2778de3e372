package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akonno/HanoiSimulator/internal/hanoi"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HANOI_CONFIG", "PORT", "LOG_LEVEL", "DB_PATH", "CLIENT_ORIGIN", "JWT_SECRET",
		"COOKIE_NAME", "APP_ENV", "JWT_EXPIRES_DAYS", "HANOI_DISKS", "HANOI_MAX_DISKS",
		"HANOI_STEPS_PER_PHASE", "HANOI_HOVER_HEIGHT", "HANOI_PEG_SPACING",
		"HANOI_DISK_THICKNESS", "HANOI_HALF_PEG_HEIGHT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, 7, cfg.Disks)
	assert.Equal(t, hanoi.DefaultGeometry(), cfg.Geometry)
	assert.Equal(t, 14*24*time.Hour, cfg.TokenLifetime())
	assert.False(t, cfg.Production)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "hanoi.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  port      = "9000"
  log_level = "debug"
}

puzzle {
  disks = 5
}

animation {
  steps_per_phase = 30
  hover_height    = 2.5
}
`), 0o644))

	t.Setenv("HANOI_CONFIG", path)
	t.Setenv("PORT", "9100")
	t.Setenv("HANOI_DISK_THICKNESS", "0.25")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.Disks)
	assert.Equal(t, 16, cfg.MaxDisks)
	assert.Equal(t, 30, cfg.Geometry.StepsPerPhase)
	assert.Equal(t, 2.5, cfg.Geometry.HoverHeight)
	assert.Equal(t, 0.25, cfg.Geometry.DiskThickness)
	assert.Equal(t, 3.2, cfg.Geometry.PegSpacing)
	assert.True(t, cfg.Production)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad int", env: map[string]string{"HANOI_DISKS": "seven"}},
		{name: "bad float", env: map[string]string{"HANOI_HOVER_HEIGHT": "high"}},
		{name: "too many disks", env: map[string]string{"HANOI_DISKS": "40"}},
		{name: "zero steps", env: map[string]string{"HANOI_STEPS_PER_PHASE": "0"}},
		{name: "missing file", env: map[string]string{"HANOI_CONFIG": "/nonexistent/hanoi.hcl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`puzzle { disks = "many" }`), 0o644))
	t.Setenv("HANOI_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.hcl")
}
