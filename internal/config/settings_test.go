package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
	"github.com/hadinajem52/PixieHabitTracker/internal/store"
)

func clearPixieEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PIXIE_BACKEND", "PIXIE_SQLITE_PATH", "PIXIE_REDIS_ADDR",
		"PIXIE_REDIS_PASSWORD", "PIXIE_REDIS_DB", "PIXIE_LOG_LEVEL", "PIXIE_SORT",
	} {
		t.Setenv(k, "")
	}
}

func newTestDir(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLoadSettings_WritesDefaults(t *testing.T) {
	clearPixieEnv(t)
	s := newTestDir(t)

	cfg, err := LoadSettings(s)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), cfg)
	assert.FileExists(t, filepath.Join(s.Path(), settingsFile))

	assert.Equal(t, habit.SortByCreatedAt, cfg.SortMode())
	assert.Equal(t, habit.NewestFirst, cfg.CreatedOrder())
	assert.Equal(t, 1500*time.Millisecond, cfg.CelebrationDuration())
}

func TestLoadSettings_ReadsFileAndKeepsDefaultsForMissingFields(t *testing.T) {
	clearPixieEnv(t)
	s := newTestDir(t)
	require.NoError(t, s.Write(settingsFile, []byte(`
storage:
  backend: sqlite
display:
  created_order: oldest
  celebration: 3s
`)))

	cfg, err := LoadSettings(s)
	require.NoError(t, err)
	assert.Equal(t, store.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "habits", cfg.Storage.Key)
	assert.Equal(t, habit.OldestFirst, cfg.CreatedOrder())
	assert.Equal(t, 3*time.Second, cfg.CelebrationDuration())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	clearPixieEnv(t)
	t.Setenv("PIXIE_BACKEND", "redis")
	t.Setenv("PIXIE_REDIS_ADDR", "cache:6380")
	t.Setenv("PIXIE_REDIS_DB", "2")
	t.Setenv("PIXIE_SORT", "streak")
	t.Setenv("PIXIE_LOG_LEVEL", "debug")
	s := newTestDir(t)

	cfg, err := LoadSettings(s)
	require.NoError(t, err)

	opts := cfg.BackendOptions()
	assert.Equal(t, store.BackendRedis, opts.Kind)
	assert.Equal(t, "cache:6380", opts.RedisAddr)
	assert.Equal(t, 2, opts.RedisDB)
	assert.Equal(t, store.DefaultRedisPrefix, opts.RedisPrefix)
	assert.Equal(t, habit.SortByStreak, cfg.SortMode())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "backend", file: "storage:\n  backend: postgres\n"},
		{name: "sort", file: "display:\n  default_sort: alphabetical\n"},
		{name: "order", file: "display:\n  created_order: sideways\n"},
		{name: "celebration", file: "display:\n  celebration: soon\n"},
		{name: "empty key", file: "storage:\n  key: \"\"\n"},
		{name: "state key", file: "storage:\n  key: state\n"},
		{name: "keybindings key", file: "storage:\n  key: Keybindings\n"},
		{name: "yaml", file: "storage: [\n"},
		{name: "redis db env", env: map[string]string{"PIXIE_REDIS_DB": "zero"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearPixieEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			s := newTestDir(t)
			if tt.file != "" {
				require.NoError(t, s.Write(settingsFile, []byte(tt.file)))
			}

			_, err := LoadSettings(s)
			assert.Error(t, err)
		})
	}
}

func TestLoadEnv_DoesNotOverrideEnvironment(t *testing.T) {
	clearPixieEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PIXIE_SORT=streak\nPIXIE_LOG_LEVEL=warn\n"), 0o644))

	t.Setenv("PIXIE_LOG_LEVEL", "error")
	// t.Setenv restores the variable; unset it so the file can supply it.
	os.Unsetenv("PIXIE_SORT")

	require.NoError(t, LoadEnv(dir))
	assert.Equal(t, "streak", os.Getenv("PIXIE_SORT"))
	assert.Equal(t, "error", os.Getenv("PIXIE_LOG_LEVEL"))
}

func TestLoad_ResetKeybindings(t *testing.T) {
	clearPixieEnv(t)
	s := newTestDir(t)

	cfg, err := Load(s)
	require.NoError(t, err)
	require.NotNil(t, cfg.Settings)

	cfg.Keybindings.List.New = "a"
	require.NoError(t, cfg.Save())
	require.NoError(t, cfg.ResetKeybindings())

	kb, err := LoadKeybindings(s)
	require.NoError(t, err)
	assert.Equal(t, DefaultKeybindings(), kb)
}
