package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
	"github.com/hadinajem52/PixieHabitTracker/internal/store"
)

const settingsFile = "settings.yaml"

// reservedKeys name files the app directory already uses; the file backend
// stores a key as <key>.json next to them.
var reservedKeys = []string{"keybindings", "state"}

// Settings holds everything in settings.yaml.
type Settings struct {
	Storage StorageSettings `yaml:"storage"`
	Display DisplaySettings `yaml:"display"`
	Log     LogSettings     `yaml:"log"`
}

// StorageSettings selects where habits are persisted.
type StorageSettings struct {
	Backend    string        `yaml:"backend"` // file, sqlite, redis
	Key        string        `yaml:"key"`
	SQLitePath string        `yaml:"sqlite_path,omitempty"`
	Redis      RedisSettings `yaml:"redis"`
}

// RedisSettings configures the redis backend.
type RedisSettings struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// DisplaySettings configures the habit list.
type DisplaySettings struct {
	DefaultSort  string `yaml:"default_sort"`  // created, streak
	CreatedOrder string `yaml:"created_order"` // newest, oldest
	Celebration  string `yaml:"celebration"`   // how long the completion banner stays up
}

// LogSettings configures the log file.
type LogSettings struct {
	Level string `yaml:"level"`
}

// ValidBackends lists the accepted storage backends.
var ValidBackends = []string{store.BackendFile, store.BackendSQLite, store.BackendRedis}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() *Settings {
	return &Settings{
		Storage: StorageSettings{
			Backend: store.BackendFile,
			Key:     "habits",
			Redis: RedisSettings{
				Addr:   "localhost:6379",
				Prefix: store.DefaultRedisPrefix,
			},
		},
		Display: DisplaySettings{
			DefaultSort:  string(habit.SortByCreatedAt),
			CreatedOrder: string(habit.NewestFirst),
			Celebration:  "1.5s",
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// LoadSettings reads settings.yaml, writing defaults when it is missing,
// then applies PIXIE_* environment overrides and validates the result.
func LoadSettings(s *store.Store) (*Settings, error) {
	cfg := DefaultSettings()

	data, err := s.Read(settingsFile)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if err := SaveSettings(s, cfg); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read settings: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", settingsFile, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveSettings writes settings.yaml.
func SaveSettings(s *store.Store, cfg *Settings) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return s.Write(settingsFile, data)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Settings) applyEnvOverrides() error {
	if v := os.Getenv("PIXIE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("PIXIE_SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv("PIXIE_REDIS_ADDR"); v != "" {
		c.Storage.Redis.Addr = v
	}
	if v := os.Getenv("PIXIE_REDIS_PASSWORD"); v != "" {
		c.Storage.Redis.Password = v
	}
	if v := os.Getenv("PIXIE_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PIXIE_REDIS_DB %q: %w", v, err)
		}
		c.Storage.Redis.DB = db
	}
	if v := os.Getenv("PIXIE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PIXIE_SORT"); v != "" {
		c.Display.DefaultSort = v
	}
	return nil
}

// Validate validates the settings.
func (c *Settings) Validate() error {
	if !slices.Contains(ValidBackends, c.Storage.Backend) {
		return fmt.Errorf("invalid storage backend: %s (valid: %v)", c.Storage.Backend, ValidBackends)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	for _, k := range reservedKeys {
		if strings.EqualFold(c.Storage.Key, k) {
			return fmt.Errorf("storage key %q is reserved (reserved: %v)", c.Storage.Key, reservedKeys)
		}
	}
	if _, err := habit.ParseSortMode(c.Display.DefaultSort); err != nil {
		return fmt.Errorf("invalid default_sort: %w", err)
	}
	if _, err := habit.ParseCreatedOrder(c.Display.CreatedOrder); err != nil {
		return fmt.Errorf("invalid created_order: %w", err)
	}
	if c.Display.Celebration != "" {
		if _, err := time.ParseDuration(c.Display.Celebration); err != nil {
			return fmt.Errorf("invalid celebration duration: %w", err)
		}
	}
	return nil
}

// BackendOptions converts the storage settings for store.OpenBackend.
func (c *Settings) BackendOptions() store.BackendOptions {
	return store.BackendOptions{
		Kind:          c.Storage.Backend,
		SQLitePath:    c.Storage.SQLitePath,
		RedisAddr:     c.Storage.Redis.Addr,
		RedisPassword: c.Storage.Redis.Password,
		RedisDB:       c.Storage.Redis.DB,
		RedisPrefix:   c.Storage.Redis.Prefix,
	}
}

// SortMode returns the configured default sort mode.
func (c *Settings) SortMode() habit.SortMode {
	m, err := habit.ParseSortMode(c.Display.DefaultSort)
	if err != nil {
		return habit.SortByCreatedAt
	}
	return m
}

// CreatedOrder returns the configured created-at direction.
func (c *Settings) CreatedOrder() habit.CreatedOrder {
	o, err := habit.ParseCreatedOrder(c.Display.CreatedOrder)
	if err != nil {
		return habit.NewestFirst
	}
	return o
}

// CelebrationDuration returns how long the completion banner is shown.
func (c *Settings) CelebrationDuration() time.Duration {
	d, err := time.ParseDuration(c.Display.Celebration)
	if err != nil || d <= 0 {
		return 1500 * time.Millisecond
	}
	return d
}
