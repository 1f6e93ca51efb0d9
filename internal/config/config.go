// Package config loads keybindings.json and settings.yaml from the app
// directory, with .env and PIXIE_* environment overrides.
package config

import (
	"github.com/hadinajem52/PixieHabitTracker/internal/store"
)

// Config holds all application configuration.
type Config struct {
	store       *store.Store
	Keybindings *Keybindings
	Settings    *Settings
}

// Load loads the application configuration from the store.
// Creates default configuration files if they don't exist.
func Load(s *store.Store) (*Config, error) {
	if err := LoadEnv(s.Path()); err != nil {
		return nil, err
	}

	kb, err := LoadKeybindings(s)
	if err != nil {
		return nil, err
	}

	settings, err := LoadSettings(s)
	if err != nil {
		return nil, err
	}

	return &Config{
		store:       s,
		Keybindings: kb,
		Settings:    settings,
	}, nil
}

// Save persists the current keybindings to the store.
func (c *Config) Save() error {
	return SaveKeybindings(c.store, c.Keybindings)
}

// ResetKeybindings resets keybindings to their defaults.
func (c *Config) ResetKeybindings() error {
	c.Keybindings = DefaultKeybindings()
	return c.Save()
}

// Keys returns the keybindings for convenient access.
func (c *Config) Keys() *Keybindings {
	return c.Keybindings
}
