package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env files from the app directory and then the working
// directory. Variables already set in the environment are never replaced,
// and the first file to define a variable wins. Missing files are skipped.
func LoadEnv(appDir string) error {
	for _, path := range []string{filepath.Join(appDir, ".env"), ".env"} {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
