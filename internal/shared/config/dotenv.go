package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"matchrate-backend/internal/shared/telemetry"
)

// loadEnvFiles loads KEY=VALUE files for local development. Missing files are
// skipped and variables already set in the environment win.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			telemetry.Error("config.env_file_invalid", map[string]any{"path": path, "error": err.Error()})
		}
	}
}
