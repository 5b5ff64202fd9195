// internal/config/dotenv.go
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadDotenv loads KEY=value pairs from path into the process environment.
// Variables already set are not overridden. A missing file is not an error
// unless required is set.
func LoadDotenv(path string, required bool) error {
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
