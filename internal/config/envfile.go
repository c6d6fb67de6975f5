package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// ReadEnvFile returns the key/value pairs in path, or an empty map if the file
// does not exist.
func ReadEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

// SaveEnvFile writes values to path, dropping empty entries.
func SaveEnvFile(path string, values map[string]string) error {
	clean := make(map[string]string, len(values))
	for k, v := range values {
		if v != "" {
			clean[k] = v
		}
	}
	if err := godotenv.Write(clean, path); err != nil {
		return fmt.Errorf("failed to write env file %s: %w", path, err)
	}
	return nil
}
