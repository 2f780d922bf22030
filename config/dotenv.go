package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads base into the environment without overriding variables
// that are already set, then lets local override everything. Missing files
// are ignored.
func LoadDotEnv(base, local string) error {
	if err := godotenv.Load(base); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := godotenv.Overload(local); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
