// Package config reads the database configuration that tells the store
// where the Packages file lives.
//
// The config file is JSONC (comments and trailing commas allowed):
//
//	{
//	    // Absolute path to the Packages database file.
//	    "dbpath": "/var/lib/rpmq/Packages",
//	}
//
// Resolution order for the default location: $RPMQ_CONFIG if set, then
// ~/.config/rpmq/config.json. A missing file at the default location is not
// an error; built-in defaults apply. An explicitly requested file must
// exist.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// DefaultDBPath is used when no config file sets dbpath.
const DefaultDBPath = "/var/lib/rpmq/Packages"

// EnvConfig names the environment variable overriding the default config
// file location.
const EnvConfig = "RPMQ_CONFIG"

// Sentinel errors returned by config loading.
var (
	ErrNotFound = errors.New("config file not found")
	ErrInvalid  = errors.New("invalid config file")
)

// Config holds the database configuration.
type Config struct {
	DBPath string `json:"dbpath"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{DBPath: DefaultDBPath}
}

// Read loads configuration from path, or from the default location when
// path is empty.
//
// Possible errors: [ErrNotFound] (explicit path missing), [ErrInvalid]
// (unparseable file or empty dbpath).
func Read(path string) (Config, error) {
	mustExist := path != ""

	if path == "" {
		path = defaultPath()
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Default(), nil
		}

		return Config{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	cfg, parseErr := parse(data)
	if parseErr != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrInvalid, path, parseErr)
	}

	return cfg, nil
}

// defaultPath returns the default config file location, or empty if the
// home directory cannot be determined.
func defaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "rpmq", "config.json")
}

func parse(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	cfg := Default()

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	if cfg.DBPath == "" {
		return Config{}, errors.New("dbpath cannot be empty")
	}

	return cfg, nil
}
