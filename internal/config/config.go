// Package config loads okrboard's optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sadopc/okrboard/internal/objective"
	"gopkg.in/yaml.v3"
)

// EnvPath overrides the configuration file location.
const EnvPath = "OKRBOARD_CONFIG"

type Config struct {
	// Seed is a YAML seed file. Empty means the built-in dataset.
	Seed string `yaml:"seed"`
	// Watch reloads the seed file whenever it changes on disk.
	Watch   bool   `yaml:"watch"`
	Sort    string `yaml:"sort"`
	Order   string `yaml:"order"`
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`
}

func Default() Config {
	return Config{
		Sort:    string(objective.SortAlphabetical),
		Order:   string(objective.Ascending),
		LogFile: "okrboard-debug.log",
	}
}

// DefaultPath returns $OKRBOARD_CONFIG or ~/.config/okrboard/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "okrboard", "config.yaml"), nil
}

// Load reads the file at path over the defaults. A missing file is not an
// error. Relative seed paths are resolved against the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Seed != "" && !filepath.IsAbs(cfg.Seed) {
		cfg.Seed = filepath.Join(filepath.Dir(path), cfg.Seed)
	}
	if _, err := cfg.Spec(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Spec is the filter spec the dashboard starts with.
func (c Config) Spec() (objective.Spec, error) {
	spec := objective.DefaultSpec()
	if c.Sort != "" {
		k, err := objective.ParseSortKey(c.Sort)
		if err != nil {
			return spec, err
		}
		spec.SortKey = k
	}
	if c.Order != "" {
		d, err := objective.ParseSortDirection(c.Order)
		if err != nil {
			return spec, err
		}
		spec.SortDirection = d
	}
	return spec, nil
}
