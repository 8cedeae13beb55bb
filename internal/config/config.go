package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Built-in defaults used when neither a flag nor the config file sets a value.
const (
	DefaultSource      = "repo"
	DefaultDestination = "destination"
	DefaultFormats     = ".php,.js,.py,.html,.css,.txt"
)

// Config represents the optional txtcopy configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
}

// DefaultsConfig holds flag defaults. Nil means "not set in the file".
type DefaultsConfig struct {
	Source      *string  `toml:"source"`
	Destination *string  `toml:"destination"`
	Formats     *string  `toml:"formats"`
	Exclude     []string `toml:"exclude"`
	Gitignore   *bool    `toml:"gitignore"`
	BWLimit     *string  `toml:"bwlimit"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "txtcopy", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads a config file from an explicit path.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	cfg.Defaults.Source = expandHome(cfg.Defaults.Source)
	cfg.Defaults.Destination = expandHome(cfg.Defaults.Destination)
	return cfg, nil
}

func expandHome(p *string) *string {
	if p == nil || !strings.HasPrefix(*p, "~") {
		return p
	}
	rest := strings.TrimPrefix(*p, "~")
	if rest != "" && rest[0] != '/' && rest[0] != filepath.Separator {
		return p // ~user is not expanded
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	expanded := filepath.Join(home, rest)
	return &expanded
}
