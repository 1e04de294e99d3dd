package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	toml "github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const (
	localConfigName = "vigenere.yml"
	envPrefix       = "VIGENERE_"
)

// Config captures the vigenere settings resolved from defaults, optional files,
// and environment overrides.
type Config struct {
	// Direct selects the direct machine; false selects the reverse machine.
	Direct     bool   `yaml:"direct" toml:"direct"`
	Key        string `yaml:"key" toml:"key"`
	ServerAddr string `yaml:"server_addr" toml:"server_addr"`
	RecipesDir string `yaml:"recipes_dir" toml:"recipes_dir"`
	AuditLog   string `yaml:"audit_log" toml:"audit_log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Direct:     true,
		ServerAddr: "127.0.0.1:8642",
	}
}

// Load resolves the configuration using defaults, configuration files, and
// environment overrides. Later sources win:
//  1. ~/.vigenere/config.toml (TOML)
//  2. ./vigenere.yml (YAML)
//  3. VIGENERE_* environment variables
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile applies a single YAML or TOML file, chosen by extension, on top of
// the defaults. Environment overrides still apply.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}
	if err := applyFileConfig(&cfg, data, format); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if strings.TrimSpace(c.ServerAddr) == "" {
		result = multierror.Append(result, errors.New("server_addr must not be empty"))
	} else if !strings.Contains(c.ServerAddr, ":") {
		result = multierror.Append(result, fmt.Errorf("server_addr %q must be host:port", c.ServerAddr))
	}
	if c.Key != "" && strings.TrimSpace(c.Key) == "" {
		result = multierror.Append(result, errors.New("key must not be blank"))
	}
	if c.RecipesDir != "" {
		if info, err := os.Stat(c.RecipesDir); err == nil && !info.IsDir() {
			result = multierror.Append(result, fmt.Errorf("recipes_dir %s is not a directory", c.RecipesDir))
		}
	}
	return result.ErrorOrNil()
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, ".vigenere", "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data, "toml"); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	path := filepath.Join(wd, localConfigName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data, "yaml"); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// fileConfig uses pointers so a file only overrides the keys it sets.
type fileConfig struct {
	Direct     *bool   `yaml:"direct" toml:"direct"`
	Key        *string `yaml:"key" toml:"key"`
	ServerAddr *string `yaml:"server_addr" toml:"server_addr"`
	RecipesDir *string `yaml:"recipes_dir" toml:"recipes_dir"`
	AuditLog   *string `yaml:"audit_log" toml:"audit_log"`
}

func applyFileConfig(cfg *Config, data []byte, format string) error {
	var fc fileConfig
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return err
		}
	case "toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	if fc.Direct != nil {
		cfg.Direct = *fc.Direct
	}
	if fc.Key != nil {
		cfg.Key = *fc.Key
	}
	if fc.ServerAddr != nil {
		cfg.ServerAddr = strings.TrimSpace(*fc.ServerAddr)
	}
	if fc.RecipesDir != nil {
		cfg.RecipesDir = strings.TrimSpace(*fc.RecipesDir)
	}
	if fc.AuditLog != nil {
		cfg.AuditLog = strings.TrimSpace(*fc.AuditLog)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val := strings.TrimSpace(os.Getenv(envPrefix + "DIRECT")); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%sDIRECT: %w", envPrefix, err)
		}
		cfg.Direct = parsed
	}
	if val := os.Getenv(envPrefix + "KEY"); val != "" {
		cfg.Key = val
	}
	if val := strings.TrimSpace(os.Getenv(envPrefix + "SERVER")); val != "" {
		cfg.ServerAddr = val
	}
	if val := strings.TrimSpace(os.Getenv(envPrefix + "RECIPES_DIR")); val != "" {
		cfg.RecipesDir = val
	}
	if val := strings.TrimSpace(os.Getenv(envPrefix + "AUDIT_LOG")); val != "" {
		cfg.AuditLog = val
	}
	return nil
}
