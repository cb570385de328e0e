// Package config loads layered agentsync configuration: embedded
// defaults, then an optional config.toml in the agentsync home, then
// AGENTSYNC_* environment variables. Later layers win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/agentsync/pkg/types"
)

// ConfigFileName is the optional user override file inside the
// agentsync home directory.
const ConfigFileName = "config.toml"

// EnvPrefix is stripped from environment variables before they are
// mapped onto config keys, e.g. AGENTSYNC_BACKUP_RETENTION=3.
const EnvPrefix = "AGENTSYNC_"

// Config is the fully merged runtime configuration.
type Config struct {
	Backup  Backup  `koanf:"backup"`
	State   State   `koanf:"state"`
	Deploy  Deploy  `koanf:"deploy"`
	Logging Logging `koanf:"logging"`
	Agents  Agents  `koanf:"agents"`
}

// Backup controls backup creation and pruning.
type Backup struct {
	// Retention is the number of backup directories kept per agent.
	Retention int `koanf:"retention"`
}

// State controls the deployment state store.
type State struct {
	// History is the maximum number of deployment records kept per agent.
	History int `koanf:"history"`
}

// Deploy holds defaults applied when flags are not given.
type Deploy struct {
	Scope string `koanf:"scope"`
	Force bool   `koanf:"force"`
}

// Logging holds log output settings.
type Logging struct {
	Verbosity int `koanf:"verbosity"`
}

// Agents points the adapter registry at an alternative definitions
// file. Empty means the embedded registry.
type Agents struct {
	File string `koanf:"file"`
}

// DefaultScope returns the configured default deployment scope.
func (c *Config) DefaultScope() types.Scope {
	if c.Deploy.Scope == string(types.ScopeProject) {
		return types.ScopeProject
	}
	return types.ScopeUser
}

// Default returns the built-in configuration without reading any
// file or environment layer.
func Default() *Config {
	cfg, err := load("")
	if err != nil {
		// The embedded defaults are validated by tests; a parse
		// failure here means a broken build.
		panic(fmt.Sprintf("embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load merges defaults, the config file under home (if present), and
// AGENTSYNC_* environment variables.
func Load(home string) (*Config, error) {
	return load(home)
}

func load(home string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if home != "" {
		path := filepath.Join(home, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}

		if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Backup.Retention < 1 {
		return fmt.Errorf("backup.retention must be at least 1, got %d", cfg.Backup.Retention)
	}
	if cfg.State.History < 1 {
		return fmt.Errorf("state.history must be at least 1, got %d", cfg.State.History)
	}
	switch cfg.Deploy.Scope {
	case string(types.ScopeUser), string(types.ScopeProject):
	default:
		return fmt.Errorf("deploy.scope must be %q or %q, got %q",
			types.ScopeUser, types.ScopeProject, cfg.Deploy.Scope)
	}
	return nil
}
