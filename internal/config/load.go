package config

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasklist-go/internal/storage"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasklist/tasklist.toml or OS-specific config dir)
// 3. Project config file (tasklist.toml, .tasklist.toml or .tasklist/tasklist.toml)
// 4. Environment variables
// 5. CLI flags
//
// Flags are registered on fs and parsed from args; fs.Args() holds the
// remaining arguments afterwards.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cws := &ConfigWithSources{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}
	cfg := cws.Config

	// 1. Set defaults
	setDefaults(cfg)
	for _, field := range configFields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, cws.Sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
	}

	// 3. Try to load from project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, cws.Sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, cws.Sources); err != nil {
		return nil, err
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// loadConfigFile decodes a TOML file over cfg and records which keys it set.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if !slices.Contains(storage.Backends(), cfg.Backend) {
		return fmt.Errorf("unknown backend %q (expected %s)", cfg.Backend, strings.Join(storage.Backends(), "|"))
	}
	if cfg.QuotaBytes < 0 {
		return fmt.Errorf("quota_bytes must not be negative, got %d", cfg.QuotaBytes)
	}
	if cfg.ErrorTimeout <= 0 {
		return fmt.Errorf("error_timeout must be positive, got %s", cfg.ErrorTimeout)
	}

	// Determine project root
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.StoreFile = resolvePath(cfg.ProjectRoot, cfg.StoreFile)
	cfg.SQLiteFile = resolvePath(cfg.ProjectRoot, cfg.SQLiteFile)

	return nil
}
