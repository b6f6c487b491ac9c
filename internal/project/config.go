package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
)

// Переменные окружения поверх hxsl.toml.
const (
	EnvMaxDiagnostics = "HXSL_MAX_DIAGNOSTICS"
	EnvCacheDir       = "HXSL_CACHE_DIR"
	EnvNoCache        = "HXSL_NO_CACHE"
	EnvJobs           = "HXSL_JOBS"
)

// Config is the effective project configuration.
type Config struct {
	Path     string         `toml:"-"` // пусто, если hxsl.toml не найден
	Root     string         `toml:"-"`
	Compiler CompilerConfig `toml:"compiler"`
	Cache    CacheConfig    `toml:"cache"`
}

type CompilerConfig struct {
	MaxDiagnostics  int  `toml:"max_diagnostics"`
	MaxDepth        int  `toml:"max_depth"`
	Jobs            int  `toml:"jobs"`
	Classes         bool `toml:"classes"`
	AllowUnresolved bool `toml:"allow_unresolved"`
}

type CacheConfig struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// Default is the configuration without hxsl.toml or environment.
func Default() Config {
	return Config{Compiler: CompilerConfig{MaxDiagnostics: 100}}
}

var errUnknownKey = errors.New("unknown key")

// LoadConfig reads path. Unknown keys are errors; missing keys keep defaults.
// Relative cache.dir is resolved against the file's directory.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, errUnknownKey, strings.Join(names, ", "))
	}
	if meta.IsDefined("compiler", "max_diagnostics") && cfg.Compiler.MaxDiagnostics <= 0 {
		return Config{}, fmt.Errorf("%s: [compiler].max_diagnostics must be positive", path)
	}
	if meta.IsDefined("compiler", "max_depth") && cfg.Compiler.MaxDepth <= 0 {
		return Config{}, fmt.Errorf("%s: [compiler].max_depth must be positive", path)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(cfg.Root, filepath.FromSlash(cfg.Cache.Dir))
	}
	return cfg, nil
}

// Resolve finds the project configuration for startDir. explicit, when set,
// names the file directly and must exist. Environment overrides are applied
// last.
func Resolve(startDir, explicit string) (Config, error) {
	cfg := Default()
	path := explicit
	if path == "" {
		found, ok, err := FindConfig(startDir)
		if err != nil {
			return Config{}, err
		}
		if ok {
			path = found
		}
	} else if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overlays HXSL_* variables.
func (c *Config) ApplyEnv() {
	if n := env.Int(EnvMaxDiagnostics, 0); n > 0 {
		c.Compiler.MaxDiagnostics = n
	}
	if n := env.Int(EnvJobs, 0); n > 0 {
		c.Compiler.Jobs = n
	}
	if dir := env.Str(EnvCacheDir); dir != "" {
		c.Cache.Dir = env.ExpandUser(dir)
	}
	if env.Bool(EnvNoCache) {
		c.Cache.Disabled = true
	}
}
