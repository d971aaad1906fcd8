package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied after loading.
const (
	DefaultPort            = 8088
	DefaultShutdownTimeout = 10
	DefaultSourceKind      = "file"
	DefaultSourcePath      = "./worlds"
	DefaultCacheSize       = 16
	DefaultLogLevel        = "info"
	DefaultMode            = "time"
)

// searchPaths are tried in order when no explicit path is given.
var searchPaths = []string{"config.yml", "./configs/config.yml"}

// Load reads a configuration file, applies .env and RAILROUTE_* environment
// overrides, fills defaults and validates the result. An empty path searches
// the default locations and falls back to defaults when none exists; an
// explicit path must exist.
func Load(path string) (AppConfig, error) {
	_ = godotenv.Load()

	var cfg AppConfig
	data, err := readConfig(path)
	if err != nil {
		return cfg, err
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func readConfig(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return data, nil
	}
	for _, p := range searchPaths {
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", p, err)
		}
	}
	return nil, nil
}

func applyEnv(cfg *AppConfig) error {
	str := map[string]*string{
		"RAILROUTE_SOURCE_KIND":  &cfg.Source.Kind,
		"RAILROUTE_SOURCE_PATH":  &cfg.Source.Path,
		"RAILROUTE_SOURCE_URL":   &cfg.Source.URL,
		"RAILROUTE_SNAPSHOT_DIR": &cfg.Cache.SnapshotDir,
		"RAILROUTE_LOG_LEVEL":    &cfg.Logging.Level,
		"RAILROUTE_DEFAULT_MODE": &cfg.Routing.DefaultMode,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"RAILROUTE_PORT":              &cfg.Server.Port,
		"RAILROUTE_CACHE_SIZE":        &cfg.Cache.Size,
		"RAILROUTE_CACHE_TTL_MINUTES": &cfg.Cache.TTLMinutes,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv("RAILROUTE_ALLOWED_ORIGINS"); ok {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ShutdownTimeoutSec == 0 {
		cfg.Server.ShutdownTimeoutSec = DefaultShutdownTimeout
	}
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = DefaultSourceKind
	}
	if cfg.Source.Kind == DefaultSourceKind && cfg.Source.Path == "" {
		cfg.Source.Path = DefaultSourcePath
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = DefaultCacheSize
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Routing.DefaultMode == "" {
		cfg.Routing.DefaultMode = DefaultMode
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SelectWorld chooses a world by id or name. An empty name picks the first
// configured world; an unknown name is returned as a bare world id. The
// returned source is the world's own source, else the top-level one.
func (c AppConfig) SelectWorld(name string) (World, SourceConfig) {
	pick := func(w World) (World, SourceConfig) {
		if w.Source != nil {
			return w, *w.Source
		}
		return w, c.Source
	}
	if name != "" {
		for _, w := range c.Worlds {
			if w.ID == name || w.Name == name {
				return pick(w)
			}
		}
		return World{ID: name, Name: name}, c.Source
	}
	if len(c.Worlds) > 0 {
		return pick(c.Worlds[0])
	}
	return World{}, c.Source
}
