package config

import "github.com/theoremus-urban-solutions/rail-router/network"

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port               int      `yaml:"port" validate:"gte=0,lte=65535"`
	ShutdownTimeoutSec int      `yaml:"shutdownTimeoutSec" validate:"gte=0"`
	AllowedOrigins     []string `yaml:"allowedOrigins"`
}

// SourceConfig selects where raw world records come from
type SourceConfig struct {
	Kind      string `yaml:"kind" validate:"omitempty,oneof=file http sqlite"`
	Path      string `yaml:"path"`
	URL       string `yaml:"url" validate:"omitempty,url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// CacheConfig controls the graph cache and on-disk dataset snapshots
type CacheConfig struct {
	Size        int    `yaml:"size" validate:"gte=0"`
	TTLMinutes  int    `yaml:"ttlMinutes" validate:"gte=0"`
	SnapshotDir string `yaml:"snapshotDir"`
}

// RoutingConfig holds graph cost parameters and the default search mode.
// Unset cost parameters keep the built-in defaults.
type RoutingConfig struct {
	network.TunableOverrides `yaml:",inline"`
	DefaultMode              string `yaml:"defaultMode" validate:"omitempty,oneof=time transfers distance"`
}

// Tunables resolves the routing section against the defaults.
func (r RoutingConfig) Tunables() network.Tunables {
	return network.DefaultTunables().Apply(r.TunableOverrides)
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
	Output      string `yaml:"output"`
}

// World is a named world, optionally with its own record source
type World struct {
	ID     string        `yaml:"id" validate:"required"`
	Name   string        `yaml:"name"`
	Source *SourceConfig `yaml:"source" validate:"omitempty"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Cache   CacheConfig   `yaml:"cache"`
	Routing RoutingConfig `yaml:"routing"`
	Logging LoggingConfig `yaml:"logging"`
	Worlds  []World       `yaml:"worlds" validate:"dive"`
}
