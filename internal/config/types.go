// Package config loads sentineldns's configuration using Viper, following
// the teacher's layering: hardcoded defaults, then an optional YAML file,
// then SENTINELDNS_-prefixed environment variables, then CLI flag
// overrides applied by the caller (cmd/sentineldns). Configuration is
// loaded once at startup and treated as immutable afterward (§9).
package config

import (
	"os"
	"strings"
	"time"
)

// Config is the fully loaded, validated configuration tree.
type Config struct {
	Server    ServerConfig    `yaml:"server"    mapstructure:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"  mapstructure:"upstream"`
	Filtering FilteringConfig `yaml:"filtering" mapstructure:"filtering"`
	Logging   LoggingConfig   `yaml:"logging"   mapstructure:"logging"`
	Admin     AdminConfig     `yaml:"admin"     mapstructure:"admin"`
	Pending   PendingConfig   `yaml:"pending"   mapstructure:"pending"`
}

// ServerConfig is the listen side of §6: the single UDP socket the core
// both serves clients on and dials upstream from.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" mapstructure:"listen_addr"`
}

// UpstreamConfig is the single resolver address §3 requires; there is
// deliberately no list, retry policy, or failover here (§1 Non-goals: "not
// a multi-upstream load balancer").
type UpstreamConfig struct {
	Address string `yaml:"address" mapstructure:"address"`
}

// FilteringConfig is the blacklist and refusal policy of §3/§6. DBPath, if
// set, names an optional SQLite-backed blacklist table (§B.3) merged with
// Domains at load time.
type FilteringConfig struct {
	Domains []string `yaml:"domains" mapstructure:"domains"`
	RCode   int      `yaml:"rcode"   mapstructure:"rcode"`
	DBPath  string   `yaml:"db_path" mapstructure:"db_path"`
}

// LoggingConfig mirrors the teacher's internal/logging.Config fields.
type LoggingConfig struct {
	Level            string `yaml:"level"             mapstructure:"level"`
	Structured       bool   `yaml:"structured"        mapstructure:"structured"`
	StructuredFormat string `yaml:"structured_format" mapstructure:"structured_format"`
	IncludePID       bool   `yaml:"include_pid"       mapstructure:"include_pid"`
}

// AdminConfig is the optional observability HTTP surface of §B.2.
// Disabled and loopback-bound by default, matching the teacher's api.*
// defaults.
type AdminConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Host    string `yaml:"host"    mapstructure:"host"`
	Port    int    `yaml:"port"    mapstructure:"port"`
}

// PendingConfig overrides the pending-table TTL and sweep cadence of §3/§5.
type PendingConfig struct {
	RequestTTL    time.Duration `yaml:"request_ttl"    mapstructure:"request_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
}

// Load loads configuration from an optional YAML file with environment and
// default layering, then validates it. This is the main entry point for
// loading configuration.
func Load(path string) (*Config, error) {
	return loadFromSource(path)
}

// ResolveConfigPath determines the config file path from a flag value or
// the SENTINELDNS_CONFIG environment variable, flag taking precedence.
func ResolveConfigPath(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if v := strings.TrimSpace(os.Getenv("SENTINELDNS_CONFIG")); v != "" {
		return v
	}
	return ""
}
