package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrConfig is the sentinel for configuration faults — all of them fatal
// to startup per §7.
var ErrConfig = fmt.Errorf("sentineldns: configuration error")

func initConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SENTINELDNS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading config file: %v", ErrConfig, err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":53")

	v.SetDefault("upstream.address", "8.8.8.8")

	v.SetDefault("filtering.domains", []string{})
	v.SetDefault("filtering.rcode", 5)
	v.SetDefault("filtering.db_path", "")

	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.structured", false)
	v.SetDefault("logging.structured_format", "json")
	v.SetDefault("logging.include_pid", false)

	v.SetDefault("admin.enabled", false)
	v.SetDefault("admin.host", "127.0.0.1")
	v.SetDefault("admin.port", 8080)

	v.SetDefault("pending.request_ttl", "2s")
	v.SetDefault("pending.sweep_interval", "100ms")
}

func loadFromSource(configPath string) (*Config, error) {
	v, err := initConfig(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			ListenAddr: v.GetString("server.listen_addr"),
		},
		Upstream: UpstreamConfig{
			Address: v.GetString("upstream.address"),
		},
		Filtering: FilteringConfig{
			Domains: getStringSliceOrSplit(v, "filtering.domains"),
			RCode:   v.GetInt("filtering.rcode"),
			DBPath:  v.GetString("filtering.db_path"),
		},
		Logging: LoggingConfig{
			Level:            strings.ToUpper(v.GetString("logging.level")),
			Structured:       v.GetBool("logging.structured"),
			StructuredFormat: v.GetString("logging.structured_format"),
			IncludePID:       v.GetBool("logging.include_pid"),
		},
		Admin: AdminConfig{
			Enabled: v.GetBool("admin.enabled"),
			Host:    v.GetString("admin.host"),
			Port:    v.GetInt("admin.port"),
		},
		Pending: PendingConfig{
			RequestTTL:    v.GetDuration("pending.request_ttl"),
			SweepInterval: v.GetDuration("pending.sweep_interval"),
		},
	}

	if err := normalizeConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getStringSliceOrSplit handles both a YAML/flag slice and a
// comma-separated environment-variable string for the same key.
func getStringSliceOrSplit(v *viper.Viper, key string) []string {
	// A plain string (an environment variable) must reach the comma split
	// below: GetStringSlice would split it on whitespace instead.
	_, isString := v.Get(key).(string)
	if slice := v.GetStringSlice(key); !isString && len(slice) > 0 {
		result := make([]string, 0, len(slice))
		for _, s := range slice {
			if s = strings.TrimSpace(s); s != "" {
				result = append(result, s)
			}
		}
		return result
	}
	if s := v.GetString(key); s != "" {
		parts := strings.Split(s, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return nil
}

// normalizeConfig validates the loaded tree against §6's contract: a
// refusal rcode outside [1,5] or an unparsable upstream address both abort
// startup.
func normalizeConfig(cfg *Config) error {
	if cfg.Filtering.RCode < 1 || cfg.Filtering.RCode > 5 {
		return fmt.Errorf("%w: filtering.rcode must be in [1,5], got %d", ErrConfig, cfg.Filtering.RCode)
	}

	addr := net.ParseIP(cfg.Upstream.Address)
	if addr == nil || addr.To4() == nil {
		return fmt.Errorf("%w: upstream.address %q is not a dotted-quad IPv4 address", ErrConfig, cfg.Upstream.Address)
	}

	if cfg.Server.ListenAddr == "" {
		return fmt.Errorf("%w: server.listen_addr must not be empty", ErrConfig)
	}

	if cfg.Pending.RequestTTL <= 0 {
		cfg.Pending.RequestTTL = 2 * time.Second
	}
	if cfg.Pending.SweepInterval <= 0 {
		cfg.Pending.SweepInterval = 100 * time.Millisecond
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Admin.Host == "" {
		cfg.Admin.Host = "127.0.0.1"
	}
	if cfg.Admin.Enabled && (cfg.Admin.Port <= 0 || cfg.Admin.Port > 65535) {
		return fmt.Errorf("%w: admin.port must be in [1,65535]", ErrConfig)
	}

	return nil
}
