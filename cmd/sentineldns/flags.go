package main

import (
	"flag"

	"github.com/lennartvoss/sentineldns/internal/config"
)

// cliFlags holds parsed command-line flag values.
type cliFlags struct {
	configPath string
	listenAddr string
	upstream   string
	jsonLogs   bool
	debug      bool
}

// parseFlags parses command-line flags and returns the values.
func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "Path to YAML config file (overrides SENTINELDNS_CONFIG)")
	flag.StringVar(&f.listenAddr, "listen", "", "Override the UDP listen address (host:port)")
	flag.StringVar(&f.upstream, "upstream", "", "Override the upstream resolver IPv4 address")
	flag.BoolVar(&f.jsonLogs, "json-logs", false, "Enable JSON structured logging")
	flag.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	flag.Parse()
	return f
}

// applyCLIOverrides applies command-line overrides to the loaded config.
func applyCLIOverrides(cfg *config.Config, f cliFlags) {
	if f.listenAddr != "" {
		cfg.Server.ListenAddr = f.listenAddr
	}
	if f.upstream != "" {
		cfg.Upstream.Address = f.upstream
	}
	if f.jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if f.debug {
		cfg.Logging.Level = "DEBUG"
	}
}
