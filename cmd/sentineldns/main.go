// Command sentineldns runs the filtering DNS forwarder described by
// SPEC_FULL.md: a single-threaded UDP relay that refuses queries against a
// configured blacklist and forwards everything else to one upstream
// resolver, optionally exposing a read-only observability surface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lennartvoss/sentineldns/internal/adminapi"
	"github.com/lennartvoss/sentineldns/internal/blacklist"
	"github.com/lennartvoss/sentineldns/internal/config"
	"github.com/lennartvoss/sentineldns/internal/filter"
	"github.com/lennartvoss/sentineldns/internal/forwarder"
	"github.com/lennartvoss/sentineldns/internal/logging"
	"github.com/lennartvoss/sentineldns/internal/pending"
	"github.com/lennartvoss/sentineldns/internal/store"
)

// upstreamDNSPort is the fixed port the configured upstream resolver is
// assumed to listen on — §6 configures only the upstream's IPv4 address, not
// a port, so the standard DNS port is the only sensible default.
const upstreamDNSPort = 53

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := parseFlags()

	cfg, err := config.Load(config.ResolveConfigPath(flags.configPath))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyCLIOverrides(cfg, flags)

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.StructuredFormat,
		IncludePID:       cfg.Logging.IncludePID,
	})
	logger.Info("sentineldns starting",
		"listen_addr", cfg.Server.ListenAddr,
		"upstream", cfg.Upstream.Address,
		"rcode", cfg.Filtering.RCode,
	)

	list, err := buildBlacklist(cfg, logger)
	if err != nil {
		return fmt.Errorf("building blacklist: %w", err)
	}
	logger.Info("blacklist loaded", "entries", list.Len())

	upstreamIP, err := netip.ParseAddr(cfg.Upstream.Address)
	if err != nil {
		return fmt.Errorf("parsing upstream address: %w", err)
	}
	upstream := netip.AddrPortFrom(upstreamIP, upstreamDNSPort)

	conn, err := forwarder.NewUDPConn(cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("opening listen socket: %w", err)
	}
	defer conn.Close()

	policy := filter.New(list, logger)
	table := pending.New()
	dispatcher := forwarder.NewDispatcher(
		conn,
		table,
		policy,
		upstream,
		uint8(cfg.Filtering.RCode),
		cfg.Pending.RequestTTL.Milliseconds(),
		logger,
	)
	loop := forwarder.NewLoop(conn, dispatcher, logger, int(cfg.Pending.SweepInterval.Milliseconds()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var admin *adminapi.Server
	if cfg.Admin.Enabled {
		admin = adminapi.New(adminapi.Config{Host: cfg.Admin.Host, Port: cfg.Admin.Port}, logger, dispatcher, policy)
		logger.Info("admin API starting", "addr", admin.Addr())
		go func() {
			if err := admin.ListenAndServe(); err != nil {
				logger.Error("admin API error", "err", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- loop.Run(ctx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		cancel()
		if err != nil {
			return fmt.Errorf("forwarding loop exited: %w", err)
		}
	}

	if admin != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = admin.Shutdown(shutdownCtx)
		shutdownCancel()
	}

	logger.Info("sentineldns stopped")
	return nil
}

// buildBlacklist merges the inline config domain list with the optional
// SQLite-backed store (§B.3), producing the single immutable Set the
// forwarder runs against for the rest of the process lifetime (§3, §9).
func buildBlacklist(cfg *config.Config, logger *slog.Logger) (*blacklist.Set, error) {
	inline := blacklist.New(cfg.Filtering.Domains)
	if cfg.Filtering.DBPath == "" {
		return inline, nil
	}

	s, err := store.Open(cfg.Filtering.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening blacklist store: %w", err)
	}
	defer s.Close()

	domains, err := s.Domains()
	if err != nil {
		return nil, fmt.Errorf("reading persisted blacklist: %w", err)
	}
	logger.Info("persisted blacklist loaded", "path", cfg.Filtering.DBPath, "entries", len(domains))

	return blacklist.Merge(inline, blacklist.New(domains)), nil
}
