package forwarder

import (
	"log/slog"
	"net/netip"
	"sync/atomic"

	"github.com/lennartvoss/sentineldns/internal/dnswire"
	"github.com/lennartvoss/sentineldns/internal/filter"
	"github.com/lennartvoss/sentineldns/internal/pending"
)

// Stats are the atomic counters the observability API (§B.2) snapshots.
type Stats struct {
	Forwarded    atomic.Uint64
	Refused      atomic.Uint64
	Dropped      atomic.Uint64
	Unauthorized atomic.Uint64
}

// StatsSnapshot is a point-in-time, allocation-free copy of Stats plus the
// current pending-table size.
type StatsSnapshot struct {
	Forwarded    uint64
	Refused      uint64
	Dropped      uint64
	Unauthorized uint64
	PendingCount int
}

// Dispatcher implements §4.3's per-packet dispatch logic against a Socket,
// a pending-request Table, and a Filter. It holds no knowledge of how
// packets arrive (poll, channel, test fixture) — Loop supplies that.
type Dispatcher struct {
	sock     Socket
	table    *pending.Table
	policy   *filter.Filter
	upstream netip.AddrPort
	rcode    uint8
	ttlMS    int64
	logger   *slog.Logger
	stats    Stats
}

// NewDispatcher builds a Dispatcher. rcode must already be validated to lie
// in [1,5] by the configuration loader (§6).
func NewDispatcher(sock Socket, table *pending.Table, policy *filter.Filter, upstream netip.AddrPort, rcode uint8, ttlMS int64, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sock:     sock,
		table:    table,
		policy:   policy,
		upstream: upstream,
		rcode:    rcode,
		ttlMS:    ttlMS,
		logger:   logger,
	}
}

// HandlePacket is event source 1 of §4.3: a datagram became readable. It
// parses the header, branches on QR, and drives the query or reply path.
// now is the monotonic-millisecond clock reading at which the packet was
// received.
func (d *Dispatcher) HandlePacket(now int64, buf []byte, from netip.AddrPort) {
	if len(buf) < dnswire.HeaderSize {
		d.drop("short packet", from)
		return
	}

	h, err := dnswire.ParseHeader(buf)
	if err != nil {
		d.drop("header parse error", from)
		return
	}

	if h.IsResponse() {
		d.handleUpstreamReply(h, buf, from)
		return
	}
	d.handleClientQuery(now, h, buf, from)
}

func (d *Dispatcher) handleClientQuery(now int64, h dnswire.Header, buf []byte, from netip.AddrPort) {
	names, _, err := dnswire.ParseQuestions(buf, h.QDCount)
	if err != nil {
		d.drop("question parse error", from)
		return
	}

	if res := d.policy.Evaluate(names); !res.Allowed {
		d.refuse(h.ID, from)
		return
	}

	if !d.table.Insert(h.ID, from, now+d.ttlMS) {
		// §4.3 id-collision policy (a): refuse forwarding of the duplicate
		// outright; Insert itself is the single source of truth on whether
		// an id is already in flight.
		d.logf("dropping duplicate in-flight query id", "id", h.ID, "from", from)
		d.stats.Dropped.Add(1)
		return
	}

	if _, err := d.sock.WriteToUDPAddrPort(buf, d.upstream); err != nil {
		d.logf("upstream send failed", "err", err)
		d.stats.Dropped.Add(1)
		d.table.Remove(h.ID)
		return
	}

	d.stats.Forwarded.Add(1)
	d.logf("query forwarded upstream", "id", h.ID, "from", from)
}

func (d *Dispatcher) handleUpstreamReply(h dnswire.Header, buf []byte, from netip.AddrPort) {
	if from != d.upstream {
		d.logf("unauthorized reply rejected", "from", from)
		d.stats.Unauthorized.Add(1)
		return
	}

	entry, ok := d.table.Lookup(h.ID)
	if !ok {
		// Either expired already or never sent; drop silently per §7.
		d.stats.Dropped.Add(1)
		return
	}

	if _, err := d.sock.WriteToUDPAddrPort(buf, entry.ClientAddr); err != nil {
		d.logf("client relay failed", "err", err)
	}
	d.table.Remove(h.ID)
}

func (d *Dispatcher) refuse(id uint16, from netip.AddrPort) {
	resp, err := dnswire.SynthesizeRefusal(id, d.rcode)
	if err != nil {
		d.logf("failed to synthesize refusal", "err", err)
		d.stats.Dropped.Add(1)
		return
	}
	if _, err := d.sock.WriteToUDPAddrPort(resp, from); err != nil {
		d.logf("refusal send failed", "err", err)
		return
	}
	d.stats.Refused.Add(1)
}

func (d *Dispatcher) drop(reason string, from netip.AddrPort) {
	d.logf("dropping malformed packet", "reason", reason, "from", from)
	d.stats.Dropped.Add(1)
}

func (d *Dispatcher) logf(msg string, args ...any) {
	if d.logger == nil {
		return
	}
	d.logger.Debug(msg, args...)
}

// Sweep is event source 2 of §4.3: remove every pending entry past its
// deadline. Called once per loop iteration regardless of whether a packet
// was also read this tick.
func (d *Dispatcher) Sweep(now int64) {
	d.table.Sweep(now)
}

// Snapshot returns a copy of the current counters plus pending-table size.
func (d *Dispatcher) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Forwarded:    d.stats.Forwarded.Load(),
		Refused:      d.stats.Refused.Load(),
		Dropped:      d.stats.Dropped.Load(),
		Unauthorized: d.stats.Unauthorized.Load(),
		PendingCount: d.table.Len(),
	}
}
