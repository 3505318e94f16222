package forwarder

import (
	"context"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lennartvoss/sentineldns/internal/blacklist"
	"github.com/lennartvoss/sentineldns/internal/dnswire"
	"github.com/lennartvoss/sentineldns/internal/filter"
	"github.com/lennartvoss/sentineldns/internal/pending"
)

// End-to-end: a client query relayed through a real Loop.Run reaches a real
// upstream socket, and the upstream's reply is relayed back to the client —
// exercising NewUDPConn, waitReadable/unix.Poll, HandlePacket and Sweep all
// wired together instead of individually.
func TestLoopRunForwardsAndRelays(t *testing.T) {
	core, err := NewUDPConn("127.0.0.1:0")
	require.NoError(t, err)
	defer core.Close()

	upstreamConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer upstreamConn.Close()
	upstream := netip.MustParseAddrPort(upstreamConn.LocalAddr().String())

	clientConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer clientConn.Close()

	f := filter.New(blacklist.New(nil), nil)
	table := pending.New()
	dispatcher := NewDispatcher(core, table, f, upstream, 5, 2000, nil)
	loop := NewLoop(core, dispatcher, nil, 20)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	// A stand-in upstream resolver: echo back whatever it receives with the
	// QR bit set.
	upstreamDone := make(chan struct{})
	go func() {
		defer close(upstreamDone)
		buf := make([]byte, 512)
		n, from, err := upstreamConn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		h, err := dnswire.ParseHeader(buf[:n])
		if err != nil {
			return
		}
		reply := dnswire.Header{ID: h.ID, Flags: dnswire.QRFlag}.Marshal()
		_, _ = upstreamConn.WriteToUDP(reply, from)
	}()

	pkt := queryPacket(t, 0x1234, "allowed.test")
	coreAddr := core.LocalAddr().(*net.UDPAddr)
	_, err = clientConn.WriteToUDP(pkt, coreAddr)
	require.NoError(t, err)

	require.NoError(t, clientConn.SetReadDeadline(time.Now().Add(time.Second)))
	buf := make([]byte, 512)
	n, _, err := clientConn.ReadFromUDP(buf)
	require.NoError(t, err, "client never received the relayed reply")

	h, err := dnswire.ParseHeader(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), h.ID)
	assert.True(t, h.IsResponse())

	select {
	case <-upstreamDone:
	case <-time.After(time.Second):
		t.Fatal("stand-in upstream never received the forwarded query")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Loop.Run to return after ctx cancellation")
	}
}

// Run must return promptly (no error) once its context is cancelled, even
// with no traffic at all — the bounded poll wait must not block shutdown.
func TestLoopRunStopsOnContextCancel(t *testing.T) {
	core, err := NewUDPConn("127.0.0.1:0")
	require.NoError(t, err)
	defer core.Close()

	upstream := netip.MustParseAddrPort("203.0.113.1:53")
	f := filter.New(blacklist.New(nil), nil)
	dispatcher := NewDispatcher(core, pending.New(), f, upstream, 5, 2000, nil)
	loop := NewLoop(core, dispatcher, nil, 20)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	<-ctx.Done()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Loop.Run to finish")
	}
}

// NewLoop falls back to defaultSweepIntervalMS when given a non-positive
// sweep interval.
func TestNewLoopDefaultsNonPositiveSweepInterval(t *testing.T) {
	core, err := NewUDPConn("127.0.0.1:0")
	require.NoError(t, err)
	defer core.Close()

	upstream := netip.MustParseAddrPort("203.0.113.1:53")
	f := filter.New(blacklist.New(nil), nil)
	dispatcher := NewDispatcher(core, pending.New(), f, upstream, 5, 2000, nil)

	loop := NewLoop(core, dispatcher, nil, 0)
	assert.Equal(t, defaultSweepIntervalMS, loop.sweepIntervalMS)

	loop = NewLoop(core, dispatcher, nil, -5)
	assert.Equal(t, defaultSweepIntervalMS, loop.sweepIntervalMS)
}

// NewUDPConn binds to an ephemeral loopback port without SO_REUSEPORT
// fan-out (§1: "no concurrency across sockets") — a second bind to the same
// address must fail while the first is open.
func TestNewUDPConnBindsLoopback(t *testing.T) {
	conn, err := NewUDPConn("127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	addr := conn.LocalAddr().String()
	assert.NotEmpty(t, addr)

	_, err = NewUDPConn(addr)
	assert.Error(t, err, "a second listener on the same address must fail")
}
