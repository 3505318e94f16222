package forwarder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/lennartvoss/sentineldns/internal/pending"
)

// maxDatagramSize is the largest UDP payload the core ever reads. A larger
// datagram is cut short by the read (the kernel reports MSG_TRUNC) and Run
// drops it instead of dispatching the truncated bytes (§6); the length check
// in Dispatcher handles datagrams that are too short.
const maxDatagramSize = 512

// defaultSweepIntervalMS is the fallback poll bound when the caller doesn't
// supply one, matching config.go's "pending.sweep_interval" default of
// 100ms (§5).
const defaultSweepIntervalMS = 100

// Loop is the single-threaded event loop of §4.3/§5: one UDP socket, one
// pending table, one goroutine. It owns the real *net.UDPConn; Dispatcher
// only sees the narrower Socket interface so its logic can be tested
// without a kernel socket.
type Loop struct {
	conn            *net.UDPConn
	dispatcher      *Dispatcher
	logger          *slog.Logger
	sweepIntervalMS int
}

// NewLoop builds a Loop bound to conn. dispatcher must have been built
// against conn itself (conn implements Socket). sweepIntervalMS bounds the
// poll wait so the sweep runs at least this often even when the socket is
// idle; a value <= 0 falls back to defaultSweepIntervalMS.
func NewLoop(conn *net.UDPConn, dispatcher *Dispatcher, logger *slog.Logger, sweepIntervalMS int) *Loop {
	if sweepIntervalMS <= 0 {
		sweepIntervalMS = defaultSweepIntervalMS
	}
	return &Loop{conn: conn, dispatcher: dispatcher, logger: logger, sweepIntervalMS: sweepIntervalMS}
}

// Run blocks until ctx is cancelled or a fatal loop-level I/O error occurs
// (§4.3's "fatal conditions": poll failure, socket error/hangup). Each
// iteration blocks on socket readability with a bounded timeout, reads at
// most one datagram when readable, and always runs the sweep afterward —
// matching §5's "bounded timeout ... also gates the sweeper cadence".
func (l *Loop) Run(ctx context.Context) error {
	rawConn, err := l.conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("forwarder: obtaining raw connection: %w", err)
	}

	buf := make([]byte, maxDatagramSize)
	for {
		if ctx.Err() != nil {
			return nil
		}

		ready, err := waitReadable(rawConn, l.sweepIntervalMS)
		if err != nil {
			return fmt.Errorf("forwarder: poll failed: %w", err)
		}

		if ready {
			n, _, flags, from, err := l.conn.ReadMsgUDPAddrPort(buf, nil)
			if err != nil {
				if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
					return nil
				}
				l.logger.Warn("recv error, terminating loop", "err", err)
				return fmt.Errorf("forwarder: recv: %w", err)
			}
			if flags&unix.MSG_TRUNC != 0 {
				l.dispatcher.drop("oversized datagram", from)
			} else {
				l.dispatcher.HandlePacket(pending.NowMS(), buf[:n], from)
			}
		}

		l.dispatcher.Sweep(pending.NowMS())
	}
}

// waitReadable blocks up to timeoutMS on fd readability using
// golang.org/x/sys/unix.Poll, the same package the teacher uses for socket
// option control — here repurposed for the blocking-wait primitive itself.
func waitReadable(rawConn syscall.RawConn, timeoutMS int) (bool, error) {
	var ready bool
	var pollErr error

	ctrlErr := rawConn.Read(func(fd uintptr) bool {
		for {
			fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
			n, err := unix.Poll(fds, timeoutMS)
			if err != nil {
				if errors.Is(err, unix.EINTR) {
					continue
				}
				pollErr = err
				return true
			}
			if n > 0 && fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
				pollErr = fmt.Errorf("socket error or hangup (revents %#x)", fds[0].Revents)
				return true
			}
			ready = n > 0 && fds[0].Revents&unix.POLLIN != 0
			return true
		}
	})
	if ctrlErr != nil {
		return false, ctrlErr
	}
	return ready, pollErr
}

// NewUDPConn opens and binds the single UDP socket the loop runs on. There
// is deliberately no SO_REUSEPORT fan-out here (§1: "no concurrency across
// sockets") — exactly one socket serves both the client-facing and
// upstream-facing role described in §2.
func NewUDPConn(addr string) (*net.UDPConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("forwarder: resolving listen address: %w", err)
	}
	conn, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("forwarder: binding socket: %w", err)
	}
	return conn, nil
}
