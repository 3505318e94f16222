package forwarder

import "net/netip"

//go:generate mockgen -source=socket.go -destination=socket_mock.go -package=forwarder

// Socket is the narrow read/write surface the forwarding core needs from a
// UDP connection. *net.UDPConn already satisfies it. Narrowing it to an
// interface lets Dispatcher's tests drive the correlation logic through a
// go.uber.org/mock fake instead of a real kernel socket.
type Socket interface {
	ReadFromUDPAddrPort(b []byte) (n int, addr netip.AddrPort, err error)
	WriteToUDPAddrPort(b []byte, addr netip.AddrPort) (n int, err error)
}
