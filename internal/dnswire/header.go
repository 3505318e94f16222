package dnswire

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size of a DNS message header in bytes.
const HeaderSize = 12

// QRFlag is the bit distinguishing a response (1) from a query (0).
const QRFlag uint16 = 0x8000

// RCodeMask isolates the 4-bit RCODE occupying the low bits of Flags.
const RCodeMask uint16 = 0x000F

// Header is the fixed-size leading section of every DNS message (RFC 1035
// Section 4.1.1). Only the fields the forwarding core needs are modeled;
// Opcode/AA/TC/RD/RA/Z are carried inside Flags but never inspected.
type Header struct {
	ID      uint16
	Flags   uint16
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// IsResponse reports whether the QR bit is set.
func (h Header) IsResponse() bool {
	return h.Flags&QRFlag != 0
}

// RCode extracts the response code from Flags.
func (h Header) RCode() uint16 {
	return h.Flags & RCodeMask
}

// Marshal serializes the header to its 12-byte wire form.
func (h Header) Marshal() []byte {
	b := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(b[0:2], h.ID)
	binary.BigEndian.PutUint16(b[2:4], h.Flags)
	binary.BigEndian.PutUint16(b[4:6], h.QDCount)
	binary.BigEndian.PutUint16(b[6:8], h.ANCount)
	binary.BigEndian.PutUint16(b[8:10], h.NSCount)
	binary.BigEndian.PutUint16(b[10:12], h.ARCount)
	return b
}

// ParseHeader reads the 12-byte header at the start of msg. It does not
// validate the section counts against the message length — that is left to
// the caller, which in this codec never reads past what it actually walks.
func ParseHeader(msg []byte) (Header, error) {
	if len(msg) < HeaderSize {
		return Header{}, fmt.Errorf("header: %w: got %d bytes, need %d", ErrMalformed, len(msg), HeaderSize)
	}
	return Header{
		ID:      binary.BigEndian.Uint16(msg[0:2]),
		Flags:   binary.BigEndian.Uint16(msg[2:4]),
		QDCount: binary.BigEndian.Uint16(msg[4:6]),
		ANCount: binary.BigEndian.Uint16(msg[6:8]),
		NSCount: binary.BigEndian.Uint16(msg[8:10]),
		ARCount: binary.BigEndian.Uint16(msg[10:12]),
	}, nil
}
