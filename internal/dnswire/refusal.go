package dnswire

import "fmt"

// SynthesizeRefusal builds a 12-byte refusal response per §4.1: same id,
// QR=1 with every other flag bit zero except the RCODE, all four section
// counts zero. No question section is echoed — clients match on id and QR
// alone, and the refusal path never needs to round-trip QNAME/QTYPE/QCLASS.
func SynthesizeRefusal(id uint16, rcode uint8) ([]byte, error) {
	if rcode < 1 || rcode > 15 {
		return nil, fmt.Errorf("refusal: %w: rcode %d out of range", ErrMalformed, rcode)
	}
	h := Header{
		ID:    id,
		Flags: QRFlag | uint16(rcode)&RCodeMask,
	}
	return h.Marshal(), nil
}
