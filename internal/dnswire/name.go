package dnswire

import (
	"fmt"
	"strings"
)

const (
	maxLabelLen  = 63
	maxLabels    = 127
	maxNameBytes = 255
)

// isPointer reports whether b's top two bits are both set, marking it as the
// first byte of a two-byte compression pointer (RFC 1035 Section 4.1.4).
func isPointer(b byte) bool {
	return b&0xC0 == 0xC0
}

// DecodeName walks labels starting at msg[off], following compression
// pointers, and returns the joined dot-separated name plus the offset
// immediately past what was consumed from the prefix (i.e. past the
// terminating zero byte, or past the first two pointer bytes — never past a
// pointer target).
//
// Pointer targets must strictly precede the position of the pointer byte
// itself: forward and self references are rejected outright. Labels read
// after a hop can still run forward onto a pointer already followed, so the
// positions of followed pointers are recorded and reaching one a second time
// is rejected as a cycle. Label count and total name length are capped
// independently of the pointer-safety checks.
func DecodeName(msg []byte, off int) (string, int, error) {
	if off < 0 || off > len(msg) {
		return "", 0, fmt.Errorf("name: %w: offset out of range", ErrMalformed)
	}

	var labels []string
	pos := off
	endOfPrefix := -1 // set once we know where the caller's cursor should land
	nameLen := 0
	visited := make(map[int]struct{})

	for {
		if pos >= len(msg) {
			return "", 0, fmt.Errorf("name: %w: read past end of message", ErrMalformed)
		}
		b := msg[pos]

		switch {
		case isPointer(b):
			if pos+2 > len(msg) {
				return "", 0, fmt.Errorf("name: %w: truncated compression pointer", ErrMalformed)
			}
			target := int(b&0x3F)<<8 | int(msg[pos+1])
			if target >= pos {
				return "", 0, fmt.Errorf("name: %w: pointer does not point strictly backward", ErrMalformed)
			}
			if _, seen := visited[pos]; seen {
				return "", 0, fmt.Errorf("name: %w: compression pointer cycle", ErrMalformed)
			}
			visited[pos] = struct{}{}
			if endOfPrefix < 0 {
				endOfPrefix = pos + 2
			}
			pos = target

		case b == 0:
			if endOfPrefix < 0 {
				endOfPrefix = pos + 1
			}
			return joinLabels(labels), endOfPrefix, nil

		default:
			labelLen := int(b)
			if labelLen > maxLabelLen {
				return "", 0, fmt.Errorf("name: %w: label length %d exceeds %d", ErrMalformed, labelLen, maxLabelLen)
			}
			if pos+1+labelLen > len(msg) {
				return "", 0, fmt.Errorf("name: %w: label read out of bounds", ErrMalformed)
			}
			if len(labels) >= maxLabels {
				return "", 0, fmt.Errorf("name: %w: more than %d labels", ErrMalformed, maxLabels)
			}
			label := string(msg[pos+1 : pos+1+labelLen])
			nameLen += labelLen + 1
			if nameLen > maxNameBytes {
				return "", 0, fmt.Errorf("name: %w: name exceeds %d bytes", ErrMalformed, maxNameBytes)
			}
			labels = append(labels, label)
			pos += 1 + labelLen
		}
	}
}

func joinLabels(labels []string) string {
	return strings.Join(labels, ".")
}

// NormalizeName lowercases a joined name for case-insensitive blacklist
// comparison (§3: "exact string equality on the joined, lowercased name").
func NormalizeName(name string) string {
	return strings.ToLower(name)
}

// EncodeName serializes a dot-joined, already-validated name (no
// compression) to its wire label sequence terminated by a zero byte. It is
// used only by tests constructing fixtures; the forwarding core never
// re-encodes a name on the query path.
func EncodeName(name string) ([]byte, error) {
	if name == "" {
		return []byte{0}, nil
	}
	labels := strings.Split(strings.TrimSuffix(name, "."), ".")
	var b []byte
	total := 0
	for _, l := range labels {
		if len(l) == 0 || len(l) > maxLabelLen {
			return nil, fmt.Errorf("name: %w: invalid label %q", ErrMalformed, l)
		}
		total += len(l) + 1
		if total > maxNameBytes {
			return nil, fmt.Errorf("name: %w: encoded name exceeds %d bytes", ErrMalformed, maxNameBytes)
		}
		b = append(b, byte(len(l)))
		b = append(b, l...)
	}
	b = append(b, 0)
	return b, nil
}
