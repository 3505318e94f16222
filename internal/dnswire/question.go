package dnswire

import (
	"encoding/binary"
	"fmt"
)

// Question is a single question-section entry: a name plus QTYPE/QCLASS.
// The forwarding core only ever needs the normalized name for policy
// decisions; Type and Class are retained for completeness and tests.
type Question struct {
	Name  string
	Type  uint16
	Class uint16
}

// ParseQuestion parses one question entry at off and returns it along with
// the offset immediately past QTYPE+QCLASS. The name is normalized
// (lowercased) per §3 so callers never need to re-normalize for blacklist
// comparison.
func ParseQuestion(msg []byte, off int) (Question, int, error) {
	name, next, err := DecodeName(msg, off)
	if err != nil {
		return Question{}, 0, err
	}
	if next+4 > len(msg) {
		return Question{}, 0, fmt.Errorf("question: %w: truncated QTYPE/QCLASS", ErrMalformed)
	}
	q := Question{
		Name:  NormalizeName(name),
		Type:  binary.BigEndian.Uint16(msg[next : next+2]),
		Class: binary.BigEndian.Uint16(msg[next+2 : next+4]),
	}
	return q, next + 4, nil
}

// ParseQuestions walks qdCount questions starting at offset 12 (immediately
// after the header) and returns their normalized names in question order
// plus the offset at which the question section ends.
func ParseQuestions(msg []byte, qdCount uint16) ([]string, int, error) {
	off := HeaderSize
	names := make([]string, 0, qdCount)
	for i := uint16(0); i < qdCount; i++ {
		q, next, err := ParseQuestion(msg, off)
		if err != nil {
			return nil, 0, err
		}
		names = append(names, q.Name)
		off = next
	}
	return names, off, nil
}
