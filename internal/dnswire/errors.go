// Package dnswire parses and emits just enough of the DNS wire format (RFC
// 1035 Section 4) to drive a forwarding decision: the fixed 12-byte header
// and the question section, including name decompression. It does not
// interpret answer, authority, or additional records — those are relayed
// byte-for-byte by the forwarding core without re-encoding.
package dnswire

import "errors"

// ErrMalformed is the sentinel wire-parse error. Wrap it with
// fmt.Errorf("context: %w", ErrMalformed) to add detail; callers that only
// need to classify a failure can errors.Is against it.
var ErrMalformed = errors.New("dnswire: malformed message")
