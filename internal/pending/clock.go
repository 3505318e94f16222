package pending

import "time"

var startedAt = time.Now()

// NowMS returns a monotonic millisecond timestamp suitable for ExpiresAt
// comparisons. It is derived from time.Since, which uses the runtime's
// monotonic clock reading — §5 requires monotonic timekeeping and
// explicitly forbids relying on wall-clock time for correctness.
func NowMS() int64 {
	return time.Since(startedAt).Milliseconds()
}
