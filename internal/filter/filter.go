// Package filter is the policy-filter component of §4.2: given a parsed
// question section and a pre-normalized blacklist, decide whether a query
// is allowed. It carries forward the teacher's atomic-counter style for
// observability without the whitelist/remote-blocklist/refresh machinery
// that component owned — those are all out of scope here.
package filter

import (
	"log/slog"
	"sync/atomic"

	"github.com/lennartvoss/sentineldns/internal/blacklist"
)

// Result is the outcome of evaluating one query's question names.
type Result struct {
	Allowed bool
	// MatchedName is the blacklist entry that caused a denial, empty when
	// Allowed is true.
	MatchedName string
}

// Filter evaluates queries against an immutable blacklist and tracks
// allow/deny counts for the observability API (§B.2).
type Filter struct {
	logger *slog.Logger
	list   *blacklist.Set

	allowed atomic.Uint64
	denied  atomic.Uint64
}

// New builds a Filter over list. A nil logger disables logging.
func New(list *blacklist.Set, logger *slog.Logger) *Filter {
	return &Filter{list: list, logger: logger}
}

// Evaluate implements is_allowed(names, blacklist): false if any name
// equals a blacklist entry, true otherwise — including an empty question
// section, which vacuously passes.
func (f *Filter) Evaluate(names []string) Result {
	for _, name := range names {
		if f.list.Contains(name) {
			f.denied.Add(1)
			if f.logger != nil {
				f.logger.Debug("query denied by policy", "name", name)
			}
			return Result{Allowed: false, MatchedName: name}
		}
	}
	f.allowed.Add(1)
	return Result{Allowed: true}
}

// Stats is a point-in-time snapshot of allow/deny counters.
type Stats struct {
	Allowed uint64
	Denied  uint64
	ListLen int
}

// Stats returns the current counters plus the blacklist size.
func (f *Filter) Stats() Stats {
	return Stats{
		Allowed: f.allowed.Load(),
		Denied:  f.denied.Load(),
		ListLen: f.list.Len(),
	}
}
