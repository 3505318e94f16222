// Package pending implements the pending-request table described in spec
// §3 and §4.3: a by-id lookup of outstanding client queries plus a
// min-heap of (expiration, id) used by the periodic sweep, matching the
// "mapping from id to entry plus an auxiliary structure for expiration"
// representation §9 recommends over the source's resized array.
package pending

import (
	"container/heap"
	"net/netip"
	"sync/atomic"
)

// Entry is a single outstanding request: the client to relay the eventual
// upstream reply back to, and the absolute monotonic-millisecond deadline
// past which the sweep reclaims it.
type Entry struct {
	ClientAddr netip.AddrPort
	ExpiresAt  int64 // monotonic milliseconds, see NowMS

	id      uint16
	removed bool
}

// Table is the pending-request table. Insert, Lookup, Remove and Sweep are
// not safe for concurrent use — the forwarding core (§5) is single-threaded
// and the map/heap are only ever touched from its one goroutine. Len is the
// one exception: it reads an atomic counter kept in step with the map, so
// the admin API (§B.2) can call it from its own goroutine without racing
// the forwarder.
type Table struct {
	byID map[uint16]*Entry
	heap expiryHeap
	n    atomic.Int64
}

// New returns an empty Table.
func New() *Table {
	return &Table{byID: make(map[uint16]*Entry)}
}

// Insert adds a new entry for id. Per §4.3's id-collision policy (a),
// Insert refuses to overwrite an id that is already pending — it returns
// false and leaves the existing entry untouched; the caller must drop the
// duplicate query rather than forward it.
func (t *Table) Insert(id uint16, clientAddr netip.AddrPort, expiresAt int64) bool {
	if _, exists := t.byID[id]; exists {
		return false
	}
	e := &Entry{ClientAddr: clientAddr, ExpiresAt: expiresAt, id: id}
	t.byID[id] = e
	heap.Push(&t.heap, e)
	t.n.Add(1)
	return true
}

// Lookup returns the entry for id, if any, without removing it.
func (t *Table) Lookup(id uint16) (Entry, bool) {
	e, ok := t.byID[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Remove consumes the entry for id (the normal path: a matching upstream
// reply arrived and was relayed). The heap slot is left in place and
// lazily discarded on the next Sweep pass that reaches it, per §4.3's
// requirement that the sweep not reallocate when nothing changed.
func (t *Table) Remove(id uint16) {
	e, ok := t.byID[id]
	if !ok {
		return
	}
	e.removed = true
	delete(t.byID, id)
	t.n.Add(-1)
}

// Len reports the number of live (non-expired, non-consumed) entries. It
// reads the atomic counter rather than the map, so it is safe to call from
// a goroutine other than the forwarder's own (§B.2's admin API does this).
func (t *Table) Len() int {
	return int(t.n.Load())
}

// Sweep removes every entry whose ExpiresAt is <= now, per §4.3's
// expiration sweep. It is idempotent and a no-op when the heap has
// nothing due, touching neither the map nor the heap slice's capacity.
func (t *Table) Sweep(now int64) {
	for t.heap.Len() > 0 && t.heap[0].ExpiresAt <= now {
		e := heap.Pop(&t.heap).(*Entry)
		if e.removed {
			continue
		}
		if live, ok := t.byID[e.id]; ok && live == e {
			delete(t.byID, e.id)
			t.n.Add(-1)
		}
	}
}

// expiryHeap is a container/heap min-heap ordered by Entry.ExpiresAt.
type expiryHeap []*Entry

func (h expiryHeap) Len() int            { return len(h) }
func (h expiryHeap) Less(i, j int) bool  { return h[i].ExpiresAt < h[j].ExpiresAt }
func (h expiryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *expiryHeap) Push(x interface{}) { *h = append(*h, x.(*Entry)) }
func (h *expiryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
