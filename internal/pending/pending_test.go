package pending

import (
	"net/netip"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(port uint16) netip.AddrPort {
	return netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), port)
}

func TestInsertAndLookup(t *testing.T) {
	tbl := New()
	ok := tbl.Insert(0x1234, addr(1111), 1000)
	require.True(t, ok)

	e, found := tbl.Lookup(0x1234)
	require.True(t, found)
	assert.Equal(t, addr(1111), e.ClientAddr)
	assert.Equal(t, int64(1000), e.ExpiresAt)
	assert.Equal(t, 1, tbl.Len())
}

func TestInsertRefusesDuplicateID(t *testing.T) {
	tbl := New()
	require.True(t, tbl.Insert(1, addr(1), 1000))
	// id-collision policy (a): refuse the duplicate, original stays intact.
	ok := tbl.Insert(1, addr(2), 2000)
	assert.False(t, ok)

	e, found := tbl.Lookup(1)
	require.True(t, found)
	assert.Equal(t, addr(1), e.ClientAddr)
}

func TestRemoveConsumesEntry(t *testing.T) {
	tbl := New()
	tbl.Insert(1, addr(1), 1000)
	tbl.Remove(1)

	_, found := tbl.Lookup(1)
	assert.False(t, found)
	assert.Equal(t, 0, tbl.Len())
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	tbl := New()
	tbl.Remove(99)
	assert.Equal(t, 0, tbl.Len())
}

func TestSweepExpiresPastDeadline(t *testing.T) {
	tbl := New()
	tbl.Insert(1, addr(1), 1000) // t0 + T
	tbl.Insert(2, addr(2), 5000)

	tbl.Sweep(999)
	_, found := tbl.Lookup(1)
	assert.True(t, found, "entry must still be present strictly before its deadline")

	tbl.Sweep(1000)
	_, found = tbl.Lookup(1)
	assert.False(t, found, "entry must be absent once now >= expiration")

	_, found = tbl.Lookup(2)
	assert.True(t, found, "unrelated entry with a later deadline survives the sweep")
	assert.Equal(t, 1, tbl.Len())
}

func TestSweepSkipsAlreadyRemovedEntries(t *testing.T) {
	tbl := New()
	tbl.Insert(1, addr(1), 500)
	tbl.Remove(1)
	// Sweeping past the nominal deadline of an already-consumed entry must
	// not panic or double-delete anything from the map.
	tbl.Sweep(1000)
	assert.Equal(t, 0, tbl.Len())
}

func TestSweepIsIdempotent(t *testing.T) {
	tbl := New()
	tbl.Insert(1, addr(1), 500)
	tbl.Sweep(1000)
	tbl.Sweep(1000)
	tbl.Sweep(2000)
	assert.Equal(t, 0, tbl.Len())
}

// Len must be safe to call concurrently with Insert/Remove/Sweep, since the
// admin API (§B.2) reads it from a goroutine other than the forwarder's own.
func TestLenSafeForConcurrentReadWhileMutating(t *testing.T) {
	tbl := New()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := uint16(0); i < 1000; i++ {
			tbl.Insert(i, addr(1), int64(i)+1)
			tbl.Sweep(int64(i))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = tbl.Len()
		}
	}()

	wg.Wait()
}
