package cache

import (
	"testing"

	"github.com/btcsuite/btcd/wire"
)

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(txid string) ([]byte, bool) {
	raw, ok := m.data[txid]
	return raw, ok
}

func (m *memStore) Put(txid string, raw []byte) error {
	m.data[txid] = raw
	return nil
}

func TestCacheMissOnEmptyCache(t *testing.T) {
	c := New(nil)
	if _, ok := c.Get("deadbeef"); ok {
		t.Fatalf("expected a miss on an empty cache")
	}
	stats := c.StatsSnapshot()
	if stats.Misses != 1 || stats.Hits != 0 {
		t.Fatalf("expected 1 miss 0 hits, got %+v", stats)
	}
}

func TestCachePutThenGetHits(t *testing.T) {
	c := New(nil)
	tx := wire.NewMsgTx(wire.TxVersion)
	c.Put("abc123", tx)

	got, ok := c.Get("abc123")
	if !ok {
		t.Fatalf("expected a hit after Put")
	}
	if got != tx {
		t.Fatalf("expected the exact cached transaction pointer back")
	}
	stats := c.StatsSnapshot()
	if stats.Hits != 1 {
		t.Fatalf("expected 1 hit, got %+v", stats)
	}
}

func TestCacheFallsThroughToPersistentStoreOnMemoryMiss(t *testing.T) {
	store := newMemStore()
	c := New(store)

	tx := wire.NewMsgTx(wire.TxVersion)
	writer := New(store)
	writer.Put("persisted", tx)

	// Fresh in-memory cache sharing the same backing store should still hit.
	got, ok := c.Get("persisted")
	if !ok {
		t.Fatalf("expected a hit via the persistent store")
	}
	if got.TxHash() != tx.TxHash() {
		t.Fatalf("expected the deserialized transaction to match the original")
	}
}

func TestCacheMissWhenNeitherMemoryNorStoreHasTxid(t *testing.T) {
	store := newMemStore()
	c := New(store)
	if _, ok := c.Get("nonexistent"); ok {
		t.Fatalf("expected a miss when the txid is absent from both layers")
	}
}
