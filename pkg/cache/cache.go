// Package cache implements a thread-safe, txid-keyed transaction cache
// with atomic hit/miss counters and an optional bbolt-backed persistent
// layer for repeated batch runs over the same txid set.
package cache

import (
	"bytes"
	"sync"
	"sync/atomic"

	"github.com/btcsuite/btcd/wire"

	"carrierscope/pkg/log"
)

// Stats reports cumulative hit/miss counts.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Cache is a mutex-guarded in-memory map from txid to deserialized
// transaction, with an optional write-through persistent store.
type Cache struct {
	mu    sync.RWMutex
	byTxid map[string]*wire.MsgTx

	hits   atomic.Uint64
	misses atomic.Uint64

	store Store
}

// Store is the persistence interface a backing KV store must satisfy; the
// bbolt-backed implementation lives in pkg/cache/bbolt.go. The cache never
// treats the store as authoritative — it is consulted only to repopulate
// the in-memory map, never to override it.
type Store interface {
	Get(txid string) ([]byte, bool)
	Put(txid string, raw []byte) error
}

// New builds an empty in-memory cache. store may be nil to disable
// persistence.
func New(store Store) *Cache {
	return &Cache{
		byTxid: make(map[string]*wire.MsgTx),
		store:  store,
	}
}

// Get returns the cached transaction for txid, consulting the persistent
// store on an in-memory miss.
func (c *Cache) Get(txid string) (*wire.MsgTx, bool) {
	c.mu.RLock()
	tx, ok := c.byTxid[txid]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		log.CACH.Debugf("cache hit: %s", txid)
		return tx, true
	}

	if c.store != nil {
		if raw, ok := c.store.Get(txid); ok {
			msgTx := &wire.MsgTx{}
			if err := msgTx.Deserialize(bytes.NewReader(raw)); err == nil {
				c.mu.Lock()
				c.byTxid[txid] = msgTx
				c.mu.Unlock()
				c.hits.Add(1)
				log.CACH.Debugf("cache hit (persistent): %s", txid)
				return msgTx, true
			}
		}
	}

	c.misses.Add(1)
	log.CACH.Debugf("cache miss: %s", txid)
	return nil, false
}

// Put stores tx under txid, writing through to the persistent store when
// one is configured.
func (c *Cache) Put(txid string, tx *wire.MsgTx) {
	c.mu.Lock()
	c.byTxid[txid] = tx
	c.mu.Unlock()

	if c.store != nil {
		var buf bytes.Buffer
		if err := tx.Serialize(&buf); err == nil {
			if err := c.store.Put(txid, buf.Bytes()); err != nil {
				log.CACH.Warnf("persisting %s: %v", txid, err)
			}
		}
	}
}

// StatsSnapshot returns the current cumulative hit/miss counters.
func (c *Cache) StatsSnapshot() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
