package cache

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var transactionsBucket = []byte("transactions")

// BoltStore is a Store backed by an on-disk bbolt database, letting the
// in-memory cache survive process restarts across repeated batch runs
// over the same txid set.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens (creating if necessary) a bbolt database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(transactionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing bbolt bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Get returns the raw serialized transaction bytes for txid, if present.
func (s *BoltStore) Get(txid string) ([]byte, bool) {
	var raw []byte
	_ = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(transactionsBucket)
		if v := b.Get([]byte(txid)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	return raw, raw != nil
}

// Put writes raw serialized transaction bytes under txid.
func (s *BoltStore) Put(txid string, raw []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(transactionsBucket)
		return b.Put([]byte(txid), raw)
	})
}
