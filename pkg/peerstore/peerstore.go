// Package peerstore implements spec.md §4.9's peer-set persistence: a
// bbolt-backed store of known peer addresses, rewritten in full by the
// discovery worker. Grounded on the teacher's BoltDBStore
// (pkg/core/storage/boltdb_store.go), generalized from a generic
// key/value blockchain store down to the single "known addresses" bucket
// this subsystem needs.
package peerstore

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var peersBucket = []byte("peers")

// PeerPersister is the interface the gossip discovery worker depends on.
type PeerPersister interface {
	Load() ([]string, error)
	Save(addrs []string) error
	Close() error
}

// BoltStore is the bbolt-backed PeerPersister.
type BoltStore struct {
	db *bbolt.DB
}

// Open creates (if needed) and opens a bbolt file at path with the peers
// bucket ready to use.
func Open(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("peerstore: could not create dir: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(peersBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("peerstore: could not create bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Load returns every persisted peer address.
func (s *BoltStore) Load() ([]string, error) {
	var addrs []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(peersBucket)
		return b.ForEach(func(k, _ []byte) error {
			addrs = append(addrs, string(k))
			return nil
		})
	})
	return addrs, err
}

// Save replaces the persisted peer set with exactly addrs.
func (s *BoltStore) Save(addrs []string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(peersBucket); err != nil {
			return err
		}
		b, err := tx.CreateBucket(peersBucket)
		if err != nil {
			return err
		}
		for _, a := range addrs {
			if err := b.Put([]byte(a), []byte{1}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close releases the underlying bbolt file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
