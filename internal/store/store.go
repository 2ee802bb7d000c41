package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// WatchlistKey is the single namespaced key holding the serialized watchlist.
const WatchlistKey = "@marquee:watchlist"

// Bucket names
var (
	bucketWatchlist = []byte("watchlist")
	bucketCache     = []byte("cache")
)

// Store is the durable local key/value store (BoltDB + memory).
// It implements domain.WatchlistStorage and backs the response cache.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory map

	// Memory-only mode keeps everything here; with a db it is a read-through copy.
	mem map[string][]byte
}

// Open opens (or creates) marquee.db under dir. An empty dir gives a memory-only store.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return &Store{mem: make(map[string][]byte)}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &domain.StorageError{Op: "open", Err: err}
	}

	dbPath := filepath.Join(dir, "marquee.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, &domain.StorageError{Op: "open", Err: fmt.Errorf("failed to open bolt db: %w", err)}
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketWatchlist, bucketCache} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, &domain.StorageError{Op: "open", Err: err}
	}

	return &Store{db: db, mem: make(map[string][]byte)}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func memKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

func (s *Store) get(bucket []byte, key string) ([]byte, bool, error) {
	mk := memKey(bucket, key)

	s.mu.RLock()
	if data, ok := s.mem[mk]; ok {
		s.mu.RUnlock()
		return data, true, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, &domain.StorageError{Op: "read", Err: err}
	}
	if data == nil {
		return nil, false, nil
	}

	s.mu.Lock()
	s.mem[mk] = data
	s.mu.Unlock()
	return data, true, nil
}

func (s *Store) put(bucket []byte, key string, data []byte) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return &domain.StorageError{Op: "write", Err: err}
		}
	}

	s.mu.Lock()
	s.mem[memKey(bucket, key)] = data
	s.mu.Unlock()
	return nil
}

func (s *Store) delete(bucket []byte, key string) error {
	s.mu.Lock()
	delete(s.mem, memKey(bucket, key))
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
	if err != nil {
		return &domain.StorageError{Op: "delete", Err: err}
	}
	return nil
}

func (s *Store) clearBucket(bucket []byte) error {
	s.mu.Lock()
	prefix := string(bucket) + ":"
	for k := range s.mem {
		if strings.HasPrefix(k, prefix) {
			delete(s.mem, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &domain.StorageError{Op: "clear", Err: err}
	}
	return nil
}

// === Watchlist ===

// LoadWatchlist returns the persisted watchlist, empty when nothing was saved yet.
func (s *Store) LoadWatchlist() ([]domain.WatchlistEntry, error) {
	data, ok, err := s.get(bucketWatchlist, WatchlistKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.WatchlistEntry{}, nil
	}
	var entries []domain.WatchlistEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &domain.StorageError{Op: "decode watchlist", Err: err}
	}
	return entries, nil
}

// SaveWatchlist replaces the persisted watchlist with entries.
func (s *Store) SaveWatchlist(entries []domain.WatchlistEntry) error {
	if entries == nil {
		entries = []domain.WatchlistEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return &domain.StorageError{Op: "encode watchlist", Err: err}
	}
	return s.put(bucketWatchlist, WatchlistKey, data)
}

// ClearWatchlist removes the persisted watchlist (app-storage clear).
func (s *Store) ClearWatchlist() error {
	return s.delete(bucketWatchlist, WatchlistKey)
}
