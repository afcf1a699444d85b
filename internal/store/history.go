package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultMaxEntries caps the history when no limit is configured
const DefaultMaxEntries = 200

var bucketQueries = []byte("queries")

// Entry is one submitted query
type Entry struct {
	Query string    `json:"query"`
	At    time.Time `json:"at"`
}

// HistoryStore persists submitted query strings in BoltDB, newest last.
// Repeating a query moves it to the end instead of adding a duplicate.
type HistoryStore struct {
	db  *bolt.DB
	max int

	mu      sync.RWMutex
	entries []Entry // Mirrors the bucket, oldest first
	keys    [][]byte
}

// NewHistoryStore opens the history database under baseDir, partitioned by
// server so each index keeps its own queries. An empty baseDir keeps
// history in memory only.
func NewHistoryStore(baseDir, serverURL string, maxEntries int) (*HistoryStore, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	s := &HistoryStore{max: maxEntries}
	if baseDir == "" {
		return s, nil
	}

	dir := baseDir
	if serverURL != "" {
		dir = filepath.Join(baseDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, "history.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketQueries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// load reads the bucket into memory; keys are big-endian sequence numbers
// so cursor order is insertion order.
func (s *HistoryStore) load() error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketQueries).ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return nil // Skip corrupt records
			}
			s.entries = append(s.entries, e)
			s.keys = append(s.keys, append([]byte(nil), k...))
			return nil
		})
	})
}

// Close releases the database
func (s *HistoryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Add records query as the most recent entry. Blank queries are ignored.
func (s *HistoryStore) Add(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{Query: query, At: time.Now()}

	persist := s.db != nil

	var stale, keepKeys [][]byte
	keep := make([]Entry, 0, len(s.entries)+1)
	for i, e := range s.entries {
		if e.Query == query {
			if persist {
				stale = append(stale, s.keys[i])
			}
			continue
		}
		keep = append(keep, e)
		if persist {
			keepKeys = append(keepKeys, s.keys[i])
		}
	}
	keep = append(keep, entry)

	// The new entry has no key yet, so overflow always trims older ones
	if overflow := len(keep) - s.max; overflow > 0 {
		keep = keep[overflow:]
		if persist {
			stale = append(stale, keepKeys[:overflow]...)
			keepKeys = keepKeys[overflow:]
		}
	}

	if !persist {
		s.entries = keep
		return nil
	}

	var key []byte
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueries)
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		key = make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, data)
	})
	if err != nil {
		return fmt.Errorf("failed to save query history: %w", err)
	}

	s.entries = keep
	s.keys = append(keepKeys, key)
	return nil
}

// Recent returns up to n queries, newest first. n <= 0 returns all.
func (s *HistoryStore) Recent(n int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]string, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i].Query)
	}
	return out
}

// Entries returns a copy of all entries, oldest first
func (s *HistoryStore) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.entries...)
}

// Len returns the number of stored queries
func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes every entry
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			if err := tx.DeleteBucket(bucketQueries); err != nil {
				return err
			}
			_, err := tx.CreateBucket(bucketQueries)
			return err
		})
		if err != nil {
			return err
		}
		s.keys = nil
	}
	s.entries = nil
	return nil
}
