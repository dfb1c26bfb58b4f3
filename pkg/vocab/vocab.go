// Package vocab provides the language-partitioned known-vocabulary store.
// The store is append-only from the pipeline's perspective: finalization only
// adds words, never removes them.
package vocab

import (
	"database/sql"
	"sort"
	"sync"

	"github.com/handsomecheung/subscout/pkg/db"
)

// Store is the known-vocabulary contract consumed by the pipeline. The
// session manager takes a Store handle rather than reaching for a global, so
// tests can inject a fake.
type Store interface {
	// Known returns the partition as a lookup set.
	Known(language string) (map[string]bool, error)
	// Merge adds words to the partition. Must be idempotent: re-merging the
	// same set is a no-op.
	Merge(language string, words []string) error
	// All returns the partition sorted alphabetically.
	All(language string) ([]string, error)
}

// SQLStore persists known words in the shared SQLite database.
type SQLStore struct {
	conn *sql.DB
}

// NewSQLStore wraps an initialized database connection.
func NewSQLStore(conn *sql.DB) *SQLStore {
	return &SQLStore{conn: conn}
}

func (s *SQLStore) Known(language string) (map[string]bool, error) {
	return db.KnownWordSet(s.conn, language)
}

// Merge runs as a single transaction so a failure mid-merge leaves the
// partition untouched.
func (s *SQLStore) Merge(language string, words []string) error {
	if len(words) == 0 {
		return nil
	}
	return db.WithTx(s.conn, func(tx *sql.Tx) error {
		return db.AddKnownWords(tx, language, words)
	})
}

func (s *SQLStore) All(language string) ([]string, error) {
	return db.ListKnownWords(s.conn, language)
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu         sync.Mutex
	partitions map[string]map[string]bool
}

func NewMemStore() *MemStore {
	return &MemStore{partitions: make(map[string]map[string]bool)}
}

func (m *MemStore) Known(language string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]bool, len(m.partitions[language]))
	for w := range m.partitions[language] {
		out[w] = true
	}
	return out, nil
}

func (m *MemStore) Merge(language string, words []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	part := m.partitions[language]
	if part == nil {
		part = make(map[string]bool)
		m.partitions[language] = part
	}
	for _, w := range words {
		part[w] = true
	}
	return nil
}

func (m *MemStore) All(language string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.partitions[language]))
	for w := range m.partitions[language] {
		out = append(out, w)
	}
	sort.Strings(out)
	return out, nil
}
