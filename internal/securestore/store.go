// Package securestore is the device-local durable key-value storage.
// Values live in a single sqlite file; reads are served from an in-memory
// cache loaded once at open, writes go through a single writer goroutine
// so that storage order always matches mutation order.
package securestore

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrClosed = errors.New("secure store is closed")

type Record struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

type writeOp struct {
	key     string
	value   string
	deleted bool
}

type Store struct {
	db  *gorm.DB
	log *slog.Logger

	mu     sync.Mutex
	cache  map[string]string
	closed bool

	writes  chan writeOp
	pending sync.WaitGroup
	done    chan struct{}
}

func Open(path string, log *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open secure store: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate secure store: %w", err)
	}

	var records []Record
	if err := db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load secure store: %w", err)
	}
	cache := make(map[string]string, len(records))
	for _, r := range records {
		cache[r.Key] = r.Value
	}

	s := &Store{
		db:     db,
		log:    log,
		cache:  cache,
		writes: make(chan writeOp, 64),
		done:   make(chan struct{}),
	}
	go s.writer()
	return s, nil
}

// Get returns the value for key as known to the in-memory state, which is
// always at least as fresh as the sqlite file.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache[key]
	return v, ok
}

func (s *Store) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.cache[key] = value
	s.enqueueLocked(writeOp{key: key, value: value})
	return nil
}

// Delete removes the record entirely; deleting an absent key is a no-op
// that still reaches the writer so callers get the same ordering guarantee.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.cache, key)
	s.enqueueLocked(writeOp{key: key, deleted: true})
	return nil
}

// enqueueLocked is called with mu held, which serializes producers and
// keeps the queue order equal to the mutation order.
func (s *Store) enqueueLocked(op writeOp) {
	s.pending.Add(1)
	s.writes <- op
}

// Flush blocks until every write enqueued so far has hit sqlite.
func (s *Store) Flush() {
	s.pending.Wait()
}

func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.pending.Wait()
	close(s.writes)
	<-s.done

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) writer() {
	defer close(s.done)
	for op := range s.writes {
		var err error
		if op.deleted {
			err = s.db.Where("key = ?", op.key).Delete(&Record{}).Error
		} else {
			err = s.db.Clauses(clause.OnConflict{UpdateAll: true}).
				Create(&Record{Key: op.key, Value: op.value}).Error
		}
		if err != nil {
			// In-memory state stays authoritative; the next write to the
			// same key will try again.
			s.log.Error("secure store write failed", "key", op.key, "error", err)
		}
		s.pending.Done()
	}
}
