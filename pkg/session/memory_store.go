package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

type memoryRecord struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore implements Store in process memory. Records are kept encoded so
// callers never share maps with the store. Intended for tests and single
// instance development setups.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	cfg     storeConfig
	ticker  *time.Ticker
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a new in-memory session store. A positive
// cleanupInterval starts a goroutine that evicts expired records; stop it
// with Close.
func NewMemoryStore(cleanupInterval time.Duration, opts ...StoreOption) *MemoryStore {
	store := &MemoryStore{
		records: make(map[string]memoryRecord),
		cfg:     newStoreConfig(opts),
		done:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// CreateData stores p under a fresh id.
func (m *MemoryStore) CreateData(ctx context.Context, p Payload, expires *time.Time) (string, error) {
	id := NewID()
	if err := m.write(id, p, expires); err != nil {
		return "", err
	}
	return id, nil
}

// ReadData returns nil, nil for unknown or expired ids.
func (m *MemoryStore) ReadData(ctx context.Context, id string) (*Payload, error) {
	key := m.cfg.prefix + id

	m.mu.RLock()
	rec, exists := m.records[key]
	m.mu.RUnlock()

	if !exists {
		return nil, nil
	}

	now := m.cfg.now()
	if !now.Before(rec.expiresAt) {
		// The record may have been rewritten since the read lock was released.
		m.mu.Lock()
		rec, exists = m.records[key]
		expired := exists && !now.Before(rec.expiresAt)
		if expired {
			delete(m.records, key)
		}
		m.mu.Unlock()

		if !exists || expired {
			return nil, nil
		}
	}

	return decodePayload(rec.data)
}

// UpdateData overwrites the record. An expiry at or before now deletes it.
func (m *MemoryStore) UpdateData(ctx context.Context, id string, p Payload, expires *time.Time) (string, error) {
	if !ValidID(id) {
		return "", ErrInvalidID
	}
	if err := m.write(id, p, expires); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteData removes a record by id
func (m *MemoryStore) DeleteData(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, m.cfg.prefix+id)
	return nil
}

// DeleteExpired removes all expired records and returns how many were dropped.
func (m *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	now := m.cfg.now()
	for key, rec := range m.records {
		if !now.Before(rec.expiresAt) {
			delete(m.records, key)
			n++
		}
	}

	return n, nil
}

// Len returns the number of stored records, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Close stops the cleanup goroutine
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) write(id string, p Payload, expires *time.Time) error {
	at, ttl := ResolveExpiry(m.cfg.now(), expires)
	if ttl <= 0 {
		return m.DeleteData(context.Background(), id)
	}

	data, err := encodePayload(p)
	if err != nil {
		return errors.Join(ErrMalformedPayload, err)
	}

	m.mu.Lock()
	m.records[m.cfg.prefix+id] = memoryRecord{data: data, expiresAt: at}
	m.mu.Unlock()
	return nil
}

// cleanupLoop runs periodic cleanup of expired records
func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_, _ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
