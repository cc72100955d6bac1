package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/simaogato/fundflow-backend/internal/domain"
)

// DefaultMaxEntries bounds the in-process cache when no explicit size is given
const DefaultMaxEntries = 10_000

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time // zero means no expiry
}

// memoryCache implements domain.EvaluationCache in process
// Entries are stored encoded so callers never share mutable state with the cache
type memoryCache struct {
	mu         sync.Mutex
	data       map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates an in-process evaluation cache holding at most DefaultMaxEntries
// A ttl of zero keeps entries until they are evicted for space
func NewMemoryCache(ttl time.Duration) domain.EvaluationCache {
	return newMemoryCache(ttl, DefaultMaxEntries, time.Now)
}

func newMemoryCache(ttl time.Duration, maxEntries int, now func() time.Time) *memoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &memoryCache{
		data:       make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
	}
}

// Get retrieves a cached evaluation
// Expired entries are dropped and reported as a miss
func (m *memoryCache) Get(_ context.Context, key string) (*domain.Evaluation, error) {
	m.mu.Lock()
	entry, ok := m.data[key]
	if ok && m.expired(entry) {
		delete(m.data, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	var evaluation domain.Evaluation
	if err := json.Unmarshal(entry.raw, &evaluation); err != nil {
		return nil, fmt.Errorf("failed to decode cached evaluation: %w", err)
	}
	return &evaluation, nil
}

// Set stores an evaluation under key
// When the cache is full, expired entries are purged first, then the entry closest to expiry goes
func (m *memoryCache) Set(_ context.Context, key string, evaluation *domain.Evaluation) error {
	raw, err := json.Marshal(evaluation)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation: %w", err)
	}

	entry := memoryEntry{raw: raw}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxEntries {
		m.evict()
	}
	m.data[key] = entry
	return nil
}

// evict frees at least one slot; caller holds mu
func (m *memoryCache) evict() {
	for k, e := range m.data {
		if m.expired(e) {
			delete(m.data, k)
		}
	}
	if len(m.data) < m.maxEntries {
		return
	}

	var victim string
	var victimExpiry time.Time
	first := true
	for k, e := range m.data {
		if first || e.expiresAt.Before(victimExpiry) {
			victim, victimExpiry, first = k, e.expiresAt, false
		}
	}
	delete(m.data, victim)
}

func (m *memoryCache) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}
