package cache

import (
	"container/list"
	"context"
	"regexp"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Memory is an in-process implementation of Service with per-entry TTL,
// regex pattern invalidation and LRU eviction bounded by Config.Capacity.
//
// Expiry is lazy: an expired entry stays in memory until the next Get,
// Exists or GetMultiple touches it, but is never observable as live.
// Values are stored by reference; callers must not mutate what Get returns.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	capacity   int
	defaultTTL time.Duration

	hits        int64
	misses      int64
	evictions   int64
	expirations int64
	started     time.Time

	// now is swappable in tests
	now func() time.Time

	flight singleflight.Group
}

func NewMemory(cfg Config) *Memory {
	return &Memory{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		capacity:   cfg.Capacity,
		defaultTTL: cfg.DefaultTTL,
		started:    time.Now(),
		now:        time.Now,
	}
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	ent := &Entry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if el, ok := m.entries[key]; ok {
		// Replace semantics: value and expiry both refreshed, no TTL extension.
		el.Value = ent
		m.order.MoveToFront(el)
		return nil
	}

	m.entries[key] = m.order.PushFront(ent)

	for m.order.Len() > m.capacity {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.removeElement(oldest)
		m.evictions++
	}

	return nil
}

func (m *Memory) Get(_ context.Context, key string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, ErrNotFound
	}

	ent := el.Value.(*Entry)
	if !m.now().Before(ent.ExpiresAt) {
		m.removeElement(el)
		m.expirations++
		m.misses++
		return nil, ErrNotFound
	}

	m.order.MoveToFront(el)
	m.hits++
	return ent.Value, nil
}

func (m *Memory) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader Loader) (interface{}, error) {
	if value, err := m.Get(ctx, key); err == nil {
		return value, nil
	}

	value, err, _ := m.flight.Do(key, func() (interface{}, error) {
		// Another caller may have populated the key while we queued. This
		// double check stays out of the hit/miss counters: the caller's
		// lookup was already counted once.
		if cached, ok := m.peek(key); ok {
			return cached, nil
		}

		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if err = m.Set(ctx, key, loaded, ttl); err != nil {
			return nil, err
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.removeElement(el)
	}
	return nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	if !m.now().Before(el.Value.(*Entry).ExpiresAt) {
		m.removeElement(el)
		m.expirations++
		return false, nil
	}
	return true, nil
}

func (m *Memory) InvalidatePattern(_ context.Context, pattern *regexp.Regexp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, el := range m.entries {
		if pattern.MatchString(key) {
			m.removeElement(el)
		}
	}
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Counters survive a clear: they are cumulative for the process lifetime.
	m.entries = make(map[string]*list.Element)
	m.order.Init()
	return nil
}

func (m *Memory) GetStats(_ context.Context) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &Stats{
		Hits:        m.hits,
		Misses:      m.misses,
		Keys:        int64(len(m.entries)),
		Evictions:   m.evictions,
		Expirations: m.expirations,
		StartedAt:   m.started,
	}
	if total := m.hits + m.misses; total > 0 {
		stats.HitRate = float64(m.hits) / float64(total)
	}
	return stats, nil
}

func (m *Memory) GetMultiple(ctx context.Context, keys []string) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		value, err := m.Get(ctx, key)
		if err != nil {
			continue
		}
		result[key] = value
	}
	return result, nil
}

func (m *Memory) SetMultiple(ctx context.Context, entries map[string]interface{}, ttl time.Duration) error {
	for key, value := range entries {
		if err := m.Set(ctx, key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

// peek is a counter-neutral lookup used by GetOrLoad's double check.
func (m *Memory) peek(key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	ent := el.Value.(*Entry)
	if !m.now().Before(ent.ExpiresAt) {
		m.removeElement(el)
		m.expirations++
		return nil, false
	}
	m.order.MoveToFront(el)
	return ent.Value, true
}

// removeElement must be called with m.mu held.
func (m *Memory) removeElement(el *list.Element) {
	m.order.Remove(el)
	delete(m.entries, el.Value.(*Entry).Key)
}

var _ Service = (*Memory)(nil)
