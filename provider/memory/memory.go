// Package memory is the in-process provider: a capacity-bounded LRU with
// per-entry TTLs. Expired entries are reported absent immediately and
// purged lazily (on Keys) or by an optional background janitor.
package memory

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/unkn0wn-root/cachebox/internal/glob"
	"github.com/unkn0wn-root/cachebox/internal/validate"
	pr "github.com/unkn0wn-root/cachebox/provider"
)

const (
	Name              = "memory"
	DefaultMaxEntries = 10000
)

type entry struct {
	value     any
	expiresAt time.Time // zero => no TTL
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

type Memory struct {
	c   *lru.Cache[string, entry]
	ttl time.Duration
	now func() time.Time

	// serializes writes against check-then-remove purges so a purge never
	// drops an entry that was overwritten after it was found expired
	wmu sync.Mutex

	ticker    *time.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ pr.Provider = (*Memory)(nil)

type Config struct {
	TTL             time.Duration `json:"ttl" validate:"gte=0"`
	MaxEntries      int           `json:"maxEntries" validate:"gte=0"`
	CleanupInterval time.Duration `json:"cleanupInterval" validate:"gte=0"`
}

// Factory builds Memory providers from a generic provider.Config.
type Factory struct{}

func (Factory) Create(cfg pr.Config) (pr.Provider, error) {
	return New(Config{
		TTL:             cfg.TTL,
		MaxEntries:      cfg.MaxEntries,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// New validates cfg and returns a ready provider. A positive
// CleanupInterval starts a janitor goroutine; call Close to stop it.
func New(cfg Config) (*Memory, error) {
	if err := validate.Struct(Name, cfg); err != nil {
		return nil, err
	}
	size := cfg.MaxEntries
	if size == 0 {
		size = DefaultMaxEntries
	}
	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, &pr.ConfigError{Provider: Name, Err: err}
	}
	m := &Memory{c: c, ttl: cfg.TTL, now: time.Now}

	if cfg.CleanupInterval > 0 {
		m.ticker = time.NewTicker(cfg.CleanupInterval)
		m.stopCh = make(chan struct{})
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			for {
				select {
				case <-m.ticker.C:
					m.Purge()
				case <-m.stopCh:
					return
				}
			}
		}()
	}
	return m, nil
}

// Set stores value. ttl == 0 never expires; it is not "expire after 0".
func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	ttl = pr.ResolveTTL(ttl, m.ttl)
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.wmu.Lock()
	m.c.Add(key, e)
	m.wmu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (any, bool, error) {
	e, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	if now := m.now(); e.expired(now) {
		m.dropExpired(key, now)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Has does not touch recency.
func (m *Memory) Has(_ context.Context, key string) (bool, error) {
	e, ok := m.c.Peek(key)
	if !ok {
		return false, nil
	}
	if now := m.now(); e.expired(now) {
		m.dropExpired(key, now)
		return false, nil
	}
	return true, nil
}

// dropExpired removes key if it is still expired under the write lock.
func (m *Memory) dropExpired(key string, now time.Time) {
	m.wmu.Lock()
	if e, ok := m.c.Peek(key); ok && e.expired(now) {
		m.c.Remove(key)
	}
	m.wmu.Unlock()
}

// Keys purges expired entries first, then filters the survivors.
// Order is least to most recently used.
func (m *Memory) Keys(_ context.Context, pattern string) ([]string, error) {
	match, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	m.Purge()
	keys := m.c.Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if match(k) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *Memory) Del(_ context.Context, key string) error {
	m.wmu.Lock()
	m.c.Remove(key)
	m.wmu.Unlock()
	return nil
}

// Purge removes every expired entry and returns how many were dropped.
func (m *Memory) Purge() int {
	now := m.now()
	removed := 0
	m.wmu.Lock()
	for _, k := range m.c.Keys() {
		if e, ok := m.c.Peek(k); ok && e.expired(now) {
			m.c.Remove(k)
			removed++
		}
	}
	m.wmu.Unlock()
	return removed
}

// Len counts stored entries, including expired ones not yet purged.
func (m *Memory) Len() int { return m.c.Len() }

// Close stops the janitor. Safe to call multiple times.
func (m *Memory) Close(context.Context) error {
	m.closeOnce.Do(func() {
		if m.stopCh != nil {
			close(m.stopCh)
			m.ticker.Stop()
			m.wg.Wait()
		}
	})
	return nil
}
