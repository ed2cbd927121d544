// Package ristretto is an in-process provider on dgraph-io/ristretto.
//
// Ristretto expires entries natively but cannot enumerate them, so the
// provider keeps a key index. Keys re-checks every indexed key with GetTTL,
// which skips the admission policy, and prunes those ristretto has expired
// or evicted.
package ristretto

import (
	"context"
	"sort"
	"sync"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/cachebox/internal/glob"
	"github.com/unkn0wn-root/cachebox/internal/validate"
	pr "github.com/unkn0wn-root/cachebox/provider"
)

const Name = "ristretto"

const (
	defaultNumCounters = 100_000
	defaultMaxCost     = 1 << 20
	defaultBufferItems = 64
)

type Provider struct {
	c   *rc.Cache
	ttl time.Duration

	mu    sync.Mutex
	index map[string]struct{}
}

var _ pr.Provider = (*Provider)(nil)

// Config tunes ristretto. Every entry costs 1, so MaxCost is an entry count.
type Config struct {
	TTL         time.Duration `json:"ttl" validate:"gte=0"`
	NumCounters int64         `json:"numCounters" validate:"gte=0"`
	MaxCost     int64         `json:"maxCost" validate:"gte=0"`
	BufferItems int64         `json:"bufferItems" validate:"gte=0"`
	Metrics     bool          `json:"metrics"`
}

// Factory builds Ristretto providers from a generic provider.Config.
// MaxEntries maps to MaxCost.
type Factory struct{}

func (Factory) Create(cfg pr.Config) (pr.Provider, error) {
	return New(Config{
		TTL:     cfg.TTL,
		MaxCost: int64(cfg.MaxEntries),
	})
}

func New(cfg Config) (*Provider, error) {
	if err := validate.Struct(Name, cfg); err != nil {
		return nil, err
	}
	if cfg.NumCounters == 0 {
		cfg.NumCounters = defaultNumCounters
	}
	if cfg.MaxCost == 0 {
		cfg.MaxCost = defaultMaxCost
	}
	if cfg.BufferItems == 0 {
		cfg.BufferItems = defaultBufferItems
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.MaxCost,
		BufferItems:        cfg.BufferItems,
		Metrics:            cfg.Metrics,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, &pr.ConfigError{Provider: Name, Err: err}
	}
	return &Provider{c: c, ttl: cfg.TTL, index: make(map[string]struct{})}, nil
}

// Set writes through ristretto's buffers and waits so the value is
// visible to the next Get. A dropped or refused write returns ErrSetRejected.
func (p *Provider) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	ttl = pr.ResolveTTL(ttl, p.ttl)
	if !p.c.SetWithTTL(key, value, 1, ttl) {
		return pr.ErrSetRejected
	}
	p.c.Wait()

	p.mu.Lock()
	p.index[key] = struct{}{}
	p.mu.Unlock()
	return nil
}

func (p *Provider) Get(_ context.Context, key string) (any, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

// Has does not count as an access for the admission policy.
func (p *Provider) Has(_ context.Context, key string) (bool, error) {
	return p.live(key), nil
}

// live checks key without touching hit counters or the admission policy.
func (p *Provider) live(key string) bool {
	_, ok := p.c.GetTTL(key)
	return ok
}

// Keys checks the indexed keys outside the index lock and prunes those
// ristretto has expired or evicted. Listing is not an access: hit counters
// and admission are untouched.
func (p *Provider) Keys(_ context.Context, pattern string) ([]string, error) {
	match, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	snapshot := make([]string, 0, len(p.index))
	for k := range p.index {
		snapshot = append(snapshot, k)
	}
	p.mu.Unlock()

	var out, gone []string
	for _, k := range snapshot {
		if !p.live(k) {
			gone = append(gone, k)
			continue
		}
		if match(k) {
			out = append(out, k)
		}
	}
	if len(gone) > 0 {
		p.mu.Lock()
		for _, k := range gone {
			// a concurrent Set may have re-added it
			if !p.live(k) {
				delete(p.index, k)
			}
		}
		p.mu.Unlock()
	}
	sort.Strings(out) // map order is random; keep listings stable
	return out, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Del(key)
	p.mu.Lock()
	delete(p.index, key)
	p.mu.Unlock()
	return nil
}

func (p *Provider) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes ristretto metrics when enabled (not part of the provider contract).
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
