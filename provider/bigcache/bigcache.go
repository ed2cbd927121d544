// Package bigcache is an in-process provider on allegro/bigcache.
//
// BigCache has a single global LifeWindow and no per-entry TTL, so every
// value is framed with its own deadline (internal/wire) and checked on read.
// LifeWindow still bounds every entry: ttl == 0 entries are evicted once
// LifeWindow has passed, and Set refuses a ttl longer than LifeWindow.
package bigcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/cachebox/internal/glob"
	"github.com/unkn0wn-root/cachebox/internal/validate"
	"github.com/unkn0wn-root/cachebox/internal/wire"
	pr "github.com/unkn0wn-root/cachebox/provider"
)

const (
	Name              = "bigcache"
	DefaultLifeWindow = 24 * time.Hour
)

var (
	// ErrUnsupportedValue is returned by Set for values other than string or []byte.
	ErrUnsupportedValue = errors.New("bigcache provider: value must be string or []byte")
	// ErrTTLExceedsLifeWindow is returned by Set when ttl cannot be honored.
	ErrTTLExceedsLifeWindow = errors.New("bigcache provider: ttl exceeds life window")
)

type Provider struct {
	c          *bc.BigCache
	ttl        time.Duration
	lifeWindow time.Duration
	now        func() time.Time
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	TTL                time.Duration `json:"ttl" validate:"gte=0,ltefield=LifeWindow"`
	LifeWindow         time.Duration `json:"lifeWindow" validate:"gt=0"`
	CleanWindow        time.Duration `json:"cleanWindow" validate:"gte=0"`
	MaxEntriesInWindow int           `json:"maxEntriesInWindow" validate:"gte=0"`
	MaxEntrySize       int           `json:"maxEntrySize" validate:"gte=0"`
	HardMaxCacheSizeMB int           `json:"hardMaxCacheSizeMB" validate:"gte=0"` // ~ memory limit; 0 = unlimited
}

// Factory builds BigCache providers from a generic provider.Config.
// MaxEntries maps to MaxEntriesInWindow and CleanupInterval to CleanWindow.
type Factory struct{}

func (Factory) Create(cfg pr.Config) (pr.Provider, error) {
	return New(Config{
		TTL:                cfg.TTL,
		CleanWindow:        cfg.CleanupInterval,
		MaxEntriesInWindow: cfg.MaxEntries,
	})
}

func New(cfg Config) (*Provider, error) {
	if cfg.LifeWindow == 0 {
		cfg.LifeWindow = DefaultLifeWindow
	}
	if err := validate.Struct(Name, cfg); err != nil {
		return nil, err
	}
	conf := bc.DefaultConfig(cfg.LifeWindow)
	conf.Verbose = false
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, &pr.ConfigError{Provider: Name, Err: err}
	}
	return &Provider{c: c, ttl: cfg.TTL, lifeWindow: cfg.LifeWindow, now: time.Now}, nil
}

func (p *Provider) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	var (
		kind    byte
		payload []byte
	)
	switch v := value.(type) {
	case string:
		kind, payload = wire.KindString, []byte(v)
	case []byte:
		kind, payload = wire.KindBytes, v
	default:
		return fmt.Errorf("%w: got %T", ErrUnsupportedValue, value)
	}

	ttl = pr.ResolveTTL(ttl, p.ttl)
	if ttl > p.lifeWindow {
		return fmt.Errorf("%w: %s > %s", ErrTTLExceedsLifeWindow, ttl, p.lifeWindow)
	}
	var exp int64
	if ttl > 0 {
		exp = p.now().Add(ttl).UnixNano()
	}
	return p.c.Set(key, wire.Encode(kind, exp, payload))
}

func (p *Provider) Get(_ context.Context, key string) (any, bool, error) {
	e, ok, err := p.load(key)
	if err != nil || !ok {
		return nil, false, err
	}
	if e.Kind == wire.KindBytes {
		return append([]byte(nil), e.Payload...), true, nil
	}
	return string(e.Payload), true, nil
}

func (p *Provider) Has(_ context.Context, key string) (bool, error) {
	_, ok, err := p.load(key)
	return ok, err
}

// Keys iterates every shard, dropping expired or corrupt frames on the way.
func (p *Provider) Keys(_ context.Context, pattern string) ([]string, error) {
	match, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	now := p.now().UnixNano()
	var (
		out   []string
		stale []string
	)
	it := p.c.Iterator()
	for it.SetNext() {
		info, err := it.Value()
		if err != nil {
			// entry vanished between SetNext and Value
			continue
		}
		e, err := wire.Decode(info.Value())
		if err != nil || e.Expired(now) {
			stale = append(stale, info.Key())
			continue
		}
		if match(info.Key()) {
			out = append(out, info.Key())
		}
	}
	for _, k := range stale {
		_ = p.c.Delete(k)
	}
	return out, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	err := p.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (p *Provider) Close(_ context.Context) error {
	return p.c.Close()
}

// LifeWindow is the upper bound on every entry's lifetime.
func (p *Provider) LifeWindow() time.Duration { return p.lifeWindow }

// Stats exposes bigcache hit/miss counters (not part of the provider contract).
func (p *Provider) Stats() bc.Stats { return p.c.Stats() }

func (p *Provider) load(key string) (wire.Entry, bool, error) {
	b, err := p.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return wire.Entry{}, false, nil
	}
	if err != nil {
		return wire.Entry{}, false, err
	}
	e, err := wire.Decode(b)
	if err != nil {
		// self-heal: drop foreign bytes
		_ = p.c.Delete(key)
		return wire.Entry{}, false, nil
	}
	if e.Expired(p.now().UnixNano()) {
		return wire.Entry{}, false, nil
	}
	return e, true, nil
}
