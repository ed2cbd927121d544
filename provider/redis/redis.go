// Package redis adapts the provider contract onto a redis server:
// SET [EX], GET, EXISTS, SCAN MATCH and DEL.
package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/cachebox/internal/validate"
	pr "github.com/unkn0wn-root/cachebox/provider"
)

const Name = "redis"

// scanCount is the COUNT hint per SCAN round-trip.
const scanCount = 512

var ErrNilClient = errors.New("redis provider: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	ttl         time.Duration
	closeClient bool
}

var _ pr.Provider = (*Redis)(nil)

// Config is the connection configuration used by the registry factory.
type Config struct {
	Host     string        `json:"host" validate:"required"`
	Port     int           `json:"port" validate:"required,min=1,max=65535"`
	Password string        `json:"password"`
	TLS      bool          `json:"tls"`
	DB       int           `json:"db" validate:"gte=0"`
	TTL      time.Duration `json:"ttl" validate:"gte=0"`
}

// Options configure a provider around an existing client.
type Options struct {
	TTL         time.Duration
	CloseClient bool // set true only if this provider exclusively owns the client
}

// Factory builds Redis providers from a generic provider.Config.
type Factory struct{}

func (Factory) Create(cfg pr.Config) (pr.Provider, error) {
	return New(Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		TLS:      cfg.TLS,
		DB:       cfg.DB,
		TTL:      cfg.TTL,
	})
}

// New validates cfg and builds a client it owns. No connection is made
// until the first command.
func New(cfg Config) (*Redis, error) {
	if err := validate.Struct(Name, cfg); err != nil {
		return nil, err
	}
	opts := &goredis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
	}
	return &Redis{rdb: goredis.NewClient(opts), ttl: cfg.TTL, closeClient: true}, nil
}

// NewWithClient wraps an already configured client.
func NewWithClient(client goredis.UniversalClient, opts Options) (*Redis, error) {
	if client == nil {
		return nil, &pr.ConfigError{Provider: Name, Err: ErrNilClient}
	}
	if opts.TTL < 0 {
		return nil, &pr.ConfigError{Provider: Name, Fields: []pr.FieldError{{Field: "ttl", Rule: "gte", Param: "0"}}}
	}
	return &Redis{rdb: client, ttl: opts.TTL, closeClient: opts.CloseClient}, nil
}

// ClientFactory returns a Factory that wraps client, for use with
// cachebox.Instance. The client is shared and never closed by the provider.
func ClientFactory(client goredis.UniversalClient) pr.Factory {
	return pr.FactoryFunc(func(cfg pr.Config) (pr.Provider, error) {
		return NewWithClient(client, Options{TTL: cfg.TTL})
	})
}

// Client exposes the underlying client.
func (p *Redis) Client() goredis.UniversalClient { return p.rdb }

// Set sends SET key value, adding an expiry only when ttl > 0.
func (p *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	ttl = pr.ResolveTTL(ttl, p.ttl)
	// go-redis sends EX for whole seconds and PX otherwise; 0 sends no expiry
	return p.rdb.Set(ctx, key, value, ttl).Err()
}

func (p *Redis) Get(ctx context.Context, key string) (any, bool, error) {
	s, err := p.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return s, true, nil
}

func (p *Redis) Has(ctx context.Context, key string) (bool, error) {
	n, err := p.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Keys walks SCAN MATCH to completion. SCAN may repeat keys; they are
// reported once, in first-seen order.
func (p *Redis) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	seen := make(map[string]struct{})
	var out []string
	iter := p.rdb.Scan(ctx, 0, pattern, scanCount).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Redis) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, key).Err()
}

// Close releases the underlying redis client only when this provider owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
