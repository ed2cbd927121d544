// Package provider defines the storage contract used by cachebox.
//
// A provider is a key/value store with per-entry TTLs and glob key listing.
// Keys handed to a provider are already namespaced ("<ns>:<key>"); providers
// must store and return them verbatim. Values are opaque: cachebox writes
// serialized strings, but a custom provider may return any value it likes
// and cachebox passes it through when it already has the caller's type.
package provider

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL asks the provider to apply its configured default TTL.
const DefaultTTL time.Duration = -1

// ErrSetRejected is returned (possibly wrapped) when a store refused a write
// under pressure (admission policy, full buffers).
var ErrSetRejected = errors.New("provider: set rejected")

// Provider is the five-operation store contract.
// Must be safe for concurrent use.
type Provider interface {
	// Set stores value under key, replacing any existing entry.
	// ttl == 0 means no expiry, ttl > 0 expires after ttl,
	// DefaultTTL uses the provider's configured default.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss or expiry.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) (any, bool, error)

	// Has reports whether an unexpired entry exists for key.
	Has(ctx context.Context, key string) (bool, error)

	// Keys lists live keys matching a glob pattern where * matches any run
	// of characters. An empty pattern is the same as "*".
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Del removes key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error
}

// Closer is implemented by providers that hold resources.
type Closer interface {
	Close(ctx context.Context) error
}

// Factory builds a provider from configuration. Built-in factories validate
// cfg and return a *ConfigError listing every invalid field.
type Factory interface {
	Create(cfg Config) (Provider, error)
}

// FactoryFunc adapts a plain function to Factory.
type FactoryFunc func(cfg Config) (Provider, error)

func (f FactoryFunc) Create(cfg Config) (Provider, error) { return f(cfg) }

// Static returns a Factory that always yields p. Use it to share one provider
// instance (and its connection) between several namespaces.
func Static(p Provider) Factory {
	return FactoryFunc(func(Config) (Provider, error) {
		if p == nil {
			return nil, &ConfigError{Provider: "static", Fields: []FieldError{{Field: "provider", Rule: "required"}}}
		}
		return p, nil
	})
}

// ResolveTTL maps DefaultTTL (or any negative value) to def.
func ResolveTTL(ttl, def time.Duration) time.Duration {
	if ttl < 0 {
		return def
	}
	return ttl
}
