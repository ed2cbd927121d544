package cachebox

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/cachebox/codec"
	pr "github.com/unkn0wn-root/cachebox/provider"
)

// Cache is the namespaced, provider-agnostic cache API.
// V is the caller's value type; serialization is handled by a Codec[V].
type Cache[V any] interface {
	// Set stores value with the provider's default TTL.
	Set(ctx context.Context, key string, value V) error
	// SetWithTTL stores value with an explicit TTL; 0 means never expire.
	SetWithTTL(ctx context.Context, key string, value V, ttl time.Duration) error

	Get(ctx context.Context, key string) (v V, ok bool, err error)
	Has(ctx context.Context, key string) (bool, error)
	// Keys lists live keys of this namespace matching pattern ("" == "*"),
	// with the namespace prefix removed.
	Keys(ctx context.Context, pattern string) ([]string, error)
	Delete(ctx context.Context, key string) error

	// Clear deletes every key of this namespace. It lists, then deletes:
	// keys written after the listing survive. See ClearError for partial failures.
	Clear(ctx context.Context) error

	Namespace() string
	Provider() pr.Provider
	Close(ctx context.Context) error
}

// Options configure a Cache. Everything has a default; the zero value
// gives a JSON-encoded in-memory cache in namespace "default".
type Options[V any] struct {
	Store     StoreRef      // zero => ByName("memory")
	Namespace string        // key-space partition, no ':'; "" => "default"
	TTL       time.Duration // lifetime applied by Set; 0 => provider default
	Codec     c.Codec[V]    // nil => codec.JSON[V]

	// Provider carries connection/capacity settings for the selected store
	// (host, port, password, tls, ...). Its TTL is overwritten by TTL above.
	Provider pr.Config

	Logger           Logger // nil => NopLogger
	Hooks            Hooks  // nil => NopHooks
	ClearConcurrency int    // parallel deletes in Clear; 0 => 32
}

// New resolves the provider and returns a ready cache. Configuration
// problems are reported here, never deferred to the first operation.
func New[V any](opts Options[V]) (Cache[V], error) {
	c, err := newCache[V](opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}
