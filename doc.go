// Package cachebox is a namespaced cache facade over interchangeable
// storage providers.
//
// A Cache[V] binds one namespace to one provider. Keys are stored as
// "<namespace>:<key>", so several caches can share a provider (see Shared)
// without seeing each other's entries. A namespace may not contain ':'. Values are encoded with a
// Codec[V] (JSON by default) and handed to the provider as strings.
//
// Providers:
//   - memory: in-process LRU with per-entry expiry (default).
//   - redis: go-redis client, SCAN based key listing.
//   - bigcache: sharded byte cache; expiry is framed into each value and
//     LifeWindow caps every entry, ttl 0 included.
//   - ristretto: admission-controlled cache; writes may be rejected.
//   - custom: any provider.Factory via Instance, or a ready provider via Shared.
//
// TTL: Set applies Options.TTL, also on shared providers. With TTL 0 the
// provider's own default applies (never expires for registry-built ones).
// SetWithTTL overrides it per entry; 0 means no expiry.
//
// Clear lists the namespace then deletes the listed keys concurrently.
// It is not atomic and reports partial failures as *ClearError.
//
//	c, err := cachebox.New(cachebox.Options[User]{
//		Store:     cachebox.ByName("redis"),
//		Namespace: "users",
//		TTL:       10 * time.Minute,
//		Provider:  provider.Config{Host: "localhost", Port: 6379},
//	})
package cachebox
