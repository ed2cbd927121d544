package cachebox

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	c "github.com/unkn0wn-root/cachebox/codec"
	"github.com/unkn0wn-root/cachebox/internal/util"
	pr "github.com/unkn0wn-root/cachebox/provider"
)

type cache[V any] struct {
	ns         string
	prefix     string // "<ns>:"
	globPrefix string // prefix with glob metacharacters escaped

	provider pr.Provider
	owned    bool          // built from the registry; closed by Close
	ttl      time.Duration // default lifetime for Set; 0 defers to the provider
	codec    c.Codec[V]
	log      Logger
	hooks    Hooks

	clearConcurrency int
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	var bad []pr.FieldError
	if opts.TTL < 0 {
		bad = append(bad, pr.FieldError{Field: "ttl", Rule: "gte", Param: "0"})
	}
	if strings.Contains(opts.Namespace, ":") {
		// "a" would list and clear "a:b"'s keys
		bad = append(bad, pr.FieldError{Field: "namespace", Rule: "excludes", Param: ":"})
	}
	if opts.ClearConcurrency < 0 {
		bad = append(bad, pr.FieldError{Field: "clearConcurrency", Rule: "gte", Param: "0"})
	}
	if len(bad) > 0 {
		return nil, &ConfigError{Provider: "cachebox", Fields: bad}
	}

	cfg := opts.Provider
	cfg.TTL = opts.TTL
	p, owned, err := opts.Store.resolve(cfg)
	if err != nil {
		return nil, err
	}

	ns := coalesce(opts.Namespace, DefaultNamespace)
	cc := &cache[V]{
		ns:         ns,
		prefix:     util.NamespacePrefix(ns),
		globPrefix: util.EscapeGlob(util.NamespacePrefix(ns)),
		provider:   p,
		owned:      owned,
		ttl:        opts.TTL,
	}

	// defaults
	if opts.Codec != nil {
		cc.codec = opts.Codec
	} else {
		cc.codec = c.JSON[V]{}
	}
	cc.log = opts.Logger
	if cc.log == nil {
		cc.log = NopLogger{}
	}
	cc.hooks = opts.Hooks
	if cc.hooks == nil {
		cc.hooks = NopHooks{}
	}
	cc.clearConcurrency = coalesce(opts.ClearConcurrency, DefaultClearConcurrency)

	cc.log.Debug("cache ready", Fields{"namespace": ns, "store": storeLabel(opts.Store), "ttl": opts.TTL})
	return cc, nil
}

func storeLabel(r StoreRef) string {
	if r.IsCustom() {
		return "custom"
	}
	return r.Name()
}

func (c *cache[V]) Namespace() string     { return c.ns }
func (c *cache[V]) Provider() pr.Provider { return c.provider }

// Close releases the provider only when the cache created it from the
// registry. Providers from Instance/Shared belong to the caller.
func (c *cache[V]) Close(ctx context.Context) error {
	if !c.owned {
		return nil
	}
	if cl, ok := c.provider.(pr.Closer); ok {
		return cl.Close(ctx)
	}
	return nil
}

// Set applies Options.TTL. With TTL 0 the provider's own default applies,
// which for registry-built providers is also 0 (never expires).
func (c *cache[V]) Set(ctx context.Context, key string, value V) error {
	ttl := pr.DefaultTTL
	if c.ttl > 0 {
		ttl = c.ttl
	}
	return c.set(ctx, key, value, ttl)
}

func (c *cache[V]) SetWithTTL(ctx context.Context, key string, value V, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	if ttl < 0 {
		return ErrInvalidTTL
	}
	return c.set(ctx, key, value, ttl)
}

func (c *cache[V]) set(ctx context.Context, key string, value V, ttl time.Duration) error {
	// checked before encoding; an empty key never reaches the provider
	if key == "" {
		return ErrEmptyKey
	}
	b, err := c.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("cachebox: encode %q: %w", key, err)
	}
	k := c.storageKey(key)
	err = c.provider.Set(ctx, k, string(b), ttl)
	if errors.Is(err, pr.ErrSetRejected) {
		c.hooks.ProviderSetRejected(c.ns, k)
		c.log.Debug("set rejected by provider (pressure)", Fields{"key": key, "namespace": c.ns})
	}
	return err
}

func (c *cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	k := c.storageKey(key)
	raw, ok, err := c.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	switch r := raw.(type) {
	case nil:
		return zero, false, nil
	case string:
		return c.decode(k, key, []byte(r))
	case []byte:
		return c.decode(k, key, r)
	case V:
		// custom store kept the value as-is
		return r, true, nil
	default:
		return zero, false, &ValueTypeError{
			Key:  key,
			Got:  fmt.Sprintf("%T", raw),
			Want: reflect.TypeFor[V]().String(),
		}
	}
}

func (c *cache[V]) decode(storageKey, key string, b []byte) (V, bool, error) {
	v, err := c.codec.Decode(b)
	if err != nil {
		var zero V
		c.hooks.DecodeError(c.ns, storageKey, err)
		return zero, false, &DecodeError{Key: key, Err: err}
	}
	return v, true, nil
}

func (c *cache[V]) Has(ctx context.Context, key string) (bool, error) {
	return c.provider.Has(ctx, c.storageKey(key))
}

func (c *cache[V]) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	raw, err := c.provider.Keys(ctx, c.globPrefix+pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, sk := range raw {
		k, ok := util.StripPrefix(c.prefix, sk)
		if !ok {
			// provider ignored the prefix; pass through untouched
			c.foreignKey(sk)
		}
		out = append(out, k)
	}
	return out, nil
}

func (c *cache[V]) Delete(ctx context.Context, key string) error {
	return c.provider.Del(ctx, c.storageKey(key))
}

// Clear lists the namespace, then deletes every listed key concurrently and
// waits for all of them. It is not atomic: keys set after the listing are
// kept. Failed deletes do not stop the others; they are reported together
// in a *ClearError while successful deletes stay applied.
func (c *cache[V]) Clear(ctx context.Context) error {
	raw, err := c.provider.Keys(ctx, c.globPrefix+"*")
	if err != nil {
		return err
	}

	type target struct{ storageKey, key string }
	targets := make([]target, 0, len(raw))
	for _, sk := range raw {
		k, ok := util.StripPrefix(c.prefix, sk)
		if !ok {
			// never delete outside the namespace
			c.foreignKey(sk)
			continue
		}
		targets = append(targets, target{sk, k})
	}
	if len(targets) == 0 {
		return nil
	}

	errs := make([]error, len(targets))
	var g errgroup.Group
	g.SetLimit(c.clearConcurrency)
	for i, t := range targets {
		g.Go(func() error {
			errs[i] = c.provider.Del(ctx, t.storageKey)
			return nil
		})
	}
	_ = g.Wait()

	var failed map[string]error
	for i, err := range errs {
		if err == nil {
			continue
		}
		if failed == nil {
			failed = make(map[string]error)
		}
		failed[targets[i].key] = err
	}
	if len(failed) == 0 {
		c.log.Debug("namespace cleared", Fields{"namespace": c.ns, "deleted": len(targets)})
		return nil
	}

	c.hooks.ClearFailed(c.ns, len(targets), len(failed))
	c.log.Warn("namespace clear partially failed", Fields{
		"namespace": c.ns,
		"attempted": len(targets),
		"failed":    len(failed),
	})
	return &ClearError{Namespace: c.ns, Attempted: len(targets), Failed: failed}
}

func (c *cache[V]) foreignKey(storageKey string) {
	c.hooks.ForeignKey(c.ns, storageKey)
	c.log.Debug("key outside namespace", Fields{"namespace": c.ns, "key": storageKey})
}

func (c *cache[V]) storageKey(userKey string) string {
	// isolate by namespace
	return c.prefix + userKey
}
