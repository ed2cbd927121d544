package cachebox

import (
	"sort"

	pr "github.com/unkn0wn-root/cachebox/provider"
	"github.com/unkn0wn-root/cachebox/provider/bigcache"
	"github.com/unkn0wn-root/cachebox/provider/memory"
	"github.com/unkn0wn-root/cachebox/provider/redis"
	"github.com/unkn0wn-root/cachebox/provider/ristretto"
)

// builtin is the fixed set of providers selectable by name.
var builtin = map[string]pr.Factory{
	memory.Name:    memory.Factory{},
	redis.Name:     redis.Factory{},
	bigcache.Name:  bigcache.Factory{},
	ristretto.Name: ristretto.Factory{},
}

// StoreRef selects a provider: either a built-in by name or a caller
// supplied factory. The zero value selects "memory".
type StoreRef struct {
	name    string
	factory pr.Factory
}

// ByName selects a built-in provider ("memory", "redis", "bigcache", "ristretto").
func ByName(name string) StoreRef { return StoreRef{name: name} }

// Instance selects a custom factory. Its Create receives the full
// provider.Config and is trusted to honor the provider contract.
func Instance(f pr.Factory) StoreRef { return StoreRef{factory: f} }

// Shared selects an existing provider instance, so several caches
// (namespaces) can use one store. The cache does not close it.
func Shared(p pr.Provider) StoreRef { return Instance(pr.Static(p)) }

// Name returns the provider name, or "" for custom factories.
func (r StoreRef) Name() string {
	if r.factory != nil {
		return ""
	}
	if r.name == "" {
		return memory.Name
	}
	return r.name
}

// IsCustom reports whether r carries a caller supplied factory.
func (r StoreRef) IsCustom() bool { return r.factory != nil }

// Providers lists the built-in provider names.
func Providers() []string {
	out := make([]string, 0, len(builtin))
	for n := range builtin {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// resolve creates the provider. owned reports whether the cache built it
// from the registry and is responsible for closing it.
func (r StoreRef) resolve(cfg pr.Config) (p pr.Provider, owned bool, err error) {
	if r.factory != nil {
		p, err = r.factory.Create(cfg)
		if err != nil {
			return nil, false, err
		}
		if p == nil {
			return nil, false, &ConfigError{Provider: "custom", Err: errNilProvider}
		}
		return p, false, nil
	}
	name := r.Name()
	f, ok := builtin[name]
	if !ok {
		return nil, false, &ConfigError{Provider: name, Err: ErrUnsupportedProvider}
	}
	p, err = f.Create(cfg)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}
