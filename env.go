package cachebox

import (
	"time"

	"github.com/caarlos0/env/v11"

	pr "github.com/unkn0wn-root/cachebox/provider"
)

// DefaultEnvPrefix is used by OptionsFromEnv when prefix is "".
const DefaultEnvPrefix = "CACHE_"

type envOptions struct {
	Store           string        `env:"STORE" envDefault:"memory"`
	Namespace       string        `env:"NAMESPACE"`
	TTL             time.Duration `env:"TTL"`
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT"`
	Password        string        `env:"PASSWORD"`
	TLS             bool          `env:"TLS"`
	DB              int           `env:"DB"`
	MaxEntries      int           `env:"MAX_ENTRIES"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL"`
}

// OptionsFromEnv builds Options from <prefix>STORE, <prefix>NAMESPACE,
// <prefix>TTL, <prefix>HOST, <prefix>PORT, <prefix>PASSWORD, <prefix>TLS,
// <prefix>DB, <prefix>MAX_ENTRIES and <prefix>CLEANUP_INTERVAL.
// Durations use time.ParseDuration syntax ("90s", "5m").
//
// Codec, Logger and Hooks are left nil; set them on the result.
// The store settings are validated later by New.
func OptionsFromEnv[V any](prefix string) (Options[V], error) {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	eo, err := env.ParseAsWithOptions[envOptions](env.Options{Prefix: prefix})
	if err != nil {
		return Options[V]{}, &ConfigError{Provider: "env", Err: err}
	}
	return Options[V]{
		Store:     ByName(eo.Store),
		Namespace: eo.Namespace,
		TTL:       eo.TTL,
		Provider: pr.Config{
			Host:            eo.Host,
			Port:            eo.Port,
			Password:        eo.Password,
			TLS:             eo.TLS,
			DB:              eo.DB,
			MaxEntries:      eo.MaxEntries,
			CleanupInterval: eo.CleanupInterval,
		},
	}, nil
}
