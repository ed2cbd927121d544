package provider

import (
	"fmt"
	"strings"
	"time"
)

// Config is the store-agnostic configuration handed to a Factory.
// Built-in factories copy only the fields they understand into their own
// typed config; custom factories receive it whole.
type Config struct {
	TTL time.Duration // default per-entry lifetime; 0 => never expires

	// remote stores
	Host     string
	Port     int
	Password string
	TLS      bool
	DB       int

	// in-process stores
	MaxEntries      int           // capacity; 0 => provider default
	CleanupInterval time.Duration // background purge; 0 => lazy only

	// Extra carries settings for custom providers.
	Extra map[string]any
}

// FieldError names one invalid configuration field and the rule it broke.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (f FieldError) String() string {
	if f.Param != "" {
		return fmt.Sprintf("%s (%s=%s)", f.Field, f.Rule, f.Param)
	}
	return fmt.Sprintf("%s (%s)", f.Field, f.Rule)
}

// ConfigError is returned at construction time when a provider cannot be
// built from the given configuration.
type ConfigError struct {
	Provider string
	Fields   []FieldError
	Err      error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(" provider: ")
	}
	switch {
	case len(e.Fields) > 0:
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = f.String()
		}
		b.WriteString("invalid configuration: ")
		b.WriteString(strings.Join(parts, ", "))
		if e.Err != nil {
			b.WriteString(": ")
			b.WriteString(e.Err.Error())
		}
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("invalid configuration")
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// HasField reports whether field is among the invalid fields.
func (e *ConfigError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
