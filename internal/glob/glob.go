// Package glob filters key names for providers without a native pattern
// scan. Syntax follows redis MATCH closely enough for cache keys:
// * any run, ? one char, [abc] classes, \ escapes.
package glob

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Matcher reports whether a key matches a compiled pattern.
type Matcher func(key string) bool

// Compile compiles pattern. An empty pattern matches everything.
func Compile(pattern string) (Matcher, error) {
	if pattern == "" || pattern == "*" {
		return func(string) bool { return true }, nil
	}
	g, err := glob.Compile(pattern) // no separators: * spans everything
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	return g.Match, nil
}

// Filter returns the keys matching pattern, preserving input order.
func Filter(keys []string, pattern string) ([]string, error) {
	match, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if match(k) {
			out = append(out, k)
		}
	}
	return out, nil
}
