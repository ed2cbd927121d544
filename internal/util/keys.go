package util

import "strings"

// NamespacePrefix returns the storage prefix for ns ("<ns>:").
func NamespacePrefix(ns string) string { return ns + ":" }

// StripPrefix drops prefix from key once. ok is false when key does not
// carry prefix, in which case key is returned unchanged.
func StripPrefix(prefix, key string) (string, bool) {
	if !strings.HasPrefix(key, prefix) {
		return key, false
	}
	return key[len(prefix):], true
}

// EscapeGlob backslash-escapes glob metacharacters so s matches literally
// under both redis MATCH and internal/glob.
func EscapeGlob(s string) string {
	if !strings.ContainsAny(s, `*?[]{}\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
