package util

import "testing"

func TestStripPrefix(t *testing.T) {
	p := NamespacePrefix("users")
	if p != "users:" {
		t.Fatalf("prefix = %q", p)
	}
	if k, ok := StripPrefix(p, "users:foo"); !ok || k != "foo" {
		t.Fatalf("got %q %v", k, ok)
	}
	// stripped exactly once
	if k, ok := StripPrefix(p, "users:users:foo"); !ok || k != "users:foo" {
		t.Fatalf("got %q %v", k, ok)
	}
	if k, ok := StripPrefix(p, "cars:foo"); ok || k != "cars:foo" {
		t.Fatalf("foreign key should pass through, got %q %v", k, ok)
	}
}

func TestEscapeGlob(t *testing.T) {
	cases := map[string]string{
		"plain:":  "plain:",
		"a*b:":    `a\*b:`,
		"q?[x]:":  `q\?\[x\]:`,
		`back\s:`: `back\\s:`,
		"{x}:":    `\{x\}:`,
	}
	for in, want := range cases {
		if got := EscapeGlob(in); got != want {
			t.Fatalf("EscapeGlob(%q) = %q want %q", in, got, want)
		}
	}
}
