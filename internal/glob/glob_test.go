package glob

import (
	"reflect"
	"testing"
)

func TestFilter(t *testing.T) {
	keys := []string{"ns:user-1", "ns:user-2", "ns:something", "other:user-1"}
	cases := []struct {
		pattern string
		want    []string
	}{
		{"", keys},
		{"*", keys},
		{"ns:*", []string{"ns:user-1", "ns:user-2", "ns:something"}},
		{"ns:user-*", []string{"ns:user-1", "ns:user-2"}},
		{"*:user-1", []string{"ns:user-1", "other:user-1"}},
		{"ns:user-?", []string{"ns:user-1", "ns:user-2"}},
		{"ns:user-[2]", []string{"ns:user-2"}},
		{"nope*", []string{}},
	}
	for _, tc := range cases {
		got, err := Filter(keys, tc.pattern)
		if err != nil {
			t.Fatalf("%q: %v", tc.pattern, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%q: got %v want %v", tc.pattern, got, tc.want)
		}
	}
}

func TestEscapedMetaMatchesLiterally(t *testing.T) {
	m, err := Compile(`a\*b:*`)
	if err != nil {
		t.Fatal(err)
	}
	if !m("a*b:x") {
		t.Fatalf("escaped star should match literal star")
	}
	if m("azzb:x") {
		t.Fatalf("escaped star must not act as wildcard")
	}
}
