package source

import "testing"

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	if a != b {
		t.Fatalf("same string must intern to same ID")
	}
	if c := in.Intern("bar"); c == a {
		t.Fatalf("distinct strings must intern to distinct IDs")
	}
}

func TestInternerEmptyStringIsNoStringID(t *testing.T) {
	in := NewInterner()
	if id := in.Intern(""); id != NoStringID {
		t.Fatalf("empty string should map to NoStringID, got %d", id)
	}
	s, ok := in.Lookup(NoStringID)
	if !ok || s != "" {
		t.Fatalf("NoStringID must resolve to empty string")
	}
}

func TestInternerLookupInvalid(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatalf("unknown ID must not resolve")
	}
}

func TestInternBytes(t *testing.T) {
	in := NewInterner()
	id := in.InternBytes([]byte("name"))
	if in.MustLookup(id) != "name" {
		t.Fatalf("round-trip failed")
	}
}
