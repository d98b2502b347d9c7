package model

import "testing"

func mustTemplateSet(t *testing.T, names ...string) *TemplateSet {
	t.Helper()
	templates := make([]Template, 0, len(names))
	for _, n := range names {
		templates = append(templates, Template{Name: n})
	}
	ts, err := NewTemplateSet(templates...)
	if err != nil {
		t.Fatalf("unexpected error building template set: %v", err)
	}
	return ts
}

func TestNewAllocationValidatesDomain(t *testing.T) {
	ts := mustTemplateSet(t, "Balance", "WriteCheck")

	if _, err := NewAllocation(ts, map[string]IsolationLevel{"Balance": ReadCommitted}); err == nil {
		t.Fatalf("expected an error for a missing template in the mapping")
	}

	if _, err := NewAllocation(ts, map[string]IsolationLevel{
		"Balance":    ReadCommitted,
		"WriteCheck": Serializable,
		"Ghost":      Serializable,
	}); err == nil {
		t.Fatalf("expected an error for an extra entry in the mapping")
	}

	alloc, err := NewAllocation(ts, map[string]IsolationLevel{
		"Balance":    ReadCommitted,
		"WriteCheck": Serializable,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alloc.Level("Balance") != ReadCommitted {
		t.Fatalf("expected Balance at ReadCommitted, got %v", alloc.Level("Balance"))
	}
}

func TestNewUniformAllocation(t *testing.T) {
	ts := mustTemplateSet(t, "Balance", "WriteCheck", "Amalgamate")
	alloc := NewUniformAllocation(ts, Serializable)
	for _, name := range ts.Names() {
		if alloc.Level(name) != Serializable {
			t.Fatalf("expected %s at Serializable, got %v", name, alloc.Level(name))
		}
	}
	if err := alloc.Validate(ts); err != nil {
		t.Fatalf("uniform allocation should validate: %v", err)
	}
}

func TestAllocationWithDoesNotMutateReceiver(t *testing.T) {
	ts := mustTemplateSet(t, "Balance", "WriteCheck")
	base := NewUniformAllocation(ts, Serializable)

	demoted := base.With("Balance", ReadCommitted)

	if base.Level("Balance") != Serializable {
		t.Fatalf("With must not mutate the receiver, got %v", base.Level("Balance"))
	}
	if demoted.Level("Balance") != ReadCommitted {
		t.Fatalf("expected demoted Balance at ReadCommitted, got %v", demoted.Level("Balance"))
	}
	if demoted.Level("WriteCheck") != Serializable {
		t.Fatalf("expected WriteCheck unaffected by With, got %v", demoted.Level("WriteCheck"))
	}
}

func TestParseIsolationLevel(t *testing.T) {
	cases := map[string]IsolationLevel{
		"read_committed":     ReadCommitted,
		"snapshot_isolation": SnapshotIsolation,
		"serializable":       Serializable,
	}
	for s, want := range cases {
		got, err := ParseIsolationLevel(s)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if got != want {
			t.Fatalf("ParseIsolationLevel(%q) = %v, want %v", s, got, want)
		}
	}

	if _, err := ParseIsolationLevel("bogus"); err == nil {
		t.Fatalf("expected an error for an unknown isolation level string")
	}
}
