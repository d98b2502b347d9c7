package model

import "testing"

func TestTemplateSetRejectsDuplicateNames(t *testing.T) {
	_, err := NewTemplateSet(
		Template{Name: "Balance"},
		Template{Name: "Balance"},
	)
	if err == nil {
		t.Fatalf("expected an error for a duplicate template name")
	}
}

func TestTemplateSetPreservesInsertionOrder(t *testing.T) {
	ts, err := NewTemplateSet(
		Template{Name: "WriteCheck"},
		Template{Name: "Balance"},
		Template{Name: "Amalgamate"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"WriteCheck", "Balance", "Amalgamate"}
	got := ts.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTemplateSetGet(t *testing.T) {
	ts, err := NewTemplateSet(Template{Name: "Balance", Operations: []Operation{
		NewOperation("X", "Account", []string{"Name"}, nil),
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tmpl, ok := ts.Get("Balance")
	if !ok {
		t.Fatalf("expected to find template Balance")
	}
	if len(tmpl.Operations) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(tmpl.Operations))
	}

	if _, ok := ts.Get("NoSuchTemplate"); ok {
		t.Fatalf("expected no match for an unknown template name")
	}
}

func TestTemplateOperationOrderIsPreserved(t *testing.T) {
	ops := []Operation{
		NewOperation("X", "Checking", nil, []string{"Balance"}),
		NewOperation("Y", "Checking", nil, []string{"Balance"}),
	}
	tmpl := Template{Name: "WriteCheck", Operations: ops}
	for i, op := range tmpl.Operations {
		if !op.Equal(ops[i]) {
			t.Fatalf("operation order not preserved at index %d", i)
		}
	}
}
