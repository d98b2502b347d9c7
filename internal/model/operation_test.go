package model

import "testing"

func TestOperationEqual(t *testing.T) {
	a := NewOperation("X", "Account", []string{"Name"}, nil)
	b := NewOperation("X", "Account", []string{"Name"}, nil)
	c := NewOperation("Y", "Account", []string{"Name"}, nil)

	if !a.Equal(b) {
		t.Fatalf("expected %+v to equal %+v", a, b)
	}
	if a.Equal(c) {
		t.Fatalf("expected %+v to not equal %+v", a, c)
	}
}

func TestOperationEqualIgnoresSetOrder(t *testing.T) {
	a := NewOperation("X", "Account", []string{"Name", "CustomerID"}, nil)
	b := NewOperation("X", "Account", []string{"CustomerID", "Name"}, nil)
	if !a.Equal(b) {
		t.Fatalf("read set order should not affect equality: %+v vs %+v", a, b)
	}
}

func TestOperationKeyMatchesEquality(t *testing.T) {
	a := NewOperation("X", "Account", []string{"Name", "CustomerID"}, []string{"Balance"})
	b := NewOperation("X", "Account", []string{"CustomerID", "Name"}, []string{"Balance"})
	c := NewOperation("X", "Account", []string{"Name"}, []string{"Balance"})

	if a.Key() != b.Key() {
		t.Fatalf("equal operations must have equal keys: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Fatalf("distinct operations must have distinct keys")
	}
}

func TestNewOperationAllowsEmptySets(t *testing.T) {
	op := NewOperation("X", "Account", nil, nil)
	if len(op.ReadSet) != 0 || len(op.WriteSet) != 0 {
		t.Fatalf("expected empty sets, got %+v", op)
	}
}
