package optimizer

import (
	"context"
	"testing"

	"github.com/dbrobust/txn-robust-check/internal/model"
	"github.com/dbrobust/txn-robust-check/internal/robustness"
)

func buildTemplateSet(t *testing.T, templates ...model.Template) *model.TemplateSet {
	t.Helper()
	ts, err := model.NewTemplateSet(templates...)
	if err != nil {
		t.Fatalf("unexpected error building template set: %v", err)
	}
	return ts
}

// TestOptimalAllocIsRobust pins down testable property 5: OptimalAlloc
// always returns a robust allocation.
func TestOptimalAllocIsRobust(t *testing.T) {
	ts := buildTemplateSet(t,
		model.Template{Name: "T1", Operations: []model.Operation{
			model.NewOperation("X", "R", []string{"A"}, []string{"B"}),
		}},
		model.Template{Name: "T2", Operations: []model.Operation{
			model.NewOperation("X", "R", []string{"B"}, []string{"A"}),
		}},
		model.Template{Name: "T3", Operations: []model.Operation{
			model.NewOperation("X", "R", nil, []string{"A", "B"}),
		}},
	)

	alloc, err := OptimalAlloc(context.Background(), ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	robust, witness, err := robustness.IsRobust(context.Background(), ts, alloc)
	if err != nil {
		t.Fatalf("unexpected error re-checking optimal allocation: %v", err)
	}
	if !robust {
		t.Fatalf("OptimalAlloc must return a robust allocation, got witness %+v", witness)
	}
}

// TestOptimalAllocSingleReadOnlyTemplateReachesReadCommitted pins down that
// the greedy search actually demotes when it safely can: a single read-only
// template never participates in any conflict, so it should be fully
// demoted to READ_COMMITTED.
func TestOptimalAllocSingleReadOnlyTemplateReachesReadCommitted(t *testing.T) {
	ts := buildTemplateSet(t, model.Template{
		Name:       "Balance",
		Operations: []model.Operation{model.NewOperation("X", "Account", []string{"Name"}, nil)},
	})

	alloc, err := OptimalAlloc(context.Background(), ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alloc.Level("Balance") != model.ReadCommitted {
		t.Fatalf("expected Balance demoted to READ_COMMITTED, got %v", alloc.Level("Balance"))
	}
}

// TestOptimalAllocDeterministic pins down that repeated invocations over
// the same template set produce the same allocation (the greedy search's
// traversal order is fixed to the TemplateSet's declaration order).
func TestOptimalAllocDeterministic(t *testing.T) {
	ts := buildTemplateSet(t,
		model.Template{Name: "Balance", Operations: []model.Operation{
			model.NewOperation("X", "Account", []string{"Name"}, nil),
		}},
		model.Template{Name: "DepositChecking", Operations: []model.Operation{
			model.NewOperation("Y", "Checking", nil, []string{"Balance"}),
		}},
	)

	first, err := OptimalAlloc(context.Background(), ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := OptimalAlloc(context.Background(), ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range ts.Names() {
		if first.Level(name) != second.Level(name) {
			t.Fatalf("expected deterministic allocation for %s: %v vs %v", name, first.Level(name), second.Level(name))
		}
	}
}
