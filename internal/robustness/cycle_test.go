package robustness

import (
	"testing"

	"github.com/dbrobust/txn-robust-check/internal/model"
)

// TestCondition4_SelfAnchorNoReject pins down the RC-exception scan's
// self-anchor case: the scan checks o1 before p1 on each iteration, so when
// p1 == o1 the break fires before the p1 match is ever reached and the scan
// does not reject. Every other condition in this fixture is engineered to
// pass, so the candidate is valid here iff the self-anchor case is not
// mistakenly rejected. The test name follows the numbering of SPEC_FULL.md
// §4.4's list (condition 4); the comments below follow cycle.go's numbering,
// where this scan is condition (5).
func TestCondition4_SelfAnchorNoReject(t *testing.T) {
	// t1's only operation also serves as both o1 and p1 (h=1 is the only
	// admissible value when o1.Variable == p1.Variable).
	anchor := model.NewOperation("X", "R", []string{"A"}, []string{"B"})
	t1 := &model.Template{Name: "T1", Operations: []model.Operation{anchor}}

	// p2 writes A, so o1 (reads A) rw-conflicts p2: condition 4 is satisfied.
	// p2 does not write B, so it never ww-conflicts t1's prefix (condition 2
	// is vacuous).
	p2 := model.NewOperation("Y", "R", nil, []string{"A"})
	t2 := &model.Template{Name: "T2", Operations: []model.Operation{p2}}

	// on does not read B, so it does not rw-conflict p1 (=anchor): this
	// forces the RC-exception branch of condition 5. on does not write B
	// either, so it never ww-conflicts t1's prefix (condition 3 is vacuous).
	on := model.NewOperation("Z", "R", nil, []string{"C"})
	tn := &model.Template{Name: "Tn", Operations: []model.Operation{on}}

	ts, err := model.NewTemplateSet(*t1, *t2, *tn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// T1 is READ_COMMITTED so condition 5's RC-exception path is live, and
	// no template is SERIALIZABLE so conditions 6-8 are all vacuous.
	alloc := model.NewUniformAllocation(ts, model.ReadCommitted)

	cand := candidate{
		t1: t1, o1: anchor, p1: anchor, h: 1,
		t2: t2, o2: p2, p2: p2, co2: model.ConnO,
		tn: tn, on: on, pn: on, cpn: model.ConnP,
		alloc: alloc,
	}

	valid, err := isValidCycle(cand)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !valid {
		t.Fatalf("expected the self-anchor (p1 == o1) case not to be rejected by condition 5's RC-exception scan")
	}
}

// TestIsReachableLengthTwo pins down the Length-2 reachability branch of
// §4.4: t2 == tn, o2 == on, p2 == pn, and (co2, cpn) == (P, O) closes the
// cycle without consulting the pt-conflict-graph at all.
func TestIsReachableLengthTwo(t *testing.T) {
	t2 := &model.Template{Name: "T2"}
	o := model.NewOperation("X", "R", []string{"A"}, nil)
	p := model.NewOperation("Y", "R", nil, []string{"A"})

	cand := candidate{
		t2: t2, o2: o, p2: p, co2: model.ConnP,
		tn: t2, on: o, pn: p, cpn: model.ConnO,
		h: 2,
	}
	if !isReachable(cand, nil) {
		t.Fatalf("expected the length-2 (P,O) branch to close without consulting the graph")
	}
}

func TestIsReachableLengthTwoHEqualsOneSymmetric(t *testing.T) {
	t2 := &model.Template{Name: "T2"}
	o := model.NewOperation("X", "R", []string{"A"}, nil)
	p := model.NewOperation("Y", "R", nil, []string{"A"})

	cand := candidate{
		t2: t2, o2: o, p2: p, co2: model.ConnO,
		tn: t2, on: o, pn: p, cpn: model.ConnP,
		h: 1,
	}
	if !isReachable(cand, nil) {
		t.Fatalf("expected the length-2 (O,P) branch to close when h=1")
	}
}

func TestIsReachableLengthThree(t *testing.T) {
	t2 := &model.Template{Name: "T2"}
	tn := &model.Template{Name: "Tn"}
	o2 := model.NewOperation("X", "R", []string{"A"}, nil)
	pn := model.NewOperation("Y", "R", nil, []string{"A"})

	cand := candidate{
		t2: t2, o2: o2, co2: model.ConnN,
		tn: tn, pn: pn, cpn: model.ConnN,
		h: 2,
	}
	if !isReachable(cand, nil) {
		t.Fatalf("expected the length-3 branch to close when o2 conflicts pn and co2 == cpn")
	}
}
