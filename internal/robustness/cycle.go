package robustness

import (
	"github.com/dbrobust/txn-robust-check/internal/conflict"
	"github.com/dbrobust/txn-robust-check/internal/model"
	"github.com/dbrobust/txn-robust-check/internal/propagate"
	"github.com/dbrobust/txn-robust-check/internal/ptgraph"
)

// candidate bundles the twelve enumeration variables threaded through the
// cycle validator and the reachability check.
type candidate struct {
	t1     *model.Template
	o1, p1 model.Operation
	h      int
	t2     *model.Template
	o2, p2 model.Operation
	co2    model.Conn
	tn     *model.Template
	on, pn model.Operation
	cpn    model.Conn
	alloc  *model.Allocation
}

// isValidCycle runs the algebraic side-conditions of the cycle validator.
// The conditions are numbered here exactly as in the reference algorithm's
// comments (2/3 share a loop, then 4, 5, 6, 7, 8) — there is no condition
// numbered 1; this is carried over faithfully rather than renumbered, so a
// reader cross-checking against the algorithm doesn't find a mismatch.
func isValidCycle(c candidate) (bool, error) {
	t1RC := c.alloc.Level(c.t1.Name) == model.ReadCommitted

	// Conditions (2) and (3): no ww-conflict-reachable overlap between the
	// (RC-truncated) prefix of t1 and either t2 or tn.
	for _, op1 := range c.t1.Operations {
		op1Conns, err := propagate.GetConnectedness(op1, c.o1, model.ConnO, c.p1, model.ConnP, c.h)
		if err != nil {
			return false, err
		}
		if !hasConn(op1Conns, model.ConnN) {
			for _, op2 := range c.t2.Operations {
				if conflict.WW(op1, op2) {
					op2Conns, err := propagate.GetConnectedness(op2, c.o2, c.co2, c.p2, model.ConnO, c.h)
					if err != nil {
						return false, err
					}
					if connsIntersect(op1Conns, op2Conns) {
						return false, nil
					}
				}
			}
			for _, opn := range c.tn.Operations {
				if conflict.WW(op1, opn) {
					opnConns, err := propagate.GetConnectedness(opn, c.on, model.ConnP, c.pn, c.cpn, c.h)
					if err != nil {
						return false, err
					}
					if connsIntersect(op1Conns, opnConns) {
						return false, nil
					}
				}
			}
		}
		if op1.Equal(c.o1) && t1RC {
			break
		}
	}

	// Condition (4): o1 must rw-conflict p2.
	if !conflict.RW(c.o1, c.p2) {
		return false, nil
	}

	// Condition (5): on must rw-conflict p1, unless t1 is READ_COMMITTED and
	// p1 does not occur strictly before o1 in t1 (the RC-exception path). The scan
	// checks o1 before p1 on each iteration: when p1 == o1 the break fires
	// before the p1 match is ever reached, so the scan exits without
	// rejecting.
	if !conflict.RW(c.on, c.p1) {
		if !t1RC {
			return false, nil
		}
		for _, op := range c.t1.Operations {
			if op.Equal(c.o1) {
				break
			}
			if op.Equal(c.p1) {
				return false, nil
			}
		}
	}

	// Condition (6): not all three templates are SERIALIZABLE.
	if c.alloc.Level(c.t1.Name) == model.Serializable &&
		c.alloc.Level(c.t2.Name) == model.Serializable &&
		c.alloc.Level(c.tn.Name) == model.Serializable {
		return false, nil
	}

	// Condition (7): when t1 and t2 are both SERIALIZABLE, no wr-conflict-
	// reachable overlap between t1 and t2.
	if c.alloc.Level(c.t1.Name) == model.Serializable && c.alloc.Level(c.t2.Name) == model.Serializable {
		for _, op1 := range c.t1.Operations {
			op1Conns, err := propagate.GetConnectedness(op1, c.o1, model.ConnO, c.p1, model.ConnP, c.h)
			if err != nil {
				return false, err
			}
			for _, op2 := range c.t2.Operations {
				if conflict.WR(op1, op2) {
					op2Conns, err := propagate.GetConnectedness(op2, c.o2, c.co2, c.p2, model.ConnO, c.h)
					if err != nil {
						return false, err
					}
					if connsIntersect(op1Conns, op2Conns) {
						return false, nil
					}
				}
			}
		}
	}

	// Condition (8): when t1 and tn are both SERIALIZABLE, no rw-conflict-
	// reachable overlap between t1 and tn.
	if c.alloc.Level(c.t1.Name) == model.Serializable && c.alloc.Level(c.tn.Name) == model.Serializable {
		for _, op1 := range c.t1.Operations {
			op1Conns, err := propagate.GetConnectedness(op1, c.o1, model.ConnO, c.p1, model.ConnP, c.h)
			if err != nil {
				return false, err
			}
			for _, opn := range c.tn.Operations {
				if conflict.RW(op1, opn) {
					opnConns, err := propagate.GetConnectedness(opn, c.on, model.ConnP, c.pn, c.cpn, c.h)
					if err != nil {
						return false, err
					}
					if connsIntersect(op1Conns, opnConns) {
						return false, nil
					}
				}
			}
		}
	}

	return true, nil
}

func hasConn(set map[model.Conn]struct{}, c model.Conn) bool {
	_, ok := set[c]
	return ok
}

func connsIntersect(a, b map[model.Conn]struct{}) bool {
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	for k := range small {
		if _, ok := big[k]; ok {
			return true
		}
	}
	return false
}

// isReachable implements the three reachability cases: a length-2 direct
// close, a length-3 direct conflict between t2 and tn, or (for longer
// cycles) membership of a matching IN/OUT pair in the pt-conflict-graph's
// reflexive transitive closure.
func isReachable(c candidate, closure *ptgraph.Graph) bool {
	if c.t2.Name == c.tn.Name && c.o2.Equal(c.on) && c.p2.Equal(c.pn) {
		if c.co2 == model.ConnP && c.cpn == model.ConnO {
			return true
		}
		if c.h == 1 && c.co2 == model.ConnO && c.cpn == model.ConnP {
			return true
		}
	}

	if conflict.Is(c.o2, c.pn) {
		if c.co2 == c.cpn {
			return true
		}
		if c.h == 1 && c.co2 == model.ConnO && c.cpn == model.ConnP {
			return true
		}
	}

	return closure.Reachable(c.co2, c.o2, c.cpn, c.pn)
}
