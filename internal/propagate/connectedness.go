// Package propagate computes how the connectedness labels of the two anchor
// operations o1 ("O") and p1 ("P") propagate onto a third operation that
// shares a variable with either anchor, folding in the h=1 symmetric closure.
package propagate

import (
	"errors"
	"fmt"

	"github.com/dbrobust/txn-robust-check/internal/model"
)

// ErrInvalidConnectedness marks a computed connectedness set that fails the
// algorithm's own sanity postcondition — a bug in the caller's h or anchor
// arguments, not a property of the input templates.
var ErrInvalidConnectedness = errors.New("propagate: connectedness postcondition violated")

// GetConnectedness returns the set of connectedness labels target may carry,
// given that it shares a variable with o (carrying label co), p (carrying
// label cp), or neither (label N). When h=1, o and p are interchangeable, so
// the result is symmetrically closed over {O,P}.
func GetConnectedness(target, o model.Operation, co model.Conn, p model.Operation, cp model.Conn, h int) (map[model.Conn]struct{}, error) {
	result := make(map[model.Conn]struct{})
	if target.Variable == o.Variable {
		result[co] = struct{}{}
	}
	if target.Variable == p.Variable {
		result[cp] = struct{}{}
	}
	if len(result) == 0 {
		result[model.ConnN] = struct{}{}
	}

	if h == 1 {
		if _, ok := result[model.ConnO]; ok {
			result[model.ConnP] = struct{}{}
		}
		if _, ok := result[model.ConnP]; ok {
			result[model.ConnO] = struct{}{}
		}
	}

	if err := sanityCheck(result, h); err != nil {
		return nil, err
	}
	return result, nil
}

func sanityCheck(result map[model.Conn]struct{}, h int) error {
	switch h {
	case 1:
		if isExactly(result, model.ConnN) || isExactly(result, model.ConnO, model.ConnP) {
			return nil
		}
	case 2:
		if isExactly(result, model.ConnN) || isExactly(result, model.ConnO) || isExactly(result, model.ConnP) {
			return nil
		}
	default:
		return fmt.Errorf("%w: h must be 1 or 2, got %d", ErrInvalidConnectedness, h)
	}
	return fmt.Errorf("%w: h=%d result=%v", ErrInvalidConnectedness, h, result)
}

func isExactly(set map[model.Conn]struct{}, labels ...model.Conn) bool {
	if len(set) != len(labels) {
		return false
	}
	for _, l := range labels {
		if _, ok := set[l]; !ok {
			return false
		}
	}
	return true
}
