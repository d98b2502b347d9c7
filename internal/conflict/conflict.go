// Package conflict implements the rw/wr/ww conflict algebra over
// model.Operation: two operations on the same relation conflict when one's
// read set overlaps the other's write set (rw, wr) or their write sets
// overlap (ww).
package conflict

import "github.com/dbrobust/txn-robust-check/internal/model"

// RW reports whether a reads an attribute b writes, on the same relation.
func RW(a, b model.Operation) bool {
	return a.Relation == b.Relation && intersects(a.ReadSet, b.WriteSet)
}

// WR reports whether a writes an attribute b reads, on the same relation.
func WR(a, b model.Operation) bool {
	return a.Relation == b.Relation && intersects(a.WriteSet, b.ReadSet)
}

// WW reports whether a and b both write an overlapping attribute on the
// same relation.
func WW(a, b model.Operation) bool {
	return a.Relation == b.Relation && intersects(a.WriteSet, b.WriteSet)
}

// Is reports whether any of RW, WR or WW holds between a and b.
func Is(a, b model.Operation) bool {
	return RW(a, b) || WR(a, b) || WW(a, b)
}

func intersects(a, b map[string]struct{}) bool {
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
