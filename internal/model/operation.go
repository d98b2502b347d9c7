package model

import (
	"sort"
	"strings"
)

// Operation is an immutable read/write against a relation (table), identified
// for row-identity purposes by an opaque Variable: two operations "touch the
// same row" iff they share a Variable. Equality is structural over all four
// fields.
type Operation struct {
	Variable string
	Relation string
	ReadSet  map[string]struct{}
	WriteSet map[string]struct{}
}

// NewOperation builds an Operation from plain string slices; either set may
// be nil or empty.
func NewOperation(variable, relation string, readset, writeset []string) Operation {
	return Operation{
		Variable: variable,
		Relation: relation,
		ReadSet:  toSet(readset),
		WriteSet: toSet(writeset),
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

// Equal reports structural equality over Variable, Relation, ReadSet and
// WriteSet. Used wherever the reference algorithm compares operations by
// value (e.g. "if op1 == o1").
func (o Operation) Equal(other Operation) bool {
	return o.Variable == other.Variable &&
		o.Relation == other.Relation &&
		setEqual(o.ReadSet, other.ReadSet) &&
		setEqual(o.WriteSet, other.WriteSet)
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Key returns a deterministic string encoding of the operation: two
// operations with the same Key are Equal, and vice versa. Used as a map key
// and as a component of pt-conflict-graph vertex ids.
func (o Operation) Key() string {
	var b strings.Builder
	b.WriteString(o.Variable)
	b.WriteByte(0)
	b.WriteString(o.Relation)
	b.WriteByte(0)
	b.WriteString(joinSorted(o.ReadSet))
	b.WriteByte(0)
	b.WriteString(joinSorted(o.WriteSet))
	return b.String()
}

func joinSorted(set map[string]struct{}) string {
	items := make([]string, 0, len(set))
	for k := range set {
		items = append(items, k)
	}
	sort.Strings(items)
	return strings.Join(items, ",")
}
