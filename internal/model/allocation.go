package model

import "fmt"

// Allocation is a total mapping from each template name in a TemplateSet to
// an IsolationLevel.
type Allocation struct {
	templateSet *TemplateSet
	mapping     map[string]IsolationLevel
}

// NewAllocation builds an Allocation, validating that mapping's domain
// exactly matches ts's template names.
func NewAllocation(ts *TemplateSet, mapping map[string]IsolationLevel) (*Allocation, error) {
	a := &Allocation{templateSet: ts, mapping: make(map[string]IsolationLevel, len(mapping))}
	for k, v := range mapping {
		a.mapping[k] = v
	}
	if err := a.Validate(ts); err != nil {
		return nil, err
	}
	return a, nil
}

// NewUniformAllocation builds an Allocation assigning level to every
// template in ts, with no validation needed since the domain is built from
// ts itself.
func NewUniformAllocation(ts *TemplateSet, level IsolationLevel) *Allocation {
	mapping := make(map[string]IsolationLevel, ts.Len())
	for _, name := range ts.Names() {
		mapping[name] = level
	}
	return &Allocation{templateSet: ts, mapping: mapping}
}

// Validate checks that the allocation's domain is exactly ts's template
// names, returning ErrContractViolation otherwise.
func (a *Allocation) Validate(ts *TemplateSet) error {
	if len(a.mapping) != ts.Len() {
		return fmt.Errorf("%w: allocation has %d entries, template set has %d templates",
			ErrContractViolation, len(a.mapping), ts.Len())
	}
	for _, name := range ts.Names() {
		if _, ok := a.mapping[name]; !ok {
			return fmt.Errorf("%w: allocation missing template %q", ErrContractViolation, name)
		}
	}
	return nil
}

// Level returns the isolation level assigned to the named template.
func (a *Allocation) Level(templateName string) IsolationLevel {
	return a.mapping[templateName]
}

// With returns a new Allocation with templateName reassigned to level,
// leaving the receiver untouched. The optimizer uses this to build
// tentative demotions it can discard without mutating the current-best
// allocation.
func (a *Allocation) With(templateName string, level IsolationLevel) *Allocation {
	clone := make(map[string]IsolationLevel, len(a.mapping))
	for k, v := range a.mapping {
		clone[k] = v
	}
	clone[templateName] = level
	return &Allocation{templateSet: a.templateSet, mapping: clone}
}

// Mapping returns a defensive copy of the template-name -> level mapping.
func (a *Allocation) Mapping() map[string]IsolationLevel {
	out := make(map[string]IsolationLevel, len(a.mapping))
	for k, v := range a.mapping {
		out[k] = v
	}
	return out
}

// TemplateSet returns the owning template set.
func (a *Allocation) TemplateSet() *TemplateSet {
	return a.templateSet
}

// ParseIsolationLevel parses the lower_snake_case spellings used by the YAML
// workload document format.
func ParseIsolationLevel(s string) (IsolationLevel, error) {
	switch s {
	case "read_committed":
		return ReadCommitted, nil
	case "snapshot_isolation":
		return SnapshotIsolation, nil
	case "serializable":
		return Serializable, nil
	default:
		return 0, fmt.Errorf("%w: unknown isolation level %q", ErrContractViolation, s)
	}
}
