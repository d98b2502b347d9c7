// Package ioformat loads the YAML workload document format the CLI accepts
// (a template set plus an optional isolation-level allocation) and renders
// IsRobust/OptimalAlloc results back out as text, JSON, or YAML, the way the
// teacher's cmd/pg-lock-check builds an Output struct shared by both
// encoders rather than formatting each separately.
package ioformat

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dbrobust/txn-robust-check/internal/model"
)

// ErrMalformedDocument marks a workload document the CLI cannot use: bad
// YAML, an allocation entry naming an unknown template or isolation level,
// or (via model.NewTemplateSet) a duplicate template name. Distinct from
// model.ErrContractViolation so the CLI's exit-code convention can tell
// "bad input document" apart from a contract violation surfaced later from
// the core on well-formed input.
var ErrMalformedDocument = errors.New("ioformat: malformed workload document")

// WorkloadDocument is the on-disk shape of a workload YAML file: an ordered
// list of templates and an optional allocation map. Any template absent from
// the allocation map defaults to SERIALIZABLE, the always-robust starting
// point.
type WorkloadDocument struct {
	Templates  []yamlTemplate    `yaml:"templates"`
	Allocation map[string]string `yaml:"allocation,omitempty"`
}

type yamlTemplate struct {
	Name       string          `yaml:"name"`
	Operations []yamlOperation `yaml:"operations"`
}

type yamlOperation struct {
	Variable string   `yaml:"variable"`
	Relation string   `yaml:"relation"`
	ReadSet  []string `yaml:"readset,omitempty"`
	WriteSet []string `yaml:"writeset,omitempty"`
}

// LoadTemplateSet parses raw into a TemplateSet and Allocation. A malformed
// document (bad YAML, duplicate template name, unknown isolation level
// string) is reported as a wrapped ErrMalformedDocument so the CLI can map
// it to its exit-code-2 convention.
func LoadTemplateSet(raw []byte) (*model.TemplateSet, *model.Allocation, error) {
	var doc WorkloadDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("ioformat: %w: parsing workload document: %v", ErrMalformedDocument, err)
	}

	templates := make([]model.Template, 0, len(doc.Templates))
	for _, t := range doc.Templates {
		ops := make([]model.Operation, 0, len(t.Operations))
		for _, op := range t.Operations {
			ops = append(ops, model.NewOperation(op.Variable, op.Relation, op.ReadSet, op.WriteSet))
		}
		templates = append(templates, model.Template{Name: t.Name, Operations: ops})
	}

	ts, err := model.NewTemplateSet(templates...)
	if err != nil {
		return nil, nil, fmt.Errorf("ioformat: %w: %v", ErrMalformedDocument, err)
	}

	mapping := make(map[string]model.IsolationLevel, ts.Len())
	for _, name := range ts.Names() {
		mapping[name] = model.Serializable
	}
	for name, levelStr := range doc.Allocation {
		if _, ok := ts.Get(name); !ok {
			return nil, nil, fmt.Errorf("ioformat: %w: allocation references unknown template %q", ErrMalformedDocument, name)
		}
		level, err := model.ParseIsolationLevel(levelStr)
		if err != nil {
			return nil, nil, fmt.Errorf("ioformat: %w: %v", ErrMalformedDocument, err)
		}
		mapping[name] = level
	}

	alloc, err := model.NewAllocation(ts, mapping)
	if err != nil {
		return nil, nil, fmt.Errorf("ioformat: %w", err)
	}
	return ts, alloc, nil
}

// LoadTemplateSetFile reads and parses path.
func LoadTemplateSetFile(path string) (*model.TemplateSet, *model.Allocation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ioformat: reading %q: %w", path, err)
	}
	return LoadTemplateSet(raw)
}

// DumpAllocation renders ts/alloc back into the WorkloadDocument shape, used
// by the round-trip test.
func DumpAllocation(ts *model.TemplateSet, alloc *model.Allocation) WorkloadDocument {
	doc := WorkloadDocument{
		Templates:  make([]yamlTemplate, 0, ts.Len()),
		Allocation: make(map[string]string, ts.Len()),
	}
	for _, t := range ts.Templates() {
		ops := make([]yamlOperation, 0, len(t.Operations))
		for _, op := range t.Operations {
			ops = append(ops, yamlOperation{
				Variable: op.Variable,
				Relation: op.Relation,
				ReadSet:  sortedKeys(op.ReadSet),
				WriteSet: sortedKeys(op.WriteSet),
			})
		}
		doc.Templates = append(doc.Templates, yamlTemplate{Name: t.Name, Operations: ops})
		doc.Allocation[t.Name] = isolationLevelString(alloc.Level(t.Name))
	}
	return doc
}

func isolationLevelString(l model.IsolationLevel) string {
	switch l {
	case model.ReadCommitted:
		return "read_committed"
	case model.SnapshotIsolation:
		return "snapshot_isolation"
	default:
		return "serializable"
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
