// Package smallbank bundles the SmallBank benchmark's statement templates
// and its seventeen template-set variants (the unpromoted default plus
// sixteen promotion choices) as an embedded YAML
// fixture, parsed lazily, once, behind a sync.Once.
package smallbank

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dbrobust/txn-robust-check/internal/model"
)

//go:embed smallbank.yaml
var fixtureYAML []byte

type yamlOperation struct {
	Variable string   `yaml:"variable"`
	Relation string   `yaml:"relation"`
	ReadSet  []string `yaml:"readset"`
	WriteSet []string `yaml:"writeset"`
}

type yamlTemplate struct {
	Operations []yamlOperation `yaml:"operations"`
}

type yamlFixture struct {
	Templates    map[string]yamlTemplate `yaml:"templates"`
	TemplateSets map[string][]string     `yaml:"template_sets"`
}

var (
	once     sync.Once
	fixture  yamlFixture
	parseErr error
)

func load() {
	once.Do(func() {
		parseErr = yaml.Unmarshal(fixtureYAML, &fixture)
	})
}

// TemplateSets returns every bundled SmallBank template-set variant, keyed
// exactly as template_robustness/smallbank.py's create_templates(): one
// "default" unpromoted set plus sixteen promotion-choice variants.
func TemplateSets() (map[string]*model.TemplateSet, error) {
	load()
	if parseErr != nil {
		return nil, fmt.Errorf("smallbank: parsing embedded fixture: %w", parseErr)
	}

	result := make(map[string]*model.TemplateSet, len(fixture.TemplateSets))
	for setName, templateNames := range fixture.TemplateSets {
		ts, err := buildTemplateSet(setName, templateNames)
		if err != nil {
			return nil, err
		}
		result[setName] = ts
	}
	return result, nil
}

// TemplateSet returns a single bundled variant by name, e.g. "default" or
// "pr_c_3_23".
func TemplateSet(name string) (*model.TemplateSet, error) {
	load()
	if parseErr != nil {
		return nil, fmt.Errorf("smallbank: parsing embedded fixture: %w", parseErr)
	}
	templateNames, ok := fixture.TemplateSets[name]
	if !ok {
		return nil, fmt.Errorf("smallbank: %w: unknown template set %q", model.ErrContractViolation, name)
	}
	return buildTemplateSet(name, templateNames)
}

func buildTemplateSet(setName string, templateNames []string) (*model.TemplateSet, error) {
	templates := make([]model.Template, 0, len(templateNames))
	for _, name := range templateNames {
		def, ok := fixture.Templates[name]
		if !ok {
			return nil, fmt.Errorf("smallbank: template set %q references unknown template %q", setName, name)
		}
		ops := make([]model.Operation, 0, len(def.Operations))
		for _, op := range def.Operations {
			ops = append(ops, model.NewOperation(op.Variable, op.Relation, op.ReadSet, op.WriteSet))
		}
		templates = append(templates, model.Template{Name: name, Operations: ops})
	}
	ts, err := model.NewTemplateSet(templates...)
	if err != nil {
		return nil, fmt.Errorf("smallbank: building template set %q: %w", setName, err)
	}
	return ts, nil
}
