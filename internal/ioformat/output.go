package ioformat

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dbrobust/txn-robust-check/internal/model"
	"github.com/dbrobust/txn-robust-check/internal/robustness"
)

// Output is the structured result the CLI renders for both `--mode check`
// and `--mode optimize`, shared verbatim between the JSON and YAML encoders so the two can only
// differ in encoding, never in content.
type Output struct {
	Robust     bool              `json:"robust" yaml:"robust"`
	Allocation map[string]string `json:"allocation" yaml:"allocation"`
	Witness    *WitnessOutput    `json:"witness,omitempty" yaml:"witness,omitempty"`
}

// WitnessOutput is the JSON/YAML-friendly projection of robustness.Witness.
type WitnessOutput struct {
	T1  string `json:"t1" yaml:"t1"`
	O1  string `json:"o1" yaml:"o1"`
	P1  string `json:"p1" yaml:"p1"`
	H   int    `json:"h" yaml:"h"`
	T2  string `json:"t2" yaml:"t2"`
	O2  string `json:"o2" yaml:"o2"`
	P2  string `json:"p2" yaml:"p2"`
	CO2 string `json:"co2" yaml:"co2"`
	Tn  string `json:"tn" yaml:"tn"`
	On  string `json:"on" yaml:"on"`
	Pn  string `json:"pn" yaml:"pn"`
	CPn string `json:"cpn" yaml:"cpn"`
}

// BuildOutput assembles Output from an IsRobust result.
func BuildOutput(ts *model.TemplateSet, alloc *model.Allocation, robust bool, w *robustness.Witness) Output {
	out := Output{Robust: robust, Allocation: make(map[string]string, ts.Len())}
	for _, name := range ts.Names() {
		out.Allocation[name] = isolationLevelString(alloc.Level(name))
	}
	if w != nil {
		out.Witness = &WitnessOutput{
			T1: w.T1.Name, O1: w.O1.Variable, P1: w.P1.Variable, H: w.H,
			T2: w.T2.Name, O2: w.O2.Variable, P2: w.P2.Variable, CO2: w.CO2.String(),
			Tn: w.Tn.Name, On: w.On.Variable, Pn: w.Pn.Variable, CPn: w.CPn.String(),
		}
	}
	return out
}

// WriteText renders out as a plain summary-line report.
func WriteText(wr io.Writer, out Output) error {
	if out.Robust {
		fmt.Fprintln(wr, "ROBUST")
	} else {
		fmt.Fprintln(wr, "NOT ROBUST")
		if out.Witness != nil {
			fmt.Fprintf(wr, "witness: pivot %s (o1=%s p1=%s h=%d) -> %s (o2=%s p2=%s co2=%s) -> %s (on=%s pn=%s cpn=%s)\n",
				out.Witness.T1, out.Witness.O1, out.Witness.P1, out.Witness.H,
				out.Witness.T2, out.Witness.O2, out.Witness.P2, out.Witness.CO2,
				out.Witness.Tn, out.Witness.On, out.Witness.Pn, out.Witness.CPn)
		}
	}
	names := make([]string, 0, len(out.Allocation))
	for name := range out.Allocation {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(wr, "\nAllocation:")
	for _, name := range names {
		fmt.Fprintf(wr, "  %s: %s\n", name, out.Allocation[name])
	}
	return nil
}

// WriteJSON renders out as indented JSON.
func WriteJSON(wr io.Writer, out Output) error {
	enc := json.NewEncoder(wr)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("ioformat: encoding JSON: %w", err)
	}
	return nil
}

// WriteYAML renders out as YAML.
func WriteYAML(wr io.Writer, out Output) error {
	enc := yaml.NewEncoder(wr)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("ioformat: encoding YAML: %w", err)
	}
	return enc.Close()
}
