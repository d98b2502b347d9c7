// Package robustness implements the robustness-against-mixed-isolation-
// levels oracle: given a set of SQL statement templates and an allocation of
// isolation levels to those templates, IsRobust decides whether every
// possible interleaving of their executions is guaranteed to be
// serializable, returning a concrete witness cycle when it is not.
package robustness

import (
	"context"
	"fmt"
	"sort"

	"github.com/dbrobust/txn-robust-check/internal/conflict"
	"github.com/dbrobust/txn-robust-check/internal/model"
	"github.com/dbrobust/txn-robust-check/internal/ptgraph"
)

// Logger is the minimal progress-reporting surface IsRobust needs; nil
// disables logging. internal/robustlog implements this without the core
// packages needing to import zap directly.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// Options configures IsRobust.
type Options struct {
	// Workers, if > 1, shards the outer (t1,o1,p1,h) enumeration across
	// goroutines. Workers <= 1 runs the plain
	// sequential search.
	Workers int
	Logger  Logger
}

// Option configures Options.
type Option func(*Options)

// WithWorkers sets the number of goroutines the outer enumeration is
// sharded across.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithLogger attaches a progress logger.
func WithLogger(l Logger) Option { return func(o *Options) { o.Logger = l } }

// quad is one (t1, o1, p1, h) outer-loop task, tagged with its rank in the
// canonical lexicographic enumeration order so that parallel search can
// still report the lexicographically-first witness deterministically.
type quad struct {
	rank   int
	t1     *model.Template
	o1, p1 model.Operation
	h      int
}

// IsRobust decides whether templates is robust under allocation, returning
// the lexicographically-first witness cycle (by enumeration order) if not.
func IsRobust(ctx context.Context, templates *model.TemplateSet, allocation *model.Allocation, opts ...Option) (bool, *Witness, error) {
	if err := allocation.Validate(templates); err != nil {
		return false, nil, err
	}

	options := Options{Workers: 1}
	for _, opt := range opts {
		opt(&options)
	}

	quads := enumerateQuads(templates)

	if options.Workers <= 1 {
		for _, q := range quads {
			select {
			case <-ctx.Done():
				return false, nil, ctx.Err()
			default:
			}
			found, w, err := searchQuad(q, templates, allocation, options.Logger)
			if err != nil {
				return false, nil, fmt.Errorf("robustness: %w", err)
			}
			if found {
				return false, w, nil
			}
		}
		return true, nil, nil
	}

	return isRobustParallel(ctx, quads, templates, allocation, options)
}

// sortedTemplates returns templates in lexicographic (name) order, the
// canonical enumeration order, independent of the set's insertion order.
func sortedTemplates(templates *model.TemplateSet) []*model.Template {
	ts := append([]*model.Template(nil), templates.Templates()...)
	sort.Slice(ts, func(i, j int) bool { return ts[i].Name < ts[j].Name })
	return ts
}

// enumerateQuads builds the outer (t1,o1,p1,h) task list in the canonical
// lexicographic order: templates by name, o1/p1 over t1.Operations in
// declaration order, h={1} when o1 and p1 share a variable, {1,2}
// otherwise.
func enumerateQuads(templates *model.TemplateSet) []quad {
	var quads []quad
	rank := 0
	for _, t1 := range sortedTemplates(templates) {
		for _, o1 := range t1.Operations {
			for _, p1 := range t1.Operations {
				hOptions := []int{1}
				if o1.Variable != p1.Variable {
					hOptions = []int{1, 2}
				}
				for _, h := range hOptions {
					quads = append(quads, quad{rank: rank, t1: t1, o1: o1, p1: p1, h: h})
					rank++
				}
			}
		}
	}
	return quads
}

// searchQuad builds the pt-conflict-graph for one (t1,o1,p1,h) round and
// searches the (t2,p2,o2,tn,on,pn,co2,cpn) product for a valid, reachable
// cycle, in lexicographic order.
func searchQuad(q quad, templates *model.TemplateSet, allocation *model.Allocation, logger Logger) (bool, *Witness, error) {
	graph, err := ptgraph.Build(q.o1, q.p1, q.t1, q.h, templates)
	if err != nil {
		return false, nil, err
	}

	for _, t2 := range sortedTemplates(templates) {
		for _, p2 := range t2.Operations {
			if !conflict.RW(q.o1, p2) {
				continue
			}
			for _, o2 := range t2.Operations {
				for _, tn := range sortedTemplates(templates) {
					for _, on := range tn.Operations {
						if !conflict.Is(on, q.p1) {
							continue
						}
						for _, pn := range tn.Operations {
							co2Options := []model.Conn{model.ConnO}
							if o2.Variable != p2.Variable {
								co2Options = []model.Conn{model.ConnN, model.ConnP}
							}
							cpnOptions := []model.Conn{model.ConnP}
							if on.Variable != pn.Variable {
								cpnOptions = []model.Conn{model.ConnN, model.ConnO}
							}
							for _, co2 := range co2Options {
								for _, cpn := range cpnOptions {
									cand := candidate{
										t1: q.t1, o1: q.o1, p1: q.p1, h: q.h,
										t2: t2, o2: o2, p2: p2, co2: co2,
										tn: tn, on: on, pn: pn, cpn: cpn,
										alloc: allocation,
									}
									valid, err := isValidCycle(cand)
									if err != nil {
										return false, nil, err
									}
									if !valid {
										continue
									}
									if !isReachable(cand, graph) {
										continue
									}
									if logger != nil {
										logger.Debugf("witness: t1=%s o1=%s p1=%s h=%d t2=%s tn=%s",
											q.t1.Name, q.o1.Variable, q.p1.Variable, q.h, t2.Name, tn.Name)
									}
									return true, &Witness{
										T1: q.t1, O1: q.o1, P1: q.p1, H: q.h,
										T2: t2, O2: o2, P2: p2, CO2: co2,
										Tn: tn, On: on, Pn: pn, CPn: cpn,
									}, nil
								}
							}
						}
					}
				}
			}
		}
	}
	return false, nil, nil
}
