// Package optimizer implements the greedy search for the cheapest robust
// allocation: start every template at SERIALIZABLE, then try demoting each
// in turn to SNAPSHOT_ISOLATION and then READ_COMMITTED, keeping a demotion
// iff robustness is preserved.
package optimizer

import (
	"context"

	"github.com/dbrobust/txn-robust-check/internal/model"
	"github.com/dbrobust/txn-robust-check/internal/robustness"
)

// Logger is the minimal progress-reporting surface OptimalAlloc needs.
type Logger interface {
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// Options configures OptimalAlloc.
type Options struct {
	Workers int
	Logger  Logger
}

// Option configures Options.
type Option func(*Options)

// WithWorkers sets the number of goroutines each internal robustness check
// shards its enumeration across.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithLogger attaches a progress logger.
func WithLogger(l Logger) Option { return func(o *Options) { o.Logger = l } }

// OptimalAlloc greedily searches for the cheapest robust allocation of
// templates, iterating templates in their TemplateSet declaration order so
// the result is deterministic.
func OptimalAlloc(ctx context.Context, templates *model.TemplateSet, opts ...Option) (*model.Allocation, error) {
	options := Options{Workers: 1}
	for _, opt := range opts {
		opt(&options)
	}

	robustOpts := []robustness.Option{robustness.WithWorkers(options.Workers)}
	if options.Logger != nil {
		robustOpts = append(robustOpts, robustness.WithLogger(debugAdapter{options.Logger}))
	}

	alloc := model.NewUniformAllocation(templates, model.Serializable)

	for _, name := range templates.Names() {
		if options.Logger != nil {
			options.Logger.Infof("processing template %s", name)
		}

		demoted := alloc.With(name, model.SnapshotIsolation)
		robust, _, err := robustness.IsRobust(ctx, templates, demoted, robustOpts...)
		if err != nil {
			return nil, err
		}
		if !robust {
			if options.Logger != nil {
				options.Logger.Debugf("%s: SNAPSHOT_ISOLATION not robust, keeping SERIALIZABLE", name)
			}
			continue
		}
		alloc = demoted

		demoted = alloc.With(name, model.ReadCommitted)
		robust, _, err = robustness.IsRobust(ctx, templates, demoted, robustOpts...)
		if err != nil {
			return nil, err
		}
		if !robust {
			if options.Logger != nil {
				options.Logger.Debugf("%s: READ_COMMITTED not robust, keeping SNAPSHOT_ISOLATION", name)
			}
			continue
		}
		alloc = demoted
	}

	return alloc, nil
}

// debugAdapter narrows a Logger down to robustness.Logger's single method.
type debugAdapter struct{ l Logger }

func (a debugAdapter) Debugf(format string, args ...interface{}) { a.l.Debugf(format, args...) }
