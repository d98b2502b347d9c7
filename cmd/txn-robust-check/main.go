package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbrobust/txn-robust-check/internal/config"
	"github.com/dbrobust/txn-robust-check/internal/ioformat"
	"github.com/dbrobust/txn-robust-check/internal/model"
	"github.com/dbrobust/txn-robust-check/internal/optimizer"
	"github.com/dbrobust/txn-robust-check/internal/robustlog"
	"github.com/dbrobust/txn-robust-check/internal/robustness"
	"github.com/dbrobust/txn-robust-check/internal/smallbank"
)

// CLI configuration
var (
	version = "0.1.0"

	// Flags
	fileFlag     string
	workloadFlag string
	outputFormat string
	mode         string
	configFlag   string
	workersFlag  int
	noColorFlag  bool
	quietFlag    bool
	verboseFlag  bool
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := buildCommand()
	cmd.SetArgs(args)

	var exitCode int
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := runAnalysis(cmd)
		if err != nil {
			exitCode = determineExitCode(err)
		}
		return err
	}

	if err := cmd.Execute(); err != nil {
		if exitCode == 0 {
			return 1 // Default error code for flag parsing errors
		}
		return exitCode
	}
	return 0
}

func buildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "txn-robust-check [workload.yaml]",
		Short:        "Decide transactional robustness under a mixed-isolation allocation",
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "read workload document from file")
	cmd.Flags().StringVar(&workloadFlag, "workload", "", "load a bundled SmallBank fixture (e.g. default, pr_c_3_23)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json, yaml")
	cmd.Flags().StringVarP(&mode, "mode", "m", "check", "check: decide robustness of the document's allocation; optimize: search for the cheapest robust allocation")
	cmd.Flags().StringVar(&configFlag, "config", "", "TOML config file with workers/log_level/color defaults")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "outer-loop goroutine count (0: use config/default)")
	cmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	cmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "quiet mode: suppress progress logging")
	cmd.Flags().BoolVar(&verboseFlag, "verbose", false, "verbose output: log oracle/optimizer progress at debug level")

	return cmd
}

func runAnalysis(cmd *cobra.Command) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	workers := cfg.Workers
	if workersFlag > 0 {
		workers = workersFlag
	}

	ts, alloc, err := loadWorkload(cmd)
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()

	switch mode {
	case "optimize":
		return runOptimize(ctx, cmd, ts, workers, logger)
	default:
		return runCheck(ctx, cmd, ts, alloc, workers, logger)
	}
}

func loadWorkload(cmd *cobra.Command) (*model.TemplateSet, *model.Allocation, error) {
	switch {
	case workloadFlag != "":
		ts, err := smallbank.TemplateSet(workloadFlag)
		if err != nil {
			return nil, nil, err
		}
		return ts, model.NewUniformAllocation(ts, model.Serializable), nil
	case fileFlag != "":
		return ioformat.LoadTemplateSetFile(fileFlag)
	default:
		args := cmd.Flags().Args()
		if len(args) > 0 {
			return ioformat.LoadTemplateSetFile(args[0])
		}
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return nil, nil, fmt.Errorf("reading stdin: %w", err)
			}
			return ioformat.LoadTemplateSet(raw)
		}
		_ = cmd.Usage()
		return nil, nil, fmt.Errorf("no workload document provided (use a file argument, --file, --workload, or stdin)")
	}
}

func buildLogger(cfg config.Config) (*robustlog.Logger, error) {
	if quietFlag {
		return robustlog.Noop(), nil
	}
	level := cfg.LogLevel
	if verboseFlag {
		level = "debug"
	}
	return robustlog.New(level)
}

func runCheck(ctx context.Context, cmd *cobra.Command, ts *model.TemplateSet, alloc *model.Allocation, workers int, logger *robustlog.Logger) error {
	robust, witness, err := robustness.IsRobust(ctx, ts, alloc,
		robustness.WithWorkers(workers), robustness.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("robustness check: %w", err)
	}
	out := ioformat.BuildOutput(ts, alloc, robust, witness)
	return writeOutput(cmd.OutOrStdout(), out)
}

func runOptimize(ctx context.Context, cmd *cobra.Command, ts *model.TemplateSet, workers int, logger *robustlog.Logger) error {
	alloc, err := optimizer.OptimalAlloc(ctx, ts, optimizer.WithWorkers(workers), optimizer.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("allocation optimization: %w", err)
	}
	out := ioformat.BuildOutput(ts, alloc, true, nil)
	return writeOutput(cmd.OutOrStdout(), out)
}

func writeOutput(w io.Writer, out ioformat.Output) error {
	switch outputFormat {
	case "json":
		return ioformat.WriteJSON(w, out)
	case "yaml":
		return ioformat.WriteYAML(w, out)
	default:
		return ioformat.WriteText(w, out)
	}
}

func determineExitCode(err error) int {
	if errors.Is(err, ioformat.ErrMalformedDocument) {
		return 2
	}
	return 1
}
