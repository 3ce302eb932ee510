// Package cli wires the cobra root command spec.md §6 describes as
// `gdrrcut <input.json> <config.json> [output.json] [output.html]` to
// internal/config, internal/io, and internal/lahc.
//
// Grounded on junjiewwang-perf-analysis/cmd/cli/cmd/root.go's
// cobra-root-plus-persistent-flags shape, collapsed to the single
// positional-argument command spec.md's external interface requires
// instead of that repo's multi-subcommand layout.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/gdrrcut/internal/applog"
	"github.com/piwi3910/gdrrcut/internal/apperr"
	"github.com/piwi3910/gdrrcut/internal/config"
	gdrrio "github.com/piwi3910/gdrrcut/internal/io"
	"github.com/piwi3910/gdrrcut/internal/lahc"
)

var (
	verbose bool
	logFile string
	seed    int64
)

// rootCmd is gdrrcut's entire CLI surface: one command, two required
// positional args, two optional output-path args.
var rootCmd = &cobra.Command{
	Use:   "gdrrcut <input.json> <config.json> [output.json] [output.html]",
	Short: "Goal-Driven Ruin & Recreate guillotine-cut optimiser",
	Long: `gdrrcut packs rectangular part demands onto rectangular stock sheets
under the two-stage guillotine constraint, minimising consumed sheet
value while maximising usable leftover value.`,
	Args: cobra.RangeArgs(2, 4),
	RunE: runGDRRCut,
}

// Execute runs the root command, matching spec.md §6's exit-code
// contract: 0 on normal termination, non-zero on missing files,
// malformed input, or no solution found.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stdout")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "base RNG seed (0 picks a random one)")
}

func runGDRRCut(cmd *cobra.Command, args []string) error {
	inputPath, configPath := args[0], args[1]
	outputJSONPath := ""
	if len(args) > 2 {
		outputJSONPath = args[2]
	}
	outputHTMLPath := ""
	if len(args) > 3 {
		outputHTMLPath = args[3]
	}

	logger, err := buildLogger()
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config: %v", err)
		return err
	}

	name, inst, err := gdrrio.ParseInstance(inputPath, cfg.SheetValuationMode, cfg.MaxStages)
	if err != nil {
		logger.Error("failed to parse instance: %v", err)
		return err
	}

	var maxRunTime time.Duration
	if cfg.MaxRunTime != nil {
		maxRunTime = time.Duration(*cfg.MaxRunTime) * time.Second
	}
	maxRRIterations := 0
	if cfg.MaxRRIterations != nil {
		maxRRIterations = *cfg.MaxRRIterations
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	go func() {
		if _, ok := <-sigCh; ok {
			logger.Info("received interrupt, stopping workers")
			cancel()
		}
	}()
	defer signal.Stop(sigCh)

	logger.Info("starting run: %d part types, %d sheet types, %d worker(s)", len(inst.Parts), len(inst.Sheets), cfg.NThreads)
	start := time.Now()
	outcome := lahc.Run(ctx, inst, cfg, maxRunTime, maxRRIterations, seed, logger)
	elapsed := time.Since(start)

	best := outcome.BestComplete
	if best == nil {
		best = outcome.BestIncomplete
	}
	solution := gdrrio.Solution{Name: name, Instance: inst, Best: best, RunTime: elapsed, ConfigPath: configPath}
	logger.Info("run finished in %s: %s", elapsed, solution.Summary())

	if outputJSONPath != "" {
		if err := gdrrio.WriteSolution(outputJSONPath, solution); err != nil {
			return err
		}
	}
	if outputHTMLPath != "" {
		if err := gdrrio.WriteHTML(outputHTMLPath, solution); err != nil {
			return err
		}
	}

	if best == nil {
		return apperr.ErrNoSolution
	}
	return nil
}

func buildLogger() (applog.Logger, error) {
	level := applog.LevelInfo
	if verbose {
		level = applog.LevelDebug
	}
	if logFile != "" {
		return applog.NewFileLogger(level, logFile)
	}
	return applog.NewDefaultLogger(level, os.Stdout), nil
}
