// Package main provides the entry point for the rbstress driver, the
// randomized oracle that hammers the red-black tree container.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var cfg stressConfig
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "rbstress",
		Short: "Randomized stress driver for the red-black tree container",
		Long: `rbstress hammers independent red-black trees with random inserts
followed by a full randomized drain, cross-checking size and membership
against reference sets after every single operation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			logger := newLogger(verbose)
			defer func() { _ = logger.Sync() }()

			if cfg.seed == 0 {
				cfg.seed = uint64(time.Now().UnixNano())
			}

			stats := newStressStats()
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := stats.shutdown(ctx); err != nil {
					logger.Warn("metric flush failed", zap.Error(err))
				}
			}()

			logger.Info("stress run starting",
				zap.Uint64("total", cfg.total),
				zap.Int("workers", cfg.workers),
				zap.Uint64("seed", cfg.seed),
				zap.Bool("validate", cfg.validate),
			)
			if err := runStress(logger, stats, cfg); err != nil {
				logger.Error("tree diverged from the reference", zap.Error(err))
				return err
			}
			logger.Info("stress run finished, no divergence")
			return nil
		},
	}

	rootCmd.Flags().Uint64Var(&cfg.total, "total", 100_000, "operations per worker, also the key range upper bound")
	rootCmd.Flags().IntVar(&cfg.workers, "workers", 4, "independent trees stressed in parallel")
	rootCmd.Flags().Uint64Var(&cfg.seed, "seed", 0, "PRNG seed, 0 picks one from the clock")
	rootCmd.Flags().BoolVar(&cfg.validate, "validate", false, "run the structural validators after every operation")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	config := zapcore.EncoderConfig{
		MessageKey:   "msg",
		LevelKey:     "lvl",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		TimeKey:      "ts",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		CallerKey:    "callAt",
		EncodeCaller: zapcore.ShortCallerEncoder,
		NameKey:      "component",
		EncodeName:   zapcore.FullNameEncoder,
	}
	lvl := zap.InfoLevel
	if verbose {
		lvl = zap.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(config), zapcore.Lock(os.Stdout), lvl)
	return zap.New(core, zap.AddCaller()).Named("rbstress")
}
