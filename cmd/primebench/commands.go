package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes.
const (
	exitOK = iota
	exitUsage
	exitInvalidCount
	exitInvalidSeed
	exitFailure
)

const usageLine = "<number-of-integers> <random-seed>"

// exitError carries the process exit code for a failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// options collects the flags shared by every command.
type options struct {
	configPath   string
	iterations   int
	workers      int
	sdMultiplier float64
	dbPath       string
	metricsFile  string
	logLevel     string
}

// load merges the config file with any flag the user set.
func (opts *options) load(cmd *cobra.Command) (Config, error) {
	config, err := LoadConfig(opts.configPath)
	if err != nil {
		return config, withCode(exitFailure, err)
	}
	flags := cmd.Flags()
	if flags.Changed("iterations") {
		config.Iterations = opts.iterations
	}
	if flags.Changed("workers") {
		config.Workers = opts.workers
	}
	if flags.Changed("sd-multiplier") {
		config.SDMultiplier = opts.sdMultiplier
	}
	if flags.Changed("db") {
		config.Store.Path = opts.dbPath
	}
	if flags.Changed("metrics-file") {
		config.MetricsFile = opts.metricsFile
	}
	if flags.Changed("log-level") {
		config.Log.Level = opts.logLevel
	}
	if err := config.Validate(); err != nil {
		return config, withCode(exitFailure, err)
	}
	return config, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	defaults := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "primebench " + usageLine,
		Short: "Time sequential and parallel prime counting",
		Long: `primebench generates random integers from the seed, counts the primes
among them sequentially and in parallel, and prints the timing tally of
each strategy together with the strategy to prefer.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return withCode(exitUsage, fmt.Errorf("usage: %s %s", cmd.Root().Name(), usageLine))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := parseArgs(args)
			if err != nil {
				return err
			}
			return withConfig(cmd, opts, func(config Config, logger *zap.Logger) error {
				return runPrimes(cmd.Context(), cmd.OutOrStdout(), config, logger, request)
			})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.IntVar(&opts.iterations, "iterations", defaults.Iterations, "timed iterations per strategy")
	flags.IntVar(&opts.workers, "workers", defaults.Workers, "goroutines used by the parallel strategy")
	flags.Float64Var(&opts.sdMultiplier, "sd-multiplier", defaults.SDMultiplier,
		"standard deviations the sequential mean must clear to win")
	flags.StringVar(&opts.dbPath, "db", "", "badger directory to record results in")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write tallies to this Prometheus textfile")
	flags.StringVar(&opts.logLevel, "log-level", defaults.Log.Level, "log level")

	rootCmd.AddCommand(newHistoryCmd(opts))
	return rootCmd
}

func newHistoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history <benchmark-name>",
		Short: "Print the stored tallies of a benchmark and their pooled merge",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return withCode(exitUsage, fmt.Errorf("usage: %s", cmd.UseLine()))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd, opts, func(config Config, logger *zap.Logger) error {
				return printHistory(cmd.OutOrStdout(), config, logger, args[0])
			})
		},
	}
}

func withConfig(cmd *cobra.Command, opts *options, fn func(Config, *zap.Logger) error) error {
	config, err := opts.load(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(config.Log)
	if err != nil {
		return withCode(exitFailure, err)
	}
	defer func() { _ = logger.Sync() }()

	if err := fn(config, logger); err != nil {
		logger.Error("primebench failed", zap.Error(err))
		return err
	}
	return nil
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(stderr, err)

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	// Flag parsing and unknown commands.
	return exitUsage
}
