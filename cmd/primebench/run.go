package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tallybench/bench"
	"tallybench/core"
	"tallybench/stats"
	"tallybench/workload"
)

var (
	errInvalidCount = ewrap.New("invalid integer value")
	errInvalidSeed  = ewrap.New("invalid random seed")
	errNoStore      = ewrap.New("no result database configured, set --db or store.path")
)

type request struct {
	count uint32
	seed  uint64
}

func parseArgs(args []string) (request, error) {
	count, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 32)
	if err != nil {
		return request{}, withCode(exitInvalidCount, ewrap.Wrapf(errInvalidCount, "%q", args[0]))
	}
	seed, err := strconv.ParseUint(strings.TrimSpace(args[1]), 10, 64)
	if err != nil {
		return request{}, withCode(exitInvalidSeed, ewrap.Wrapf(errInvalidSeed, "%q", args[1]))
	}
	return request{count: uint32(count), seed: seed}, nil
}

func printResults(out io.Writer, label string, results bench.Results[int]) {
	values := make([]string, 0, len(results.Values))
	for _, v := range results.Values {
		values = append(values, strconv.Itoa(v))
	}
	fmt.Fprintf(out, "%s results:\n", label)
	fmt.Fprintf(out, "\ttime: %s seconds\n", results.Time)
	fmt.Fprintf(out, "\tresults: %s\n", strings.Join(values, " "))
}

func runPrimes(ctx context.Context, out io.Writer, config Config, logger *zap.Logger, req request) error {
	rng := workload.NewRand(req.seed)
	values := workload.Generate(rng, int(req.count))
	logger.Info("generated input",
		zap.Uint32("count", req.count),
		zap.Uint64("seed", req.seed),
		zap.Int("iterations", config.Iterations),
		zap.Int("workers", config.Workers))

	comparison, err := workload.Compare(ctx, values, config.Iterations, config.Workers)
	if err != nil {
		return withCode(exitFailure, err)
	}

	printResults(out, workload.Sequential.String(), comparison.Sequential)
	printResults(out, workload.Parallel.String(), comparison.Parallel)
	fmt.Fprintf(out, "conclusion: compute the results %s\n", comparison.Decide(config.SDMultiplier))

	tallies := map[string]stats.Tally{
		workload.Sequential.String(): comparison.Sequential.Time,
		workload.Parallel.String():   comparison.Parallel.Time,
	}
	if config.MetricsFile != "" {
		if err := core.WriteMetrics(config.MetricsFile, tallies); err != nil {
			return withCode(exitFailure, err)
		}
		logger.Info("wrote metrics", zap.String("path", config.MetricsFile))
	}
	if config.HasStore() {
		info := core.RunInfo{
			Description: fmt.Sprintf("prime count of %d integers", req.count),
			Iterations:  config.Iterations,
			Workers:     config.Workers,
			Labels: map[string]string{
				"count": strconv.FormatUint(uint64(req.count), 10),
				"seed":  strconv.FormatUint(req.seed, 10),
			},
		}
		if err := recordRun(config, logger, info, tallies); err != nil {
			return withCode(exitFailure, err)
		}
	}
	return nil
}

func recordRun(config Config, logger *zap.Logger, info core.RunInfo, tallies map[string]stats.Tally) (err error) {
	db, err := core.New(config.StoreConfig(logger))
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	run, err := db.NewRun(info)
	if err != nil {
		return err
	}
	for name, tally := range tallies {
		if err := run.Record(name, tally); err != nil {
			return err
		}
	}
	return nil
}

func printHistory(out io.Writer, config Config, logger *zap.Logger, name string) (err error) {
	if !config.HasStore() {
		return withCode(exitUsage, errNoStore)
	}
	db, err := core.New(config.StoreConfig(logger))
	if err != nil {
		return withCode(exitFailure, err)
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	history, err := db.History(name)
	if err != nil {
		return withCode(exitFailure, err)
	}
	pooled := stats.NewTally()
	for _, entry := range history {
		fmt.Fprintf(out, "%d\t%s\t%s\n",
			entry.Run.ID, entry.Run.Started.Format(time.RFC3339), entry.Tally)
		pooled = pooled.Merge(entry.Tally)
	}
	fmt.Fprintf(out, "pooled:\t%s\n", pooled)
	return nil
}
