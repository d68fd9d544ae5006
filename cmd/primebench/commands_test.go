package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append(args, "--log-level", "error")
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecute_Usage(t *testing.T) {
	code, _, stderr := run(t)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "usage: primebench <number-of-integers> <random-seed>")

	code, _, _ = run(t, "10")
	assert.Equal(t, exitUsage, code)

	code, _, _ = run(t, "10", "1", "extra")
	assert.Equal(t, exitUsage, code)

	code, _, _ = run(t, "10", "1", "--no-such-flag")
	assert.Equal(t, exitUsage, code)
}

func TestExecute_InvalidArguments(t *testing.T) {
	code, _, stderr := run(t, "ten", "1")
	assert.Equal(t, exitInvalidCount, code)
	assert.Contains(t, stderr, "invalid integer value")

	code, _, _ = run(t, "4294967296", "1")
	assert.Equal(t, exitInvalidCount, code)

	code, _, stderr = run(t, "10", "seed")
	assert.Equal(t, exitInvalidSeed, code)
	assert.Contains(t, stderr, "invalid random seed")
}

func TestExecute_InvalidConfig(t *testing.T) {
	code, _, _ := run(t, "10", "1", "--workers", "0")
	assert.Equal(t, exitFailure, code)
}

func TestExecute_Primes(t *testing.T) {
	code, stdout, stderr := run(t, "200", "42", "--iterations", "2", "--workers", "3")
	require.Equal(t, exitOK, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "sequential results:", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "\ttime: (2,"))
	assert.True(t, strings.HasSuffix(lines[1], " seconds"))
	assert.Equal(t, "parallel results:", lines[3])
	assert.True(t, strings.HasPrefix(lines[6], "conclusion: compute the results "))

	seqResults := strings.Fields(strings.TrimPrefix(lines[2], "\tresults:"))
	parResults := strings.Fields(strings.TrimPrefix(lines[5], "\tresults:"))
	require.Len(t, seqResults, 2)
	assert.Equal(t, seqResults, parResults)
	assert.Equal(t, seqResults[0], seqResults[1])

	_, again, _ := run(t, "200", "42", "--iterations", "2")
	assert.Equal(t, lines[2], strings.Split(again, "\n")[2])
}

func TestExecute_RecordAndHistory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "results")
	metricsPath := filepath.Join(dir, "primebench.prom")

	for _, seed := range []string{"1", "2"} {
		code, _, stderr := run(t, "50", seed, "--iterations", "2",
			"--db", dbPath, "--metrics-file", metricsPath)
		require.Equal(t, exitOK, code, stderr)
	}

	buf, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(buf), `tallybench_count{benchmark="parallel"} 2`)

	code, stdout, stderr := run(t, "history", "sequential", "--db", dbPath)
	require.Equal(t, exitOK, code, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "\t(2,")
	assert.Contains(t, lines[1], "\t(2,")
	assert.True(t, strings.HasPrefix(lines[2], "pooled:\t(4,"))
}

func TestExecute_HistoryWithoutStore(t *testing.T) {
	code, _, stderr := run(t, "history", "sequential")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "no result database configured")

	code, _, _ = run(t, "history")
	assert.Equal(t, exitUsage, code)
}

func TestExecute_ConfigFile(t *testing.T) {
	path := writeConfig(t, "iterations: 1\nworkers: 2\n")
	code, stdout, stderr := run(t, "20", "7", "--config", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "\ttime: (1,")
}
