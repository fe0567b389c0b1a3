package bench

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/cowbench/cowb/config"
)

func testConfig() config.BenchConfig {
	return config.BenchConfig{
		ElementCount:      4096,
		CopyCount:         6,
		MutationsPerCopy:  32,
		Iterations:        3,
		Seed:              1234,
		PhasePauseSeconds: 0,
		FillWorkers:       2,
		MemCheck:          false,
	}
}

func TestWorkloadEquivalence(t *testing.T) {
	// Same seed and knobs: the COW and naive workloads must produce
	// bit-identical end states.
	ctx := context.Background()
	r := NewRunner(testConfig(), NewReporter(io.Discard))

	const iterSeed = 999

	cowSample, cowSum, diverged, err := r.runCOW(ctx, 0, iterSeed)
	require.NoError(t, err)

	naiveSample, naiveSum, err := r.runNaive(ctx, 0, iterSeed)
	require.NoError(t, err)

	assert.Equal(t, cowSum, naiveSum)
	assert.Equal(t, WorkloadCOW, cowSample.Workload)
	assert.Equal(t, WorkloadNaive, naiveSample.Workload)

	// Every copy received writes, so every copy paid exactly one
	// divergence.
	assert.Equal(t, uint64(r.cfg.CopyCount), diverged)
}

func TestNoMutationsMeansNoDivergence(t *testing.T) {
	cfg := testConfig()
	cfg.MutationsPerCopy = 0
	r := NewRunner(cfg, NewReporter(io.Discard))

	_, cowSum, diverged, err := r.runCOW(context.Background(), 0, 5)
	require.NoError(t, err)
	assert.Zero(t, diverged)

	_, naiveSum, err := r.runNaive(context.Background(), 0, 5)
	require.NoError(t, err)
	assert.Equal(t, naiveSum, cowSum)
}

func TestRunProducesSummary(t *testing.T) {
	cfg := testConfig()
	var out bytes.Buffer
	r := NewRunner(cfg, NewReporter(&out))

	s, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, cfg.Iterations, s.Iterations)
	assert.Greater(t, s.COWMean, time.Duration(0))
	assert.Greater(t, s.NaiveMean, time.Duration(0))
	assert.Equal(t, uint64(cfg.CopyCount+1)*uint64(cfg.ElementCount)*elementSize, s.NaiveEstBytes)
	assert.Equal(t, 2*uint64(cfg.ElementCount)*elementSize, s.COWLowerBoundBytes)
	assert.Equal(t, float64(cfg.CopyCount), s.MeanDiverged)

	text := out.String()
	assert.Contains(t, text, "=== MEMORY MANAGEMENT BENCHMARK ===")
	assert.Contains(t, text, "WINNER:")
	assert.Contains(t, text, "lower bound")
}

func TestRunReproducibleUnderFixedSeed(t *testing.T) {
	run := func() uint64 {
		r := NewRunner(testConfig(), NewReporter(io.Discard))
		_, sum, _, err := r.runCOW(context.Background(), 0, r.baseSeed)
		require.NoError(t, err)
		return sum
	}
	assert.Equal(t, run(), run())
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(testConfig(), NewReporter(io.Discard))
	s, err := r.Run(ctx)

	assert.Nil(t, s)
	assert.ErrorIs(t, err, context.Canceled)
}
