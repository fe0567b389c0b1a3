// Package bench runs the comparative workload: naive full-copy
// duplication versus copy-on-write aliasing over identical
// pseudo-random data and mutation schedules, timed and averaged over
// repeated iterations.
package bench

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/ZanzyTHEbar/assert-lib"
	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/cowbench/cowb/buffer"
	"github.com/ZanzyTHEbar/cowbench/cowb/config"
)

// Workload identifies one of the two compared memory-management schemes.
type Workload int

const (
	// WorkloadCOW is the copy-on-write scheme under test.
	WorkloadCOW Workload = iota
	// WorkloadNaive is the full allocate-and-copy baseline.
	WorkloadNaive
)

func (w Workload) String() string {
	switch w {
	case WorkloadCOW:
		return "copy-on-write"
	case WorkloadNaive:
		return "naive"
	default:
		return fmt.Sprintf("workload(%d)", int(w))
	}
}

// Sample is one timed workload execution.
type Sample struct {
	Workload  Workload
	Iteration int
	Elapsed   time.Duration
}

// IterationResult pairs the two samples of one iteration.
type IterationResult struct {
	Iteration int
	COW       Sample
	Naive     Sample
	Winner    Workload
	FasterBy  float64 // percent, (slower - faster) / slower * 100
	Diverged  uint64  // COW copies that paid a physical duplication
}

// mutationSeedMix separates the mutation-schedule generator from the
// dataset-fill generator for the same iteration seed.
const mutationSeedMix = 0x5DEECE66D

// Runner executes the paired workloads sequentially and aggregates the
// results. The COW phase of an iteration runs first, then the naive
// phase, with a settling pause in between so the two measurements never
// contend for the same memory budget.
type Runner struct {
	cfg      config.BenchConfig
	reporter *Reporter
	asserts  *assert.AssertHandler
	runID    uuid.UUID
	baseSeed int64
	pause    time.Duration
}

// NewRunner builds a runner for the given knobs. A zero configured seed
// is replaced with a wall-clock-derived one; either way the seed in use
// is reported so a run can be reproduced.
func NewRunner(cfg config.BenchConfig, reporter *Reporter) *Runner {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Runner{
		cfg:      cfg,
		reporter: reporter,
		asserts:  assert.NewAssertHandler(),
		runID:    uuid.New(),
		baseSeed: seed,
		pause:    time.Duration(cfg.PhasePauseSeconds) * time.Second,
	}
}

// Run executes all configured iterations and returns the aggregated
// summary. Any allocation failure aborts the run after the workload has
// released what it already acquired.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	slog.Info("starting benchmark run",
		"runID", r.runID,
		"seed", r.baseSeed,
		"elementCount", r.cfg.ElementCount,
		"copyCount", r.cfg.CopyCount,
		"mutationsPerCopy", r.cfg.MutationsPerCopy,
		"iterations", r.cfg.Iterations)

	r.reporter.Banner(r.cfg, r.runID, r.baseSeed)
	r.memoryAdvisory()

	results := make([]IterationResult, 0, r.cfg.Iterations)
	for it := 0; it < r.cfg.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.reporter.IterationStart(it+1, r.cfg.Iterations)

		iterSeed := r.baseSeed + int64(it)

		// COW phase first to minimize memory pressure, matching the
		// original demonstration's ordering.
		cowSample, cowSum, diverged, err := r.runCOW(ctx, it, iterSeed)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: cow workload: %w", it+1, err)
		}
		r.settle(ctx)

		naiveSample, naiveSum, err := r.runNaive(ctx, it, iterSeed)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: naive workload: %w", it+1, err)
		}

		// The optimization must not change the observable result, only
		// the cost of producing it.
		r.asserts.Assert(ctx, cowSum == naiveSum, "workload end states must be identical")
		if cowSum != naiveSum {
			return nil, fmt.Errorf("iteration %d: workload end states differ (cow=%#x naive=%#x)", it+1, cowSum, naiveSum)
		}

		res := newIterationResult(it, cowSample, naiveSample, diverged)
		results = append(results, res)
		r.reporter.Iteration(res)

		slog.Debug("iteration complete",
			"iteration", it+1,
			"cowElapsed", cowSample.Elapsed,
			"naiveElapsed", naiveSample.Elapsed,
			"diverged", diverged)

		r.settle(ctx)
	}

	s := Summarize(results, r.cfg, r.runID)
	r.reporter.Summary(s)
	return s, nil
}

// runCOW executes one copy-on-write workload: alias the base buffer
// copyCount times, then apply the mutation schedule through Set, which
// diverges each written copy at most once. Returns the elapsed time of
// the timed section, the end-state checksum, and the diverged-copy
// count.
func (r *Runner) runCOW(ctx context.Context, iteration int, iterSeed int64) (Sample, uint64, uint64, error) {
	size := r.cfg.ElementCount

	data := make([]int32, size)
	if err := FillRandom(ctx, data, iterSeed, r.cfg.FillWorkers); err != nil {
		return Sample{}, 0, 0, err
	}
	base, err := buffer.FromSlice(data)
	if err != nil {
		return Sample{}, 0, 0, err
	}
	data = nil

	rng := mutationRNG(iterSeed)

	start := time.Now()

	copies := make([]*buffer.Buffer[int32], 0, r.cfg.CopyCount)
	for i := 0; i < r.cfg.CopyCount; i++ {
		cp, err := base.Clone()
		if err != nil {
			releaseAll(base, copies)
			return Sample{}, 0, 0, err
		}
		copies = append(copies, cp)
	}

	for _, cp := range copies {
		for j := 0; j < r.cfg.MutationsPerCopy; j++ {
			idx := rng.Intn(size)
			val := int32(rng.Uint32())
			if err := cp.Set(idx, val); err != nil {
				releaseAll(base, copies)
				return Sample{}, 0, 0, err
			}
		}
	}

	elapsed := time.Since(start)

	// A copy that paid a duplication is sole owner of its block now;
	// everything else still aliases the base.
	diverged := roaring.New()
	for i, cp := range copies {
		if cp.RefCount() == 1 {
			diverged.Add(uint32(i))
		}
	}

	sum, err := checksumBuffers(base, copies)
	if err != nil {
		releaseAll(base, copies)
		return Sample{}, 0, 0, err
	}

	if err := releaseAll(base, copies); err != nil {
		return Sample{}, 0, 0, err
	}

	sample := Sample{Workload: WorkloadCOW, Iteration: iteration, Elapsed: elapsed}
	return sample, sum, diverged.GetCardinality(), nil
}

// runNaive executes one naive workload: a full allocate-and-copy per
// logical copy, then the same mutation schedule applied directly.
func (r *Runner) runNaive(ctx context.Context, iteration int, iterSeed int64) (Sample, uint64, error) {
	size := r.cfg.ElementCount

	base := make([]int32, size)
	if err := FillRandom(ctx, base, iterSeed, r.cfg.FillWorkers); err != nil {
		return Sample{}, 0, err
	}

	rng := mutationRNG(iterSeed)

	start := time.Now()

	copies := make([][]int32, r.cfg.CopyCount)
	for i := range copies {
		dst := make([]int32, size)
		copy(dst, base)
		copies[i] = dst
	}

	for i := range copies {
		for j := 0; j < r.cfg.MutationsPerCopy; j++ {
			idx := rng.Intn(size)
			copies[i][idx] = int32(rng.Uint32())
		}
	}

	elapsed := time.Since(start)

	sum := checksumSlices(base, copies)

	sample := Sample{Workload: WorkloadNaive, Iteration: iteration, Elapsed: elapsed}
	return sample, sum, nil
}

// mutationRNG returns the generator both workloads draw their mutation
// schedule from. Seeding it identically per iteration makes the two
// phases apply bit-identical writes.
func mutationRNG(iterSeed int64) *rand.Rand {
	return rand.New(rand.NewSource(iterSeed ^ mutationSeedMix))
}

// settle gives released memory a chance to be reclaimed before the next
// phase allocates.
func (r *Runner) settle(ctx context.Context) {
	runtime.GC()
	if r.pause <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(r.pause):
	}
}

// memoryAdvisory warns when the configured naive workload is estimated
// to exceed available physical memory. Informational only.
func (r *Runner) memoryAdvisory() {
	if !r.cfg.MemCheck {
		return
	}
	mi, err := ReadMemInfo()
	if err != nil {
		slog.Warn("memory advisory unavailable", "error", err)
		return
	}
	blockBytes := uint64(r.cfg.ElementCount) * elementSize
	naiveEst := uint64(r.cfg.CopyCount+1) * blockBytes
	r.reporter.MemoryAdvisory(mi, naiveEst, 2*blockBytes)
	if naiveEst > mi.AvailableBytes {
		slog.Warn("configured workload may exceed available physical memory",
			"estimatedNaiveBytes", naiveEst,
			"availableBytes", mi.AvailableBytes)
	}
}

// releaseAll releases every handle exactly once, returning the first
// failure but always visiting all of them.
func releaseAll(base *buffer.Buffer[int32], copies []*buffer.Buffer[int32]) error {
	var firstErr error
	if err := base.Release(); err != nil {
		firstErr = err
	}
	for _, cp := range copies {
		if err := cp.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// checksumBuffers folds the base buffer and every copy into one
// order-sensitive digest.
func checksumBuffers(base *buffer.Buffer[int32], copies []*buffer.Buffer[int32]) (uint64, error) {
	h := fnv.New64a()
	snap, err := base.Snapshot()
	if err != nil {
		return 0, err
	}
	hashElements(h, snap)
	for _, cp := range copies {
		snap, err := cp.Snapshot()
		if err != nil {
			return 0, err
		}
		hashElements(h, snap)
	}
	return h.Sum64(), nil
}

// checksumSlices is the naive-workload counterpart of checksumBuffers;
// both visit the base first, then the copies in creation order.
func checksumSlices(base []int32, copies [][]int32) uint64 {
	h := fnv.New64a()
	hashElements(h, base)
	for _, c := range copies {
		hashElements(h, c)
	}
	return h.Sum64()
}

func hashElements(h hash.Hash64, vals []int32) {
	var buf [4]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint32(buf[:], uint32(v))
		h.Write(buf[:])
	}
}
