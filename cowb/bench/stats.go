package bench

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/ZanzyTHEbar/cowbench/cowb/config"
)

// elementSize is the width of one buffer element (int32).
const elementSize = 4

// Summary aggregates every iteration of one run into the final report.
type Summary struct {
	RunID      uuid.UUID
	Iterations int

	COWMean     time.Duration
	COWStdDev   time.Duration
	NaiveMean   time.Duration
	NaiveStdDev time.Duration

	Winner   Workload
	FasterBy float64 // percent

	// NaiveEstBytes is the peak-memory estimate for the naive
	// workload: copyCount+1 full blocks resident at once.
	NaiveEstBytes uint64
	// COWLowerBoundBytes is the best-case estimate carried over from
	// the original demonstration: the base block plus at most one
	// outstanding duplication. It is a lower bound, not a measured
	// peak; once several copies diverge independently it understates
	// actual usage.
	COWLowerBoundBytes uint64
	// COWObservedBytes estimates the COW peak from the mean number of
	// copies that actually diverged per iteration.
	COWObservedBytes uint64
	// MeanDiverged is the mean diverged-copy count per iteration.
	MeanDiverged float64
}

func newIterationResult(iteration int, cow, naive Sample, diverged uint64) IterationResult {
	res := IterationResult{
		Iteration: iteration,
		COW:       cow,
		Naive:     naive,
		Diverged:  diverged,
	}
	res.Winner, res.FasterBy = compare(cow.Elapsed, naive.Elapsed)
	return res
}

// compare returns the faster workload and the percentage by which it
// beats the slower one: (slower - faster) / slower * 100. Ties go to
// COW at zero percent.
func compare(cow, naive time.Duration) (Workload, float64) {
	if naive >= cow {
		if naive == 0 {
			return WorkloadCOW, 0
		}
		return WorkloadCOW, float64(naive-cow) / float64(naive) * 100
	}
	return WorkloadNaive, float64(cow-naive) / float64(cow) * 100
}

// Summarize computes the per-workload means and memory estimates over
// all iteration results.
func Summarize(results []IterationResult, cfg config.BenchConfig, runID uuid.UUID) *Summary {
	cowSecs := make([]float64, len(results))
	naiveSecs := make([]float64, len(results))
	divergedCounts := make([]float64, len(results))
	for i, res := range results {
		cowSecs[i] = res.COW.Elapsed.Seconds()
		naiveSecs[i] = res.Naive.Elapsed.Seconds()
		divergedCounts[i] = float64(res.Diverged)
	}

	s := &Summary{
		RunID:        runID,
		Iterations:   len(results),
		COWMean:      secondsToDuration(stat.Mean(cowSecs, nil)),
		NaiveMean:    secondsToDuration(stat.Mean(naiveSecs, nil)),
		COWStdDev:    stddevDuration(cowSecs),
		NaiveStdDev:  stddevDuration(naiveSecs),
		MeanDiverged: stat.Mean(divergedCounts, nil),
	}
	s.Winner, s.FasterBy = compare(s.COWMean, s.NaiveMean)

	blockBytes := uint64(cfg.ElementCount) * elementSize
	s.NaiveEstBytes = uint64(cfg.CopyCount+1) * blockBytes
	s.COWLowerBoundBytes = 2 * blockBytes
	s.COWObservedBytes = uint64((s.MeanDiverged + 1) * float64(blockBytes))

	return s
}

// stddevDuration guards the single-sample case, where stat.StdDev is
// undefined.
func stddevDuration(secs []float64) time.Duration {
	if len(secs) < 2 {
		return 0
	}
	return secondsToDuration(stat.StdDev(secs, nil))
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
