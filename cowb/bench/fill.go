package bench

import (
	"context"
	"math/rand"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// fillChunkSize is the unit of parallel dataset filling. Each chunk is
// filled by its own generator seeded from the chunk index, so the
// result depends only on the seed and the length, never on the worker
// count.
const fillChunkSize = 1 << 16

// chunkSeedMix decorrelates per-chunk generator seeds.
const chunkSeedMix uint64 = 0x9E3779B97F4A7C15

// FillRandom populates dst with pseudo-random values derived from seed,
// using a bounded worker pool. The same seed and length always produce
// the same dataset.
func FillRandom(ctx context.Context, dst []int32, seed int64, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)

	for start := 0; start < len(dst); start += fillChunkSize {
		end := min(start+fillChunkSize, len(dst))
		chunk := dst[start:end]
		chunkSeed := int64(uint64(seed) ^ (uint64(start/fillChunkSize)+1)*chunkSeedMix)

		p.Go(func(ctx context.Context) error {
			rng := rand.New(rand.NewSource(chunkSeed))
			for i := range chunk {
				chunk[i] = int32(rng.Uint32())
			}
			return nil
		})
	}

	return p.Wait()
}
