package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillRandomDeterministicAcrossWorkerCounts(t *testing.T) {
	ctx := context.Background()
	const size = 3*fillChunkSize + 17 // force several chunks plus a partial tail
	const seed = 42

	reference := make([]int32, size)
	require.NoError(t, FillRandom(ctx, reference, seed, 1))

	for _, workers := range []int{0, 2, 8} {
		got := make([]int32, size)
		require.NoError(t, FillRandom(ctx, got, seed, workers))
		assert.Equal(t, reference, got, "workers=%d must reproduce the single-worker dataset", workers)
	}
}

func TestFillRandomSeedChangesData(t *testing.T) {
	ctx := context.Background()
	const size = 1024

	a := make([]int32, size)
	b := make([]int32, size)
	require.NoError(t, FillRandom(ctx, a, 1, 4))
	require.NoError(t, FillRandom(ctx, b, 2, 4))

	assert.NotEqual(t, a, b)
}

func TestFillRandomEmpty(t *testing.T) {
	require.NoError(t, FillRandom(context.Background(), nil, 7, 4))
}
