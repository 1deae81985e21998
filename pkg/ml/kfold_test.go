package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKFoldSplit_ExactPartition(t *testing.T) {
	for _, tt := range []struct{ n, k int }{
		{n: 10, k: 2},
		{n: 10, k: 3},
		{n: 10, k: 10},
		{n: 17, k: 5},
		{n: 2, k: 2},
	} {
		folds, err := KFoldSplit(tt.n, tt.k)
		require.NoError(t, err)
		require.Len(t, folds, tt.k)

		seen := make(map[int]int)
		for _, fold := range folds {
			assert.Len(t, fold.TrainIndices, tt.n-len(fold.TestIndices))
			for _, idx := range fold.TestIndices {
				seen[idx]++
			}
		}
		require.Len(t, seen, tt.n, "n=%d k=%d", tt.n, tt.k)
		for idx, count := range seen {
			assert.Equal(t, 1, count, "index %d appears %d times in test sets", idx, count)
		}
	}
}

func TestKFoldSplit_LastFoldAbsorbsRemainder(t *testing.T) {
	folds, err := KFoldSplit(10, 3)
	require.NoError(t, err)

	assert.Len(t, folds[0].TestIndices, 3)
	assert.Len(t, folds[1].TestIndices, 3)
	assert.Len(t, folds[2].TestIndices, 4)
}

func TestKFoldSplit_ContiguousNotShuffled(t *testing.T) {
	folds, err := KFoldSplit(6, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, folds[0].TestIndices)
	assert.Equal(t, []int{3, 4, 5}, folds[0].TrainIndices)
	assert.Equal(t, []int{3, 4, 5}, folds[1].TestIndices)
	assert.Equal(t, []int{0, 1, 2}, folds[1].TrainIndices)
}

func TestKFoldSplit_InvalidArguments(t *testing.T) {
	for _, tt := range []struct{ n, k int }{
		{n: 10, k: 1},
		{n: 10, k: 0},
		{n: 10, k: -3},
		{n: 5, k: 6},
		{n: 0, k: 2},
	} {
		_, err := KFoldSplit(tt.n, tt.k)
		assert.ErrorIs(t, err, ErrInvalidArgument, "n=%d k=%d", tt.n, tt.k)
	}
}
