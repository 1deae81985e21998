package ml

import "fmt"

// Fold is one cross-validation split: the test indices are held out, the
// train indices cover everything else.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFoldSplit partitions indices 0..n-1 into k contiguous, non-shuffled folds.
// The first k-1 folds hold floor(n/k) test indices each; the final fold absorbs
// the remainder. Every index appears in exactly one test set.
func KFoldSplit(n, k int) ([]Fold, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("k-fold split: k=%d out of range [2, %d]: %w", k, n, ErrInvalidArgument)
	}

	foldSize := n / k
	folds := make([]Fold, k)
	for f := 0; f < k; f++ {
		start := f * foldSize
		end := start + foldSize
		if f == k-1 {
			end = n
		}

		test := make([]int, 0, end-start)
		train := make([]int, 0, n-(end-start))
		for i := 0; i < n; i++ {
			if i >= start && i < end {
				test = append(test, i)
			} else {
				train = append(train, i)
			}
		}
		folds[f] = Fold{TrainIndices: train, TestIndices: test}
	}
	return folds, nil
}
