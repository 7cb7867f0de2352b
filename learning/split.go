package learning

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// TrainTestSplit shuffles the indices of n samples and holds out a ratio of them for
// testing. The same seed always produces the same split.
func TrainTestSplit(n int, testRatio float64, seed int64) (train, test []int) {
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(float64(n) * testRatio)
	if testRatio > 0 && nTest == 0 && n > 1 {
		nTest = 1
	}
	if nTest >= n && n > 0 {
		nTest = n - 1
	}
	return indices[nTest:], indices[:nTest]
}

// Rows selects rows of X.
func Rows(X mat.Matrix, idx []int) *mat.Dense {
	_, c := X.Dims()
	if len(idx) == 0 {
		return nil
	}
	out := mat.NewDense(len(idx), c, nil)
	for i, k := range idx {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(k, j))
		}
	}
	return out
}

// Subset selects labels.
func Subset(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, k := range idx {
		out[i] = y[k]
	}
	return out
}
