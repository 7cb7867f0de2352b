package learning

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardises each column to zero mean and unit variance using the
// statistics of the samples it was fitted on.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// Fit computes the column statistics of X.
func (s *StandardScaler) Fit(X mat.Matrix) {
	r, c := X.Dims()
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		s.Mean[j], s.Std[j] = stat.MeanStdDev(col, nil)
		if math.IsNaN(s.Std[j]) {
			s.Std[j] = 0
		}
	}
}

// Transform standardises X. Constant columns become zero.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, errors.Errorf("scaler has %d columns, samples have %d", len(s.Mean), c)
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		if s.Std[j] == 0 {
			return 0
		}
		return (v - s.Mean[j]) / s.Std[j]
	}, X)
	return out, nil
}
