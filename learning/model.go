// Package learning turns assembled feature tables into matrices and fits classifiers to them.
package learning

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrNotFitted is returned when a model is used before it has been trained.
var ErrNotFitted = errors.New("model has not been fitted")

// Model is an abstract representation of a binary classifier that can be trained on a
// matrix of samples and then used to label new samples.
type Model interface {
	// Fit must train the model on samples X with 0/1 labels y.
	Fit(X mat.Matrix, y []float64) error
	// Predict must label each row of X.
	Predict(X mat.Matrix) ([]float64, error)
	// Score must report the mean accuracy on X against y.
	Score(X mat.Matrix, y []float64) (float64, error)
}
