package learning_test

import (
	"testing"

	"github.com/hscells/sexism/learning"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func separable() (*mat.Dense, []float64) {
	X := mat.NewDense(6, 1, []float64{-2, -1, -0.5, 0.5, 1, 2})
	y := []float64{0, 0, 0, 1, 1, 1}
	return X, y
}

func TestLogitSeparable(t *testing.T) {
	X, y := separable()
	m := learning.NewLogit(learning.LogitMaxIter(500))
	if err := m.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if m.Coef()[0] <= 0 {
		t.Fatalf("expected positive coefficient, got %v", m.Coef())
	}
	p, err := m.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	for i := range p {
		if p[i] != y[i] {
			t.Fatalf("sample %d predicted %v, expected %v", i, p[i], y[i])
		}
	}
	score, err := m.Score(X, y)
	if err != nil {
		t.Fatal(err)
	}
	if score != 1 {
		t.Fatalf("expected accuracy 1, got %v", score)
	}
}

func TestLogitBalanced(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{-2, -1, -0.5, 0.5, 2})
	y := []float64{0, 0, 0, 0, 1}
	m := learning.NewLogit(learning.LogitClassWeight(learning.Balanced), learning.LogitMaxIter(1000))
	if err := m.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	p, err := m.PredictProba(mat.NewDense(1, 1, []float64{2}))
	if err != nil {
		t.Fatal(err)
	}
	if p[0] < 0.5 {
		t.Fatalf("expected positive sample to be predicted positive, got %v", p[0])
	}
}

func TestLogitNotFitted(t *testing.T) {
	X, _ := separable()
	if _, err := learning.NewLogit().Predict(X); !errors.Is(err, learning.ErrNotFitted) {
		t.Fatalf("expected not fitted, got %v", err)
	}
}

func TestLogitInvalid(t *testing.T) {
	X, _ := separable()
	if err := learning.NewLogit().Fit(X, []float64{0, 1, 2, 0, 1, 0}); err == nil {
		t.Fatal("expected error for non-binary labels")
	}
	if err := learning.NewLogit().Fit(X, []float64{0, 1}); err == nil {
		t.Fatal("expected error for mismatched labels")
	}
	if err := learning.NewLogit(learning.LogitPenalty("l1")).Fit(X, []float64{0, 0, 0, 1, 1, 1}); err == nil {
		t.Fatal("expected error for unsupported penalty")
	}
	m := learning.NewLogit()
	if err := m.Fit(X, []float64{0, 0, 0, 1, 1, 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Predict(mat.NewDense(1, 2, nil)); err == nil {
		t.Fatal("expected error for wrong number of features")
	}
}
