package learning

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// L2 penalises the squared norm of the coefficients.
	L2 = "l2"
	// NoPenalty disables regularisation.
	NoPenalty = "none"
	// Balanced weights each class inversely to its frequency.
	Balanced = "balanced"
)

// Logit is a binary logistic regression model fitted by gradient descent on the
// weighted mean log-loss.
type Logit struct {
	Penalty      string
	C            float64
	ClassWeight  string
	MaxIter      int
	LearningRate float64
	Tolerance    float64

	coef      *mat.VecDense
	intercept float64
}

// LogitPenalty sets the regularisation, either L2 or NoPenalty.
func LogitPenalty(penalty string) func(*Logit) {
	return func(l *Logit) {
		l.Penalty = penalty
	}
}

// LogitC sets the inverse regularisation strength.
func LogitC(c float64) func(*Logit) {
	return func(l *Logit) {
		l.C = c
	}
}

// LogitClassWeight sets the class weighting, either empty or Balanced.
func LogitClassWeight(weight string) func(*Logit) {
	return func(l *Logit) {
		l.ClassWeight = weight
	}
}

// LogitMaxIter sets the maximum number of gradient steps.
func LogitMaxIter(n int) func(*Logit) {
	return func(l *Logit) {
		l.MaxIter = n
	}
}

// LogitLearningRate sets the gradient step size.
func LogitLearningRate(rate float64) func(*Logit) {
	return func(l *Logit) {
		l.LearningRate = rate
	}
}

// NewLogit creates a logistic regression model with l2 penalty, C=1 and 100 iterations
// unless configured otherwise.
func NewLogit(options ...func(*Logit)) *Logit {
	l := &Logit{
		Penalty:      L2,
		C:            1,
		MaxIter:      100,
		LearningRate: 0.5,
		Tolerance:    1e-4,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func (l *Logit) sampleWeights(y []float64) ([]float64, error) {
	sw := make([]float64, len(y))
	var pos float64
	for i, v := range y {
		if v != 0 && v != 1 {
			return nil, errors.Errorf("label %v of sample %d is not 0 or 1", v, i)
		}
		pos += v
		sw[i] = 1
	}
	switch l.ClassWeight {
	case "":
	case Balanced:
		n := float64(len(y))
		neg := n - pos
		for i, v := range y {
			if v == 1 && pos > 0 {
				sw[i] = n / (2 * pos)
			} else if v == 0 && neg > 0 {
				sw[i] = n / (2 * neg)
			}
		}
	default:
		return nil, errors.Errorf("unknown class weight %q", l.ClassWeight)
	}
	return sw, nil
}

// Fit trains the model.
func (l *Logit) Fit(X mat.Matrix, y []float64) error {
	r, c := X.Dims()
	if r != len(y) {
		return errors.Errorf("%d samples but %d labels", r, len(y))
	}
	if r == 0 {
		return errors.New("no samples to fit")
	}
	if l.Penalty != L2 && l.Penalty != NoPenalty {
		return errors.Errorf("unknown penalty %q", l.Penalty)
	}
	if l.Penalty == L2 && l.C <= 0 {
		return errors.Errorf("C must be positive, got %v", l.C)
	}
	sw, err := l.sampleWeights(y)
	if err != nil {
		return err
	}

	n := float64(r)
	w := mat.NewVecDense(c, nil)
	var b float64

	z := mat.NewVecDense(r, nil)
	residual := mat.NewVecDense(r, nil)
	grad := mat.NewVecDense(c, nil)
	for iter := 0; iter < l.MaxIter; iter++ {
		z.MulVec(X, w)
		var gb float64
		for i := 0; i < r; i++ {
			d := sw[i] * (sigmoid(z.AtVec(i)+b) - y[i])
			residual.SetVec(i, d)
			gb += d
		}
		gb /= n

		grad.MulVec(X.T(), residual)
		grad.ScaleVec(1/n, grad)
		if l.Penalty == L2 {
			grad.AddScaledVec(grad, 1/(l.C*n), w)
		}

		w.AddScaledVec(w, -l.LearningRate, grad)
		b -= l.LearningRate * gb

		if math.Max(floats.Norm(grad.RawVector().Data, math.Inf(1)), math.Abs(gb)) < l.Tolerance {
			break
		}
	}

	l.coef = w
	l.intercept = b
	return nil
}

// Coef is a copy of the fitted coefficients.
func (l *Logit) Coef() []float64 {
	if l.coef == nil {
		return nil
	}
	return append([]float64(nil), l.coef.RawVector().Data...)
}

// Intercept is the fitted bias term.
func (l *Logit) Intercept() float64 {
	return l.intercept
}

// PredictProba returns the probability of the positive class for each row of X.
func (l *Logit) PredictProba(X mat.Matrix) ([]float64, error) {
	if l.coef == nil {
		return nil, ErrNotFitted
	}
	r, c := X.Dims()
	if c != l.coef.Len() {
		return nil, errors.Errorf("model has %d features, samples have %d", l.coef.Len(), c)
	}
	z := mat.NewVecDense(r, nil)
	z.MulVec(X, l.coef)
	p := make([]float64, r)
	for i := range p {
		p[i] = sigmoid(z.AtVec(i) + l.intercept)
	}
	return p, nil
}

// Predict labels each row 1 when its probability is at least 0.5.
func (l *Logit) Predict(X mat.Matrix) ([]float64, error) {
	p, err := l.PredictProba(X)
	if err != nil {
		return nil, err
	}
	for i, v := range p {
		if v >= 0.5 {
			p[i] = 1
		} else {
			p[i] = 0
		}
	}
	return p, nil
}

// Score is the accuracy of the model on X.
func (l *Logit) Score(X mat.Matrix, y []float64) (float64, error) {
	p, err := l.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(p) != len(y) {
		return 0, errors.Errorf("%d samples but %d labels", len(p), len(y))
	}
	if len(y) == 0 {
		return 0, nil
	}
	var correct float64
	for i := range p {
		if p[i] == y[i] {
			correct++
		}
	}
	return correct / float64(len(y)), nil
}
