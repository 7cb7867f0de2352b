package eval

type accuracy struct{}
type recallEvaluator struct{}
type precisionEvaluator struct{}
type numPositive struct{}
type numPredicted struct{}
type numTruePositive struct{}

// FMeasure computes f-measure, with the beta parameter controlling the precision and recall trade-off.
type FMeasure struct {
	beta float64
}

var (
	// Accuracy is the fraction of samples labelled correctly.
	Accuracy = accuracy{}
	// RecallEvaluator calculates recall.
	RecallEvaluator = recallEvaluator{}
	// PrecisionEvaluator calculates precision.
	PrecisionEvaluator = precisionEvaluator{}
	// NumPositive is the number of positive samples.
	NumPositive = numPositive{}
	// NumPredicted is the number of samples predicted positive.
	NumPredicted = numPredicted{}
	// NumTruePositive is the number of positive samples predicted positive.
	NumTruePositive = numTruePositive{}

	// F1Measure is f-measure with beta=1.
	F1Measure = FMeasure{beta: 1}
	// F05Measure is f-measure with beta=0.5.
	F05Measure = FMeasure{beta: 0.5}
)

func (accuracy) Name() string {
	return "Accuracy"
}

func (accuracy) Score(predicted, actual []float64) float64 {
	tp, fp, fn, tn := confusion(predicted, actual)
	n := tp + fp + fn + tn
	if n == 0 {
		return 0.0
	}
	return (tp + tn) / n
}

func (rec recallEvaluator) Name() string {
	return "Recall"
}

func (rec recallEvaluator) Score(predicted, actual []float64) float64 {
	tp, _, fn, _ := confusion(predicted, actual)
	if tp+fn == 0 {
		return 0.0
	}
	return tp / (tp + fn)
}

func (rec precisionEvaluator) Name() string {
	return "Precision"
}

func (rec precisionEvaluator) Score(predicted, actual []float64) float64 {
	tp, fp, _, _ := confusion(predicted, actual)
	if tp+fp == 0 {
		return 0.0
	}
	return tp / (tp + fp)
}

func (numPositive) Name() string {
	return "NumPositive"
}

func (numPositive) Score(predicted, actual []float64) float64 {
	tp, _, fn, _ := confusion(predicted, actual)
	return tp + fn
}

func (numPredicted) Name() string {
	return "NumPredicted"
}

func (numPredicted) Score(predicted, actual []float64) float64 {
	tp, fp, _, _ := confusion(predicted, actual)
	return tp + fp
}

func (numTruePositive) Name() string {
	return "NumTruePositive"
}

func (numTruePositive) Score(predicted, actual []float64) float64 {
	tp, _, _, _ := confusion(predicted, actual)
	return tp
}

func (f FMeasure) Name() string {
	if f.beta == 0.5 {
		return "F05Measure"
	}
	return "F1Measure"
}

func (f FMeasure) Score(predicted, actual []float64) float64 {
	precision := PrecisionEvaluator.Score(predicted, actual)
	recall := RecallEvaluator.Score(predicted, actual)
	b2 := f.beta * f.beta
	if b2*precision+recall == 0 {
		return 0.0
	}
	return (1 + b2) * (precision * recall) / (b2*precision + recall)
}
