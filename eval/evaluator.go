// Package eval scores the predictions of a classifier against its gold labels.
package eval

// Evaluator is an interface for evaluating binary predictions.
type Evaluator interface {
	Score(predicted, actual []float64) float64
	Name() string
}

// Evaluate scores predictions using supplied evaluation measurements.
func Evaluate(evaluators []Evaluator, predicted, actual []float64) map[string]float64 {
	scores := make(map[string]float64, len(evaluators))
	for _, evaluator := range evaluators {
		scores[evaluator.Name()] = evaluator.Score(predicted, actual)
	}
	return scores
}

// confusion counts true positives, false positives and false negatives. Labels at or
// above 0.5 are positive.
func confusion(predicted, actual []float64) (tp, fp, fn, tn float64) {
	for i := range predicted {
		if i >= len(actual) {
			break
		}
		p, a := predicted[i] >= 0.5, actual[i] >= 0.5
		switch {
		case p && a:
			tp++
		case p && !a:
			fp++
		case !p && a:
			fn++
		default:
			tn++
		}
	}
	return
}
