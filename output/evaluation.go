// Package output provides different formats of output for experiments.
package output

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mailru/easyjson/jwriter"
)

// EvaluationFormatter is used in a pipeline to output evaluation results.
type EvaluationFormatter func(map[string]float64) (string, error)

func keys(results map[string]float64) []string {
	k := make([]string, 0, len(results))
	for name := range results {
		k = append(k, name)
	}
	sort.Strings(k)
	return k
}

// JsonEvaluationFormatter outputs results as a JSON object with sorted keys.
func JsonEvaluationFormatter(results map[string]float64) (string, error) {
	w := jwriter.Writer{}
	w.RawByte('{')
	for i, name := range keys(results) {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(name)
		w.RawByte(':')
		w.Float64(results[name])
	}
	w.RawByte('}')
	b, err := w.BuildBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// TabEvaluationFormatter outputs one name and score per line, separated by a tab.
func TabEvaluationFormatter(results map[string]float64) (string, error) {
	var b strings.Builder
	for _, name := range keys(results) {
		b.WriteString(name)
		b.WriteByte('\t')
		b.WriteString(strconv.FormatFloat(results[name], 'f', 4, 64))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
