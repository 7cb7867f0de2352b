// Package pipeline contains the results streamed by a dataset pipeline.
package pipeline

import (
	"github.com/hscells/sexism/dataset"
	"github.com/hscells/sexism/feature"
)

// ResultType is the type of result being returned through a pipeline channel.
type ResultType uint8

const (
	// Preprocessed indicates a feature table was persisted.
	Preprocessed ResultType = iota
	// Assembled indicates the feature tables were merged.
	Assembled
	// Evaluation is an evaluation result.
	Evaluation
	// Error indicates an error was raised.
	Error
	// Done indicates the pipeline has completed.
	Done
)

func (r ResultType) String() string {
	switch r {
	case Preprocessed:
		return "preprocessed"
	case Assembled:
		return "assembled"
	case Evaluation:
		return "evaluation"
	case Error:
		return "error"
	case Done:
		return "done"
	}
	return "unknown"
}

// Result is the output of a pipeline.
type Result struct {
	Feature     feature.Tag
	Path        string
	Table       dataset.Table
	Evaluations map[string]float64
	Outputs     []string
	Type        ResultType
	Error       error
}
