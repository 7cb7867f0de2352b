package sexism

import (
	"fmt"
	"log"
	"time"

	"github.com/hscells/headway"
	"github.com/hscells/sexism/dataset"
	"github.com/hscells/sexism/eval"
	"github.com/hscells/sexism/feature"
	"github.com/hscells/sexism/learning"
	"github.com/hscells/sexism/output"
	"github.com/hscells/sexism/pipeline"
	"github.com/pkg/errors"
)

// Pipeline contains all the information for executing a dataset run.
type Pipeline struct {
	MakeDataset *MakeDataset
	Features    []feature.Tag

	// Preprocess computes and persists every feature.
	Preprocess bool
	// ContinueOnError keeps preprocessing the remaining features after one fails.
	ContinueOnError bool
	// Assemble merges the persisted features into one table.
	Assemble bool
	// Train fits a model on the assembled table and evaluates it on a held-out split.
	Train bool

	Model      learning.Model
	Vectoriser learning.Vectoriser
	TestRatio  float64
	Seed       int64
	Evaluators []eval.Evaluator
	Formatters []output.EvaluationFormatter

	HeadwayServer string
	HeadwaySecret string
}

// NewPipeline creates a pipeline over the features of a dataset maker. Additional
// components are provided via the optional functional arguments.
func NewPipeline(m *MakeDataset, features []feature.Tag, components ...func(*Pipeline)) Pipeline {
	p := Pipeline{
		MakeDataset: m,
		Features:    features,
		TestRatio:   0.2,
		Seed:        1,
	}
	for _, component := range components {
		component(&p)
	}
	return p
}

// PipelineConfig applies the learning settings of a config.
func PipelineConfig(c Config) func(*Pipeline) {
	return func(p *Pipeline) {
		p.Model = c.Model()
		p.Vectoriser = c.Vectoriser()
		p.TestRatio = c.TestRatio
		p.Seed = c.Seed
		p.HeadwayServer = c.HeadwayServer
		p.HeadwaySecret = c.HeadwaySecret
	}
}

// Evaluation adds evaluation measures to the pipeline.
func Evaluation(evaluators ...eval.Evaluator) func(*Pipeline) {
	return func(p *Pipeline) {
		p.Evaluators = evaluators
	}
}

// EvaluationOutput adds evaluation formatters to the pipeline.
func EvaluationOutput(formatters ...output.EvaluationFormatter) func(*Pipeline) {
	return func(p *Pipeline) {
		p.Formatters = formatters
	}
}

type progress struct {
	hw    *headway.Client
	name  string
	total float64
}

func (p progress) send(i int, stage, format string, args ...interface{}) {
	if p.hw == nil {
		return
	}
	comment := fmt.Sprintf("[%s] %s", stage, fmt.Sprintf(format, args...))
	if err := p.hw.Send(float64(i), p.total, p.name, comment); err != nil {
		log.Println(err)
	}
}

// Execute runs the pipeline, streaming results to c. The channel is closed once the
// pipeline has completed or failed.
func (p Pipeline) Execute(c chan pipeline.Result) {
	defer close(c)
	log.Println("starting dataset pipeline...")

	if p.MakeDataset == nil {
		c <- pipeline.Result{Error: errors.Wrap(ErrInvalidArgument, "no dataset configured"), Type: pipeline.Error}
		return
	}

	var hp progress
	if len(p.HeadwayServer) > 0 {
		hp.hw = headway.NewClient(p.HeadwayServer, p.HeadwaySecret)
		hp.name = fmt.Sprintf("sexism dataset pipeline [#%d]", time.Now().Unix())
		hp.total = float64(len(p.Features))
	}

	features := p.Features
	if p.Preprocess {
		log.Println("loading raw data...")
		raw, err := p.MakeDataset.ReadRaw()
		if err != nil {
			c <- pipeline.Result{Error: err, Type: pipeline.Error}
			return
		}
		log.Printf("loaded %d rows\n", raw.Len())

		features = nil
		for i, tag := range p.Features {
			log.Printf("preprocessing %s...\n", tag)
			path, err := p.MakeDataset.PreprocessFeature(raw, tag)
			if err != nil {
				hp.send(i, "preprocess", "%s failed: %v", tag, err)
				c <- pipeline.Result{Feature: tag, Error: err, Type: pipeline.Error}
				if !p.ContinueOnError {
					return
				}
				continue
			}
			features = append(features, tag)
			hp.send(i+1, "preprocess", "%s", tag)
			c <- pipeline.Result{Feature: tag, Path: path, Type: pipeline.Preprocessed}
		}
	}

	if p.Assemble || p.Train {
		log.Println("assembling features...")
		table, err := p.MakeDataset.Assemble(features...)
		if err != nil {
			c <- pipeline.Result{Error: err, Type: pipeline.Error}
			return
		}
		if p.Assemble {
			c <- pipeline.Result{Table: table, Type: pipeline.Assembled}
		}

		if p.Train {
			log.Println("training model...")
			r, err := p.evaluate(table, features)
			if err != nil {
				c <- pipeline.Result{Error: err, Type: pipeline.Error}
				return
			}
			hp.send(len(p.Features), "train", "done!")
			c <- r
		}
	}

	c <- pipeline.Result{Type: pipeline.Done}
}

// evaluate fits the model on a training split of the table and scores it on the rest.
// When nothing is held out the model is scored on the data it was fitted on.
func (p Pipeline) evaluate(table dataset.Table, features []feature.Tag) (pipeline.Result, error) {
	X, y, err := p.Vectoriser.Vectorise(table, features...)
	if err != nil {
		return pipeline.Result{}, err
	}
	n, _ := X.Dims()
	trainIdx, testIdx := learning.TrainTestSplit(n, p.TestRatio, p.Seed)
	if len(testIdx) == 0 {
		testIdx = trainIdx
	}
	log.Printf("training on %d samples, testing on %d\n", len(trainIdx), len(testIdx))

	var scaler learning.StandardScaler
	train := learning.Rows(X, trainIdx)
	scaler.Fit(train)
	train, err = scaler.Transform(train)
	if err != nil {
		return pipeline.Result{}, err
	}
	test, err := scaler.Transform(learning.Rows(X, testIdx))
	if err != nil {
		return pipeline.Result{}, err
	}

	model := p.Model
	if model == nil {
		model = learning.NewLogit()
	}
	if err := model.Fit(train, learning.Subset(y, trainIdx)); err != nil {
		return pipeline.Result{}, err
	}
	predicted, err := model.Predict(test)
	if err != nil {
		return pipeline.Result{}, err
	}

	evaluators := p.Evaluators
	if len(evaluators) == 0 {
		evaluators = []eval.Evaluator{eval.Accuracy, eval.PrecisionEvaluator, eval.RecallEvaluator, eval.F1Measure}
	}
	formatters := p.Formatters
	if len(formatters) == 0 {
		formatters = []output.EvaluationFormatter{output.JsonEvaluationFormatter}
	}

	scores := eval.Evaluate(evaluators, predicted, learning.Subset(y, testIdx))
	outputs := make([]string, len(formatters))
	for i, formatter := range formatters {
		outputs[i], err = formatter(scores)
		if err != nil {
			return pipeline.Result{}, err
		}
	}
	return pipeline.Result{Evaluations: scores, Outputs: outputs, Type: pipeline.Evaluation}, nil
}
