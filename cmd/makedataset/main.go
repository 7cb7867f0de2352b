package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/go-errors/errors"
	"github.com/hscells/sexism"
	"github.com/hscells/sexism/dataset"
	"github.com/hscells/sexism/feature"
	"github.com/hscells/sexism/learning"
	"github.com/hscells/sexism/pipeline"
)

var (
	name    = "makedataset"
	version = "14.Oct.2026"
	author  = "sexism dataset tools"
)

type args struct {
	Config     string   `help:"properties file to configure the run" arg:"-c"`
	Features   []string `help:"features to compute (sentiment, ngram, type_dependency, bert_doc_emb)" arg:"-f"`
	Preprocess bool     `help:"compute and persist each feature" arg:"-p"`
	Assemble   string   `help:"write the assembled feature table to this path" arg:"-a"`
	LibSVM     string   `help:"write the vectorised assembled features to this path in libsvm format"`
	Train      bool     `help:"train and evaluate a classifier on the assembled features" arg:"-t"`
	Continue   bool     `help:"keep preprocessing after a feature fails"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
@ %s
# %s`, name, author, version)
}

func fatal(err error) {
	if e, ok := err.(*errors.Error); ok {
		log.Fatalln(e.ErrorStack())
	}
	log.Fatalln(errors.Wrap(err, 1).ErrorStack())
}

func writeLibSVM(v learning.Vectoriser, t dataset.Table, path string) error {
	X, y, err := v.Vectorise(t)
	if err != nil {
		return err
	}
	ids, err := t.Values(dataset.IDColumn)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return learning.WriteLibSVM(f, X, y, ids)
}

func main() {
	var args args
	arg.MustParse(&args)

	c, err := sexism.ParseConfig("")
	if len(args.Config) > 0 {
		c, err = sexism.LoadConfig(args.Config)
	}
	if err != nil {
		fatal(err)
	}

	tags := feature.Tags
	if len(args.Features) > 0 {
		tags, err = feature.ParseTags(args.Features...)
		if err != nil {
			fatal(err)
		}
	}

	m, err := c.MakeDataset()
	if err != nil {
		fatal(err)
	}

	p := sexism.NewPipeline(m, tags, sexism.PipelineConfig(c))
	p.Preprocess = args.Preprocess
	p.ContinueOnError = args.Continue
	p.Assemble = len(args.Assemble) > 0 || len(args.LibSVM) > 0
	p.Train = args.Train

	results := make(chan pipeline.Result)
	go p.Execute(results)

	failed := false
	for r := range results {
		switch r.Type {
		case pipeline.Preprocessed:
			log.Printf("%s -> %s\n", r.Feature, r.Path)
		case pipeline.Assembled:
			if len(args.Assemble) > 0 {
				if err := m.Writer.Write(r.Table, args.Assemble); err != nil {
					fatal(err)
				}
				log.Printf("assembled %d rows, %d columns -> %s\n", r.Table.Len(), len(r.Table.Columns), args.Assemble)
			}
			if len(args.LibSVM) > 0 {
				if err := writeLibSVM(c.Vectoriser(), r.Table, args.LibSVM); err != nil {
					fatal(err)
				}
				log.Printf("vectorised features -> %s\n", args.LibSVM)
			}
		case pipeline.Evaluation:
			for _, o := range r.Outputs {
				fmt.Println(o)
			}
		case pipeline.Error:
			failed = true
			if args.Continue && len(r.Feature) > 0 {
				log.Println(r.Error)
				continue
			}
			fatal(r.Error)
		case pipeline.Done:
			log.Println("done!")
		}
	}
	if failed {
		os.Exit(1)
	}
}
