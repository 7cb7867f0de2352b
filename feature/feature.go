// Package feature names the feature sets that can be derived from the corpus and
// dispatches each of them to the strategy that produces it.
package feature

import (
	"strings"

	"github.com/hscells/sexism/dataset"
	"github.com/pkg/errors"
)

// Tag identifies a feature set. The string form names both the feature column and
// the persisted artifact.
type Tag string

const (
	Sentiment      Tag = "sentiment"
	NGram          Tag = "ngram"
	TypeDependency Tag = "type_dependency"
	BertDocEmb     Tag = "bert_doc_emb"
)

// Tags is every feature, in declaration order.
var Tags = []Tag{Sentiment, NGram, TypeDependency, BertDocEmb}

var (
	// ErrUnknownFeature is returned when a tag has no registered strategy.
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrPreprocessing is returned when a strategy cannot obtain a resource it needs.
	ErrPreprocessing = errors.New("preprocessing failed")
)

func (t Tag) String() string {
	return string(t)
}

// FileName is the name of the artifact a feature table is persisted as.
func (t Tag) FileName() string {
	return "preprocessed_data_" + string(t) + ".csv"
}

// ParseTag converts the string form of a tag back into a Tag.
func ParseTag(s string) (Tag, error) {
	for _, t := range Tags {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", errors.Wrap(ErrUnknownFeature, s)
}

// ParseTags converts a list of string forms.
func ParseTags(s ...string) ([]Tag, error) {
	tags := make([]Tag, len(s))
	for i, v := range s {
		t, err := ParseTag(v)
		if err != nil {
			return nil, err
		}
		tags[i] = t
	}
	return tags, nil
}

// Strategy turns raw records into a feature table. Implementations must not modify
// the table given to SetData; Preprocess returns the base columns followed by a
// single column named after Tag.
type Strategy interface {
	// Tag is the feature this strategy produces.
	Tag() Tag
	// SetData assigns the raw table to process.
	SetData(data dataset.Table)
	// Data is the table most recently assigned.
	Data() dataset.Table
	// Preprocess derives the feature table from the assigned data.
	Preprocess() (dataset.Table, error)
}

// Factory creates a fresh strategy.
type Factory func() Strategy

// Registry maps each feature to the strategy that produces it. A registry is built
// once and only read afterwards.
type Registry map[Tag]Factory

// Resolve creates the strategy registered for a tag.
func (r Registry) Resolve(tag Tag) (Strategy, error) {
	f, ok := r[tag]
	if !ok || f == nil {
		return nil, errors.Wrap(ErrUnknownFeature, tag.String())
	}
	return f(), nil
}

// Validate checks that every tag has a strategy and that each strategy reports the
// tag it is registered under.
func (r Registry) Validate() error {
	for _, t := range Tags {
		s, err := r.Resolve(t)
		if err != nil {
			return err
		}
		if s.Tag() != t {
			return errors.Errorf("%s is registered with a %s strategy", t, s.Tag())
		}
	}
	return nil
}
