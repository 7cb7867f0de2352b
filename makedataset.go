// Package sexism derives feature tables from a corpus of labelled texts, persists one
// artifact per feature and assembles them into a single training table.
package sexism

import (
	"log"
	"path/filepath"

	"github.com/hscells/sexism/dataset"
	"github.com/hscells/sexism/feature"
	"github.com/pkg/errors"
)

const (
	// DefaultRawPath is where the raw corpus is read from.
	DefaultRawPath = "../data/raw/all_data.csv"
	// DefaultProcessedPath is the directory artifacts are written to and read from.
	DefaultProcessedPath = "../data/processed/"
	// DefaultRawDelimiter separates the fields of the raw corpus.
	DefaultRawDelimiter = '\t'
)

// ErrInvalidArgument is returned when a request cannot be satisfied as made.
var ErrInvalidArgument = errors.New("invalid argument")

// MakeDataset preprocesses the raw corpus into one artifact per feature and merges
// artifacts back into a single table.
type MakeDataset struct {
	RawPath       string
	ProcessedPath string
	Delimiter     rune
	Registry      feature.Registry
	Reader        dataset.Reader
	Writer        dataset.Writer
	// VerifyAlignment checks that artifacts agree on the identifier of every row
	// before they are merged.
	VerifyAlignment bool
}

// RawPath sets the path of the raw corpus.
func RawPath(path string) func(*MakeDataset) {
	return func(m *MakeDataset) {
		m.RawPath = path
	}
}

// ProcessedPath sets the artifact directory.
func ProcessedPath(path string) func(*MakeDataset) {
	return func(m *MakeDataset) {
		m.ProcessedPath = path
	}
}

// Delimiter sets the field separator of the raw corpus.
func Delimiter(delimiter rune) func(*MakeDataset) {
	return func(m *MakeDataset) {
		m.Delimiter = delimiter
	}
}

// WithRegistry sets the strategies used to compute features.
func WithRegistry(registry feature.Registry) func(*MakeDataset) {
	return func(m *MakeDataset) {
		m.Registry = registry
	}
}

// WithReader sets how tables are read.
func WithReader(reader dataset.Reader) func(*MakeDataset) {
	return func(m *MakeDataset) {
		m.Reader = reader
	}
}

// WithWriter sets how tables are written.
func WithWriter(writer dataset.Writer) func(*MakeDataset) {
	return func(m *MakeDataset) {
		m.Writer = writer
	}
}

// VerifyAlignment toggles the identifier check made when assembling.
func VerifyAlignment(verify bool) func(*MakeDataset) {
	return func(m *MakeDataset) {
		m.VerifyAlignment = verify
	}
}

// NewMakeDataset creates a dataset maker reading and writing CSV files at the
// default locations. A registry must be configured before features are computed.
func NewMakeDataset(options ...func(*MakeDataset)) *MakeDataset {
	m := &MakeDataset{
		RawPath:         DefaultRawPath,
		ProcessedPath:   DefaultProcessedPath,
		Delimiter:       DefaultRawDelimiter,
		Reader:          dataset.CSV{},
		Writer:          dataset.CSV{},
		VerifyAlignment: true,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// ArtifactPath is where the feature table of a tag is persisted.
func (m *MakeDataset) ArtifactPath(tag feature.Tag) string {
	return filepath.Join(m.ProcessedPath, tag.FileName())
}

// ReadRaw loads the raw corpus.
func (m *MakeDataset) ReadRaw() (dataset.Table, error) {
	return m.Reader.Read(m.RawPath, m.Delimiter)
}

// Save persists a feature table, replacing any previous artifact for the tag.
func (m *MakeDataset) Save(table dataset.Table, tag feature.Tag) (string, error) {
	p := m.ArtifactPath(tag)
	if err := m.Writer.Write(table, p); err != nil {
		return "", err
	}
	log.Printf("Saved preprocessed data: %s\n", p)
	return p, nil
}

// PreprocessFeature computes and persists a single feature.
func (m *MakeDataset) PreprocessFeature(raw dataset.Table, tag feature.Tag) (string, error) {
	s, err := m.Registry.Resolve(tag)
	if err != nil {
		return "", err
	}
	s.SetData(raw)
	t, err := s.Preprocess()
	if err != nil {
		return "", err
	}
	return m.Save(t, tag)
}

// Preprocess computes and persists each feature in order. It stops at the first
// failure; artifacts already written are kept.
func (m *MakeDataset) Preprocess(raw dataset.Table, features ...feature.Tag) error {
	for _, tag := range features {
		if _, err := m.PreprocessFeature(raw, tag); err != nil {
			return err
		}
	}
	return nil
}

// ReadByFeature loads the artifact of a feature, either in full or only its feature
// column.
func (m *MakeDataset) ReadByFeature(tag feature.Tag, columnOnly bool) (dataset.Table, error) {
	t, err := m.Reader.Read(m.ArtifactPath(tag), dataset.DefaultDelimiter)
	if err != nil {
		return dataset.Table{}, err
	}
	if err := t.Require(append(append([]string{}, dataset.BaseColumns...), tag.String())...); err != nil {
		return dataset.Table{}, errors.Wrap(err, tag.FileName())
	}
	if columnOnly {
		return t.Column(tag.String())
	}
	return t, nil
}

// Assemble merges the artifacts of the features into one table: the full table of
// the first feature followed by the feature column of each of the rest.
func (m *MakeDataset) Assemble(features ...feature.Tag) (dataset.Table, error) {
	if len(features) == 0 {
		return dataset.Table{}, errors.Wrap(ErrInvalidArgument, "no features to assemble")
	}
	seen := make(map[feature.Tag]bool, len(features))
	for _, tag := range features {
		if seen[tag] {
			return dataset.Table{}, errors.Wrapf(ErrInvalidArgument, "%s requested more than once", tag)
		}
		seen[tag] = true
	}

	merged, err := m.ReadByFeature(features[0], false)
	if err != nil {
		return dataset.Table{}, err
	}

	var ids []string
	if m.VerifyAlignment {
		ids, err = merged.Values(dataset.IDColumn)
		if err != nil {
			return dataset.Table{}, err
		}
	}

	for _, tag := range features[1:] {
		t, err := m.ReadByFeature(tag, false)
		if err != nil {
			return dataset.Table{}, err
		}
		if t.Len() != merged.Len() {
			return dataset.Table{}, errors.Wrapf(dataset.ErrMisaligned, "%s has %d rows, %s has %d", tag, t.Len(), features[0], merged.Len())
		}
		if m.VerifyAlignment {
			other, err := t.Values(dataset.IDColumn)
			if err != nil {
				return dataset.Table{}, err
			}
			for i := range ids {
				if ids[i] != other[i] {
					return dataset.Table{}, errors.Wrapf(dataset.ErrMisaligned, "row %d of %s has id %q, expected %q", i, tag, other[i], ids[i])
				}
			}
		}
		column, err := t.Column(tag.String())
		if err != nil {
			return dataset.Table{}, err
		}
		merged, err = dataset.HConcat(merged, column)
		if err != nil {
			return dataset.Table{}, err
		}
	}
	return merged, nil
}
