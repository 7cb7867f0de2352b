package preprocess

import (
	"github.com/hscells/sexism/cache"
	"github.com/hscells/sexism/dataset"
	"github.com/hscells/sexism/feature"
	"gopkg.in/cheggaaa/pb.v1"
)

// extractor computes the feature value of one text.
type extractor func(text string) (string, error)

// rowStrategy applies an extractor to the text of every row. It is embedded by
// each concrete strategy.
type rowStrategy struct {
	tag        feature.Tag
	data       dataset.Table
	processors []TextProcessor
	cache      cache.FeatureCacher
	progress   bool
	// variant distinguishes cached values computed with different settings.
	variant string
}

func (s *rowStrategy) Tag() feature.Tag {
	return s.tag
}

func (s *rowStrategy) SetData(data dataset.Table) {
	s.data = data
}

func (s *rowStrategy) Data() dataset.Table {
	return s.data
}

func (s *rowStrategy) apply(extract extractor) (dataset.Table, error) {
	if err := s.data.Require(dataset.BaseColumns...); err != nil {
		return dataset.Table{}, err
	}

	// The feature table is the base block followed by the feature column, whatever
	// else the raw table carries.
	base := dataset.Table{Columns: dataset.BaseColumns, Rows: make([][]string, s.data.Len())}
	idx := make([]int, len(dataset.BaseColumns))
	for i, c := range dataset.BaseColumns {
		idx[i] = s.data.Index(c)
	}
	textIdx := s.data.Index(dataset.TextColumn)

	var bar *pb.ProgressBar
	if s.progress {
		bar = pb.StartNew(s.data.Len())
		defer bar.Finish()
	}

	values := make([]string, s.data.Len())
	for i, row := range s.data.Rows {
		base.Rows[i] = make([]string, len(idx))
		for j, k := range idx {
			base.Rows[i][j] = row[k]
		}

		text := ProcessText(row[textIdx], s.processors...)
		v, err := s.lookup(text, extract)
		if err != nil {
			return dataset.Table{}, err
		}
		values[i] = v

		if bar != nil {
			bar.Increment()
		}
	}
	return base.WithColumn(s.tag.String(), values)
}

func (s *rowStrategy) lookup(text string, extract extractor) (string, error) {
	if s.cache == nil {
		return extract(text)
	}
	key := s.tag.String() + s.variant
	v, err := s.cache.Get(key, text)
	if err == nil {
		return v, nil
	} else if err != cache.ErrCacheMiss {
		return "", err
	}
	v, err = extract(text)
	if err != nil {
		return "", err
	}
	return v, s.cache.Set(key, text, v)
}
