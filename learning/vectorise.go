package learning

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/hscells/sexism/dataset"
	"github.com/hscells/sexism/feature"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DefaultBuckets is the number of columns bag-of-terms features are hashed into.
const DefaultBuckets = 1024

// Vectoriser converts the feature columns of a table into a numeric matrix.
type Vectoriser struct {
	// Buckets is the width of each hashed bag-of-terms block.
	Buckets int
}

func hash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// FeatureColumns lists the feature columns of a table, in column order.
func FeatureColumns(t dataset.Table) []feature.Tag {
	var tags []feature.Tag
	for _, c := range t.Columns {
		for _, tag := range feature.Tags {
			if c == tag.String() {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// Labels parses the label column.
func Labels(t dataset.Table) ([]float64, error) {
	values, err := t.Values(dataset.LabelColumn)
	if err != nil {
		return nil, err
	}
	y := make([]float64, len(values))
	for i, v := range values {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.Wrapf(dataset.ErrMalformedInput, "label %q of row %d", v, i)
		}
		if b {
			y[i] = 1
		}
	}
	return y, nil
}

func (v Vectoriser) buckets() int {
	if v.Buckets <= 0 {
		return DefaultBuckets
	}
	return v.Buckets
}

// block turns one feature column into rows of numbers.
func (v Vectoriser) block(tag feature.Tag, values []string) ([][]float64, error) {
	rows := make([][]float64, len(values))
	switch tag {
	case feature.Sentiment:
		for i, s := range values {
			x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, errors.Wrapf(dataset.ErrMalformedInput, "%s %q of row %d", tag, s, i)
			}
			rows[i] = []float64{x}
		}
	case feature.NGram, feature.TypeDependency:
		n := v.buckets()
		for i, s := range values {
			rows[i] = make([]float64, n)
			for _, term := range strings.Fields(s) {
				rows[i][hash(term)%uint32(n)]++
			}
		}
	case feature.BertDocEmb:
		dim := -1
		for i, s := range values {
			fields := strings.Fields(s)
			if dim < 0 {
				dim = len(fields)
			} else if len(fields) != dim {
				return nil, errors.Wrapf(dataset.ErrMalformedInput, "%s of row %d has %d dimensions, expected %d", tag, i, len(fields), dim)
			}
			rows[i] = make([]float64, dim)
			for j, f := range fields {
				x, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, errors.Wrapf(dataset.ErrMalformedInput, "%s %q of row %d", tag, f, i)
				}
				rows[i][j] = x
			}
		}
	default:
		return nil, errors.Wrap(feature.ErrUnknownFeature, tag.String())
	}
	return rows, nil
}

// Vectorise builds the sample matrix from the named feature columns, or from every
// feature column of the table when none are named, along with the labels.
func (v Vectoriser) Vectorise(t dataset.Table, tags ...feature.Tag) (*mat.Dense, []float64, error) {
	if len(tags) == 0 {
		tags = FeatureColumns(t)
	}
	if len(tags) == 0 {
		return nil, nil, errors.Wrap(dataset.ErrMalformedInput, "table has no feature columns")
	}
	if t.Len() == 0 {
		return nil, nil, errors.Wrap(dataset.ErrMalformedInput, "table has no rows")
	}

	y, err := Labels(t)
	if err != nil {
		return nil, nil, err
	}

	var blocks [][][]float64
	width := 0
	for _, tag := range tags {
		values, err := t.Values(tag.String())
		if err != nil {
			return nil, nil, err
		}
		b, err := v.block(tag, values)
		if err != nil {
			return nil, nil, err
		}
		blocks = append(blocks, b)
		width += len(b[0])
	}
	if width == 0 {
		return nil, nil, errors.Wrap(dataset.ErrMalformedInput, "features have no dimensions")
	}

	X := mat.NewDense(t.Len(), width, nil)
	for i := 0; i < t.Len(); i++ {
		j := 0
		for _, b := range blocks {
			for _, x := range b[i] {
				X.Set(i, j, x)
				j++
			}
		}
	}
	return X, y, nil
}
