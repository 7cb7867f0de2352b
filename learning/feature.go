package learning

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xtgo/set"
	"gonum.org/v1/gonum/mat"
)

// Feature is a single non-zero value of a sample.
type Feature struct {
	ID    int
	Score float64
}

// NewFeature creates a new feature with the specified ID and `Score`.
func NewFeature(id int, score float64) Feature {
	return Feature{id, score}
}

// Features is the group of Features used to learn or predict a Score.
type Features []Feature

func (ff Features) Len() int           { return len(ff) }
func (ff Features) Swap(i, j int)      { ff[i], ff[j] = ff[j], ff[i] }
func (ff Features) Less(i, j int) bool { return ff[i].ID < ff[j].ID }

// Scores expands the features into a dense vector of length max.
func (ff Features) Scores(max int) []float64 {
	v := make([]float64, max)
	for _, f := range ff {
		if f.ID >= len(v) {
			continue
		}
		v[f.ID] = f.Score
	}
	return v
}

// LearntFeature contains the Features of one sample along with its label.
type LearntFeature struct {
	Features
	Label   float64
	Comment string
}

// NewLearntFeatures converts each row of X into its non-zero features. Feature ids
// start at 1.
func NewLearntFeatures(X mat.Matrix, y []float64, comments []string) []LearntFeature {
	r, c := X.Dims()
	lfs := make([]LearntFeature, r)
	for i := 0; i < r; i++ {
		var ff Features
		for j := 0; j < c; j++ {
			if v := X.At(i, j); v != 0 {
				ff = append(ff, NewFeature(j+1, v))
			}
		}
		lfs[i] = LearntFeature{Features: ff}
		if i < len(y) {
			lfs[i].Label = y[i]
		}
		if i < len(comments) {
			lfs[i].Comment = comments[i]
		}
	}
	return lfs
}

// WriteLibSVM writes the feature in the libsvm format, `label id:value... # comment`.
func (lf LearntFeature) WriteLibSVM(writer io.Writer) (int, error) {
	sort.Sort(lf.Features)
	size := set.Uniq(lf.Features)
	ff := lf.Features[:size]
	line := strconv.FormatFloat(lf.Label, 'f', -1, 64)
	for _, f := range ff {
		line += fmt.Sprintf(" %d:%v", f.ID, f.Score)
	}
	if len(lf.Comment) > 0 {
		line += " # " + lf.Comment
	}
	return writer.Write([]byte(line + "\n"))
}

// WriteLibSVM writes every sample of X.
func WriteLibSVM(writer io.Writer, X mat.Matrix, y []float64, comments []string) error {
	w := bufio.NewWriter(writer)
	for _, lf := range NewLearntFeatures(X, y, comments) {
		if _, err := lf.WriteLibSVM(w); err != nil {
			return err
		}
	}
	return w.Flush()
}

// LoadFeatures reads features written in the libsvm format.
func LoadFeatures(reader io.Reader) ([]LearntFeature, error) {
	var lfs []LearntFeature
	s := bufio.NewScanner(reader)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	n := 0
	for s.Scan() {
		n++
		var (
			comment string
			rest    string
		)
		l := s.Text()
		if len(strings.TrimSpace(l)) == 0 {
			continue
		}

		// {line} # [comment]
		if i := strings.Index(l, "#"); i >= 0 {
			comment = strings.TrimSpace(l[i+1:])
			rest = l[:i]
		} else {
			rest = l
		}

		// [label] {features}
		b := strings.Fields(rest)
		if len(b) == 0 {
			continue
		}
		label, err := strconv.ParseFloat(b[0], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}

		features := make(Features, len(b[1:]))
		for i, v := range b[1:] {
			f := strings.SplitN(v, ":", 2)
			if len(f) != 2 {
				return nil, errors.Errorf("line %d: malformed feature %q", n, v)
			}
			id, err := strconv.Atoi(f[0])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", n)
			}
			score, err := strconv.ParseFloat(f[1], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", n)
			}
			features[i] = Feature{
				ID:    id,
				Score: score,
			}
		}

		lfs = append(lfs, LearntFeature{
			Comment:  comment,
			Features: features,
			Label:    label,
		})
	}
	return lfs, s.Err()
}
