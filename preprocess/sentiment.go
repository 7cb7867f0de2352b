package preprocess

import (
	"bufio"
	"hash/fnv"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hscells/sexism/dataset"
	"github.com/hscells/sexism/feature"
	"github.com/jonreiter/govader"
	"github.com/pkg/errors"
)

// SentimentStrategy scores each text with VADER, producing its compound polarity
// in [-1, 1].
type SentimentStrategy struct {
	rowStrategy
	lexicon *lexicon
}

// lexicon is the VADER analyzer, built once and shared by every strategy created
// from a registry. An optional lexicon file overrides valences of the built-in one.
type lexicon struct {
	path    string
	loaded  bool
	err     error
	sia     *govader.SentimentIntensityAnalyzer
	variant string
}

func (l *lexicon) load() (*govader.SentimentIntensityAnalyzer, string, error) {
	if l.loaded {
		return l.sia, l.variant, l.err
	}
	l.loaded = true
	l.sia = govader.NewSentimentIntensityAnalyzer()
	l.variant = ":vader"
	if len(l.path) == 0 {
		return l.sia, l.variant, nil
	}
	extra, err := LoadLexicon(l.path)
	if err != nil {
		l.sia = nil
		l.err = errors.Wrapf(feature.ErrPreprocessing, "sentiment lexicon %s: %v", l.path, err)
		return nil, "", l.err
	}
	for k, v := range extra {
		l.sia.Lexicon[k] = v
	}
	l.variant += ":" + fingerprint(extra)
	return l.sia, l.variant, nil
}

// fingerprint hashes the entries of a lexicon so that values cached under one
// lexicon are not served for another.
func fingerprint(valence map[string]float64) string {
	words := make([]string, 0, len(valence))
	for w := range valence {
		words = append(words, w)
	}
	sort.Strings(words)
	h := fnv.New64a()
	for _, w := range words {
		_, _ = h.Write([]byte(w + "\t" + strconv.FormatFloat(valence[w], 'g', -1, 64) + "\n"))
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// LoadLexicon reads a VADER-format lexicon: a token and its mean valence, tab separated,
// followed by any number of ignored fields.
func LoadLexicon(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	valence := make(map[string]float64)
	s := bufio.NewScanner(f)
	line := 0
	for s.Scan() {
		line++
		l := strings.TrimSpace(s.Text())
		if len(l) == 0 || strings.HasPrefix(l, "#") {
			continue
		}
		fields := strings.Split(l, "\t")
		if len(fields) < 2 {
			return nil, errors.Errorf("line %d: expected token and valence", line)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		valence[strings.ToLower(fields[0])] = v
	}
	return valence, s.Err()
}

// Polarity is the compound VADER score of a text.
func Polarity(sia *govader.SentimentIntensityAnalyzer, text string) float64 {
	return sia.PolarityScores(text).Compound
}

// Preprocess adds the sentiment column.
func (s *SentimentStrategy) Preprocess() (dataset.Table, error) {
	sia, variant, err := s.lexicon.load()
	if err != nil {
		return dataset.Table{}, err
	}
	s.variant = variant
	return s.apply(func(text string) (string, error) {
		return strconv.FormatFloat(Polarity(sia, text), 'f', 4, 64), nil
	})
}
