package preprocess

import (
	"strconv"
	"strings"
	"unicode"

	rake "github.com/afjoseph/RAKE.Go"
	"github.com/bbalet/stopwords"
	"github.com/hscells/sexism/dataset"
	"github.com/reiver/go-porterstemmer"
)

// NGramStrategy represents each text as its word n-grams of order 1 up to N.
type NGramStrategy struct {
	rowStrategy
	// N is the highest order of n-gram.
	N int
	// Stem reduces each word to its Porter stem.
	Stem bool
	// Stopwords removes English stopwords before n-grams are formed.
	Stopwords bool
	// Phrases appends RAKE key phrases.
	Phrases bool
}

// ngram joins each run of n consecutive words.
func ngram(text []string, n int) (grams []string) {
	var curr []string
	var j int
	for j <= len(text)-n {
		for i := j; i < j+n; i++ {
			curr = append(curr, text[i])
		}
		grams = append(grams, strings.Join(curr, "_"))
		curr = []string{}
		j++
	}
	return
}

func isWord(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// Grams computes the n-grams of a cleaned text.
func (s *NGramStrategy) Grams(text string) ([]string, error) {
	text = strings.ToLower(text)
	body := text
	if s.Stopwords {
		body = stopwords.CleanString(body, "en", false)
	}

	toks, err := words(body)
	if err != nil {
		return nil, err
	}
	var w []string
	for _, tok := range toks {
		if !isWord(tok) {
			continue
		}
		if s.Stem {
			tok = porterstemmer.StemString(tok)
		}
		w = append(w, tok)
	}

	var grams []string
	for n := 1; n <= s.N; n++ {
		grams = append(grams, ngram(w, n)...)
	}

	if s.Phrases {
		for _, candidate := range rake.RunRake(text) {
			p := strings.Fields(candidate.Key)
			if len(p) > 1 {
				grams = append(grams, strings.Join(p, "_"))
			}
		}
	}
	return grams, nil
}

// Preprocess adds the ngram column.
func (s *NGramStrategy) Preprocess() (dataset.Table, error) {
	if s.N < 1 {
		s.N = 1
	}
	s.variant = ":" + strconv.Itoa(s.N) + strconv.FormatBool(s.Stem) + strconv.FormatBool(s.Stopwords) + strconv.FormatBool(s.Phrases)
	return s.apply(func(text string) (string, error) {
		g, err := s.Grams(text)
		if err != nil {
			return "", err
		}
		return strings.Join(g, " "), nil
	})
}
