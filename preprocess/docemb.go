package preprocess

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/golang-lru"
	"github.com/hscells/sexism/dataset"
	"github.com/hscells/sexism/feature"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// DefaultEmbeddingCacheSize is the number of parsed word vectors kept in memory.
const DefaultEmbeddingCacheSize = 4096

// Embeddings are pretrained word vectors read from a GloVe or word2vec text file.
// Vectors are kept as text and parsed on first use.
type Embeddings struct {
	Dim    int
	raw    map[string]string
	parsed *lru.Cache
}

// LoadEmbeddings reads a word vector file, one word and its components per line. A
// word2vec "count dim" header line is skipped.
func LoadEmbeddings(path string, cacheSize int) (*Embeddings, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultEmbeddingCacheSize
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	e := &Embeddings{raw: make(map[string]string), parsed: c}

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for s.Scan() {
		line++
		l := strings.TrimSpace(s.Text())
		if len(l) == 0 {
			continue
		}
		fields := strings.Fields(l)
		if line == 1 && len(fields) == 2 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				continue
			}
		}
		if len(fields) < 2 {
			return nil, errors.Errorf("line %d: no vector for %q", line, fields[0])
		}
		if e.Dim == 0 {
			e.Dim = len(fields) - 1
		} else if len(fields)-1 != e.Dim {
			return nil, errors.Errorf("line %d: %d components, expected %d", line, len(fields)-1, e.Dim)
		}
		e.raw[fields[0]] = strings.Join(fields[1:], " ")
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if e.Dim == 0 {
		return nil, errors.New("no vectors")
	}
	return e, nil
}

// Vector looks up the vector of a word.
func (e *Embeddings) Vector(word string) ([]float64, bool, error) {
	if v, ok := e.parsed.Get(word); ok {
		return v.([]float64), true, nil
	}
	r, ok := e.raw[word]
	if !ok {
		return nil, false, nil
	}
	fields := strings.Fields(r)
	v := make([]float64, len(fields))
	for i, x := range fields {
		var err error
		v[i], err = strconv.ParseFloat(x, 64)
		if err != nil {
			return nil, false, errors.Wrapf(err, "vector of %q", word)
		}
	}
	e.parsed.Add(word, v)
	return v, true, nil
}

// Document averages the vectors of the words that have one. A text with no known
// words embeds as the zero vector.
func (e *Embeddings) Document(words []string) ([]float64, error) {
	sum := make([]float64, e.Dim)
	var n float64
	for _, w := range words {
		v, ok, err := e.Vector(strings.ToLower(w))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		floats.Add(sum, v)
		n++
	}
	if n > 0 {
		floats.Scale(1/n, sum)
	}
	return sum, nil
}

// embeddingSource loads embeddings once and shares them between strategies.
type embeddingSource struct {
	path      string
	cacheSize int
	loaded    bool
	e         *Embeddings
	err       error
	// variant identifies the loaded file by path, size and modification time.
	variant string
}

func (s *embeddingSource) load() (*Embeddings, error) {
	if s.loaded {
		return s.e, s.err
	}
	s.loaded = true
	if len(s.path) == 0 {
		s.err = errors.Wrap(feature.ErrPreprocessing, "no embedding model configured")
		return nil, s.err
	}
	fi, err := os.Stat(s.path)
	if err != nil {
		s.err = errors.Wrapf(feature.ErrPreprocessing, "embedding model %s: %v", s.path, err)
		return nil, s.err
	}
	s.e, s.err = LoadEmbeddings(s.path, s.cacheSize)
	if s.err != nil {
		s.err = errors.Wrapf(feature.ErrPreprocessing, "embedding model %s: %v", s.path, s.err)
		return nil, s.err
	}
	s.variant = ":" + s.path + ":" + strconv.FormatInt(fi.Size(), 10) + ":" + strconv.FormatInt(fi.ModTime().UnixNano(), 10)
	return s.e, nil
}

// BertDocEmbStrategy embeds each text as the mean of its pretrained word vectors.
type BertDocEmbStrategy struct {
	rowStrategy
	source *embeddingSource
}

// Preprocess adds the bert_doc_emb column.
func (s *BertDocEmbStrategy) Preprocess() (dataset.Table, error) {
	e, err := s.source.load()
	if err != nil {
		return dataset.Table{}, err
	}
	s.variant = s.source.variant
	return s.apply(func(text string) (string, error) {
		w, err := words(text)
		if err != nil {
			return "", err
		}
		v, err := e.Document(w)
		if err != nil {
			return "", err
		}
		c := make([]string, len(v))
		for i, x := range v {
			c[i] = strconv.FormatFloat(x, 'f', 6, 64)
		}
		return strings.Join(c, " "), nil
	})
}
