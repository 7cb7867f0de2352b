package preprocess_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hscells/sexism/cache"
	"github.com/hscells/sexism/dataset"
	"github.com/hscells/sexism/feature"
	"github.com/hscells/sexism/preprocess"
	"github.com/jdkato/prose/v2"
	"github.com/jonreiter/govader"
	"github.com/pkg/errors"
)

func raw(t *testing.T) dataset.Table {
	tbl, err := dataset.NewTable(append(append([]string{}, dataset.BaseColumns...), "toxicity"),
		[]string{"0", "benevolent", "10", "False", "I love my sister, she is great", "0.1"},
		[]string{"1", "callme", "11", "True", "women are so stupid", "0.9"},
		[]string{"2", "hostile", "12", "True", "@bob she belongs in the kitchen #truth", "0.7"},
	)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func registry(t *testing.T, o preprocess.Options) feature.Registry {
	r, err := preprocess.NewRegistry(o)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func run(t *testing.T, r feature.Registry, tag feature.Tag, data dataset.Table) dataset.Table {
	s, err := r.Resolve(tag)
	if err != nil {
		t.Fatal(err)
	}
	if s.Tag() != tag {
		t.Fatalf("expected a %s strategy, got %s", tag, s.Tag())
	}
	s.SetData(data)
	out, err := s.Preprocess()
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestFeatureTableShape(t *testing.T) {
	r := registry(t, preprocess.DefaultOptions())
	for _, tag := range []feature.Tag{feature.Sentiment, feature.NGram, feature.TypeDependency} {
		t.Run(tag.String(), func(t *testing.T) {
			data := raw(t)
			before := data.Clone()
			out := run(t, r, tag, data)

			want := append(append([]string{}, dataset.BaseColumns...), tag.String())
			if diff := cmp.Diff(want, out.Columns); diff != "" {
				t.Fatal(diff)
			}
			if out.Len() != data.Len() {
				t.Fatalf("expected %d rows, got %d", data.Len(), out.Len())
			}
			for i := range out.Rows {
				if out.Rows[i][0] != data.Rows[i][0] || out.Rows[i][4] != data.Rows[i][4] {
					t.Fatalf("row %d is out of order", i)
				}
			}
			if !data.Equal(before) {
				t.Fatal("raw table was modified")
			}
		})
	}
}

func TestMalformedInput(t *testing.T) {
	r := registry(t, preprocess.DefaultOptions())
	s, err := r.Resolve(feature.Sentiment)
	if err != nil {
		t.Fatal(err)
	}
	s.SetData(dataset.Table{Columns: []string{dataset.IDColumn, dataset.TextColumn}, Rows: [][]string{{"0", "hello"}}})
	if _, err := s.Preprocess(); !errors.Is(err, dataset.ErrMalformedInput) {
		t.Fatalf("expected malformed input, got %v", err)
	}
}

func TestPolarity(t *testing.T) {
	sia := govader.NewSentimentIntensityAnalyzer()
	positive := preprocess.Polarity(sia, "I love this")
	if positive <= 0 || positive > 1 {
		t.Fatalf("expected a positive score, got %v", positive)
	}
	if v := preprocess.Polarity(sia, "I don't love this"); v >= 0 {
		t.Fatalf("expected negation to flip the score, got %v", v)
	}
	if v := preprocess.Polarity(sia, "I really love this"); v <= positive {
		t.Fatalf("expected a booster to strengthen the score, got %v <= %v", v, positive)
	}
	if v := preprocess.Polarity(sia, "I love this!!"); v <= positive {
		t.Fatalf("expected exclamation to strengthen the score, got %v <= %v", v, positive)
	}
	if v := preprocess.Polarity(sia, "she is incompetent and shrill"); v >= 0 {
		t.Fatalf("expected a negative score, got %v", v)
	}
	if v := preprocess.Polarity(sia, ""); v != 0 {
		t.Fatalf("expected zero for no text, got %v", v)
	}
}

func TestSentimentScores(t *testing.T) {
	r := registry(t, preprocess.DefaultOptions())
	out := run(t, r, feature.Sentiment, raw(t))
	v, err := out.Values(feature.Sentiment.String())
	if err != nil {
		t.Fatal(err)
	}
	if !(strings.HasPrefix(v[1], "-")) || strings.HasPrefix(v[0], "-") {
		t.Fatalf("unexpected polarities %v", v)
	}
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vader_lexicon.txt")
	if err := os.WriteFile(path, []byte("feminazi\t-2.9\t0.7\t[-3, -3]\n# comment\n\nqueen\t2.2\t0.6\t[2, 3]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	lex, err := preprocess.LoadLexicon(path)
	if err != nil {
		t.Fatal(err)
	}
	if lex["feminazi"] != -2.9 || lex["queen"] != 2.2 || len(lex) != 2 {
		t.Fatalf("unexpected lexicon %v", lex)
	}

	o := preprocess.DefaultOptions()
	o.SentimentLexicon = filepath.Join(t.TempDir(), "missing.txt")
	s, err := registry(t, o).Resolve(feature.Sentiment)
	if err != nil {
		t.Fatal(err)
	}
	s.SetData(raw(t))
	if _, err := s.Preprocess(); !errors.Is(err, feature.ErrPreprocessing) {
		t.Fatalf("expected a preprocessing error, got %v", err)
	}
}

func TestCachedValues(t *testing.T) {
	c := cache.NewMapFeatureCache()
	if err := c.Set("sentiment:vader", "women are so stupid", "0.1234"); err != nil {
		t.Fatal(err)
	}
	o := preprocess.DefaultOptions()
	o.Cache = c
	out := run(t, registry(t, o), feature.Sentiment, raw(t))
	if out.Rows[1][5] != "0.1234" {
		t.Fatalf("expected the cached value, got %q", out.Rows[1][5])
	}
	// Computed values are stored.
	if _, err := c.Get("sentiment:vader", "I love my sister, she is great"); err != nil {
		t.Fatal(err)
	}
}

func TestCachedSentimentFollowsLexicon(t *testing.T) {
	c := cache.NewFileFeatureCache(t.TempDir())
	o := preprocess.DefaultOptions()
	o.Cache = c
	before := run(t, registry(t, o), feature.Sentiment, raw(t))
	if strings.HasPrefix(before.Rows[0][5], "-") {
		t.Fatalf("expected a positive score with the built-in lexicon, got %q", before.Rows[0][5])
	}

	path := filepath.Join(t.TempDir(), "vader_lexicon.txt")
	if err := os.WriteFile(path, []byte("love\t-4\ngreat\t-4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	o.SentimentLexicon = path
	after := run(t, registry(t, o), feature.Sentiment, raw(t))
	if !strings.HasPrefix(after.Rows[0][5], "-") {
		t.Fatalf("expected the new lexicon to be used rather than the cached value, got %q", after.Rows[0][5])
	}

	o.Cache = nil
	fresh := run(t, registry(t, o), feature.Sentiment, raw(t))
	if diff := cmp.Diff(fresh, after); diff != "" {
		t.Fatal(diff)
	}
}

func TestGrams(t *testing.T) {
	s := &preprocess.NGramStrategy{N: 2}
	g, err := s.Grams("Women are great")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"women", "are", "great", "women_are", "are_great"}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Fatal(diff)
	}

	s = &preprocess.NGramStrategy{N: 1, Stopwords: true}
	g, err = s.Grams("the women are in the kitchen")
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range g {
		if w == "the" || w == "in" {
			t.Fatalf("stopword %q was kept in %v", w, g)
		}
	}

	s = &preprocess.NGramStrategy{N: 1, Phrases: true}
	g, err = s.Grams("women deserve equal pay")
	if err != nil {
		t.Fatal(err)
	}
	if len(g) < 4 || g[0] != "women" {
		t.Fatalf("unexpected grams %v", g)
	}
}

func TestDependencies(t *testing.T) {
	toks := []prose.Token{
		{Text: "The", Tag: "DT"},
		{Text: "stupid", Tag: "JJ"},
		{Text: "woman", Tag: "NN"},
		{Text: "can", Tag: "MD"},
		{Text: "not", Tag: "RB"},
		{Text: "drive", Tag: "VB"},
		{Text: ".", Tag: "."},
	}
	var got []string
	for _, a := range preprocess.Dependencies(toks) {
		got = append(got, a.String())
	}
	want := []string{"det(woman,the)", "amod(woman,stupid)", "nsubj(drive,woman)", "aux(drive,can)", "neg(drive,not)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}

	toks = []prose.Token{
		{Text: "she", Tag: "PRP"},
		{Text: "belongs", Tag: "VBZ"},
		{Text: "in", Tag: "IN"},
		{Text: "the", Tag: "DT"},
		{Text: "kitchen", Tag: "NN"},
	}
	got = nil
	for _, a := range preprocess.Dependencies(toks) {
		got = append(got, a.String())
	}
	want = []string{"nsubj(belongs,she)", "prep(belongs,in)", "pobj(in,kitchen)", "det(kitchen,the)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func writeEmbeddings(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "vectors.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddings(t *testing.T) {
	e, err := preprocess.LoadEmbeddings(writeEmbeddings(t, "2 2\nwomen 1 0\ngreat 0 1\n"), 2)
	if err != nil {
		t.Fatal(err)
	}
	if e.Dim != 2 {
		t.Fatalf("expected 2 dimensions, got %d", e.Dim)
	}
	v, err := e.Document([]string{"Women", "great", "unknown"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0.5, 0.5}, v); diff != "" {
		t.Fatal(diff)
	}
	v, err = e.Document([]string{"unknown"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0, 0}, v); diff != "" {
		t.Fatal(diff)
	}

	if _, err := preprocess.LoadEmbeddings(writeEmbeddings(t, "women 1 0\ngreat 1\n"), 2); err == nil {
		t.Fatal("expected an error for ragged vectors")
	}
}

func TestBertDocEmb(t *testing.T) {
	o := preprocess.DefaultOptions()
	o.EmbeddingPath = writeEmbeddings(t, "women 1 0\ngreat 0 1\nstupid -1 0\n")
	data, err := dataset.NewTable(dataset.BaseColumns,
		[]string{"0", "a", "1", "False", "Women great"},
		[]string{"1", "a", "2", "True", "nothing known"},
	)
	if err != nil {
		t.Fatal(err)
	}
	out := run(t, registry(t, o), feature.BertDocEmb, data)
	v, err := out.Values(feature.BertDocEmb.String())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"0.500000 0.500000", "0.000000 0.000000"}, v); diff != "" {
		t.Fatal(diff)
	}

	s, err := registry(t, preprocess.DefaultOptions()).Resolve(feature.BertDocEmb)
	if err != nil {
		t.Fatal(err)
	}
	s.SetData(data)
	if _, err := s.Preprocess(); !errors.Is(err, feature.ErrPreprocessing) {
		t.Fatalf("expected a preprocessing error, got %v", err)
	}
}

func TestCachedEmbeddingsFollowModelFile(t *testing.T) {
	data, err := dataset.NewTable(dataset.BaseColumns,
		[]string{"0", "a", "1", "False", "Women great"},
	)
	if err != nil {
		t.Fatal(err)
	}
	o := preprocess.DefaultOptions()
	o.Cache = cache.NewFileFeatureCache(t.TempDir())
	o.EmbeddingPath = writeEmbeddings(t, "women 1 0\ngreat 0 1\n")
	before := run(t, registry(t, o), feature.BertDocEmb, data)
	if diff := cmp.Diff("0.500000 0.500000", before.Rows[0][5]); diff != "" {
		t.Fatal(diff)
	}

	if err := os.WriteFile(o.EmbeddingPath, []byte("women -1 0\ngreat -1 0\nstupid 0 -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	after := run(t, registry(t, o), feature.BertDocEmb, data)
	if diff := cmp.Diff("-1.000000 0.000000", after.Rows[0][5]); diff != "" {
		t.Fatal(diff)
	}
}
