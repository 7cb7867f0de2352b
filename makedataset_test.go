package sexism_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hscells/sexism"
	"github.com/hscells/sexism/dataset"
	"github.com/hscells/sexism/feature"
	"github.com/hscells/sexism/preprocess"
	"github.com/pkg/errors"
)

const raw = "_id\tdataset\tof_id\tsexist\ttext\ttoxicity\n" +
	"0\tbenevolent\t11\tFalse\tI love how kind people are\t0.1\n" +
	"1\tcallme\t12\tTrue\twomen should not be allowed to drive, terrible\t0.8\n" +
	"2\tscales\t13\tFalse\t@someone what a great day #sunny\t0.0\n"

func setup(t *testing.T) (*sexism.MakeDataset, string) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw", "all_data.csv")
	if err := os.MkdirAll(filepath.Dir(rawPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(rawPath, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := preprocess.NewRegistry(preprocess.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	processed := filepath.Join(dir, "processed")
	m := sexism.NewMakeDataset(
		sexism.RawPath(rawPath),
		sexism.ProcessedPath(processed),
		sexism.WithRegistry(r),
	)
	return m, processed
}

func TestMakeDatasetEndToEnd(t *testing.T) {
	m, processed := setup(t)

	tbl, err := m.ReadRaw()
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 raw rows, got %d", tbl.Len())
	}

	if err := m.Preprocess(tbl, feature.Sentiment, feature.NGram); err != nil {
		t.Fatal(err)
	}
	for _, tag := range []feature.Tag{feature.Sentiment, feature.NGram} {
		a, err := m.ReadByFeature(tag, false)
		if err != nil {
			t.Fatal(err)
		}
		if a.Len() != 3 || len(a.Columns) != 6 {
			t.Fatalf("expected 3x6 %s artifact, got %dx%d", tag, a.Len(), len(a.Columns))
		}
		if _, err := os.Stat(filepath.Join(processed, tag.FileName())); err != nil {
			t.Fatal(err)
		}
	}

	merged, err := m.Assemble(feature.Sentiment, feature.NGram)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"_id", "dataset", "of_id", "sexist", "text", "sentiment", "ngram"}
	if diff := cmp.Diff(want, merged.Columns); diff != "" {
		t.Fatal(diff)
	}
	if merged.Len() != 3 {
		t.Fatalf("expected 3 assembled rows, got %d", merged.Len())
	}
	ids, err := merged.Values(dataset.IDColumn)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"0", "1", "2"}, ids); diff != "" {
		t.Fatal(diff)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	m, _ := setup(t)
	tbl, err := dataset.NewTable(append(append([]string{}, dataset.BaseColumns...), "sentiment"),
		[]string{"0", "a", "1", "False", "hello, world", "0.5000"},
		[]string{"1", "b", "2", "True", "\"quoted\"", "-0.1000"},
	)
	if err != nil {
		t.Fatal(err)
	}
	p, err := m.Save(tbl, feature.Sentiment)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(p) != "preprocessed_data_sentiment.csv" {
		t.Fatalf("unexpected artifact path %s", p)
	}
	got, err := m.ReadByFeature(feature.Sentiment, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tbl, got); diff != "" {
		t.Fatal(diff)
	}

	column, err := m.ReadByFeature(feature.Sentiment, true)
	if err != nil {
		t.Fatal(err)
	}
	want := dataset.Table{Columns: []string{"sentiment"}, Rows: [][]string{{"0.5000"}, {"-0.1000"}}}
	if diff := cmp.Diff(want, column); diff != "" {
		t.Fatal(diff)
	}
}

func TestAssembleInvalid(t *testing.T) {
	m, _ := setup(t)
	if _, err := m.Assemble(); !errors.Is(err, sexism.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	tbl, err := m.ReadRaw()
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Preprocess(tbl, feature.Sentiment); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Assemble(feature.Sentiment, feature.Sentiment); !errors.Is(err, sexism.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if _, err := m.Assemble(feature.Sentiment, feature.NGram); !errors.Is(err, dataset.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssembleMisaligned(t *testing.T) {
	m, _ := setup(t)
	columns := func(tag feature.Tag) []string {
		return append(append([]string{}, dataset.BaseColumns...), tag.String())
	}
	save := func(tag feature.Tag, rows ...[]string) {
		tbl, err := dataset.NewTable(columns(tag), rows...)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.Save(tbl, tag); err != nil {
			t.Fatal(err)
		}
	}

	save(feature.Sentiment,
		[]string{"0", "a", "1", "False", "x", "0.1"},
		[]string{"1", "a", "2", "True", "y", "0.2"},
	)
	save(feature.NGram,
		[]string{"1", "a", "2", "True", "y", "y"},
		[]string{"0", "a", "1", "False", "x", "x"},
	)
	if _, err := m.Assemble(feature.Sentiment, feature.NGram); !errors.Is(err, dataset.ErrMisaligned) {
		t.Fatalf("expected misaligned ids, got %v", err)
	}

	m.VerifyAlignment = false
	if _, err := m.Assemble(feature.Sentiment, feature.NGram); err != nil {
		t.Fatalf("expected positional merge without verification, got %v", err)
	}

	save(feature.TypeDependency,
		[]string{"0", "a", "1", "False", "x", "nsubj(a,b)"},
	)
	if _, err := m.Assemble(feature.Sentiment, feature.TypeDependency); !errors.Is(err, dataset.ErrMisaligned) {
		t.Fatalf("expected misaligned row counts, got %v", err)
	}
}

func TestPreprocessAborts(t *testing.T) {
	m, processed := setup(t)
	tbl, err := m.ReadRaw()
	if err != nil {
		t.Fatal(err)
	}
	// No embedding model is configured.
	err = m.Preprocess(tbl, feature.Sentiment, feature.BertDocEmb, feature.NGram)
	if !errors.Is(err, feature.ErrPreprocessing) {
		t.Fatalf("expected preprocessing error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(processed, feature.Sentiment.FileName())); err != nil {
		t.Fatalf("artifact written before the failure should be kept: %v", err)
	}
	if _, err := os.Stat(filepath.Join(processed, feature.NGram.FileName())); !os.IsNotExist(err) {
		t.Fatalf("no artifact should be written after the failure, got %v", err)
	}
}

func TestPreprocessFeatureKeepsStrategyError(t *testing.T) {
	m, processed := setup(t)
	tbl, err := m.ReadRaw()
	if err != nil {
		t.Fatal(err)
	}
	_, err = m.PreprocessFeature(tbl, feature.BertDocEmb)
	if err == nil {
		t.Fatal("expected an error without an embedding model")
	}
	want := "no embedding model configured: " + feature.ErrPreprocessing.Error()
	if diff := cmp.Diff(want, err.Error()); diff != "" {
		t.Fatal(diff)
	}
	if errors.Cause(err) != feature.ErrPreprocessing {
		t.Fatalf("expected the preprocessing sentinel as cause, got %v", errors.Cause(err))
	}
	if _, err := os.Stat(filepath.Join(processed, feature.BertDocEmb.FileName())); !os.IsNotExist(err) {
		t.Fatalf("no artifact should be written for a failed feature, got %v", err)
	}
}

func TestPreprocessUnknownFeature(t *testing.T) {
	m, _ := setup(t)
	tbl, err := m.ReadRaw()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.PreprocessFeature(tbl, feature.Tag("tfidf")); !errors.Is(err, feature.ErrUnknownFeature) {
		t.Fatalf("expected unknown feature, got %v", err)
	}
}

func TestReadRawMissing(t *testing.T) {
	m := sexism.NewMakeDataset(sexism.RawPath(filepath.Join(t.TempDir(), "missing.csv")))
	if _, err := m.ReadRaw(); !errors.Is(err, dataset.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
