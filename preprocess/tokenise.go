package preprocess

import (
	"github.com/jdkato/prose/v2"
)

// tokens splits a text into words, optionally with part-of-speech tags.
func tokens(text string, tagging bool) ([]prose.Token, error) {
	doc, err := prose.NewDocument(text, prose.WithTagging(tagging), prose.WithExtraction(false), prose.WithSegmentation(false))
	if err != nil {
		return nil, err
	}
	return doc.Tokens(), nil
}

func words(text string) ([]string, error) {
	toks, err := tokens(text, false)
	if err != nil {
		return nil, err
	}
	w := make([]string, len(toks))
	for i, tok := range toks {
		w[i] = tok.Text
	}
	return w, nil
}
