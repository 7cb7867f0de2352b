package preprocess

import (
	"sort"
	"strings"

	"github.com/hscells/sexism/dataset"
	"github.com/jdkato/prose/v2"
	"github.com/xtgo/set"
)

// Arc is a labelled dependency between a head word and its modifier.
type Arc struct {
	Relation string
	Head     string
	Modifier string
}

func (a Arc) String() string {
	return a.Relation + "(" + a.Head + "," + a.Modifier + ")"
}

// TypeDependencyStrategy represents each text by the typed dependencies between its
// words, attached with part-of-speech rules.
type TypeDependencyStrategy struct {
	rowStrategy
}

func tagIs(tag string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(tag, p) {
			return true
		}
	}
	return false
}

func isNoun(tag string) bool { return tagIs(tag, "NN") }
func isVerb(tag string) bool { return tagIs(tag, "VB") }
func isAdj(tag string) bool  { return tagIs(tag, "JJ") }
func isNominal(tag string) bool {
	return isNoun(tag) || tag == "PRP"
}

// nounPhrase reports whether a tag may appear inside a noun phrase before its head.
func nounPhrase(tag string) bool {
	return isNoun(tag) || isAdj(tag) || tagIs(tag, "DT", "PDT", "PRP$", "CD", "POS")
}

var negationWords = map[string]struct{}{"not": {}, "n't": {}, "never": {}, "no": {}}

// Dependencies attaches every word of a tagged sentence to a head.
func Dependencies(toks []prose.Token) []Arc {
	var t []prose.Token
	for _, tok := range toks {
		if isWord(tok.Text) {
			tok.Text = strings.ToLower(tok.Text)
			t = append(t, tok)
		}
	}

	next := func(i, window int, pred func(string) bool) int {
		for j := i + 1; j < len(t) && (window <= 0 || j <= i+window); j++ {
			if pred(t[j].Tag) {
				return j
			}
		}
		return -1
	}
	prev := func(i int, pred func(string) bool) int {
		for j := i - 1; j >= 0; j-- {
			if pred(t[j].Tag) {
				return j
			}
		}
		return -1
	}
	// head of the noun phrase starting at i.
	npHead := func(i int) int {
		if i >= len(t) {
			return -1
		}
		if t[i].Tag == "PRP" {
			return i
		}
		h := -1
		for j := i; j < len(t) && nounPhrase(t[j].Tag); j++ {
			if isNoun(t[j].Tag) {
				h = j
			}
		}
		return h
	}
	// whether the noun phrase containing i is the object of a preposition.
	governed := func(i int) bool {
		for j := i - 1; j >= 0; j-- {
			if nounPhrase(t[j].Tag) {
				continue
			}
			return tagIs(t[j].Tag, "IN", "TO")
		}
		return false
	}

	var arcs []Arc
	add := func(rel string, head, mod int) {
		if head >= 0 && mod >= 0 && head != mod {
			arcs = append(arcs, Arc{Relation: rel, Head: t[head].Text, Modifier: t[mod].Text})
		}
	}

	for i, tok := range t {
		tag := tok.Tag
		switch {
		case tagIs(tag, "PRP$", "WP$"):
			add("poss", next(i, 3, isNoun), i)
		case tagIs(tag, "DT", "PDT", "WDT"):
			if _, ok := negationWords[tok.Text]; ok {
				add("neg", next(i, 3, isNoun), i)
			} else {
				add("det", next(i, 3, isNoun), i)
			}
		case isAdj(tag):
			if j := next(i, 2, isNoun); j >= 0 {
				add("amod", j, i)
			} else {
				add("acomp", prev(i, isVerb), i)
			}
		case isNominal(tag):
			if isNoun(tag) && i+1 < len(t) && isNoun(t[i+1].Tag) {
				add("compound", npHead(i+1), i)
				continue
			}
			if governed(i) {
				continue
			}
			if v := prev(i, isVerb); v >= 0 {
				add("dobj", v, i)
			} else {
				add("nsubj", next(i, 0, isVerb), i)
			}
		case tagIs(tag, "RB"):
			if _, ok := negationWords[tok.Text]; ok {
				h := prev(i, isVerb)
				if h < 0 {
					h = next(i, 0, func(s string) bool { return isVerb(s) || isAdj(s) })
				}
				add("neg", h, i)
			} else if h := next(i, 2, func(s string) bool { return isVerb(s) || isAdj(s) }); h >= 0 {
				add("advmod", h, i)
			} else {
				add("advmod", prev(i, isVerb), i)
			}
		case tag == "MD":
			add("aux", next(i, 3, isVerb), i)
		case tag == "CC":
			add("cc", prev(i, func(s string) bool { return isNominal(s) || isVerb(s) || isAdj(s) }), i)
		case tagIs(tag, "IN", "TO"):
			add("prep", prev(i, func(s string) bool { return isNominal(s) || isVerb(s) }), i)
			add("pobj", i, npHead(i+1))
		}
	}
	return arcs
}

// Preprocess adds the type_dependency column.
func (s *TypeDependencyStrategy) Preprocess() (dataset.Table, error) {
	return s.apply(func(text string) (string, error) {
		toks, err := tokens(text, true)
		if err != nil {
			return "", err
		}
		arcs := Dependencies(toks)
		deps := make([]string, len(arcs))
		for i, a := range arcs {
			deps[i] = a.String()
		}
		sort.Strings(deps)
		n := set.Uniq(sort.StringSlice(deps))
		return strings.Join(deps[:n], " "), nil
	})
}
