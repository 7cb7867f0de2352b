package preprocess

import (
	"github.com/hscells/sexism/cache"
	"github.com/hscells/sexism/feature"
)

// Options configure the strategies of a registry.
type Options struct {
	// Cache, when set, stores every computed feature value.
	Cache cache.FeatureCacher
	// Progress shows a progress bar while rows are processed.
	Progress bool
	// TextProcessors clean texts before any feature is computed. Nil means TweetProcessors.
	TextProcessors []TextProcessor

	// SentimentLexicon is an optional VADER-format lexicon extending the built-in one.
	SentimentLexicon string

	NGramOrder     int
	NGramStem      bool
	NGramStopwords bool
	NGramPhrases   bool

	// EmbeddingPath is the word vector file used for document embeddings.
	EmbeddingPath      string
	EmbeddingCacheSize int
}

// DefaultOptions are the settings used when nothing else is configured.
func DefaultOptions() Options {
	return Options{
		NGramOrder:         2,
		NGramStem:          true,
		NGramStopwords:     true,
		EmbeddingCacheSize: DefaultEmbeddingCacheSize,
	}
}

// NewRegistry builds the strategy registry. Resources such as the lexicon and the
// embedding model are loaded on first use and shared by the strategies it creates.
func NewRegistry(o Options) (feature.Registry, error) {
	processors := o.TextProcessors
	if processors == nil {
		processors = TweetProcessors
	}
	// Bag-of-words features ignore accents and case.
	folded := append(append([]TextProcessor{}, processors...), Unidecode, Lowercase)

	base := func(tag feature.Tag, p []TextProcessor) rowStrategy {
		return rowStrategy{
			tag:        tag,
			processors: p,
			cache:      o.Cache,
			progress:   o.Progress,
		}
	}

	lex := &lexicon{path: o.SentimentLexicon}
	emb := &embeddingSource{path: o.EmbeddingPath, cacheSize: o.EmbeddingCacheSize}

	r := feature.Registry{
		feature.Sentiment: func() feature.Strategy {
			return &SentimentStrategy{rowStrategy: base(feature.Sentiment, processors), lexicon: lex}
		},
		feature.NGram: func() feature.Strategy {
			return &NGramStrategy{
				rowStrategy: base(feature.NGram, folded),
				N:           o.NGramOrder,
				Stem:        o.NGramStem,
				Stopwords:   o.NGramStopwords,
				Phrases:     o.NGramPhrases,
			}
		},
		feature.TypeDependency: func() feature.Strategy {
			return &TypeDependencyStrategy{rowStrategy: base(feature.TypeDependency, append(append([]TextProcessor{}, processors...), Unidecode))}
		},
		feature.BertDocEmb: func() feature.Strategy {
			return &BertDocEmbStrategy{rowStrategy: base(feature.BertDocEmb, folded), source: emb}
		},
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
