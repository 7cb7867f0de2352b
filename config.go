package sexism

import (
	"unicode/utf8"

	"github.com/hscells/sexism/cache"
	"github.com/hscells/sexism/feature"
	"github.com/hscells/sexism/learning"
	"github.com/hscells/sexism/preprocess"
	"github.com/magiconair/properties"
	"github.com/pkg/errors"
)

// Config is the settings of a dataset run, read from a properties file.
type Config struct {
	RawPath       string
	RawDelimiter  rune
	ProcessedPath string

	CachePath   string
	CacheMemory int

	SentimentLexicon string
	NGramOrder       int
	NGramStem        bool
	NGramStopwords   bool
	NGramPhrases     bool
	StripHTML        bool

	EmbeddingPath  string
	EmbeddingCache int

	ModelPenalty     string
	ModelC           float64
	ModelClassWeight string
	ModelMaxIter     int
	ModelBuckets     int
	TestRatio        float64
	Seed             int64

	HeadwayServer string
	HeadwaySecret string
	Progress      bool
}

// LoadConfig reads a properties file.
func LoadConfig(path string) (Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading config %s", path)
	}
	return newConfig(p)
}

// ParseConfig reads properties from a string.
func ParseConfig(s string) (Config, error) {
	p, err := properties.LoadString(s)
	if err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	return newConfig(p)
}

func newConfig(p *properties.Properties) (Config, error) {
	c := Config{
		RawPath:          p.GetString("raw.path", DefaultRawPath),
		RawDelimiter:     DefaultRawDelimiter,
		ProcessedPath:    p.GetString("processed.path", DefaultProcessedPath),
		CachePath:        p.GetString("cache.path", ""),
		CacheMemory:      p.GetInt("cache.memory", 0),
		SentimentLexicon: p.GetString("sentiment.lexicon", ""),
		NGramOrder:       p.GetInt("ngram.n", 2),
		NGramStem:        p.GetBool("ngram.stem", true),
		NGramStopwords:   p.GetBool("ngram.stopwords", true),
		NGramPhrases:     p.GetBool("ngram.phrases", false),
		StripHTML:        p.GetBool("text.strip_html", false),
		EmbeddingPath:    p.GetString("embedding.path", ""),
		EmbeddingCache:   p.GetInt("embedding.cache", preprocess.DefaultEmbeddingCacheSize),
		ModelPenalty:     p.GetString("model.penalty", learning.L2),
		ModelC:           p.GetFloat64("model.c", 1),
		ModelClassWeight: p.GetString("model.class_weight", ""),
		ModelMaxIter:     p.GetInt("model.max_iter", 100),
		ModelBuckets:     p.GetInt("model.buckets", learning.DefaultBuckets),
		TestRatio:        p.GetFloat64("model.test_ratio", 0.2),
		Seed:             p.GetInt64("model.seed", 1),
		HeadwayServer:    p.GetString("headway.server", ""),
		HeadwaySecret:    p.GetString("headway.secret", ""),
		Progress:         p.GetBool("progress", true),
	}

	if d, ok := p.Get("raw.delimiter"); ok {
		if utf8.RuneCountInString(d) != 1 {
			return Config{}, errors.Wrapf(ErrInvalidArgument, "raw.delimiter must be a single character, got %q", d)
		}
		c.RawDelimiter, _ = utf8.DecodeRuneInString(d)
	}
	if c.NGramOrder < 1 {
		return Config{}, errors.Wrapf(ErrInvalidArgument, "ngram.n must be at least 1, got %d", c.NGramOrder)
	}
	if c.TestRatio < 0 || c.TestRatio >= 1 {
		return Config{}, errors.Wrapf(ErrInvalidArgument, "model.test_ratio must be in [0, 1), got %v", c.TestRatio)
	}
	return c, nil
}

// Cache builds the feature cache, or nil when no cache is configured.
func (c Config) Cache() (cache.FeatureCacher, error) {
	var tiers []cache.FeatureCacher
	if c.CacheMemory > 0 {
		lru, err := cache.NewLRUFeatureCache(c.CacheMemory)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, lru)
	}
	if len(c.CachePath) > 0 {
		tiers = append(tiers, cache.NewFileFeatureCache(c.CachePath))
	}
	switch len(tiers) {
	case 0:
		return nil, nil
	case 1:
		return tiers[0], nil
	}
	return cache.NewTieredFeatureCache(tiers...), nil
}

// Strategies builds the feature registry.
func (c Config) Strategies() (feature.Registry, error) {
	fc, err := c.Cache()
	if err != nil {
		return nil, err
	}
	o := preprocess.DefaultOptions()
	o.Cache = fc
	o.Progress = c.Progress
	if c.StripHTML {
		o.TextProcessors = append([]preprocess.TextProcessor{preprocess.StripHTML}, preprocess.TweetProcessors...)
	}
	o.SentimentLexicon = c.SentimentLexicon
	o.NGramOrder = c.NGramOrder
	o.NGramStem = c.NGramStem
	o.NGramStopwords = c.NGramStopwords
	o.NGramPhrases = c.NGramPhrases
	o.EmbeddingPath = c.EmbeddingPath
	o.EmbeddingCacheSize = c.EmbeddingCache
	return preprocess.NewRegistry(o)
}

// MakeDataset builds a dataset maker from the configured paths and strategies.
func (c Config) MakeDataset() (*MakeDataset, error) {
	r, err := c.Strategies()
	if err != nil {
		return nil, err
	}
	return NewMakeDataset(
		RawPath(c.RawPath),
		ProcessedPath(c.ProcessedPath),
		Delimiter(c.RawDelimiter),
		WithRegistry(r),
	), nil
}

// Model builds the classifier.
func (c Config) Model() *learning.Logit {
	return learning.NewLogit(
		learning.LogitPenalty(c.ModelPenalty),
		learning.LogitC(c.ModelC),
		learning.LogitClassWeight(c.ModelClassWeight),
		learning.LogitMaxIter(c.ModelMaxIter),
	)
}

// Vectoriser builds the feature vectoriser.
func (c Config) Vectoriser() learning.Vectoriser {
	return learning.Vectoriser{Buckets: c.ModelBuckets}
}
