// Package cache stores feature values computed for individual texts so that
// repeated preprocessing runs do not recompute them.
package cache

import (
	"errors"
	"hash/fnv"
	"strconv"

	"github.com/hashicorp/golang-lru"
	"github.com/peterbourgon/diskv"
)

var ErrCacheMiss = errors.New("cache miss error")

// BlockTransform determines how diskv should partition folders.
func BlockTransform(blockSize int) func(string) []string {
	return func(s string) []string {
		var (
			sliceSize = len(s) / blockSize
			pathSlice = make([]string, sliceSize)
		)
		for i := 0; i < sliceSize; i++ {
			from, to := i*blockSize, (i*blockSize)+blockSize
			pathSlice[i] = s[from:to]
		}
		return pathSlice
	}
}

// Key hashes a feature name and the text it was computed from.
func Key(feature, text string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(text))
	return strconv.FormatUint(h.Sum64(), 16)
}

// FeatureCacher models a way to cache (either persistent or not) the value of a feature for a text.
type FeatureCacher interface {
	Get(feature, text string) (string, error)
	Set(feature, text, value string) error
}

// FeatureCache embeds a privately defined feature cacher into a public struct.
type FeatureCache struct {
	FeatureCacher
}

type mapFeatureCache struct {
	m map[string]string
}

func (m mapFeatureCache) Get(feature, text string) (string, error) {
	if v, ok := m.m[Key(feature, text)]; ok {
		return v, nil
	}
	return "", ErrCacheMiss
}

func (m mapFeatureCache) Set(feature, text, value string) error {
	m.m[Key(feature, text)] = value
	return nil
}

// NewMapFeatureCache creates a feature cache out of a regular go map.
func NewMapFeatureCache() FeatureCache {
	return FeatureCache{mapFeatureCache{make(map[string]string)}}
}

type lruFeatureCache struct {
	*lru.Cache
}

func (c lruFeatureCache) Get(feature, text string) (string, error) {
	if v, ok := c.Cache.Get(Key(feature, text)); ok {
		return v.(string), nil
	}
	return "", ErrCacheMiss
}

func (c lruFeatureCache) Set(feature, text, value string) error {
	c.Cache.Add(Key(feature, text), value)
	return nil
}

// NewLRUFeatureCache creates an in-memory cache holding at most size values.
func NewLRUFeatureCache(size int) (FeatureCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return FeatureCache{}, err
	}
	return FeatureCache{lruFeatureCache{c}}, nil
}

type diskvFeatureCache struct {
	*diskv.Diskv
}

func (d diskvFeatureCache) Get(feature, text string) (string, error) {
	b, err := d.Read(Key(feature, text))
	if err != nil {
		return "", ErrCacheMiss
	}
	return string(b), nil
}

func (d diskvFeatureCache) Set(feature, text, value string) error {
	return d.Write(Key(feature, text), []byte(value))
}

// NewDiskvFeatureCache creates a new on-disk cache with the specified diskv parameters.
func NewDiskvFeatureCache(dv *diskv.Diskv) FeatureCache {
	return FeatureCache{diskvFeatureCache{dv}}
}

// NewFileFeatureCache creates an on-disk cache rooted at path.
func NewFileFeatureCache(path string) FeatureCache {
	return NewDiskvFeatureCache(diskv.New(diskv.Options{
		BasePath:     path,
		Transform:    BlockTransform(4),
		CacheSizeMax: 4096 * 1024,
		Compression:  diskv.NewGzipCompression(),
	}))
}

type tieredFeatureCache []FeatureCacher

func (t tieredFeatureCache) Get(feature, text string) (string, error) {
	for i, c := range t {
		v, err := c.Get(feature, text)
		if err == ErrCacheMiss {
			continue
		} else if err != nil {
			return "", err
		}
		// Promote into the faster tiers.
		for j := 0; j < i; j++ {
			if err := t[j].Set(feature, text, v); err != nil {
				return "", err
			}
		}
		return v, nil
	}
	return "", ErrCacheMiss
}

func (t tieredFeatureCache) Set(feature, text, value string) error {
	for _, c := range t {
		if err := c.Set(feature, text, value); err != nil {
			return err
		}
	}
	return nil
}

// NewTieredFeatureCache consults each cache in order, fastest first.
func NewTieredFeatureCache(caches ...FeatureCacher) FeatureCache {
	return FeatureCache{tieredFeatureCache(caches)}
}
