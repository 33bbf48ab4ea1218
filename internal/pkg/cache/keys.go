package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// CacheKeyBuilder helps build consistent cache keys
type CacheKeyBuilder struct {
	components []map[string]interface{}
	logger     *zap.Logger
	fold       cases.Caser
}

// NewCacheKeyBuilder creates a new cache key builder
func NewCacheKeyBuilder(logger *zap.Logger) *CacheKeyBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheKeyBuilder{
		components: make([]map[string]interface{}, 0, 8),
		logger:     logger,
		fold:       cases.Fold(),
	}
}

// Add adds a component to the cache key
func (b *CacheKeyBuilder) Add(key string, value interface{}) *CacheKeyBuilder {
	b.components = append(b.components, map[string]interface{}{key: value})
	return b
}

// AddText adds a case-folded, trimmed text component.
func (b *CacheKeyBuilder) AddText(key, value string) *CacheKeyBuilder {
	return b.Add(key, b.fold.String(strings.TrimSpace(value)))
}

// AddTags adds a tag set; order does not affect the key.
func (b *CacheKeyBuilder) AddTags(key string, tags []string) *CacheKeyBuilder {
	sorted := make([]string, 0, len(tags))
	for _, t := range tags {
		sorted = append(sorted, b.fold.String(strings.TrimSpace(t)))
	}
	slices.Sort(sorted)
	return b.Add(key, slices.Compact(sorted))
}

// Build generates the final cache key as an MD5 hash
func (b *CacheKeyBuilder) Build() (string, error) {
	jsonBytes, err := json.Marshal(b.components)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key components: %w", err)
	}

	hash := md5.Sum(jsonBytes)
	key := hex.EncodeToString(hash[:])

	b.logger.Debug("Cache key built",
		zap.String("key", key),
		zap.String("components", string(jsonBytes)),
	)

	return key, nil
}

// BuildOrDefault builds the cache key, returns empty string on error
func (b *CacheKeyBuilder) BuildOrDefault() string {
	key, err := b.Build()
	if err != nil {
		b.logger.Error("Failed to build cache key", zap.Error(err))
		return ""
	}
	return key
}
