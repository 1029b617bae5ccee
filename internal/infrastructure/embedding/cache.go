package embedding

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// embedder — провайдер векторизации, который оборачивает кэш.
type embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type cacheEntry struct {
	vector  []float32
	at      time.Time
	version string
}

// Cache — кэширующий слой поверх провайдера эмбеддингов. Ключ строится как
// md5 нормализованного текста, запись привязана к версии модели и TTL.
// При переполнении вытесняются самые старые записи. Конкурентные запросы
// одного и того же текста схлопываются в один вызов провайдера.
type Cache struct {
	provider embedder

	mu      sync.Mutex
	entries map[string]cacheEntry

	flight singleflight.Group

	versionKey string
	ttl        time.Duration
	maxSize    int
	now        func() time.Time
	logger     logger.Logger
}

func NewCache(provider embedder, matchingCfg *cfg.MatchingCfg, model string, logger logger.Logger) *Cache {
	return &Cache{
		provider:   provider,
		entries:    make(map[string]cacheEntry),
		versionKey: fmt.Sprintf("%s:%s", matchingCfg.CacheVersion, model),
		ttl:        matchingCfg.CacheTTL,
		maxSize:    matchingCfg.CacheMaxSize,
		now:        time.Now,
		logger:     logger,
	}
}

// Get возвращает вектор текста, векторизуя его при промахе кэша.
func (c *Cache) Get(ctx context.Context, text string) ([]float32, error) {
	const op = "Cache.Get"

	key := cacheKey(text)

	if vector, ok := c.lookup(key); ok {
		return vector, nil
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		if vector, ok := c.lookup(key); ok {
			return vector, nil
		}

		vector, err := c.provider.Embed(ctx, text)
		if err != nil {
			return nil, err
		}

		c.store(map[string][]float32{key: vector})

		return vector, nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return v.([]float32), nil
}

// GetBatch возвращает векторы списка текстов, сохраняя порядок и дубликаты.
// Тексты дедуплицируются по нормализованной форме, провайдеру уходят только
// промахи кэша одним батчевым запросом.
func (c *Cache) GetBatch(ctx context.Context, texts []string) ([][]float32, error) {
	const op = "Cache.GetBatch"

	if len(texts) == 0 {
		return nil, nil
	}

	uniqueKeys := make([]string, 0, len(texts))
	uniqueTexts := make([]string, 0, len(texts))
	keyAt := make([]string, len(texts))
	seen := make(map[string]struct{}, len(texts))

	for i, text := range texts {
		key := cacheKey(text)
		keyAt[i] = key

		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			uniqueKeys = append(uniqueKeys, key)
			uniqueTexts = append(uniqueTexts, text)
		}
	}

	resolved := make(map[string][]float32, len(uniqueKeys))

	var missKeys, missTexts []string
	for i, key := range uniqueKeys {
		if vector, ok := c.lookup(key); ok {
			resolved[key] = vector
		} else {
			missKeys = append(missKeys, key)
			missTexts = append(missTexts, uniqueTexts[i])
		}
	}

	if len(missTexts) > 0 {
		c.logger.Infof("generating %d new embeddings (from %d total)", len(missTexts), len(texts))

		vectors, err := c.provider.EmbedBatch(ctx, missTexts)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		if len(vectors) != len(missTexts) {
			return nil, e.Wrap(op, e.ErrVectorCountMismatch)
		}

		fresh := make(map[string][]float32, len(missKeys))
		for i, key := range missKeys {
			fresh[key] = vectors[i]
			resolved[key] = vectors[i]
		}
		c.store(fresh)
	} else {
		c.logger.Debugf("all %d embeddings found in cache", len(texts))
	}

	out := make([][]float32, len(texts))
	for i, key := range keyAt {
		out[i] = resolved[key]
	}

	return out, nil
}

// Stats возвращает срез состояния кэша.
func (c *Cache) Stats() usecase.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := usecase.CacheStats{
		TotalEntries: len(c.entries),
		CacheVersion: c.versionKey,
		MaxCacheSize: c.maxSize,
		TTL:          c.ttl,
	}

	for _, entry := range c.entries {
		switch {
		case entry.version != c.versionKey:
			stats.StaleVersionEntries++
		case now.Sub(entry.at) > c.ttl:
			stats.ExpiredEntries++
		default:
			stats.ValidEntries++
		}
	}

	return stats
}

// Clear полностью очищает кэш.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}

// lookup возвращает валидную запись, попутно удаляя протухшую.
func (c *Cache) lookup(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if entry.version != c.versionKey || c.now().Sub(entry.at) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}

	return entry.vector, true
}

// store записывает свежие векторы и вытесняет старые записи при переполнении.
func (c *Cache) store(vectors map[string][]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, vector := range vectors {
		c.entries[key] = cacheEntry{
			vector:  vector,
			at:      now,
			version: c.versionKey,
		}
	}

	if len(c.entries) <= c.maxSize {
		return
	}

	c.logger.Infof("cache size %d exceeds limit, evicting old entries", len(c.entries))

	type keyedEntry struct {
		key string
		at  time.Time
	}

	aged := make([]keyedEntry, 0, len(c.entries))
	for key, entry := range c.entries {
		aged = append(aged, keyedEntry{key: key, at: entry.at})
	}

	sort.Slice(aged, func(i, j int) bool {
		return aged[i].at.Before(aged[j].at)
	})

	for _, item := range aged[:len(aged)-c.maxSize] {
		delete(c.entries, item.key)
	}

	c.logger.Infof("cache evicted, new size: %d", len(c.entries))
}

// cacheKey — md5 нормализованного текста.
func cacheKey(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	sum := md5.Sum([]byte(normalized))

	return hex.EncodeToString(sum[:])
}
