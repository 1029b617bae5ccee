package embedding

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/tendermesh/matching-backend/internal/cfg"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

// fakeProvider отдает детерминированные векторы и считает обращения.
type fakeProvider struct {
	mu          sync.Mutex
	singleCalls int
	batchCalls  int
	batchSizes  []int
	err         error
}

func (f *fakeProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.singleCalls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	return vectorFor(text), nil
}

func (f *fakeProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.batchCalls++
	f.batchSizes = append(f.batchSizes, len(texts))
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = vectorFor(text)
	}

	return out, nil
}

func vectorFor(text string) []float32 {
	return []float32{float32(len(text)), 1}
}

func newTestCache(provider embedder, maxSize int, ttl time.Duration) *Cache {
	return NewCache(provider, &cfg.MatchingCfg{
		CacheTTL:     ttl,
		CacheMaxSize: maxSize,
		CacheVersion: "v1",
	}, "test-model", nopLogger{})
}

func TestCacheGetMemoizes(t *testing.T) {
	provider := &fakeProvider{}
	cache := newTestCache(provider, 100, time.Hour)
	ctx := context.Background()

	first, err := cache.Get(ctx, "steel pipes")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	second, err := cache.Get(ctx, "steel pipes")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached vector differs: %v vs %v", first, second)
	}
	if provider.singleCalls != 1 {
		t.Errorf("provider called %d times, want 1", provider.singleCalls)
	}
}

func TestCacheKeyNormalization(t *testing.T) {
	provider := &fakeProvider{}
	cache := newTestCache(provider, 100, time.Hour)
	ctx := context.Background()

	if _, err := cache.Get(ctx, "Steel Pipes"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := cache.Get(ctx, "  steel pipes  "); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Регистр и крайние пробелы не образуют новую запись.
	if provider.singleCalls != 1 {
		t.Errorf("provider called %d times, want 1", provider.singleCalls)
	}
}

func TestCacheGetError(t *testing.T) {
	wantErr := errors.New("provider down")
	cache := newTestCache(&fakeProvider{err: wantErr}, 100, time.Hour)

	if _, err := cache.Get(context.Background(), "text"); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped provider error", err)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	provider := &fakeProvider{}
	cache := newTestCache(provider, 100, time.Hour)
	ctx := context.Background()

	base := time.Now()
	cache.now = func() time.Time { return base }

	if _, err := cache.Get(ctx, "text"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	cache.now = func() time.Time { return base.Add(2 * time.Hour) }

	if _, err := cache.Get(ctx, "text"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if provider.singleCalls != 2 {
		t.Errorf("provider called %d times, want 2 after TTL expiry", provider.singleCalls)
	}
}

func TestCacheGetBatchPreservesOrderAndDuplicates(t *testing.T) {
	provider := &fakeProvider{}
	cache := newTestCache(provider, 100, time.Hour)

	texts := []string{"alpha", "beta", "alpha", "gamma"}

	got, err := cache.GetBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}

	if len(got) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(got), len(texts))
	}
	for i, text := range texts {
		if !reflect.DeepEqual(got[i], vectorFor(text)) {
			t.Errorf("vector %d = %v, want %v", i, got[i], vectorFor(text))
		}
	}

	// Дубликаты схлопываются до одного текста в запросе к провайдеру.
	if provider.batchCalls != 1 || provider.batchSizes[0] != 3 {
		t.Errorf("provider batch calls = %d sizes %v, want one call with 3 texts",
			provider.batchCalls, provider.batchSizes)
	}
}

func TestCacheGetBatchUsesCachedEntries(t *testing.T) {
	provider := &fakeProvider{}
	cache := newTestCache(provider, 100, time.Hour)
	ctx := context.Background()

	if _, err := cache.GetBatch(ctx, []string{"alpha", "beta"}); err != nil {
		t.Fatalf("GetBatch: %v", err)
	}

	if _, err := cache.GetBatch(ctx, []string{"alpha", "beta", "gamma"}); err != nil {
		t.Fatalf("GetBatch: %v", err)
	}

	if provider.batchCalls != 2 {
		t.Fatalf("batch calls = %d, want 2", provider.batchCalls)
	}
	if provider.batchSizes[1] != 1 {
		t.Errorf("second batch size = %d, want only the miss", provider.batchSizes[1])
	}
}

func TestCacheGetBatchEmpty(t *testing.T) {
	cache := newTestCache(&fakeProvider{}, 100, time.Hour)

	got, err := cache.GetBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if got != nil {
		t.Errorf("GetBatch(nil) = %v, want nil", got)
	}
}

func TestCacheEvictsOldestEntries(t *testing.T) {
	provider := &fakeProvider{}
	cache := newTestCache(provider, 2, time.Hour)
	ctx := context.Background()

	base := time.Now()
	for i, text := range []string{"first", "second", "third"} {
		offset := time.Duration(i) * time.Minute
		cache.now = func() time.Time { return base.Add(offset) }

		if _, err := cache.Get(ctx, text); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}

	cache.now = func() time.Time { return base.Add(3 * time.Minute) }

	if got := cache.Stats().TotalEntries; got != 2 {
		t.Fatalf("TotalEntries = %d, want 2 after eviction", got)
	}

	// Самая старая запись вытеснена, повторный запрос идет к провайдеру.
	if _, err := cache.Get(ctx, "first"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if provider.singleCalls != 4 {
		t.Errorf("provider called %d times, want 4", provider.singleCalls)
	}
}

func TestCacheStats(t *testing.T) {
	provider := &fakeProvider{}
	cache := newTestCache(provider, 100, time.Hour)
	ctx := context.Background()

	base := time.Now()
	cache.now = func() time.Time { return base }

	if _, err := cache.Get(ctx, "fresh"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	stats := cache.Stats()
	if stats.TotalEntries != 1 || stats.ValidEntries != 1 {
		t.Errorf("stats = %+v, want one valid entry", stats)
	}
	if stats.CacheVersion != "v1:test-model" {
		t.Errorf("CacheVersion = %q, want v1:test-model", stats.CacheVersion)
	}

	cache.now = func() time.Time { return base.Add(2 * time.Hour) }

	stats = cache.Stats()
	if stats.ExpiredEntries != 1 || stats.ValidEntries != 0 {
		t.Errorf("stats after expiry = %+v, want one expired entry", stats)
	}
}

func TestCacheStaleVersion(t *testing.T) {
	provider := &fakeProvider{}
	cache := newTestCache(provider, 100, time.Hour)
	ctx := context.Background()

	if _, err := cache.Get(ctx, "text"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Смена модели делает существующие записи непригодными.
	cache.versionKey = "v1:other-model"

	stats := cache.Stats()
	if stats.StaleVersionEntries != 1 {
		t.Errorf("StaleVersionEntries = %d, want 1", stats.StaleVersionEntries)
	}

	if _, err := cache.Get(ctx, "text"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if provider.singleCalls != 2 {
		t.Errorf("provider called %d times, want 2 after version change", provider.singleCalls)
	}
}

func TestCacheClear(t *testing.T) {
	cache := newTestCache(&fakeProvider{}, 100, time.Hour)

	if _, err := cache.Get(context.Background(), "text"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	cache.Clear()

	if got := cache.Stats().TotalEntries; got != 0 {
		t.Errorf("TotalEntries after Clear = %d, want 0", got)
	}
}
