package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/tendermesh/matching-backend/internal/domain"
)

// nopLogger отбрасывает все сообщения в тестах.
type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

// fakeEmbeddings выдает заранее заданные векторы по точному тексту.
// Неизвестные тексты получают defaultVec, чтобы не ронять второстепенные пути.
type fakeEmbeddings struct {
	vectors    map[string][]float32
	defaultVec []float32
	err        error

	mu    sync.Mutex
	calls int
}

func (f *fakeEmbeddings) Get(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	if v, ok := f.vectors[text]; ok {
		return v, nil
	}

	return f.defaultVec, nil
}

func (f *fakeEmbeddings) GetBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := f.Get(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

type fakeVendorVectors struct {
	hits    []VendorHit
	vendors map[string]*domain.Vendor

	mu             sync.Mutex
	updatedVectors map[string][]float32
	upserted       []string
	deleted        []string
}

func (f *fakeVendorVectors) Upsert(ctx context.Context, vendor *domain.Vendor, vector []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.upserted = append(f.upserted, vendor.ID)
	return nil
}

func (f *fakeVendorVectors) UpsertBatch(ctx context.Context, items []VendorEmbedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range items {
		f.upserted = append(f.upserted, item.Vendor.ID)
	}
	return nil
}

func (f *fakeVendorVectors) Search(ctx context.Context, vector []float32, limit int, filter *SearchFilter) ([]VendorHit, error) {
	if len(f.hits) > limit {
		return f.hits[:limit], nil
	}
	return f.hits, nil
}

func (f *fakeVendorVectors) Retrieve(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	if v, ok := f.vendors[vendorID]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("vendor not found")
}

func (f *fakeVendorVectors) Exists(ctx context.Context, vendorID string) (bool, error) {
	_, ok := f.vendors[vendorID]
	return ok, nil
}

func (f *fakeVendorVectors) UpdateVector(ctx context.Context, vendorID string, vector []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updatedVectors == nil {
		f.updatedVectors = make(map[string][]float32)
	}
	f.updatedVectors[vendorID] = vector
	return nil
}

func (f *fakeVendorVectors) Delete(ctx context.Context, vendorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, vendorID)
	return nil
}

func (f *fakeVendorVectors) Count(ctx context.Context) (uint64, error) {
	return uint64(len(f.vendors)), nil
}

type fakeTenderVectors struct {
	tenders map[string]*domain.Tender

	mu           sync.Mutex
	upserted     []string
	documentKeys map[string][]string
}

func (f *fakeTenderVectors) UpsertPreserving(ctx context.Context, tender *domain.Tender, vector []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.upserted = append(f.upserted, tender.ID)
	return nil
}

func (f *fakeTenderVectors) Retrieve(ctx context.Context, tenderID string) (*domain.Tender, error) {
	if t, ok := f.tenders[tenderID]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("tender not found")
}

func (f *fakeTenderVectors) SetDocumentKeys(ctx context.Context, tenderID string, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.documentKeys == nil {
		f.documentKeys = make(map[string][]string)
	}
	f.documentKeys[tenderID] = keys
	return nil
}

func (f *fakeTenderVectors) Count(ctx context.Context) (uint64, error) {
	return uint64(len(f.tenders)), nil
}

type fakeIDRegistry struct {
	err error

	mu         sync.Mutex
	registered []string
	deleted    []string
}

func (f *fakeIDRegistry) Register(ctx context.Context, kind string, externalID string) error {
	if f.err != nil {
		return f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.registered = append(f.registered, kind+":"+externalID)
	return nil
}

func (f *fakeIDRegistry) Delete(ctx context.Context, kind string, externalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, kind+":"+externalID)
	return nil
}

type fakeMatchCache struct {
	cached *MatchResponse

	stored chan *MatchResponse
}

func (f *fakeMatchCache) GetMatches(ctx context.Context, tenderID string, topK int) (*MatchResponse, bool, error) {
	if f.cached != nil {
		return f.cached, true, nil
	}
	return nil, false, nil
}

func (f *fakeMatchCache) SetMatches(ctx context.Context, topK int, res *MatchResponse) error {
	if f.stored != nil {
		f.stored <- res
	}
	return nil
}

type fakeFeedbackRepo struct {
	mu       sync.Mutex
	inserted []*domain.FeedbackEvent
	deleted  []string
}

func (f *fakeFeedbackRepo) Insert(ctx context.Context, event *domain.FeedbackEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inserted = append(f.inserted, event)
	return nil
}

func (f *fakeFeedbackRepo) DeleteByVendor(ctx context.Context, vendorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, vendorID)
	return nil
}

type fakeProducer struct {
	mu        sync.Mutex
	published []*domain.FeedbackEvent
}

func (f *fakeProducer) PublishFeedbackEvent(ctx context.Context, event *domain.FeedbackEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.published = append(f.published, event)
	return nil
}
