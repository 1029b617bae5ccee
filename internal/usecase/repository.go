package usecase

import (
	"context"

	"github.com/tendermesh/matching-backend/internal/domain"
)

// VendorVectorRepository — операции над точками поставщиков в векторном хранилище.
type VendorVectorRepository interface {
	Upsert(ctx context.Context, vendor *domain.Vendor, vector []float32) error
	UpsertBatch(ctx context.Context, items []VendorEmbedding) error
	// Search возвращает ближайших кандидатов по косинусной близости.
	// Фильтр на стороне хранилища не используется текущим конвейером и может быть nil.
	Search(ctx context.Context, vector []float32, limit int, filter *SearchFilter) ([]VendorHit, error)
	Retrieve(ctx context.Context, vendorID string) (*domain.Vendor, error)
	Exists(ctx context.Context, vendorID string) (bool, error)
	// UpdateVector заменяет вектор точки, не трогая payload.
	UpdateVector(ctx context.Context, vendorID string, vector []float32) error
	Delete(ctx context.Context, vendorID string) error
	Count(ctx context.Context) (uint64, error)
}

// TenderVectorRepository — операции над точками тендеров.
type TenderVectorRepository interface {
	// UpsertPreserving идемпотентно сохраняет тендер: у существующей точки
	// payload остается прежним, обновляется только вектор.
	UpsertPreserving(ctx context.Context, tender *domain.Tender, vector []float32) error
	Retrieve(ctx context.Context, tenderID string) (*domain.Tender, error)
	// SetDocumentKeys обновляет ключи документов в payload точки, не трогая вектор.
	SetDocumentKeys(ctx context.Context, tenderID string, keys []string) error
	Count(ctx context.Context) (uint64, error)
}

// IDRegistryRepository — реестр соответствия внешних идентификаторов числовым id точек.
// Регистрация id точки, уже занятого другим внешним идентификатором,
// завершается e.ErrIDCollision до записи вектора.
type IDRegistryRepository interface {
	Register(ctx context.Context, kind string, externalID string) error
	Delete(ctx context.Context, kind string, externalID string) error
}

// FeedbackEventRepository — журнал обработанной обратной связи.
type FeedbackEventRepository interface {
	Insert(ctx context.Context, event *domain.FeedbackEvent) error
	DeleteByVendor(ctx context.Context, vendorID string) error
}

// DocumentRepository — хранилище сопроводительных документов тендеров в S3.
type DocumentRepository interface {
	Upload(ctx context.Context, doc *domain.Document) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

// MatchCacheRepository кэширует готовые ответы подбора с коротким TTL.
type MatchCacheRepository interface {
	GetMatches(ctx context.Context, tenderID string, topK int) (*MatchResponse, bool, error)
	SetMatches(ctx context.Context, topK int, res *MatchResponse) error
}
