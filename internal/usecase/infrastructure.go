package usecase

import (
	"context"

	"github.com/tendermesh/matching-backend/internal/domain"
)

// Embeddings — доступ к векторизации текста через кэширующий слой.
// Все компоненты получают эмбеддинги только через этот интерфейс.
type Embeddings interface {
	Get(ctx context.Context, text string) ([]float32, error)
	GetBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingCacheAdmin — управление кэшем эмбеддингов для системных эндпоинтов.
type EmbeddingCacheAdmin interface {
	Stats() CacheStats
	Clear()
}

// EventProducer публикует события обработки обратной связи для внешней аналитики.
type EventProducer interface {
	PublishFeedbackEvent(ctx context.Context, event *domain.FeedbackEvent) error
}

// DocumentsInfra управляет загрузкой сопроводительных документов тендера.
type DocumentsInfra interface {
	UploadDocuments(ctx context.Context, req *UploadDocumentsReq) (*UploadDocumentsRes, error)
	CleanupDocuments(keys []string)
	WaitForCleanup(ctx context.Context) error
}
