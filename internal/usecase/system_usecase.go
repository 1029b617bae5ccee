package usecase

import (
	"context"

	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

// SystemUseCase отдает состояние сервиса и статистику хранилищ.
type SystemUseCase struct {
	vendorVectors VendorVectorRepository
	tenderVectors TenderVectorRepository
	cacheAdmin    EmbeddingCacheAdmin
	model         string
	vectorSize    uint64
	logger        logger.Logger
}

func NewSystemUC(
	vendorVectors VendorVectorRepository,
	tenderVectors TenderVectorRepository,
	cacheAdmin EmbeddingCacheAdmin,
	model string,
	vectorSize uint64,
	logger logger.Logger,
) *SystemUseCase {
	return &SystemUseCase{
		vendorVectors: vendorVectors,
		tenderVectors: tenderVectors,
		cacheAdmin:    cacheAdmin,
		model:         model,
		vectorSize:    vectorSize,
		logger:        logger,
	}
}

// Health проверяет доступность векторного хранилища. Недоступное хранилище
// не роняет сервис, а переводит статус в degraded.
func (s *SystemUseCase) Health(ctx context.Context) *HealthRes {
	stats, err := s.Stats(ctx)
	if err != nil {
		s.logger.Warnf("health check degraded: %v", err)
		return &HealthRes{
			Status:   "degraded",
			Database: "unavailable",
			Error:    err.Error(),
		}
	}

	return &HealthRes{
		Status:   "healthy",
		Database: "connected",
		Stats:    stats,
	}
}

// Stats возвращает агрегированную статистику хранилищ и кэша эмбеддингов.
func (s *SystemUseCase) Stats(ctx context.Context) (*StatsRes, error) {
	const op = "SystemUseCase.Stats"

	vendors, err := s.vendorVectors.Count(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	tenders, err := s.tenderVectors.Count(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &StatsRes{
		VendorsCount:    vendors,
		TendersCount:    tenders,
		VectorDimension: s.vectorSize,
		EmbeddingModel:  s.model,
		CacheEntries:    s.cacheAdmin.Stats().TotalEntries,
	}, nil
}

// CacheStats возвращает срез состояния кэша эмбеддингов.
func (s *SystemUseCase) CacheStats() CacheStats {
	return s.cacheAdmin.Stats()
}

// ClearCache полностью очищает кэш эмбеддингов.
func (s *SystemUseCase) ClearCache() {
	s.cacheAdmin.Clear()
	s.logger.Infof("embedding cache cleared")
}
