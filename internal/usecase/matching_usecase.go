package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

const (
	// Верхняя граница выборки кандидатов из векторного хранилища.
	maxSearchLimit = 50
	// Верхняя граница размера выдачи, запрашиваемого клиентом.
	maxTopK = 20
)

// MatchingUseCase реализует подбор поставщиков под тендер: векторный поиск
// кандидатов, фильтрацию, композитный скоринг и генерацию объяснений.
type MatchingUseCase struct {
	embeddings    Embeddings
	vendorVectors VendorVectorRepository
	tenderVectors TenderVectorRepository
	idRegistry    IDRegistryRepository
	matchCache    MatchCacheRepository
	logger        logger.Logger
	cfg           *cfg.MatchingCfg
}

func NewMatchingUC(
	embeddings Embeddings,
	vendorVectors VendorVectorRepository,
	tenderVectors TenderVectorRepository,
	idRegistry IDRegistryRepository,
	matchCache MatchCacheRepository,
	logger logger.Logger,
	cfg *cfg.MatchingCfg,
) *MatchingUseCase {
	return &MatchingUseCase{
		embeddings:    embeddings,
		vendorVectors: vendorVectors,
		tenderVectors: tenderVectors,
		idRegistry:    idRegistry,
		matchCache:    matchCache,
		logger:        logger,
		cfg:           cfg,
	}
}

// FindMatchingVendors выполняет полный конвейер подбора. Тендер при этом
// идемпотентно сохраняется в векторном хранилище, а готовый ответ кэшируется
// с коротким TTL в фоне.
func (m *MatchingUseCase) FindMatchingVendors(ctx context.Context, req *MatchReq) (*MatchResponse, error) {
	const op = "MatchingUseCase.FindMatchingVendors"

	start := time.Now()

	topK := req.TopK
	if topK == 0 {
		topK = m.cfg.DefaultTopK
	}
	if topK < 1 || topK > maxTopK {
		return nil, e.Wrap(op, e.ErrInvalidTopK)
	}

	// Кэш готовых ответов. Отказ кэша не прерывает подбор.
	cached, ok, err := m.matchCache.GetMatches(ctx, req.Tender.ID, topK)
	if err != nil {
		m.logger.Warnf("match cache lookup failed: %v", e.Wrap(op, err))
	}
	if ok {
		m.logger.Debugf("match cache hit. tender_id: %s, top_k: %d", req.Tender.ID, topK)
		return cached, nil
	}

	vector, err := m.embeddings.Get(ctx, tenderText(&req.Tender))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Числовой id точки регистрируется до записи вектора, иначе коллизия
	// молча перезаписала бы чужую точку.
	if err := m.idRegistry.Register(ctx, domain.KindTender, req.Tender.ID); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := m.tenderVectors.UpsertPreserving(ctx, &req.Tender, vector); err != nil {
		return nil, e.Wrap(op, err)
	}

	hits, err := m.vendorVectors.Search(ctx, vector, min(topK*3, maxSearchLimit), nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Срез до top_k происходит по порядку векторной близости, до скоринга.
	// Композитный скоринг переупорядочивает только кандидатов внутри среза.
	candidates := m.filterCandidates(&req.Tender, hits)
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]MatchResult, 0, len(candidates))
	for _, hit := range candidates {
		vendor := hit.Vendor
		score := m.calculateMatchScore(ctx, &req.Tender, &vendor, hit.Score)
		reasons := m.generateMatchReasons(ctx, &req.Tender, &vendor)
		results = append(results, NewMatchResult(vendor, score, reasons, 0))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	for i := range results {
		results[i].Ranking = i + 1
	}

	res := NewMatchResponse(req.Tender.ID, results, float64(time.Since(start).Microseconds())/1000.0)

	m.logger.Infof(
		"matching completed. tender_id: %s, candidates: %d, matches: %d, took_ms: %.1f",
		req.Tender.ID, len(hits), len(results), res.SearchTimeMs,
	)

	// Кэширование ответа не задерживает выдачу.
	go func(res *MatchResponse) {
		cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		defer cancel()

		if err := m.matchCache.SetMatches(cacheCtx, topK, res); err != nil {
			m.logger.Warnf("match cache store failed: %v", e.Wrap(op, err))
		}
	}(res)

	return res, nil
}

// filterCandidates применяет жесткие фильтры к кандидатам из векторного поиска:
// порог близости, требование по обороту и, если включен, географический фильтр.
func (m *MatchingUseCase) filterCandidates(tender *domain.Tender, hits []VendorHit) []VendorHit {
	out := make([]VendorHit, 0, len(hits))

	for _, hit := range hits {
		if hit.Score < m.cfg.SimilarityThreshold {
			continue
		}

		if !domain.MeetsTurnover(tender.RequiredTurnover, hit.Vendor.AnnualTurnover) {
			continue
		}

		if m.cfg.GeoHardFilter && !servesTenderStates(tender, &hit.Vendor) {
			continue
		}

		out = append(out, hit)
	}

	return out
}

// servesTenderStates считает поставщика подходящим, если тендер общенациональный,
// у поставщика не указана география (работает везде) или штаты пересекаются.
func servesTenderStates(tender *domain.Tender, vendor *domain.Vendor) bool {
	if tender.StatePreference != domain.StatePrefSpecificStates || len(tender.States) == 0 {
		return true
	}

	if len(vendor.States) == 0 {
		return true
	}

	return intersectCount(tender.States, vendor.States) > 0
}
