package http

import (
	"net/http"

	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

type SystemHandler struct {
	systemUsecase usecase.SystemUC
	logger        logger.Logger
}

func NewSystemHandler(systemUsecase usecase.SystemUC, logger logger.Logger) *SystemHandler {
	return &SystemHandler{systemUsecase: systemUsecase, logger: logger}
}

// health
//
//	@Summary	Состояние сервиса
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/health [get]
func (h *SystemHandler) health(w http.ResponseWriter, r *http.Request) {
	res := h.systemUsecase.Health(r.Context())

	body := map[string]interface{}{
		"status":   res.Status,
		"database": res.Database,
	}
	if res.Stats != nil {
		body["vendors_count"] = res.Stats.VendorsCount
		body["tenders_count"] = res.Stats.TendersCount
	}
	if res.Error != "" {
		body["error"] = res.Error
	}

	WriteSuccess(w, http.StatusOK, body)
}

// stats
//
//	@Summary	Статистика хранилищ
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Failure	500	{object}	ErrorResponse
//	@Router		/stats [get]
func (h *SystemHandler) stats(w http.ResponseWriter, r *http.Request) {
	res, err := h.systemUsecase.Stats(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"vendors_count":    res.VendorsCount,
		"tenders_count":    res.TendersCount,
		"vector_dimension": res.VectorDimension,
		"embedding_model":  res.EmbeddingModel,
		"cache_entries":    res.CacheEntries,
	})
}

// cacheStats
//
//	@Summary	Состояние кэша эмбеддингов
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/cache/stats [get]
func (h *SystemHandler) cacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.systemUsecase.CacheStats()

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"total_entries":         stats.TotalEntries,
		"valid_entries":         stats.ValidEntries,
		"expired_entries":       stats.ExpiredEntries,
		"stale_version_entries": stats.StaleVersionEntries,
		"cache_version":         stats.CacheVersion,
		"max_cache_size":        stats.MaxCacheSize,
		"cache_ttl_hours":       stats.TTL.Hours(),
	})
}

// clearCache
//
//	@Summary	Очистка кэша эмбеддингов
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/cache/clear [post]
func (h *SystemHandler) clearCache(w http.ResponseWriter, r *http.Request) {
	h.systemUsecase.ClearCache()

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"status": "cache cleared",
	})
}
