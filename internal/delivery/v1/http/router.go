package http

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	_ "github.com/tendermesh/matching-backend/docs" // Импорт сгенерированных файлов
	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(
	matchingUC usecase.MatchingUC,
	vendorUC usecase.VendorUC,
	tenderUC usecase.TenderUC,
	feedbackUC usecase.FeedbackUC,
	systemUC usecase.SystemUC,
) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerMatchingRoutes(v1, NewMatchingHandler(matchingUC, r.logger))
		registerVendorRoutes(v1, NewVendorHandler(vendorUC, r.logger))
		registerTenderRoutes(v1, NewTenderHandler(tenderUC, r.logger))
		registerFeedbackRoutes(v1, NewFeedbackHandler(feedbackUC, r.logger))
		registerSystemRoutes(v1, NewSystemHandler(systemUC, r.logger))
	})
}

func registerMatchingRoutes(router chi.Router, h *MatchingHandler) {
	router.Post("/match", h.findMatches)
}

func registerVendorRoutes(router chi.Router, h *VendorHandler) {
	router.Route("/vendors", func(vr chi.Router) {
		vr.Post("/", h.addVendor)
		vr.Post("/sync", h.syncVendors)
		vr.Get("/{vendor_id}", h.getVendor)
		vr.Patch("/{vendor_id}", h.updateVendor)
		vr.Delete("/{vendor_id}", h.deleteVendor)
	})
}

func registerTenderRoutes(router chi.Router, h *TenderHandler) {
	router.Route("/tenders", func(tr chi.Router) {
		tr.Post("/", h.addTender)
		tr.Post("/{tender_id}/documents", h.attachDocuments)
	})
}

func registerFeedbackRoutes(router chi.Router, h *FeedbackHandler) {
	router.Post("/feedback", h.processFeedback)
}

func registerSystemRoutes(router chi.Router, h *SystemHandler) {
	router.Get("/health", h.health)
	router.Get("/stats", h.stats)
	router.Route("/cache", func(cr chi.Router) {
		cr.Get("/stats", h.cacheStats)
		cr.Post("/clear", h.clearCache)
	})
}
