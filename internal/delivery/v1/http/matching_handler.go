package http

import (
	"net/http"

	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

type MatchingHandler struct {
	matchingUsecase usecase.MatchingUC
	logger          logger.Logger
}

func NewMatchingHandler(matchingUsecase usecase.MatchingUC, logger logger.Logger) *MatchingHandler {
	return &MatchingHandler{matchingUsecase: matchingUsecase, logger: logger}
}

// findMatches
//
//	@Summary		Подбор поставщиков под тендер
//	@Description	Выполняет векторный поиск кандидатов, фильтрацию, скоринг и генерацию объяснений
//	@Tags			matching
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MatchRequestModel	true	"Тендер и размер выдачи"
//	@Success		200		{object}	MatchResponseModel
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/match [post]
func (h *MatchingHandler) findMatches(w http.ResponseWriter, r *http.Request) {
	var model MatchRequestModel
	if err := decodeJSON(r, &model); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	tender, err := model.Tender.toDomain()
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.matchingUsecase.FindMatchingVendors(r.Context(), &usecase.MatchReq{
		Tender: tender,
		TopK:   model.TopK,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toMatchResponseModel(res))
}
