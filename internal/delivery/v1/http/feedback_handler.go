package http

import (
	"net/http"
	"time"

	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

type FeedbackHandler struct {
	feedbackUsecase usecase.FeedbackUC
	logger          logger.Logger
}

func NewFeedbackHandler(feedbackUsecase usecase.FeedbackUC, logger logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedbackUsecase: feedbackUsecase, logger: logger}
}

// processFeedback
//
//	@Summary		Обратная связь по совпадению
//	@Description	Принимает итог сотрудничества и корректирует эмбеддинг поставщика при положительном сигнале
//	@Tags			feedback
//	@Accept			json
//	@Produce		json
//	@Param			feedback	body		FeedbackModel	true	"Сигнал обратной связи"
//	@Success		200			{object}	FeedbackResultModel
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/feedback [post]
func (h *FeedbackHandler) processFeedback(w http.ResponseWriter, r *http.Request) {
	var model FeedbackModel
	if err := decodeJSON(r, &model); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	if model.TenderID == "" {
		WriteError(w, e.ErrTenderIDRequired)
		return
	}
	if model.VendorID == "" {
		WriteError(w, e.ErrVendorIDRequired)
		return
	}
	if model.Rating != nil && (*model.Rating < 1 || *model.Rating > 5) {
		WriteError(w, e.ErrInvalidRating)
		return
	}

	res := h.feedbackUsecase.ProcessFeedback(r.Context(), &usecase.FeedbackReq{
		TenderID:     model.TenderID,
		VendorID:     model.VendorID,
		MatchSuccess: model.MatchSuccess,
		Selected:     model.Selected,
		Rating:       model.Rating,
		Comments:     model.Comments,
	})

	WriteSuccess(w, http.StatusOK, FeedbackResultModel{
		Adjustment: string(res.Adjustment),
		Reason:     res.Reason,
		VendorID:   res.VendorID,
		TenderID:   res.TenderID,
		Weight:     res.Weight,
		Timestamp:  res.Timestamp.Format(time.RFC3339),
	})
}
