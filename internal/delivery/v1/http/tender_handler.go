package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

type TenderHandler struct {
	tenderUsecase usecase.TenderUC
	logger        logger.Logger
}

func NewTenderHandler(tenderUsecase usecase.TenderUC, logger logger.Logger) *TenderHandler {
	return &TenderHandler{tenderUsecase: tenderUsecase, logger: logger}
}

// addTender
//
//	@Summary		Добавление тендера
//	@Description	Векторизует тендер и идемпотентно сохраняет его в векторном хранилище
//	@Tags			tenders
//	@Accept			json
//	@Produce		json
//	@Param			tender	body		TenderModel				true	"Тендер"
//	@Success		201		{object}	map[string]interface{}	"Успешное добавление"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse			"Коллизия идентификаторов"
//	@Router			/tenders [post]
func (h *TenderHandler) addTender(w http.ResponseWriter, r *http.Request) {
	var model TenderModel
	if err := decodeJSON(r, &model); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	tender, err := model.toDomain()
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	if err := h.tenderUsecase.AddTender(r.Context(), &usecase.AddTenderReq{Tender: tender}); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]interface{}{
		"tender_id": model.TenderID,
		"status":    "added",
	})
}

// attachDocuments
//
//	@Summary		Загрузка документов тендера
//	@Description	Принимает multipart/form-data, загружает документы в объектное хранилище и привязывает их к тендеру
//	@Tags			tenders
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			tender_id	path		string					true	"Идентификатор тендера"
//	@Param			documents	formData	file					true	"Документы (pdf, doc, docx, xls, xlsx)"
//	@Success		200			{object}	map[string]interface{}	"Ключи загруженных объектов"
//	@Failure		400			{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		404			{object}	ErrorResponse			"Тендер не найден"
//	@Router			/tenders/{tender_id}/documents [post]
func (h *TenderHandler) attachDocuments(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 260 << 20
		maxMemory           = 32 << 20
	)

	tenderID := chi.URLParam(r, "tender_id")

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	docs, err := parseDocuments(r.MultipartForm.File["documents"])
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.tenderUsecase.AttachDocuments(r.Context(), &usecase.AttachDocumentsReq{
		TenderID:  tenderID,
		Documents: docs,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"tender_id":     res.TenderID,
		"document_keys": res.DocumentKeys,
	})
}
