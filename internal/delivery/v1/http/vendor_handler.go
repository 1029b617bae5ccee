package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

type VendorHandler struct {
	vendorUsecase usecase.VendorUC
	logger        logger.Logger
}

func NewVendorHandler(vendorUsecase usecase.VendorUC, logger logger.Logger) *VendorHandler {
	return &VendorHandler{vendorUsecase: vendorUsecase, logger: logger}
}

// addVendor
//
//	@Summary		Добавление поставщика
//	@Description	Векторизует профиль поставщика и сохраняет его в векторном хранилище
//	@Tags			vendors
//	@Accept			json
//	@Produce		json
//	@Param			vendor	body		VendorModel				true	"Профиль поставщика"
//	@Success		201		{object}	map[string]interface{}	"Успешное добавление"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse			"Коллизия идентификаторов"
//	@Router			/vendors [post]
func (h *VendorHandler) addVendor(w http.ResponseWriter, r *http.Request) {
	var model VendorModel
	if err := decodeJSON(r, &model); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	if err := h.vendorUsecase.AddVendor(r.Context(), &usecase.AddVendorReq{Vendor: model.toDomain()}); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]interface{}{
		"vendor_id": model.VendorID,
		"status":    "added",
	})
}

// getVendor
//
//	@Summary	Профиль поставщика
//	@Tags		vendors
//	@Produce	json
//	@Param		vendor_id	path		string			true	"Идентификатор поставщика"
//	@Success	200			{object}	VendorModel
//	@Failure	404			{object}	ErrorResponse	"Поставщик не найден"
//	@Router		/vendors/{vendor_id} [get]
func (h *VendorHandler) getVendor(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "vendor_id")

	info, err := h.vendorUsecase.GetVendor(r.Context(), vendorID)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toVendorModel(info.Vendor))
}

// updateVendor
//
//	@Summary		Частичное обновление профиля
//	@Description	Обновляет переданные поля профиля и перегенерирует эмбеддинг
//	@Tags			vendors
//	@Accept			json
//	@Produce		json
//	@Param			vendor_id	path		string					true	"Идентификатор поставщика"
//	@Param			update		body		VendorUpdateModel		true	"Изменяемые поля"
//	@Success		200			{object}	map[string]interface{}	"Список обновленных полей"
//	@Failure		400			{object}	ErrorResponse			"Пустое обновление"
//	@Failure		404			{object}	ErrorResponse			"Поставщик не найден"
//	@Router			/vendors/{vendor_id} [patch]
func (h *VendorHandler) updateVendor(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "vendor_id")

	var model VendorUpdateModel
	if err := decodeJSON(r, &model); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.vendorUsecase.UpdateVendor(r.Context(), &usecase.UpdateVendorReq{
		VendorID: vendorID,
		Update:   model.toDomain(),
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"vendor_id":      res.VendorID,
		"updated_fields": res.UpdatedFields,
	})
}

// deleteVendor
//
//	@Summary	Удаление поставщика
//	@Tags		vendors
//	@Produce	json
//	@Param		vendor_id	path		string			true	"Идентификатор поставщика"
//	@Success	200			{object}	map[string]interface{}
//	@Failure	404			{object}	ErrorResponse	"Поставщик не найден"
//	@Router		/vendors/{vendor_id} [delete]
func (h *VendorHandler) deleteVendor(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "vendor_id")

	if err := h.vendorUsecase.DeleteVendor(r.Context(), vendorID); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"vendor_id": vendorID,
		"status":    "deleted",
	})
}

// syncVendors
//
//	@Summary		Синхронизация поставщиков
//	@Description	Батчевая загрузка профилей из внешней системы, ошибки отдельных профилей не прерывают остальные
//	@Tags			vendors
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SyncVendorsModel	true	"Профили и флаг принудительного обновления"
//	@Success		200		{object}	map[string]interface{}	"Счетчики синхронизации"
//	@Failure		400		{object}	ErrorResponse
//	@Router			/vendors/sync [post]
func (h *VendorHandler) syncVendors(w http.ResponseWriter, r *http.Request) {
	var model SyncVendorsModel
	if err := decodeJSON(r, &model); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	req := &usecase.SyncVendorsReq{ForceUpdate: model.ForceUpdate}
	for _, vm := range model.Vendors {
		req.Vendors = append(req.Vendors, vm.toDomain())
	}

	res, err := h.vendorUsecase.SyncVendors(r.Context(), req)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"synced":  res.Synced,
		"updated": res.Updated,
		"failed":  res.Failed,
		"errors":  res.Errors,
	})
}
