package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrVendorIDRequired):
		return http.StatusBadRequest, e.ErrVendorIDRequired.Error()
	case errors.Is(err, e.ErrCompanyNameRequired):
		return http.StatusBadRequest, e.ErrCompanyNameRequired.Error()
	case errors.Is(err, e.ErrBusinessTypeRequired):
		return http.StatusBadRequest, e.ErrBusinessTypeRequired.Error()
	case errors.Is(err, e.ErrTenderIDRequired):
		return http.StatusBadRequest, e.ErrTenderIDRequired.Error()
	case errors.Is(err, e.ErrTenderTitleRequired):
		return http.StatusBadRequest, e.ErrTenderTitleRequired.Error()
	case errors.Is(err, e.ErrIndustryRequired):
		return http.StatusBadRequest, e.ErrIndustryRequired.Error()
	case errors.Is(err, e.ErrInvalidStatePreference):
		return http.StatusBadRequest, e.ErrInvalidStatePreference.Error()
	case errors.Is(err, e.ErrStatesRequired):
		return http.StatusBadRequest, e.ErrStatesRequired.Error()
	case errors.Is(err, e.ErrInvalidTopK):
		return http.StatusBadRequest, e.ErrInvalidTopK.Error()
	case errors.Is(err, e.ErrInvalidRating):
		return http.StatusBadRequest, e.ErrInvalidRating.Error()
	case errors.Is(err, e.ErrInvalidEstimatedValue):
		return http.StatusBadRequest, e.ErrInvalidEstimatedValue.Error()
	case errors.Is(err, e.ErrValuePrecision):
		return http.StatusBadRequest, e.ErrValuePrecision.Error()
	case errors.Is(err, e.ErrNoUpdateFields):
		return http.StatusBadRequest, e.ErrNoUpdateFields.Error()
	case errors.Is(err, e.ErrNoDocuments):
		return http.StatusBadRequest, e.ErrNoDocuments.Error()
	case errors.Is(err, e.ErrTooManyDocuments):
		return http.StatusBadRequest, e.ErrTooManyDocuments.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusBadRequest, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrIDCollision):
		return http.StatusConflict, e.ErrIDCollision.Error()
	case errors.Is(err, e.ErrVendorNotFound):
		return http.StatusNotFound, e.ErrVendorNotFound.Error()
	case errors.Is(err, e.ErrTenderNotFound):
		return http.StatusNotFound, e.ErrTenderNotFound.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}
	return nil
}

// parseValueToPaise конвертирует строку вида "2500000.50" в пайсы (int64).
// Возвращает ошибку при неверном формате, более чем двух знаках после запятой,
// отрицательном значении или превышении разумного предела.
func parseValueToPaise(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.ErrInvalidEstimatedValue
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidEstimatedValue
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidEstimatedValue
	}

	// Предел 10^12 рупий покрывает любой реальный тендер
	maxValue := decimal.NewFromInt(1_000_000_000_000)
	if d.GreaterThan(maxValue) {
		return 0, e.ErrInvalidEstimatedValue
	}

	if d.Exponent() < -2 {
		return 0, e.ErrValuePrecision
	}

	paise := d.Mul(decimal.NewFromInt(100)).Round(0)

	return paise.IntPart(), nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

func parseDocuments(files []*multipart.FileHeader) ([]usecase.TenderDocument, error) {
	const (
		maxDocumentCount = 10
		maxFileSize      = 25 << 20
	)

	if len(files) == 0 {
		return nil, e.ErrNoDocuments
	}
	if len(files) > maxDocumentCount {
		return nil, e.ErrTooManyDocuments
	}

	docs := make([]usecase.TenderDocument, 0, len(files))
	for _, fh := range files {
		data, mimeType, err := readFile(fh, maxFileSize)
		if err != nil {
			return nil, err
		}
		docs = append(docs, usecase.TenderDocument{
			Data:     data,
			MimeType: mimeType,
			Size:     int64(len(data)),
			Name:     fh.Filename,
		})
	}
	return docs, nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data[:min(len(data), 512)])
	}
	return data, mimeType, nil
}
