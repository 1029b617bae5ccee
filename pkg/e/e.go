package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки с векторами
	ErrEmptyVector         = fmt.Errorf("empty embedding vector")
	ErrVectorCountMismatch = fmt.Errorf("embedding count mismatch")

	// Ошибки внешнего провайдера эмбеддингов
	ErrRateLimited   = fmt.Errorf("embedding provider rate limited")
	ErrProviderEmpty = fmt.Errorf("embedding provider returned no data")

	// Конфликт интегрированных идентификаторов в реестре точек
	ErrIDCollision = fmt.Errorf("point id collision with another external id")

	// 400 Bad Request
	ErrStatusBadRequest       = fmt.Errorf("bad request")
	ErrCompanyNameRequired    = fmt.Errorf("company name is required")
	ErrBusinessTypeRequired   = fmt.Errorf("business type is required")
	ErrVendorIDRequired       = fmt.Errorf("vendor id is required")
	ErrTenderIDRequired       = fmt.Errorf("tender id is required")
	ErrTenderTitleRequired    = fmt.Errorf("tender title is required")
	ErrIndustryRequired       = fmt.Errorf("industry is required")
	ErrInvalidStatePreference = fmt.Errorf("state preference must be pan_india or specific_states")
	ErrStatesRequired         = fmt.Errorf("states are required for specific_states preference")
	ErrInvalidTopK            = fmt.Errorf("top_k must be between 1 and 20")
	ErrInvalidRating          = fmt.Errorf("rating must be between 1 and 5")
	ErrInvalidEstimatedValue  = fmt.Errorf("invalid estimated value")
	ErrValuePrecision         = fmt.Errorf("estimated value must have at most 2 decimal places")
	ErrNoUpdateFields         = fmt.Errorf("no update fields provided")
	ErrExpectedMultipart      = fmt.Errorf("expected multipart/form-data")
	ErrNoDocuments            = fmt.Errorf("no documents provided")
	ErrTooManyDocuments       = fmt.Errorf("too many documents")
	ErrFileTooLarge           = fmt.Errorf("file too large")
	ErrUnsupportedMediaType   = fmt.Errorf("unsupported media type")

	// 404 Not Found
	ErrVendorNotFound = fmt.Errorf("vendor not found")
	ErrTenderNotFound = fmt.Errorf("tender not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
