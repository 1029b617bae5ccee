package infrastructure

import "github.com/tendermesh/matching-backend/pkg/e"

// GetExtensionFromMIME возвращает расширение файла по MIME-типу документа.
// Поддерживает pdf, doc, docx, xls, xlsx. Возвращает ошибку e.ErrUnsupportedMediaType для неподдерживаемых типов.
func GetExtensionFromMIME(mime string) (string, error) {
	switch mime {
	case "application/pdf":
		return "pdf", nil
	case "application/msword":
		return "doc", nil
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "docx", nil
	case "application/vnd.ms-excel":
		return "xls", nil
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return "xlsx", nil
	default:
		return "bin", e.ErrUnsupportedMediaType
	}
}
