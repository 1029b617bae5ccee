package domain

// Document описывает сопроводительный документ тендера, хранящийся в S3.
type Document struct {
	ID        string // uuid
	Bucket    string
	ObjectKey string
	Bytes     []byte
	// Передайте значение -1 в Size, если размер потока неизвестен.
	Size     *int64
	MimeType *string // Example: "application/pdf"
}

func NewDocument(id string, bucket string, objectKey string, data []byte, size *int64, mimeType *string) *Document {
	return &Document{
		ID:        id,
		Bucket:    bucket,
		ObjectKey: objectKey,
		Bytes:     data,
		Size:      size,
		MimeType:  mimeType,
	}
}
