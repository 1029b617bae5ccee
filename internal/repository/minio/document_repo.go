package minio

import (
	"bytes"
	"context"

	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/e"
)

// DocumentRepo реализует хранилище документов тендеров поверх MinIO.
type DocumentRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewDocumentRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *DocumentRepo {
	return &DocumentRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает документ в MinIO и возвращает ключ объекта.
func (d *DocumentRepo) Upload(ctx context.Context, doc *domain.Document) (string, error) {
	reader := bytes.NewReader(doc.Bytes)

	info, err := d.mc.PutObject(ctx, d.cfg.BucketName, doc.ObjectKey, reader, *doc.Size, minio.PutObjectOptions{
		ContentType: *doc.MimeType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (d *DocumentRepo) Delete(ctx context.Context, key string) error {
	if err := d.mc.RemoveObject(ctx, d.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
