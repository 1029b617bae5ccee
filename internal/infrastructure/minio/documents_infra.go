package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/internal/infrastructure"
	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"

	"github.com/google/uuid"
)

// DocumentsInfrastructure управляет загрузкой и очисткой документов тендеров в MinIO.
type DocumentsInfrastructure struct {
	docsRepo        usecase.DocumentRepository
	cfg             *cfg.MinIOCfg
	logger          logger.Logger
	shutdownCtx     context.Context
	wg              sync.WaitGroup
	uploadDocsLimit int
}

func NewDocumentsInfrastructure(docsRepo usecase.DocumentRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *DocumentsInfrastructure {
	return &DocumentsInfrastructure{
		docsRepo:        docsRepo,
		cfg:             cfg,
		logger:          logger,
		shutdownCtx:     shutdownCtx,
		wg:              sync.WaitGroup{},
		uploadDocsLimit: cfg.UploadDocsLimit,
	}
}

// UploadDocuments загружает документы тендера в MinIO параллельно с ограничением одновременных операций.
// В случае ошибки отменяет остальные загрузки и запускает очистку уже загруженных файлов.
func (m *DocumentsInfrastructure) UploadDocuments(ctx context.Context, req *usecase.UploadDocumentsReq) (*usecase.UploadDocumentsRes, error) {
	const op = "DocumentsInfrastructure.UploadDocuments"
	// Отмена остальных загрузок при первой ошибке
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keyCh := make(chan string, len(req.Documents))
	errCh := make(chan error, len(req.Documents))
	sem := make(chan struct{}, m.uploadDocsLimit)

	var uploadWg sync.WaitGroup
	for _, doc := range req.Documents {
		uploadWg.Add(1)
		go func() {
			defer uploadWg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			docID := uuid.NewString()
			ext, err := infrastructure.GetExtensionFromMIME(doc.MimeType)
			if err != nil {
				errCh <- fmt.Errorf("invalid mime type %s for %s: %w", doc.MimeType, doc.Name, err)
				return
			}
			objKey := fmt.Sprintf("%s/%s-%s.%s", req.TenderID, doc.Name, docID, ext)
			newDoc := domain.NewDocument(docID, m.cfg.BucketName, objKey, doc.Data, &doc.Size, &doc.MimeType)

			key, err := m.docsRepo.Upload(ctx, newDoc)
			if err != nil {
				errCh <- fmt.Errorf("upload %s failed: %w", doc.Name, err)
				return
			}

			keyCh <- key
		}()
	}

	go func() {
		uploadWg.Wait()
		close(errCh)
		close(keyCh)
	}()

	keys := make([]string, 0, len(req.Documents))
	ok := false
	defer func() {
		if !ok && len(keys) > 0 {
			m.wg.Add(1)
			go m.cleanupUploadedKeys(keys)
		}
	}()

	for completed := 0; completed < len(req.Documents); {
		select {
		case key, open := <-keyCh:
			if open {
				keys = append(keys, key)
				completed++
			}
		case err, open := <-errCh:
			if open {
				cancel()
				return nil, e.Wrap(op, err)
			}
		case <-ctx.Done():
			cancel()
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	ok = true
	return &usecase.UploadDocumentsRes{DocumentKeys: keys}, nil
}

// CleanupDocuments запускает фоновую очистку указанных ключей MinIO
func (m *DocumentsInfrastructure) CleanupDocuments(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет указанные объекты из MinIO с экспоненциальной задержкой и jitter.
func (m *DocumentsInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done() // сигнализируем завершение компенсации
	const op = "DocumentsInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: Cleaning up uploaded keys", op)

	// Создаём контекст с таймаутом на основе shutdownCtx
	ctx, cancel := context.WithTimeout(m.shutdownCtx, 30*time.Second)
	defer cancel()

	for _, key := range keys {
		backoff := time.Second
		for attempt := 0; attempt < 3; attempt++ {
			if err := m.docsRepo.Delete(ctx, key); err == nil {
				break // Успешно удалено
			}

			// Проверяем, не отменён ли контекст
			select {
			case <-ctx.Done():
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			default:
			}

			if attempt < 2 {
				// Добавляем jitter для распределения нагрузки
				jitter := time.Duration(time.Now().UnixNano() % int64(time.Second))
				sleepTime := backoff + jitter

				select {
				case <-time.After(sleepTime):
				case <-ctx.Done():
					m.logger.Warnf("cleanup interrupted by shutdown during backoff, key=%v", key)
					return
				}
				backoff *= 2
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *DocumentsInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
