package embedding

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

// embeddingAPI — минимальный срез клиента OpenAI, достаточный провайдеру.
type embeddingAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Provider векторизует текст через OpenAI Embeddings API.
// Батчи режутся на чанки с паузой между ними, а ответ 429 дает ровно одну
// повторную попытку после фиксированной паузы.
type Provider struct {
	client embeddingAPI
	cfg    *cfg.OpenAICfg
	logger logger.Logger
}

func NewProvider(client embeddingAPI, cfg *cfg.OpenAICfg, logger logger.Logger) *Provider {
	return &Provider{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Embed векторизует один текст.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	const op = "Provider.Embed"

	vectors, err := p.embedWithRetry(ctx, []string{text}, p.cfg.SingleBackoff)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return vectors[0], nil
}

// EmbedBatch векторизует список текстов, сохраняя порядок.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	const op = "Provider.EmbedBatch"

	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += p.cfg.MaxBatchSize {
		end := min(start+p.cfg.MaxBatchSize, len(texts))

		vectors, err := p.embedWithRetry(ctx, texts[start:end], p.cfg.BatchBackoff)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		out = append(out, vectors...)

		// Пауза между чанками снижает шанс попасть в лимиты провайдера.
		if end < len(texts) {
			select {
			case <-time.After(p.cfg.InterBatchWait):
			case <-ctx.Done():
				return nil, e.Wrap(op, ctx.Err())
			}
		}
	}

	return out, nil
}

// embedWithRetry выполняет один запрос к API и ровно одну повторную попытку,
// если провайдер ответил лимитом запросов.
func (p *Provider) embedWithRetry(ctx context.Context, texts []string, backoff time.Duration) ([][]float32, error) {
	vectors, err := p.embed(ctx, texts)
	if err == nil {
		return vectors, nil
	}

	if !isRateLimit(err) {
		return nil, err
	}

	p.logger.Warnf("embedding provider rate limited, retrying in %v. batch_size: %d", backoff, len(texts))

	select {
	case <-time.After(backoff):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	vectors, err = p.embed(ctx, texts)
	if err != nil {
		if isRateLimit(err) {
			return nil, e.Wrap(err.Error(), e.ErrRateLimited)
		}
		return nil, err
	}

	return vectors, nil
}

func (p *Provider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	res, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(p.cfg.Model),
	})
	if err != nil {
		return nil, err
	}

	if len(res.Data) != len(texts) {
		return nil, e.ErrVectorCountMismatch
	}

	// Провайдер не гарантирует порядок элементов в ответе.
	out := make([][]float32, len(texts))
	for _, item := range res.Data {
		if item.Index < 0 || item.Index >= len(out) {
			return nil, e.ErrVectorCountMismatch
		}
		out[item.Index] = item.Embedding
	}

	for _, v := range out {
		if len(v) == 0 {
			return nil, e.ErrEmptyVector
		}
	}

	return out, nil
}

// isRateLimit распознает ответ 429 в ошибках клиента OpenAI.
func isRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"rate limit", "rate_limit", "too many", "429"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
