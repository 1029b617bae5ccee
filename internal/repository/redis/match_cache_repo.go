package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	r "github.com/redis/go-redis/v9"
	"github.com/jimlawless/whereami"
	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/internal/repository/redis/converter"
	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/clients"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/jitter"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

// MatchCacheRepo кэширует готовые ответы подбора с коротким TTL.
// TTL получает джиттер, чтобы ключи горячих тендеров не истекали одновременно.
type MatchCacheRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewMatchCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *MatchCacheRepo {
	return &MatchCacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// GetMatches возвращает закэшированный ответ подбора, если он еще валиден.
func (m *MatchCacheRepo) GetMatches(ctx context.Context, tenderID string, topK int) (*usecase.MatchResponse, bool, error) {
	key := m.matchKey(tenderID, topK)

	data, err := m.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, false, nil
		}

		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.MatchResponseRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		m.logger.Warnf("Redis unmarshal failed, dropping key %s: %v", key, e.Wrap(whereami.WhereAmI(), err))
		if err := m.client.Client.Del(context.Background(), key).Err(); err != nil {
			m.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}

		return nil, false, nil
	}

	return converter.ToUseCase(&model), true, nil
}

// SetMatches кэширует ответ подбора. Ошибки записи логируются и не возвращаются
// наружу: кэш не участвует в корректности выдачи.
func (m *MatchCacheRepo) SetMatches(ctx context.Context, topK int, res *usecase.MatchResponse) error {
	data, err := json.Marshal(converter.ToRedisModel(res))
	if err != nil {
		m.logger.Warnf("Failed to marshal match response for caching (tender %s): %v",
			res.TenderID, e.Wrap(whereami.WhereAmI(), err))
		return nil
	}

	key := m.matchKey(res.TenderID, topK)
	ttl := jitter.Duration(m.cfg.MatchTTL, jitter.DefaultJitter)

	if err := m.client.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		m.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// matchKey возвращает Redis-ключ ответа подбора.
func (m *MatchCacheRepo) matchKey(tenderID string, topK int) string {
	return fmt.Sprintf("match:%s:%d", tenderID, topK)
}
