package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/tr"
)

const uniqueViolationCode = "23505"

// IDRegistryRepo хранит соответствие внешних идентификаторов числовым id точек.
// Уникальный индекс по (kind, point_id) превращает коллизию усеченного md5
// двух разных внешних идентификаторов в ошибку вместо молчаливой перезаписи.
type IDRegistryRepo struct {
	pool *pgxpool.Pool
}

func NewIDRegistryRepo(pool *pgxpool.Pool) *IDRegistryRepo {
	return &IDRegistryRepo{pool: pool}
}

// Register фиксирует пару «внешний идентификатор, id точки». Повторная
// регистрация той же пары идемпотентна, занятый чужим идентификатором
// id точки дает e.ErrIDCollision.
func (r *IDRegistryRepo) Register(ctx context.Context, kind string, externalID string) error {
	query := `
		INSERT INTO id_registry (kind, external_id, point_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, external_id) DO NOTHING
	`

	_, err := r.executor(ctx).Exec(ctx, query, kind, externalID, int64(domain.PointID(externalID)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return e.Wrap(whereami.WhereAmI(), e.ErrIDCollision)
		}

		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Delete удаляет запись реестра.
func (r *IDRegistryRepo) Delete(ctx context.Context, kind string, externalID string) error {
	query := `DELETE FROM id_registry WHERE kind = $1 AND external_id = $2`

	if _, err := r.executor(ctx).Exec(ctx, query, kind, externalID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

type executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// executor возвращает транзакцию из контекста, если она открыта, иначе пул.
func (r *IDRegistryRepo) executor(ctx context.Context) executor {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx
	}

	return r.pool
}
