package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/tr"
)

// FeedbackEventRepo хранит журнал обработанной обратной связи.
type FeedbackEventRepo struct {
	pool *pgxpool.Pool
}

func NewFeedbackEventRepo(pool *pgxpool.Pool) *FeedbackEventRepo {
	return &FeedbackEventRepo{pool: pool}
}

// Insert добавляет запись об обработанной обратной связи.
func (r *FeedbackEventRepo) Insert(ctx context.Context, event *domain.FeedbackEvent) error {
	query := `
		INSERT INTO feedback_events
			(id, tender_id, vendor_id, match_success, selected, rating, comments, adjustment, reason, weight, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.executor(ctx).Exec(ctx, query,
		event.ID,
		event.TenderID,
		event.VendorID,
		event.MatchSuccess,
		event.Selected,
		event.Rating,
		event.Comments,
		string(event.Adjustment),
		event.Reason,
		event.Weight,
		event.CreatedAt,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteByVendor удаляет все записи обратной связи по поставщику.
func (r *FeedbackEventRepo) DeleteByVendor(ctx context.Context, vendorID string) error {
	query := `DELETE FROM feedback_events WHERE vendor_id = $1`

	if _, err := r.executor(ctx).Exec(ctx, query, vendorID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *FeedbackEventRepo) executor(ctx context.Context) executor {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx
	}

	return r.pool
}
