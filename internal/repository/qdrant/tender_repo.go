package qdrant

import (
	"context"

	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/internal/repository/qdrant/converter"
	"github.com/tendermesh/matching-backend/pkg/e"
)

// TenderRepo репозиторий точек тендеров в Qdrant.
type TenderRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewTenderRepo(client *qdrant.Client, cfg *cfg.QdrantCfg) *TenderRepo {
	return &TenderRepo{
		client: client,
		cfg:    cfg,
	}
}

// UpsertPreserving идемпотентно сохраняет тендер. Если точка уже существует,
// обновляется только вектор, payload остается прежним.
func (q *TenderRepo) UpsertPreserving(ctx context.Context, tender *domain.Tender, vector []float32) error {
	pointID := domain.PointID(tender.ID)

	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.cfg.TendersCollection,
		Ids:            []*qdrant.PointId{qdrant.NewIDNum(pointID)},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if len(points) > 0 {
		_, err = q.client.UpdateVectors(ctx, &qdrant.UpdatePointVectors{
			CollectionName: q.cfg.TendersCollection,
			Wait:           qdrant.PtrOf(true),
			Points: []*qdrant.PointVectors{
				{
					Id:      qdrant.NewIDNum(pointID),
					Vectors: qdrant.NewVectors(vector...),
				},
			},
		})
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		return nil
	}

	_, err = q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.TendersCollection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDNum(pointID),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(converter.ToTenderPayload(tender)),
			},
		},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Retrieve возвращает тендер из payload его точки.
func (q *TenderRepo) Retrieve(ctx context.Context, tenderID string) (*domain.Tender, error) {
	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.cfg.TendersCollection,
		Ids:            []*qdrant.PointId{qdrant.NewIDNum(domain.PointID(tenderID))},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if len(points) == 0 {
		return nil, e.ErrTenderNotFound
	}

	tender := converter.ToTender(points[0].Payload)

	return &tender, nil
}

// SetDocumentKeys обновляет ключи документов в payload точки, не трогая вектор.
func (q *TenderRepo) SetDocumentKeys(ctx context.Context, tenderID string, keys []string) error {
	_, err := q.client.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: q.cfg.TendersCollection,
		Payload:        qdrant.NewValueMap(converter.DocumentKeysPayload(keys)),
		PointsSelector: qdrant.NewPointsSelector(qdrant.NewIDNum(domain.PointID(tenderID))),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Count возвращает число точек в коллекции тендеров.
func (q *TenderRepo) Count(ctx context.Context) (uint64, error) {
	count, err := q.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: q.cfg.TendersCollection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}
