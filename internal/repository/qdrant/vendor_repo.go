package qdrant

import (
	"context"

	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/internal/repository/qdrant/converter"
	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/e"
)

// VendorRepo репозиторий точек поставщиков в Qdrant.
type VendorRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewVendorRepo(client *qdrant.Client, cfg *cfg.QdrantCfg) *VendorRepo {
	return &VendorRepo{
		client: client,
		cfg:    cfg,
	}
}

// Upsert сохраняет или перезаписывает точку поставщика.
func (q *VendorRepo) Upsert(ctx context.Context, vendor *domain.Vendor, vector []float32) error {
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.VendorsCollection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDNum(domain.PointID(vendor.ID)),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(converter.ToVendorPayload(vendor)),
			},
		},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// UpsertBatch сохраняет несколько точек поставщиков одним запросом.
func (q *VendorRepo) UpsertBatch(ctx context.Context, items []usecase.VendorEmbedding) error {
	points := make([]*qdrant.PointStruct, 0, len(items))
	for _, item := range items {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(domain.PointID(item.Vendor.ID)),
			Vectors: qdrant.NewVectors(item.Vector...),
			Payload: qdrant.NewValueMap(converter.ToVendorPayload(&item.Vendor)),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.VendorsCollection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Search возвращает ближайших к вектору поставщиков по косинусной близости.
func (q *VendorRepo) Search(ctx context.Context, vector []float32, limit int, filter *usecase.SearchFilter) ([]usecase.VendorHit, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.cfg.VendorsCollection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		Filter:         buildFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	hits := make([]usecase.VendorHit, 0, len(points))
	for _, point := range points {
		hits = append(hits, usecase.VendorHit{
			Vendor: converter.ToVendor(point.Payload),
			Score:  float64(point.Score),
		})
	}

	return hits, nil
}

// Retrieve возвращает профиль поставщика из payload его точки.
func (q *VendorRepo) Retrieve(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.cfg.VendorsCollection,
		Ids:            []*qdrant.PointId{qdrant.NewIDNum(domain.PointID(vendorID))},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if len(points) == 0 {
		return nil, e.ErrVendorNotFound
	}

	vendor := converter.ToVendor(points[0].Payload)

	return &vendor, nil
}

// Exists проверяет наличие точки поставщика.
func (q *VendorRepo) Exists(ctx context.Context, vendorID string) (bool, error) {
	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.cfg.VendorsCollection,
		Ids:            []*qdrant.PointId{qdrant.NewIDNum(domain.PointID(vendorID))},
	})
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return len(points) > 0, nil
}

// UpdateVector заменяет вектор точки, не трогая payload.
func (q *VendorRepo) UpdateVector(ctx context.Context, vendorID string, vector []float32) error {
	_, err := q.client.UpdateVectors(ctx, &qdrant.UpdatePointVectors{
		CollectionName: q.cfg.VendorsCollection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointVectors{
			{
				Id:      qdrant.NewIDNum(domain.PointID(vendorID)),
				Vectors: qdrant.NewVectors(vector...),
			},
		},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Delete удаляет точку поставщика.
func (q *VendorRepo) Delete(ctx context.Context, vendorID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.cfg.VendorsCollection,
		Points:         qdrant.NewPointsSelector(qdrant.NewIDNum(domain.PointID(vendorID))),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Count возвращает число точек в коллекции поставщиков.
func (q *VendorRepo) Count(ctx context.Context) (uint64, error) {
	count, err := q.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: q.cfg.VendorsCollection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}

// buildFilter переводит фильтр поиска в условия Qdrant.
func buildFilter(filter *usecase.SearchFilter) *qdrant.Filter {
	if filter == nil {
		return nil
	}

	var must []*qdrant.Condition

	if filter.Industry != "" {
		must = append(must, qdrant.NewMatch("industries", filter.Industry))
	}

	if len(filter.States) > 0 {
		must = append(must, qdrant.NewMatchKeywords("states", filter.States...))
	}

	if len(must) == 0 {
		return nil
	}

	return &qdrant.Filter{Must: must}
}
