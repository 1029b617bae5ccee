package clients

import (
	"context"
	"fmt"

	config "github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

type QdrantClient struct {
	Client *qdrant.Client
	cfg    *config.QdrantCfg
}

func NewQdrantClient(cfg *config.QdrantCfg) (*QdrantClient, error) {
	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.ApiKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &QdrantClient{
		Client: qdrantClient,
		cfg:    cfg,
	}, nil
}

// EnsureCollections создает коллекции поставщиков и тендеров, если их еще нет.
func EnsureCollections(ctx context.Context, client *QdrantClient) error {
	for _, name := range []string{client.cfg.VendorsCollection, client.cfg.TendersCollection} {
		exists, err := client.Client.CollectionExists(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to check collection existence: %w", err)
		}

		if !exists {
			if err := client.Client.CreateCollection(ctx, &qdrant.CreateCollection{
				CollectionName: name,
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
					Size:     client.cfg.VectorSize,
					Distance: qdrant.Distance_Cosine,
				}),
			}); err != nil {
				return fmt.Errorf("failed to create collection %s: %w", name, err)
			}
		}
	}

	return nil
}
