package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/tendermesh/matching-backend/internal/cfg"
	v1Http "github.com/tendermesh/matching-backend/internal/delivery/v1/http"
	"github.com/tendermesh/matching-backend/internal/infrastructure/embedding"
	"github.com/tendermesh/matching-backend/internal/infrastructure/kafka"
	minioInfra "github.com/tendermesh/matching-backend/internal/infrastructure/minio"
	s3Repo "github.com/tendermesh/matching-backend/internal/repository/minio"
	"github.com/tendermesh/matching-backend/internal/repository/pgdb"
	qdrantRepo "github.com/tendermesh/matching-backend/internal/repository/qdrant"
	redisRepo "github.com/tendermesh/matching-backend/internal/repository/redis"
	"github.com/tendermesh/matching-backend/internal/usecase"
	"github.com/tendermesh/matching-backend/pkg/clients"
	"github.com/tendermesh/matching-backend/pkg/closer"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
	"github.com/tendermesh/matching-backend/pkg/postgres"
)

// App связывает все слои сервиса подбора и управляет их жизненным циклом.
type App struct {
	cfg       *config.Config
	logger    logger.Logger
	httpSrv   *v1Http.Server
	closer    *closer.Closer
	docsInfra *minioInfra.DocumentsInfrastructure

	// shutdownCancel останавливает фоновые компенсации при завершении приложения.
	shutdownCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	idRegistryRepo := pgdb.NewIDRegistryRepo(db.Pool)
	feedbackEventRepo := pgdb.NewFeedbackEventRepo(db.Pool)

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	qdrantCtx, qdrantCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureCollections(qdrantCtx, qdrantClient); err != nil {
		qdrantCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	qdrantCancel()
	cl.Add(func(ctx context.Context) error {
		return qdrantClient.Client.Close()
	})

	vendorRepo := qdrantRepo.NewVendorRepo(qdrantClient.Client, cfg.Qdrant)
	tenderRepo := qdrantRepo.NewTenderRepo(qdrantClient.Client, cfg.Qdrant)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(redisCtx); err != nil {
		redisCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	redisCancel()
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	matchCacheRepo := redisRepo.NewMatchCacheRepo(redisClient, cfg.Redis, log)

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	minioCancel()

	documentRepo := s3Repo.NewDocumentRepo(minioClient, cfg.Minio)

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	docsInfra := minioInfra.NewDocumentsInfrastructure(documentRepo, cfg.Minio, log, shutdownCtx)

	provider := embedding.NewProvider(clients.NewOpenAIClient(cfg.OpenAI), cfg.OpenAI, log)
	embeddings := embedding.NewCache(provider, cfg.Matching, cfg.OpenAI.Model, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Warnf("kafka topic check failed, events may be dropped: %v", err)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	matchingUC := usecase.NewMatchingUC(embeddings, vendorRepo, tenderRepo, idRegistryRepo, matchCacheRepo, log, cfg.Matching)
	vendorUC := usecase.NewVendorUC(embeddings, vendorRepo, idRegistryRepo, feedbackEventRepo, db.Pool, log)
	tenderUC := usecase.NewTenderUC(embeddings, tenderRepo, idRegistryRepo, docsInfra, log)
	feedbackUC := usecase.NewFeedbackUC(embeddings, vendorRepo, feedbackEventRepo, producer, log, cfg.Matching)
	systemUC := usecase.NewSystemUC(vendorRepo, tenderRepo, embeddings, cfg.OpenAI.Model, cfg.Qdrant.VectorSize, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(matchingUC, vendorUC, tenderUC, feedbackUC, systemUC)

	return &App{
		cfg:            cfg,
		logger:         log,
		httpSrv:        v1Http.NewServer(r, cfg.Http),
		closer:         cl,
		docsInfra:      docsInfra,
		shutdownCancel: shutdownCancel,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала останова или фатальной ошибки.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed: %v", err)
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	// Даем фоновым компенсациям MinIO завершиться до закрытия клиентов.
	if err := a.docsInfra.WaitForCleanup(shutdownCtx); err != nil {
		a.logger.Warnf("MinIO cleanup did not finish before shutdown: %v", err)
	}
	a.shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("resource shutdown finished with errors: %v", err)
	}

	a.logger.Infof("Application shutdown complete")

	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
