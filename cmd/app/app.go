package main

import (
	"os"

	"github.com/tendermesh/matching-backend/internal/app"
	config "github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

//	@title			TenderMesh Matching API
//	@version		1.0
//	@description	Сервис подбора поставщиков под тендеры на основе векторного поиска

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
