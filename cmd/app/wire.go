//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/queue-eta/internal/bootstrap"
	"github.com/yanqian/queue-eta/internal/domain/waittime"
	"github.com/yanqian/queue-eta/internal/infra/config"
	httpiface "github.com/yanqian/queue-eta/internal/interface/http"
	"github.com/yanqian/queue-eta/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideArtifactFetcher,
		provideArtifact,
		providePredictor,
		waittime.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
