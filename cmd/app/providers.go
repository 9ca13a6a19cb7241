package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/queue-eta/internal/domain/waittime"
	"github.com/yanqian/queue-eta/internal/infra/artifact"
	"github.com/yanqian/queue-eta/internal/infra/config"
	"github.com/yanqian/queue-eta/pkg/metrics"
)

const artifactLoadTimeout = 30 * time.Second

func provideArtifactFetcher(cfg *config.Config, logger *slog.Logger) (artifact.Fetcher, error) {
	store := cfg.Model.ObjectStore
	if !store.Enabled {
		return nil, nil
	}
	return artifact.NewObjectStoreFetcher(artifact.ObjectStoreConfig{
		Endpoint:  store.Endpoint,
		AccessKey: store.AccessKey,
		SecretKey: store.SecretKey,
		Bucket:    store.Bucket,
		Key:       store.Key,
		Region:    store.Region,
	}, logger)
}

func provideArtifact(cfg *config.Config, fetcher artifact.Fetcher, logger *slog.Logger) (*artifact.Artifact, error) {
	ctx, cancel := context.WithTimeout(context.Background(), artifactLoadTimeout)
	defer cancel()

	model, err := artifact.Open(ctx, cfg.Model.Path, fetcher)
	if err != nil {
		return nil, err
	}

	declared := model.DeclaredVersion()
	if declared != "" && declared != cfg.Model.Version {
		logger.Warn("artifact version differs from configured model version; responses are labelled with the configured tag",
			"configured", cfg.Model.Version, "artifact", declared, "path", cfg.Model.Path)
	}
	logger.Info("model artifact loaded", "path", cfg.Model.Path, "kind", model.Kind(), "model_version", cfg.Model.Version)
	metrics.SetModelInfo(cfg.Model.Version, model.Kind())
	return model, nil
}

func providePredictor(cfg *config.Config, model *artifact.Artifact) (*waittime.Predictor, error) {
	return waittime.NewPredictor(model, cfg.Model.Version)
}
