package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/config"
	"github.com/ahmednasr/ai-in-action/embed-api/internal/metrics"
	"github.com/ahmednasr/ai-in-action/embed-api/internal/service"
)

// loadModel builds the model handle for the configured backend. It runs once,
// before the listener opens.
func loadModel(ctx context.Context, cfg config.Config) (service.Embedder, error) {
	start := time.Now()
	slog.Info("loading embedding model", "model", cfg.ModelName, "backend", cfg.ModelBackend)

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s (%s): %w", cfg.ModelName, cfg.ModelBackend, err)
	}

	elapsed := time.Since(start)
	metrics.ModelLoadSeconds.WithLabelValues(cfg.ModelName, cfg.ModelBackend).Set(elapsed.Seconds())
	slog.Info("model loaded", "model", cfg.ModelName, "backend", cfg.ModelBackend, "duration", elapsed.String())
	return embedder, nil
}

func newEmbedder(ctx context.Context, cfg config.Config) (service.Embedder, error) {
	switch cfg.ModelBackend {
	case config.BackendLocal:
		return service.NewLocalEmbedder(service.LocalOptions{
			ModelName: cfg.ModelName,
			ModelDir:  cfg.ModelDir,
			ModelPath: cfg.ModelPath,
			OnnxFile:  cfg.ModelOnnxFile,
		})
	case config.BackendOllama:
		return service.NewOllamaEmbedder(cfg.OllamaURL, cfg.ModelName), nil
	case config.BackendOpenAI:
		return service.NewOpenAIEmbedder(cfg.OpenAIURL, cfg.ModelName, cfg.OpenAIAPIKey, 0), nil
	case config.BackendVertex:
		return service.NewVertexEmbedder(ctx, service.VertexOptions{
			ProjectID:       cfg.GCPProjectID,
			Location:        cfg.GCPLocation,
			Model:           cfg.ModelName,
			CredentialsFile: cfg.GCPCredentialsFile,
		})
	case config.BackendHash:
		return service.NewHashEmbedder(cfg.ModelDimensions)
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.ModelBackend)
	}
}
