package cmd

import (
	"context"

	"go.uber.org/zap"

	"github.com/docrag/docrag-be/config"
	"github.com/docrag/docrag-be/database"
	"github.com/docrag/docrag-be/service"
	"github.com/docrag/docrag-be/utils"
)

// app holds the explicitly constructed process-lifetime clients. They are
// built once at command start and passed to each component; nothing is
// lazily initialized mid-run.
type app struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) newBlobStore(ctx context.Context) (*database.MongoBlobStore, error) {
	return database.NewMongoBlobStore(ctx, a.cfg.Storage, a.cfg.RequestTimeout)
}

func (a *app) newVectorIndex() (*database.WeaviateStore, error) {
	return database.NewWeaviateStore(a.cfg.Weaviate, a.cfg.Embedding.Dimension, a.cfg.RequestTimeout)
}

func (a *app) newEmbedder() *service.EmbeddingService {
	e := a.cfg.Embedding
	return service.NewEmbeddingService(e.BaseURL, e.APIKey, e.Model, e.Dimension, a.cfg.RequestTimeout)
}

func (a *app) newAIService(ctx context.Context) (service.AIService, error) {
	l := a.cfg.LLM
	switch l.Provider {
	case "gemini":
		return service.NewGeminiService(ctx, l.GeminiAPIKey, l.Model, a.cfg.RequestTimeout)
	default:
		return service.NewOpenAIService(l.BaseURL, l.APIKey, l.Model, a.cfg.RequestTimeout), nil
	}
}

func (a *app) newDocumentBuilder() (*service.DocumentBuilder, error) {
	chunker, err := service.NewTextChunker(a.cfg.Indexing.ChunkSize, a.cfg.Indexing.Overlap)
	if err != nil {
		return nil, err
	}
	return service.NewDocumentBuilder(
		service.NewPDFService(),
		chunker,
		a.newEmbedder(),
		a.cfg.Indexing.MinContentLength,
		a.logger,
	), nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
