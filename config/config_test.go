package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docrag/docrag-be/types"
)

func validConfig() *Config {
	return &Config{
		Port:           "8080",
		RequestTimeout: 60 * time.Second,
		Weaviate:       WeaviateConfig{Host: "localhost:8081", ClassName: "DocumentChunk"},
		Storage:        StorageConfig{MongoURI: "mongodb://localhost:27017", Database: "docrag", Container: "pdf-articles"},
		Embedding:      EmbeddingConfig{Model: "text-embedding-3-small", Dimension: 384},
		LLM:            LLMConfig{Provider: "openai", Model: "gpt-4o-mini"},
		Indexing:       IndexingConfig{ChunkSize: 1000, Overlap: 200, MinContentLength: 50, BatchSize: 100, TopK: 4},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing weaviate host", func(c *Config) { c.Weaviate.Host = "" }},
		{"missing mongo uri", func(c *Config) { c.Storage.MongoURI = "" }},
		{"zero chunk size", func(c *Config) { c.Indexing.ChunkSize = 0 }},
		{"negative overlap", func(c *Config) { c.Indexing.Overlap = -1 }},
		{"overlap equals chunk size", func(c *Config) { c.Indexing.Overlap = c.Indexing.ChunkSize }},
		{"zero batch size", func(c *Config) { c.Indexing.BatchSize = 0 }},
		{"zero embedding dimension", func(c *Config) { c.Embedding.Dimension = 0 }},
		{"unknown llm provider", func(c *Config) { c.LLM.Provider = "anthropic" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrConfiguration)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
weaviate:
  host: weaviate.internal:8081
storage:
  container: my-articles
indexing:
  chunk_size: 500
  overlap: 100
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("MONGODB_URI", "mongodb://mongo.internal:27017")
	t.Setenv("WEAVIATE_APIKEY", "secret-key")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "weaviate.internal:8081", cfg.Weaviate.Host)
	assert.Equal(t, "secret-key", cfg.Weaviate.APIKey)
	assert.Equal(t, "mongodb://mongo.internal:27017", cfg.Storage.MongoURI)
	assert.Equal(t, "my-articles", cfg.Storage.Container)
	assert.Equal(t, 500, cfg.Indexing.ChunkSize)
	assert.Equal(t, 100, cfg.Indexing.Overlap)

	// Defaults fill everything the file and environment left out.
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "DocumentChunk", cfg.Weaviate.ClassName)
	assert.Equal(t, "docrag", cfg.Storage.Database)
	assert.Equal(t, 384, cfg.Embedding.Dimension)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 100, cfg.Indexing.BatchSize)
	assert.Equal(t, 4, cfg.Indexing.TopK)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
weaviate:
  host: localhost:8081
indexing:
  chunk_size: 100
  overlap: 100
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}
