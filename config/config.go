package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/docrag/docrag-be/types"
)

type Config struct {
	Debug          bool            `mapstructure:"debug"`
	Port           string          `mapstructure:"port"`
	RequestTimeout time.Duration   `mapstructure:"request_timeout"`
	Weaviate       WeaviateConfig  `mapstructure:"weaviate"`
	Storage        StorageConfig   `mapstructure:"storage"`
	Embedding      EmbeddingConfig `mapstructure:"embedding"`
	LLM            LLMConfig       `mapstructure:"llm"`
	Indexing       IndexingConfig  `mapstructure:"indexing"`
}

type WeaviateConfig struct {
	Host      string `mapstructure:"host"`
	APIKey    string `mapstructure:"WEAVIATE_APIKEY"` // Changed to match env var
	ClassName string `mapstructure:"class_name"`
}

type StorageConfig struct {
	MongoURI  string `mapstructure:"MONGODB_URI"`
	Database  string `mapstructure:"database"`
	Container string `mapstructure:"container"`
}

type EmbeddingConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"OPENAI_API_KEY"`
	Model     string `mapstructure:"model"`
	Dimension int    `mapstructure:"dimension"`
}

type LLMConfig struct {
	Provider     string `mapstructure:"provider"` // "openai" or "gemini"
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	Model        string `mapstructure:"model"`
}

type IndexingConfig struct {
	ChunkSize        int `mapstructure:"chunk_size"`
	Overlap          int `mapstructure:"overlap"`
	MinContentLength int `mapstructure:"min_content_length"`
	BatchSize        int `mapstructure:"batch_size"`
	TopK             int `mapstructure:"top_k"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("request_timeout", 60*time.Second)
	v.SetDefault("weaviate.class_name", "DocumentChunk")
	v.SetDefault("storage.database", "docrag")
	v.SetDefault("storage.container", "pdf-articles")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimension", 384)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("indexing.chunk_size", 1000)
	v.SetDefault("indexing.overlap", 200)
	v.SetDefault("indexing.min_content_length", 50)
	v.SetDefault("indexing.batch_size", 100)
	v.SetDefault("indexing.top_k", 4)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("weaviate.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")
	v.BindEnv("storage.MONGODB_URI", "MONGODB_URI")
	v.BindEnv("embedding.OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("llm.OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("llm.GEMINI_API_KEY", "GEMINI_API_KEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks required connection parameters and chunking preconditions.
// All violations are fatal and never retried.
func (c *Config) Validate() error {
	if c.Weaviate.Host == "" {
		return fmt.Errorf("%w: weaviate.host is required", types.ErrConfiguration)
	}
	if c.Storage.MongoURI == "" {
		return fmt.Errorf("%w: MONGODB_URI is required", types.ErrConfiguration)
	}
	if c.Indexing.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", types.ErrConfiguration, c.Indexing.ChunkSize)
	}
	if c.Indexing.Overlap < 0 || c.Indexing.Overlap >= c.Indexing.ChunkSize {
		return fmt.Errorf("%w: overlap must satisfy 0 <= overlap < chunk_size, got overlap=%d chunk_size=%d",
			types.ErrConfiguration, c.Indexing.Overlap, c.Indexing.ChunkSize)
	}
	if c.Indexing.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive, got %d", types.ErrConfiguration, c.Indexing.BatchSize)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("%w: embedding.dimension must be positive, got %d", types.ErrConfiguration, c.Embedding.Dimension)
	}
	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("%w: unknown llm.provider %q", types.ErrConfiguration, c.LLM.Provider)
	}
	return nil
}
