package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Velmurugan2695/document-question-answer/internal/models"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderOllama     = "ollama"

	StrategyChunked = "chunked"
	StrategyWhole   = "whole"
)

type Config struct {
	Server   ServerConfig `yaml:"server"`
	Log      LogConfig    `yaml:"log"`
	LLM      LLMConfig    `yaml:"llm"`
	EmbedLLM LLMConfig    `yaml:"embed_llm"`
	RAG      RAGConfig    `yaml:"rag"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	Mode           string        `yaml:"mode"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// LLMConfig describes one model endpoint, used both for chat and embeddings.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	BaseURL     string        `yaml:"base_url"`
	Key         string        `yaml:"key"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	Referer     string        `yaml:"referer"`
	Title       string        `yaml:"title"`
}

type RAGConfig struct {
	Strategy     string `yaml:"strategy"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	MaxChars     int    `yaml:"max_chars"`
	Workers      int    `yaml:"workers"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets secrets stay out of the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		c.LLM.Key = v
	}
	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		c.EmbedLLM.Key = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 32 << 20
	}
	if c.Server.FetchTimeout == 0 {
		c.Server.FetchTimeout = 30 * time.Second
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenRouter
	}
	if c.LLM.BaseURL == "" && c.LLM.Provider == ProviderOpenRouter {
		c.LLM.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "anthropic/claude-3-haiku"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = models.DefaultTemperature
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	if c.LLM.Referer == "" {
		c.LLM.Referer = "http://localhost:8000"
	}
	if c.LLM.Title == "" {
		c.LLM.Title = "legal-json-api"
	}

	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = ProviderOpenAI
	}
	if c.EmbedLLM.Model == "" {
		c.EmbedLLM.Model = "text-embedding-3-small"
	}
	if c.EmbedLLM.Timeout == 0 {
		c.EmbedLLM.Timeout = 60 * time.Second
	}

	if c.RAG.Strategy == "" {
		c.RAG.Strategy = StrategyChunked
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = models.DefaultChunkSize
		if c.RAG.ChunkOverlap == 0 {
			c.RAG.ChunkOverlap = models.DefaultChunkOverlap
		}
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = models.DefaultTopK
	}
	if c.RAG.MaxChars == 0 {
		c.RAG.MaxChars = models.DefaultMaxChars
	}
	if c.RAG.Workers == 0 {
		c.RAG.Workers = 4
	}
}

// Validate rejects settings that would fail on every request.
func (c *Config) Validate() error {
	switch c.RAG.Strategy {
	case StrategyChunked, StrategyWhole:
	default:
		return fmt.Errorf("unknown rag strategy: %q", c.RAG.Strategy)
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk_overlap (%d) must be in [0, chunk_size=%d)", c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	if c.RAG.TopK < 0 || c.RAG.Workers < 0 || c.RAG.MaxChars < 0 {
		return fmt.Errorf("rag.top_k, rag.workers and rag.max_chars must not be negative")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode: %q", c.Server.Mode)
	}
	switch c.LLM.Provider {
	case ProviderOpenRouter, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unknown llm provider: %q", c.LLM.Provider)
	}
	switch c.EmbedLLM.Provider {
	case ProviderOpenRouter, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unknown embedding provider: %q", c.EmbedLLM.Provider)
	}
	return nil
}
