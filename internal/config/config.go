package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// LLMConfig configures one model endpoint (embedding or inference). API keys
// are never stored in the file; KeyEnv names the environment variable that
// holds the secret.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	KeyEnv   string `yaml:"key_env"`
}

// Key resolves the API key from the environment.
func (c *LLMConfig) Key() string {
	if c.KeyEnv == "" {
		return ""
	}
	return os.Getenv(c.KeyEnv)
}

// CorpusConfig locates the document corpus and optionally overrides the
// built-in filename-to-label map.
type CorpusConfig struct {
	Dir    string            `yaml:"dir"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// IndexConfig locates the persisted vector index artifact.
type IndexConfig struct {
	Dir        string `yaml:"dir"`
	Collection string `yaml:"collection"`
}

// RAGConfig tunes the retrieval pipeline.
type RAGConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	TopK      int `yaml:"top_k"`
}

type Config struct {
	Corpus    CorpusConfig `yaml:"corpus"`
	Index     IndexConfig  `yaml:"index"`
	RAG       RAGConfig    `yaml:"rag"`
	Embedding LLMConfig    `yaml:"embedding"`
	Inference LLMConfig    `yaml:"inference"`
}

// LoadConfig reads a YAML config from path. A missing file yields the
// defaults; a present but malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &Config{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Corpus.Dir == "" {
		cfg.Corpus.Dir = "./docs"
	}
	if cfg.Index.Dir == "" {
		cfg.Index.Dir = "./vector_index"
	}
	if cfg.Index.Collection == "" {
		cfg.Index.Collection = "policies"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 1000
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 4
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = ProviderOllama
	}
	if cfg.Embedding.BaseURL == "" && cfg.Embedding.Provider == ProviderOllama {
		cfg.Embedding.BaseURL = "http://localhost:11434"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "all-minilm"
	}
	if cfg.Inference.Provider == "" {
		cfg.Inference.Provider = ProviderOpenAI
	}
	if cfg.Inference.BaseURL == "" {
		cfg.Inference.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Inference.Model == "" {
		cfg.Inference.Model = "google/gemini-2.5-flash"
	}
	if cfg.Inference.KeyEnv == "" {
		cfg.Inference.KeyEnv = "OPENROUTER_API_KEY"
	}
}
