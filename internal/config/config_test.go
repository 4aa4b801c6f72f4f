package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "./docs", cfg.Corpus.Dir)
	assert.Equal(t, "./vector_index", cfg.Index.Dir)
	assert.Equal(t, "policies", cfg.Index.Collection)
	assert.Equal(t, 1000, cfg.RAG.ChunkSize)
	assert.Equal(t, 4, cfg.RAG.TopK)
	assert.Equal(t, ProviderOllama, cfg.Embedding.Provider)
	assert.Equal(t, ProviderOpenAI, cfg.Inference.Provider)
}

func TestLoadConfig_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
corpus:
  dir: ./policies
  labels:
    Custom.pdf: Custom Policy
rag:
  top_k: 6
embedding:
  provider: openai
  base_url: https://api.example.com/v1
  model: text-embedding-3-small
  key_env: EXAMPLE_API_KEY
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "./policies", cfg.Corpus.Dir)
	assert.Equal(t, map[string]string{"Custom.pdf": "Custom Policy"}, cfg.Corpus.Labels)
	assert.Equal(t, 6, cfg.RAG.TopK)
	assert.Equal(t, 1000, cfg.RAG.ChunkSize)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, "./vector_index", cfg.Index.Dir)
}

func TestLoadConfig_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: ["), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLLMConfig_KeyFromEnvironment(t *testing.T) {
	t.Setenv("TEST_POLICY_RAG_KEY", "secret-token")

	cfg := LLMConfig{KeyEnv: "TEST_POLICY_RAG_KEY"}
	assert.Equal(t, "secret-token", cfg.Key())

	empty := LLMConfig{}
	assert.Equal(t, "", empty.Key())
}
