package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Corpus.Dir)
	assert.Equal(t, []string{".pdf"}, cfg.Corpus.Extensions)
	assert.Equal(t, "fastembed", cfg.Embedder.Type)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", cfg.Embedder.Model)
	assert.Equal(t, 3, cfg.Search.TopK)
	assert.Equal(t, 1000, cfg.Search.PreviewLength)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Embedder.Normalize)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
corpus:
  dir: /srv/papers
  recursive: true
embedder:
  type: openai
  openai:
    base_url: http://localhost:11434/v1
search:
  top_k: 5
log:
  format: json
`), 0o644))
	t.Setenv("PDFSEARCH_SEARCH_PREVIEW_LENGTH", "200")
	t.Setenv("PDFSEARCH_EMBEDDER_OPENAI_API_KEY_ENV", "LOCAL_KEY")
	t.Setenv("PDFSEARCH_SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/papers", cfg.Corpus.Dir)
	assert.True(t, cfg.Corpus.Recursive)
	assert.Equal(t, "openai", cfg.Embedder.Type)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "LOCAL_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, 30, cfg.Embedder.OpenAI.TimeoutSecs)
	assert.Equal(t, 5, cfg.Search.TopK)
	assert.Equal(t, 200, cfg.Search.PreviewLength)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Embedder.Type = "tfidf"
	cfg.Embedder.Model = "tfidf"
	cfg.Search.TopK = 7
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	cfg.Embedder.Type = "bert"
	cfg.Search.TopK = -1
	cfg.Search.PreviewLength = -5
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedder.type")
	assert.Contains(t, err.Error(), "search.top_k")
	assert.Contains(t, err.Error(), "search.preview_length")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "search.top_k", envKey("PDFSEARCH_SEARCH_TOP_K"))
	assert.Equal(t, "corpus.dir", envKey("PDFSEARCH_CORPUS_DIR"))
	assert.Equal(t, "embedder.openai.base_url", envKey("PDFSEARCH_EMBEDDER_OPENAI_BASE_URL"))
	assert.Equal(t, "embedder.cache_dir", envKey("PDFSEARCH_EMBEDDER_CACHE_DIR"))
}

func TestApplyEmbedderType(t *testing.T) {
	cfg := defaultConfig()
	cfg.ApplyEmbedderType("openai")
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
}
