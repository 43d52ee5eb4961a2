package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfsearch/internal/domain"
)

func TestNewUnknownType(t *testing.T) {
	_, err := New(Options{Type: "word2vec"})
	assert.ErrorContains(t, err, "word2vec")
}

func TestNewTFIDF(t *testing.T) {
	emb, err := New(Options{Type: TypeTFIDF, Normalize: true})
	require.NoError(t, err)
	_, ok := emb.(*Normalizing)
	assert.True(t, ok)

	ctx := context.Background()
	require.NoError(t, emb.Prepare(ctx, []string{"alpha beta", "gamma delta"}))
	vecs, err := emb.EmbedBatch(ctx, []string{"alpha beta", "gamma delta"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, "tfidf", emb.Name())
}

func TestNewOpenAIMissingKeyIsModelLoadError(t *testing.T) {
	t.Setenv("PDFSEARCH_TEST_NO_KEY", "")
	emb, err := New(Options{Type: TypeOpenAI, Model: "text-embedding-3-small", OpenAIAPIKeyEnv: "PDFSEARCH_TEST_NO_KEY"})
	require.NoError(t, err)

	_, err = emb.EmbedOne(context.Background(), "q")
	var loadErr *domain.ModelLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "text-embedding-3-small", loadErr.Model)
}

func TestModelID(t *testing.T) {
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", Options{Type: TypeFastEmbed}.ModelID())
	assert.Equal(t, "tfidf", Options{Type: TypeTFIDF, Model: "ignored"}.ModelID())
	assert.Equal(t, "nomic-embed-text", Options{Type: TypeOpenAI, Model: "nomic-embed-text"}.ModelID())
}
