package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedderBeforePrepare(t *testing.T) {
	e := NewEmbedder()
	_, err := e.EmbedOne(context.Background(), "anything")
	assert.ErrorIs(t, err, errNotPrepared)
}

func TestPrepareRejectsEmptyInput(t *testing.T) {
	e := NewEmbedder()
	assert.Error(t, e.Prepare(context.Background(), nil))
	assert.ErrorIs(t, e.Prepare(context.Background(), []string{"the and of"}), errNoTokens)
}

func TestEmbedderVectors(t *testing.T) {
	ctx := context.Background()
	corpus := []string{
		"Neural networks learn representations.",
		"Bread baking needs yeast and flour.",
		"Gradient descent trains neural models.",
	}
	e := NewEmbedder()
	require.NoError(t, e.Prepare(ctx, corpus))
	assert.Greater(t, e.Dimension(), 0)

	vecs, err := e.EmbedBatch(ctx, corpus)
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	for _, v := range vecs {
		assert.Len(t, v, e.Dimension())
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		assert.InDelta(t, 1, math.Sqrt(sum), 1e-5)
	}

	again, err := e.EmbedOne(ctx, corpus[0])
	require.NoError(t, err)
	assert.Equal(t, vecs[0], again)

	zero, err := e.EmbedOne(ctx, "completely unseen vocabulary")
	require.NoError(t, err)
	for _, x := range zero {
		assert.Zero(t, x)
	}
}

func TestEmbedderHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewEmbedder()
	assert.ErrorIs(t, e.Prepare(ctx, []string{"words here"}), context.Canceled)
}
