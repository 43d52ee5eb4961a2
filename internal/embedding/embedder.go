// Package embedding maps text to dense vectors. Backends live in the
// tfidf, fastembed and openai subpackages.
package embedding

import "context"

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	// Dimension may report 0 until the first vector is produced.
	Dimension() int
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// Closer is implemented by embedders holding native resources.
type Closer interface {
	Close() error
}
