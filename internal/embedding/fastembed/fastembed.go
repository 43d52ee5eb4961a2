//go:build cgo

package fastembed

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	fe "github.com/anush008/fastembed-go"
)

// Embedder wraps a fastembed FlagEmbedding. The same encoding is used for
// documents and queries so that both live in one vector space.
type Embedder struct {
	mu        sync.Mutex
	model     *fe.FlagEmbedding
	name      string
	dimension int
	batchSize int
}

// New loads the model, downloading it into the cache directory if needed.
func New(cfg Config) (*Embedder, error) {
	spec, err := resolve(cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(".", "local_cache")
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 512
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	showProgress := false
	model, err := fe.NewFlagEmbedding(&fe.InitOptions{
		Model:                fe.EmbeddingModel(spec.code),
		CacheDir:             cfg.CacheDir,
		MaxLength:            cfg.MaxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing fastembed: %w", err)
	}
	return &Embedder{
		model:     model,
		name:      cfg.Model,
		dimension: spec.dimension,
		batchSize: cfg.BatchSize,
	}, nil
}

func (e *Embedder) Name() string { return e.name }

// Prepare is a no-op; the model is pretrained.
func (e *Embedder) Prepare(context.Context, []string) error { return nil }

func (e *Embedder) Dimension() int { return e.dimension }

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return nil, errClosed
	}
	vecs, err := e.model.Embed(texts, e.batchSize)
	if err != nil {
		return nil, fmt.Errorf("fastembed: %w", err)
	}
	return vecs, nil
}

func (e *Embedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// Close releases the ONNX session.
func (e *Embedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return nil
	}
	err := e.model.Destroy()
	e.model = nil
	return err
}
