//go:build !cgo

package fastembed

import (
	"context"
	"errors"
)

// ErrNotAvailable is returned when the binary was built without cgo.
var ErrNotAvailable = errors.New("fastembed: not available (binary built without cgo, use the tfidf or openai embedder)")

// Embedder is a stub for non-cgo builds.
type Embedder struct{}

// New returns ErrNotAvailable for known models.
func New(cfg Config) (*Embedder, error) {
	if _, err := resolve(cfg.Model); err != nil {
		return nil, err
	}
	return nil, ErrNotAvailable
}

func (e *Embedder) Name() string                            { return "fastembed" }
func (e *Embedder) Prepare(context.Context, []string) error { return ErrNotAvailable }
func (e *Embedder) Dimension() int                          { return 0 }
func (e *Embedder) Close() error                            { return nil }

func (e *Embedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, ErrNotAvailable
}

func (e *Embedder) EmbedOne(context.Context, string) ([]float32, error) {
	return nil, ErrNotAvailable
}
