package embedding

import (
	"context"
	"errors"
	"sync"

	"pdfsearch/internal/domain"
)

var errLazyClosed = errors.New("embedder closed before first use")

// Factory constructs an embedder. It runs at most once per Lazy handle.
type Factory func() (Embedder, error)

// Lazy owns a single embedding model that is constructed on first use.
// A failed construction is remembered and reported on every later call.
type Lazy struct {
	model   string
	factory Factory

	once sync.Once
	emb  Embedder
	err  error
}

// NewLazy creates a handle for model built by factory.
func NewLazy(model string, factory Factory) *Lazy {
	return &Lazy{model: model, factory: factory}
}

// Get returns the underlying embedder, constructing it if needed.
func (l *Lazy) Get() (Embedder, error) {
	l.once.Do(func() {
		emb, err := l.factory()
		if err != nil {
			l.err = &domain.ModelLoadError{Model: l.model, Err: err}
			return
		}
		l.emb = emb
	})
	return l.emb, l.err
}

func (l *Lazy) Name() string {
	emb, err := l.Get()
	if err != nil {
		return l.model
	}
	return emb.Name()
}

func (l *Lazy) Prepare(ctx context.Context, corpus []string) error {
	emb, err := l.Get()
	if err != nil {
		return err
	}
	return emb.Prepare(ctx, corpus)
}

func (l *Lazy) Dimension() int {
	emb, err := l.Get()
	if err != nil {
		return 0
	}
	return emb.Dimension()
}

func (l *Lazy) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	emb, err := l.Get()
	if err != nil {
		return nil, err
	}
	return emb.EmbedBatch(ctx, texts)
}

func (l *Lazy) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	emb, err := l.Get()
	if err != nil {
		return nil, err
	}
	return emb.EmbedOne(ctx, text)
}

// Close releases the model if it was constructed and holds resources. A
// handle closed before first use never constructs its model.
func (l *Lazy) Close() error {
	l.once.Do(func() {
		l.err = &domain.ModelLoadError{Model: l.model, Err: errLazyClosed}
	})
	if l.emb == nil {
		return nil
	}
	if c, ok := l.emb.(Closer); ok {
		return c.Close()
	}
	return nil
}
