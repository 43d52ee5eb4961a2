package embedding

import (
	"context"
	"math"
)

// Normalizing scales every vector produced by the wrapped embedder to unit
// length, so that 1 - squared L2 distance tracks cosine similarity.
type Normalizing struct {
	Embedder
}

// Normalize wraps emb.
func Normalize(emb Embedder) *Normalizing { return &Normalizing{Embedder: emb} }

func (n *Normalizing) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := n.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	for _, v := range vecs {
		L2Normalize(v)
	}
	return vecs, nil
}

func (n *Normalizing) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	v, err := n.Embedder.EmbedOne(ctx, text)
	if err != nil {
		return nil, err
	}
	L2Normalize(v)
	return v, nil
}

// Close forwards to the wrapped embedder.
func (n *Normalizing) Close() error {
	if c, ok := n.Embedder.(Closer); ok {
		return c.Close()
	}
	return nil
}

// L2Normalize scales v in place to unit length. Zero vectors are left as is.
func L2Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}
