package embedding

import (
	"fmt"
	"time"

	"pdfsearch/internal/embedding/fastembed"
	"pdfsearch/internal/embedding/openai"
	"pdfsearch/internal/embedding/tfidf"
)

// Backend names accepted by New.
const (
	TypeFastEmbed = "fastembed"
	TypeTFIDF     = "tfidf"
	TypeOpenAI    = "openai"
)

// Options selects and configures an embedding backend.
type Options struct {
	Type      string
	Model     string
	CacheDir  string
	MaxLength int
	BatchSize int
	Normalize bool

	OpenAIBaseURL    string
	OpenAIAPIKeyEnv  string
	OpenAITimeout    time.Duration
	OpenAIMaxRetries int
}

// ModelID is the identifier reported to users for the configured backend.
func (o Options) ModelID() string {
	switch o.Type {
	case TypeTFIDF:
		return TypeTFIDF
	case TypeFastEmbed:
		if o.Model == "" {
			return fastembed.DefaultModel
		}
	}
	return o.Model
}

// New returns a lazily constructed embedder for opts. The model is not
// loaded until first use.
func New(opts Options) (Embedder, error) {
	var factory Factory
	switch opts.Type {
	case TypeFastEmbed, "":
		factory = func() (Embedder, error) {
			return fastembed.New(fastembed.Config{
				Model:     opts.Model,
				CacheDir:  opts.CacheDir,
				MaxLength: opts.MaxLength,
				BatchSize: opts.BatchSize,
			})
		}
	case TypeTFIDF:
		factory = func() (Embedder, error) { return tfidf.NewEmbedder(), nil }
	case TypeOpenAI:
		factory = func() (Embedder, error) {
			return openai.NewClient(openai.Config{
				BaseURL:    opts.OpenAIBaseURL,
				APIKeyEnv:  opts.OpenAIAPIKeyEnv,
				Model:      opts.Model,
				Timeout:    opts.OpenAITimeout,
				MaxRetries: opts.OpenAIMaxRetries,
				BatchSize:  opts.BatchSize,
			})
		}
	default:
		return nil, fmt.Errorf("unknown embedder type %q", opts.Type)
	}

	var emb Embedder = NewLazy(opts.ModelID(), factory)
	if opts.Normalize {
		emb = Normalize(emb)
	}
	return emb, nil
}
