// Package service owns the corpus, the embedding model and the vector index,
// and answers queries against them once indexing has finished.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"pdfsearch/internal/corpus"
	"pdfsearch/internal/domain"
	"pdfsearch/internal/embedding"
	"pdfsearch/internal/metrics"
	"pdfsearch/internal/summarizer"
	"pdfsearch/internal/textutil"
	"pdfsearch/internal/vectorindex"
)

const (
	// DefaultTopK is the number of results returned when none is requested.
	DefaultTopK = 3
	// DefaultPreviewLength is the preview size in characters.
	DefaultPreviewLength = 1000
)

// Service answers semantic queries over a corpus. It starts in the Indexing
// state and moves to Ready exactly once, after Build succeeds. Queries run
// one at a time.
type Service struct {
	embedder   embedding.Embedder
	model      string
	previewLen int
	logger     *zap.Logger
	metrics    *metrics.Metrics
	summarizer *summarizer.FrequencySummarizer
	sentences  int

	state atomic.Int32

	mu      sync.Mutex
	corpus  *corpus.Corpus
	index   *vectorindex.Flat
	summary string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records query and index metrics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPreviewLength sets the preview size in characters. Non-positive values
// are ignored.
func WithPreviewLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.previewLen = n
		}
	}
}

// WithSummarySentences bounds the corpus summary length.
func WithSummarySentences(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sentences = n
		}
	}
}

// WithModelName overrides the model identifier reported by Info.
func WithModelName(name string) Option {
	return func(s *Service) { s.model = name }
}

// New creates a service in the Indexing state.
func New(emb embedding.Embedder, opts ...Option) *Service {
	s := &Service{
		embedder:   emb,
		previewLen: DefaultPreviewLength,
		logger:     zap.NewNop(),
		summarizer: summarizer.NewFrequencySummarizer(),
		sentences:  3,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(int32(domain.StateIndexing))
	return s
}

// State reports the current lifecycle phase.
func (s *Service) State() domain.State {
	return domain.State(s.state.Load())
}

// Build embeds every document of c, builds the index and moves the service
// to Ready. It may succeed only once.
func (s *Service) Build(ctx context.Context, c *corpus.Corpus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == domain.StateReady {
		return domain.ErrAlreadyBuilt
	}
	if c == nil || c.Len() == 0 {
		loc := ""
		if c != nil {
			loc = c.Location()
		}
		return &domain.EmptyCorpusError{Location: loc}
	}

	start := time.Now()
	texts := c.Texts()
	s.logger.Info("embedding corpus", zap.Int("documents", len(texts)), zap.String("model", s.modelName()))

	if err := s.embedder.Prepare(ctx, texts); err != nil {
		return fmt.Errorf("prepare embedder: %w", err)
	}
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed corpus: %w", err)
	}
	if len(vecs) != len(texts) {
		return fmt.Errorf("embed corpus: got %d vectors for %d documents", len(vecs), len(texts))
	}
	s.logger.Info("embedding done", zap.Duration("duration", time.Since(start)))

	idx, err := vectorindex.Build(vecs)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	s.corpus = c
	s.index = idx
	s.summary = s.summarizer.Summarize(strings.Join(texts, "\n"), s.sentences)
	s.state.Store(int32(domain.StateReady))

	s.metrics.ObserveIndex(c.Len(), time.Since(start))
	s.logger.Info("index built",
		zap.Int("documents", idx.Len()),
		zap.Int("dimension", idx.Dimension()),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Search returns up to k documents closest to query, best first. k larger
// than the corpus returns every document; k of zero returns none.
func (s *Service) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	start := time.Now()
	results, err := s.search(ctx, query, k)
	s.metrics.ObserveQuery(queryStatus(err), time.Since(start))
	if err != nil {
		s.logger.Warn("query failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	s.logger.Debug("query served",
		zap.String("query", query),
		zap.Int("k", k),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}

func (s *Service) search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if s.State() != domain.StateReady {
		return nil, domain.ErrNotReady
	}
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if k < 0 {
		return nil, domain.ErrInvalidK
	}
	if k == 0 {
		return []domain.SearchResult{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vec, err := s.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, &domain.QueryEmbeddingError{Query: query, Err: err}
	}
	hits, err := s.index.Search(vec, k)
	if err != nil {
		if errors.Is(err, vectorindex.ErrQueryDimension) {
			return nil, &domain.QueryEmbeddingError{Query: query, Err: err}
		}
		return nil, err
	}

	out := make([]domain.SearchResult, 0, len(hits))
	for i, h := range hits {
		doc, ok := s.corpus.At(h.Row)
		if !ok {
			return nil, fmt.Errorf("index row %d has no document", h.Row)
		}
		out = append(out, domain.SearchResult{
			Rank:     i + 1,
			Row:      h.Row,
			Distance: h.Distance,
			Score:    1 - h.Distance,
			ID:       doc.ID,
			Preview:  textutil.Truncate(doc.Text, s.previewLen),
			FullText: doc.Text,
		})
	}
	return out, nil
}

// Export returns the full text of the document with identifier id and the
// file name it should be saved under.
func (s *Service) Export(id string) (io.Reader, string, error) {
	if s.State() != domain.StateReady {
		return nil, "", domain.ErrNotReady
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, _, ok := s.corpus.Lookup(id)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return strings.NewReader(doc.Text), ExportName(id), nil
}

// ExportName is the download file name for document id.
func ExportName(id string) string {
	return "extract_" + strings.ReplaceAll(id, "/", "_") + ".txt"
}

// Info describes the model and the indexed corpus. Corpus fields are zero
// until the service is Ready.
func (s *Service) Info() domain.Info {
	info := domain.Info{Model: s.modelName()}
	if s.State() != domain.StateReady {
		return info
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	info.Location = s.corpus.Location()
	info.Documents = s.corpus.Len()
	info.TotalChars = s.corpus.TotalChars()
	info.Dimension = s.index.Dimension()
	info.Summary = s.summary
	return info
}

func (s *Service) modelName() string {
	if s.model != "" {
		return s.model
	}
	return s.embedder.Name()
}

func queryStatus(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrInvalidK), errors.Is(err, domain.ErrNotReady):
		return metrics.StatusInvalid
	default:
		return metrics.StatusError
	}
}
