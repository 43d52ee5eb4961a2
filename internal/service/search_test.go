package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pdfsearch/internal/corpus"
	"pdfsearch/internal/domain"
	"pdfsearch/internal/embedding"
	"pdfsearch/internal/metrics"
)

// conceptEmbedder maps words onto two topic axes and normalises the result.
type conceptEmbedder struct {
	failOn   string
	prepared bool
}

var axes = []map[string]bool{
	{"machine": true, "learning": true, "models": true, "neural": true, "networks": true},
	{"french": true, "cuisine": true, "recipes": true, "bread": true},
}

func (e *conceptEmbedder) Name() string { return "concept" }

func (e *conceptEmbedder) Prepare(context.Context, []string) error {
	e.prepared = true
	return nil
}

func (e *conceptEmbedder) Dimension() int { return len(axes) }

func (e *conceptEmbedder) EmbedOne(_ context.Context, text string) ([]float32, error) {
	if e.failOn != "" && text == e.failOn {
		return nil, errors.New("tokenizer exploded")
	}
	v := make([]float32, len(axes))
	for _, w := range strings.Fields(strings.ToLower(text)) {
		for i, axis := range axes {
			if axis[w] {
				v[i]++
			}
		}
	}
	embedding.L2Normalize(v)
	return v, nil
}

func (e *conceptEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.EmbedOne(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func twoDocCorpus() *corpus.Corpus {
	return corpus.New("/docs", []domain.Document{
		{ID: "a.pdf", Text: "machine learning models"},
		{ID: "b.pdf", Text: "french cuisine recipes"},
	})
}

func readyService(t *testing.T, emb embedding.Embedder, opts ...Option) *Service {
	t.Helper()
	s := New(emb, opts...)
	require.NoError(t, s.Build(context.Background(), twoDocCorpus()))
	return s
}

func TestSearchFindsClosestDocument(t *testing.T) {
	s := readyService(t, &conceptEmbedder{})

	got, err := s.Search(context.Background(), "neural networks", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a.pdf", got[0].ID)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, domain.RowID(0), got[0].Row)
	assert.InDelta(t, 0, got[0].Distance, 1e-6)
	assert.InDelta(t, 1, got[0].Score, 1e-6)
	assert.Equal(t, "machine learning models", got[0].FullText)
}

func TestSearchKLargerThanCorpus(t *testing.T) {
	s := readyService(t, &conceptEmbedder{})

	got, err := s.Search(context.Background(), "bread", 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b.pdf", got[0].ID)
	assert.Equal(t, "a.pdf", got[1].ID)
	assert.Equal(t, []int{1, 2}, []int{got[0].Rank, got[1].Rank})
	assert.LessOrEqual(t, got[0].Distance, got[1].Distance)
	assert.InDelta(t, 1-got[1].Distance, got[1].Score, 1e-9)
}

func TestSearchBoundaries(t *testing.T) {
	s := readyService(t, &conceptEmbedder{})
	ctx := context.Background()

	got, err := s.Search(ctx, "neural", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = s.Search(ctx, "neural", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidK)

	_, err = s.Search(ctx, "   ", 3)
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestPreviewTruncation(t *testing.T) {
	long := strings.Repeat("é", 1500)
	s := New(&conceptEmbedder{}, WithPreviewLength(10))
	require.NoError(t, s.Build(context.Background(), corpus.New("/docs", []domain.Document{{ID: "x.pdf", Text: long}})))

	got, err := s.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, strings.Repeat("é", 10), got[0].Preview)
	assert.Equal(t, long, got[0].FullText)

	s = readyService(t, &conceptEmbedder{})
	got, err = s.Search(context.Background(), "anything", 1)
	require.NoError(t, err)
	assert.Equal(t, got[0].FullText, got[0].Preview)
}

func TestEmptyCorpusNeverReady(t *testing.T) {
	s := New(&conceptEmbedder{})
	err := s.Build(context.Background(), corpus.New("/empty", nil))

	var empty *domain.EmptyCorpusError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "/empty", empty.Location)
	assert.Equal(t, domain.StateIndexing, s.State())

	_, err = s.Search(context.Background(), "neural", 3)
	assert.ErrorIs(t, err, domain.ErrNotReady)
}

func TestBuildOnlyOnce(t *testing.T) {
	s := readyService(t, &conceptEmbedder{})
	assert.Equal(t, domain.StateReady, s.State())
	assert.ErrorIs(t, s.Build(context.Background(), twoDocCorpus()), domain.ErrAlreadyBuilt)
}

func TestBuildModelLoadFailure(t *testing.T) {
	lazy := embedding.NewLazy("missing-model", func() (embedding.Embedder, error) {
		return nil, errors.New("no such file")
	})
	s := New(lazy)
	err := s.Build(context.Background(), twoDocCorpus())

	var loadErr *domain.ModelLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, domain.StateIndexing, s.State())
}

// raggedEmbedder returns one dimension more for every later document.
type raggedEmbedder struct{ conceptEmbedder }

func (e *raggedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, 2+i)
	}
	return out, nil
}

func TestBuildDimensionMismatch(t *testing.T) {
	s := New(&raggedEmbedder{})
	err := s.Build(context.Background(), twoDocCorpus())

	var dimErr *domain.DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, domain.RowID(1), dimErr.Row)
	assert.Equal(t, 3, dimErr.Got)
	assert.Equal(t, 2, dimErr.Want)
	assert.Equal(t, domain.StateIndexing, s.State())

	_, err = s.Search(context.Background(), "neural", 1)
	assert.ErrorIs(t, err, domain.ErrNotReady)
}

func TestQueryEmbeddingFailureIsRecoverable(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := readyService(t, &conceptEmbedder{failOn: "poison"}, WithLogger(zap.New(core)))
	ctx := context.Background()

	_, err := s.Search(ctx, "poison", 3)
	var qErr *domain.QueryEmbeddingError
	require.True(t, errors.As(err, &qErr))
	assert.Equal(t, "poison", qErr.Query)
	assert.Equal(t, 1, logs.FilterMessage("query failed").Len())

	got, err := s.Search(ctx, "neural networks", 1)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", got[0].ID)
	assert.Equal(t, domain.StateReady, s.State())
}

func TestExport(t *testing.T) {
	s := New(&conceptEmbedder{})
	_, _, err := s.Export("a.pdf")
	assert.ErrorIs(t, err, domain.ErrNotReady)

	require.NoError(t, s.Build(context.Background(), twoDocCorpus()))
	r, name, err := s.Export("b.pdf")
	require.NoError(t, err)
	assert.Equal(t, "extract_b.pdf.txt", name)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "french cuisine recipes", string(data))

	_, _, err = s.Export("zzz.pdf")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	assert.Equal(t, "extract_sub_c.pdf.txt", ExportName("sub/c.pdf"))
}

func TestInfo(t *testing.T) {
	s := New(&conceptEmbedder{}, WithModelName("concept-v1"))
	info := s.Info()
	assert.Equal(t, "concept-v1", info.Model)
	assert.Zero(t, info.Documents)

	require.NoError(t, s.Build(context.Background(), twoDocCorpus()))
	info = s.Info()
	assert.Equal(t, "/docs", info.Location)
	assert.Equal(t, 2, info.Documents)
	assert.Equal(t, len("machine learning models")+len("french cuisine recipes"), info.TotalChars)
	assert.Equal(t, 2, info.Dimension)
	assert.NotEmpty(t, info.Summary)
}

func TestMetricsRecorded(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	s := readyService(t, &conceptEmbedder{}, WithMetrics(m))
	ctx := context.Background()

	_, _ = s.Search(ctx, "neural", 1)
	_, _ = s.Search(ctx, "", 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues(metrics.StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues(metrics.StatusInvalid)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.IndexedDocuments))
}

func TestConcurrentQueries(t *testing.T) {
	s := readyService(t, &conceptEmbedder{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Search(context.Background(), "french bread", 2)
			assert.NoError(t, err)
			assert.Len(t, got, 2)
		}()
	}
	wg.Wait()
}
