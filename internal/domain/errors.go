package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyIndex is returned when searching an index with no vectors.
	ErrEmptyIndex = errors.New("vector index is empty")
	// ErrNotReady is returned when a query arrives before indexing finished.
	ErrNotReady = errors.New("search service is not ready")
	// ErrAlreadyBuilt is returned on a second attempt to build the index.
	ErrAlreadyBuilt = errors.New("search index already built")
	// ErrEmptyQuery is returned for blank query strings.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrInvalidK is returned for a negative result count.
	ErrInvalidK = errors.New("k must not be negative")
	// ErrDocumentNotFound is returned when an identifier is not in the corpus.
	ErrDocumentNotFound = errors.New("document not found")
)

// ExtractionError reports an unreadable or unparsable source. The source is
// skipped and loading continues.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// EmptyCorpusError reports that no document survived extraction.
type EmptyCorpusError struct {
	Location string
}

func (e *EmptyCorpusError) Error() string {
	return fmt.Sprintf("no valid documents found in %q: ensure the documents contain extractable text", e.Location)
}

// ModelLoadError reports an embedding model that failed to initialise.
type ModelLoadError struct {
	Model string
	Err   error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load embedding model %q: %v", e.Model, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// QueryEmbeddingError reports a query that could not be embedded. The index
// stays usable for later queries.
type QueryEmbeddingError struct {
	Query string
	Err   error
}

func (e *QueryEmbeddingError) Error() string {
	return fmt.Sprintf("embed query %q: %v", e.Query, e.Err)
}

func (e *QueryEmbeddingError) Unwrap() error { return e.Err }

// DimensionMismatchError reports a vector whose length differs from the
// rest of the index.
type DimensionMismatchError struct {
	Row  RowID
	Got  int
	Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector at row %d has dimension %d, want %d", e.Row, e.Got, e.Want)
}
