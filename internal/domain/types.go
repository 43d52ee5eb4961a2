package domain

// RowID is the position of a document in the corpus. The same value addresses
// the document's embedding and its vector index entry.
type RowID int

// Document represents a single source whose text was extracted successfully.
type Document struct {
	ID   string
	Text string
}

// Neighbor is a raw vector index hit.
type Neighbor struct {
	Row      RowID
	Distance float64
}

// SearchResult represents a ranked document match for a query.
type SearchResult struct {
	Rank     int
	Row      RowID
	Distance float64
	// Score is 1 - Distance. It only approximates cosine similarity when
	// embeddings are close to unit norm.
	Score    float64
	ID       string
	Preview  string
	FullText string
}

// Warning is a non-fatal problem recorded while loading the corpus.
type Warning struct {
	Source string
	Reason error
}

func (w Warning) String() string {
	return w.Source + ": " + w.Reason.Error()
}

// Info describes the loaded system for display.
type Info struct {
	Model      string
	Location   string
	Documents  int
	TotalChars int
	Dimension  int
	Summary    string
}

// State is the lifecycle phase of the query service.
type State int

const (
	StateIndexing State = iota
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIndexing:
		return "indexing"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}
