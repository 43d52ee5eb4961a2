// Package corpus loads documents from raw sources into an ordered, immutable
// corpus whose positions are the row ids used by the index.
package corpus

import (
	"pdfsearch/internal/domain"
)

// Corpus is an ordered set of documents. A document's position is its row id
// and never changes once the corpus is built.
type Corpus struct {
	location string
	docs     []domain.Document
	byID     map[string]domain.RowID
}

// New builds a corpus from documents in order. Identifiers must be unique.
func New(location string, docs []domain.Document) *Corpus {
	c := &Corpus{
		location: location,
		docs:     append([]domain.Document(nil), docs...),
		byID:     make(map[string]domain.RowID, len(docs)),
	}
	for i, d := range c.docs {
		c.byID[d.ID] = domain.RowID(i)
	}
	return c
}

// Location is the source location the corpus was loaded from.
func (c *Corpus) Location() string { return c.location }

// Len returns the number of documents.
func (c *Corpus) Len() int { return len(c.docs) }

// At returns the document stored at row.
func (c *Corpus) At(row domain.RowID) (domain.Document, bool) {
	if row < 0 || int(row) >= len(c.docs) {
		return domain.Document{}, false
	}
	return c.docs[row], true
}

// Lookup finds a document by identifier.
func (c *Corpus) Lookup(id string) (domain.Document, domain.RowID, bool) {
	row, ok := c.byID[id]
	if !ok {
		return domain.Document{}, -1, false
	}
	return c.docs[row], row, true
}

// Texts returns document texts in row order.
func (c *Corpus) Texts() []string {
	out := make([]string, len(c.docs))
	for i, d := range c.docs {
		out[i] = d.Text
	}
	return out
}

// TotalChars counts characters across all documents.
func (c *Corpus) TotalChars() int {
	n := 0
	for _, d := range c.docs {
		n += len([]rune(d.Text))
	}
	return n
}
