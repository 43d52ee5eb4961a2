package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfsearch/internal/extractor/pdftest"
)

func TestPDFExtract(t *testing.T) {
	path := pdftest.Write(t, t.TempDir(), "hello.pdf", "Hello World")

	text, err := NewPDF().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello World")
}

func TestPDFExtractMissingFile(t *testing.T) {
	_, err := NewPDF().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestPDFExtractNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("just some text, no pdf header"), 0o644))

	text, err := NewPDF().Extract(context.Background(), path)
	assert.Error(t, err)
	assert.Empty(t, text)
}
